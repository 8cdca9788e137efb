package platforms

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/templegit9/contracker-single/internal/models"
)

var linkedInPostRe = regexp.MustCompile(`/posts/([^/]+)`)

// ExtractContentID pulls the platform-specific content id out of a URL.
// It is only used to form metadata requests, never for storage identity.
// URLs that fail to parse degrade to the raw input, they never error.
func ExtractContentID(rawURL string, platform models.Platform) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	switch platform {
	case models.PlatformYouTube:
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		if u.Hostname() == "youtu.be" {
			return strings.TrimPrefix(u.Path, "/")
		}
		if idx := strings.Index(u.Path, "/embed/"); idx >= 0 {
			rest := u.Path[idx+len("/embed/"):]
			if slash := strings.Index(rest, "/"); slash >= 0 {
				rest = rest[:slash]
			}
			return rest
		}
		// Fall back to the last segment of the raw URL.
		parts := strings.Split(rawURL, "/")
		return parts[len(parts)-1]

	case models.PlatformServiceNow:
		parts := strings.Split(u.Path, "/")
		return parts[len(parts)-1]

	case models.PlatformLinkedIn:
		if m := linkedInPostRe.FindStringSubmatch(u.Path); m != nil {
			return m[1]
		}
		if idx := strings.LastIndex(u.Path, "-"); idx >= 0 {
			return u.Path[idx+1:]
		}
		return u.Path

	default:
		return rawURL
	}
}
