package models

// Platform identifies where a piece of content lives. The set is closed;
// every switch over it must handle all three values.
type Platform string

const (
	PlatformYouTube    Platform = "youtube"
	PlatformServiceNow Platform = "servicenow"
	PlatformLinkedIn   Platform = "linkedin"
)

// AllPlatforms returns the platforms in their canonical order. Stats
// tie-breaking depends on this order.
func AllPlatforms() []Platform {
	return []Platform{PlatformYouTube, PlatformServiceNow, PlatformLinkedIn}
}

// ParsePlatform validates a raw platform tag.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformYouTube, PlatformServiceNow, PlatformLinkedIn:
		return Platform(s), nil
	}
	return "", ErrUnknownPlatform
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	_, err := ParsePlatform(string(p))
	return err == nil
}
