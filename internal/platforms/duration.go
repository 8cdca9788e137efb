package platforms

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatISODuration converts the ISO-8601 subset the video API uses
// ("PT1H2M3S") into display form: "H:MM:SS" when hours are present,
// otherwise "M:SS" with unpadded minutes. Seconds are always two
// digits. Unparseable input yields "0:00".
func FormatISODuration(iso string) string {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}
	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
