package amadeus

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDuration matches the compact duration token the upstream API uses for
// itineraries: "PT" followed by optional hour and minute components, e.g.
// PT2H30M, PT45M, PT3H.
var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// FormatDuration converts an ISO-8601 duration token into a human string
// of the form "<H>h <M>m", defaulting absent components to 0. Input that
// does not match the token grammar is returned unchanged, which makes the
// function idempotent on its own output.
func FormatDuration(s string) string {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	hours, minutes := 0, 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
