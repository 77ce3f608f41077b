package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a H:MM:SS.ff or MM:SS.ff display timestamp to
// seconds. Unrecognized input parses to 0.
func ParseTimestamp(ts string) float64 {
	parts := strings.Split(ts, ":")
	var hours, minutes int
	var seconds float64

	switch len(parts) {
	case 3:
		hours, _ = strconv.Atoi(parts[0])
		minutes, _ = strconv.Atoi(parts[1])
		seconds, _ = strconv.ParseFloat(parts[2], 64)
	case 2:
		minutes, _ = strconv.Atoi(parts[0])
		seconds, _ = strconv.ParseFloat(parts[1], 64)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds
}

// FormatClock renders seconds in the H:MM:SS.ff form the indexer uses for
// phrase offsets, hours always present.
func FormatClock(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	sec := seconds - float64(hours)*3600 - float64(minutes)*60

	return fmt.Sprintf("%d:%02d:%05.2f", hours, minutes, sec)
}

// FormatTimestamp renders seconds as MM:SS.ff, with an hour component only
// when the duration reaches a full hour.
func FormatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	sec := seconds - float64(hours)*3600 - float64(minutes)*60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, sec)
	}

	return fmt.Sprintf("%02d:%05.2f", minutes, sec)
}
