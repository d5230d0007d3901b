package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Centiseconds per unit of the H:MM:SS.CC grammar.
const (
	CentisPerSecond = 100
	CentisPerMinute = 60 * CentisPerSecond
	CentisPerHour   = 60 * CentisPerMinute
)

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}\.\d{2}$`)

// ValidTime reports whether s matches H{1,2}:MM:SS.CC.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

var loosePattern = regexp.MustCompile(`^\d{1,2}:\d{1,2}:\d{1,2}\.\d{2}$`)

// NormalizeTime rewrites a timestamp whose minute or second field lacks its
// leading zero, e.g. "0:00:1.00" becomes "0:00:01.00". The centiseconds must
// already have two digits.
func NormalizeTime(s string) (string, bool) {
	if !loosePattern.MatchString(s) {
		return "", false
	}
	return FormatCentis(ParseTime(s)), true
}

// ParseTime converts a timestamp to hundredths of a second. A string without
// exactly three colon-separated parts is 0; any sub-field that is not a
// number counts as 0 on its own without discarding the others.
func ParseTime(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}

	hours := number(parts[0])
	minutes := number(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds := number(secParts[0])
	centis := 0
	if len(secParts) > 1 {
		centis = number(secParts[1])
	}

	return hours*CentisPerHour + minutes*CentisPerMinute + seconds*CentisPerSecond + centis
}

// FormatCentis renders hundredths of a second as H:MM:SS.CC.
func FormatCentis(cs int) string {
	sign := ""
	if cs < 0 {
		sign, cs = "-", -cs
	}
	h := cs / CentisPerHour
	m := cs % CentisPerHour / CentisPerMinute
	s := cs % CentisPerMinute / CentisPerSecond
	return fmt.Sprintf("%s%d:%02d:%02d.%02d", sign, h, m, s, cs%CentisPerSecond)
}

func number(s string) int {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
