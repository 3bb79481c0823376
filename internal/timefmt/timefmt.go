// Package timefmt renders countdown values and log entry timestamps.
package timefmt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// FormatTime renders a second count as zero-padded "MM:SS". Minutes are not
// wrapped into hours. Negative input renders as "00:00".
func FormatTime(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// HourCycle selects between 24-hour and 12-hour clock rendering.
type HourCycle int

const (
	H24 HourCycle = iota
	H12
)

func (c HourCycle) String() string {
	if c == H12 {
		return "12h"
	}
	return "24h"
}

// Regions whose locales conventionally use a 12-hour clock.
var twelveHourRegions = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "IN": true, "PH": true,
	"PK": true, "BD": true, "EG": true, "SA": true, "MY": true, "CO": true,
	"SV": true, "HN": true, "NI": true, "JO": true, "KR": true, "TW": true,
}

// DetectHourCycle maps a POSIX ("en_US.UTF-8") or BCP 47 ("en-US") locale name
// to its conventional hour cycle. Anything unrecognised is 24-hour.
func DetectHourCycle(locale string) HourCycle {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return H24
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return H24
	}
	region, conf := tag.Region()
	if conf == language.No {
		return H24
	}
	if twelveHourRegions[region.String()] {
		return H12
	}
	return H24
}

// ParseHourCycle accepts "24h", "12h" or "auto"; auto defers to locale.
func ParseHourCycle(s, locale string) (HourCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24h", "24":
		return H24, nil
	case "12h", "12":
		return H12, nil
	case "", "auto":
		return DetectHourCycle(locale), nil
	}
	return H24, fmt.Errorf("invalid clock format %q", s)
}

// EntryTime renders the time of day of t in loc.
func EntryTime(t time.Time, loc *time.Location, cycle HourCycle) string {
	if loc != nil {
		t = t.In(loc)
	}
	if cycle == H12 {
		return t.Format("03:04 PM")
	}
	return t.Format("15:04")
}

// DateHeading renders a full weekday, month and day, e.g. "Monday, January 2".
func DateHeading(t time.Time) string {
	return t.Format("Monday, January 2")
}
