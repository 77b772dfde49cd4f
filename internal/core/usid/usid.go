// Package usid contains the pure business logic for unique serial
// identifiers. One USID is issued per physical unit per part per day.
package usid

import (
	"fmt"
	"regexp"
	"time"
)

// Pattern matches every well-formed USID. The counter segment is at least
// four digits; it widens past 9999.
var Pattern = regexp.MustCompile(`^\d{6}-.+-\d{4,}$`)

// Format renders a USID from its parts: YYMMDD-<part>-<counter, zero-padded
// to four digits>, e.g. "241220-EICS145-0001". Counters beyond 9999 keep
// their full width, so identifiers stay unique within the day.
func Format(partNumber string, day time.Time, counter int) string {
	return fmt.Sprintf("%s-%s-%04d", day.Format("060102"), partNumber, counter)
}

// Day renders the counter bucket key for a date.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
