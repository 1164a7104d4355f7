package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const reportIDTag = "WNC"

// sequence suffix width in the business id, e.g. WNC2506"0007"
const reportIDSeqDigits = 4

// ReportIDPrefix returns the monthly business-id prefix for the given
// instant, e.g. "WNC2506" for June 2025.
func ReportIDPrefix(now time.Time) string {
	return fmt.Sprintf("%s%02d%02d", reportIDTag, now.Year()%100, int(now.Month()))
}

// NextReportID derives the next business id for the month of now.
// lastIssued is the maximal existing id carrying this month's prefix, or
// empty when no report has been created this month yet.
func NextReportID(now time.Time, lastIssued string) string {
	prefix := ReportIDPrefix(now)
	seq := 1
	if strings.HasPrefix(lastIssued, prefix) && len(lastIssued) == len(prefix)+reportIDSeqDigits {
		if n, err := strconv.Atoi(lastIssued[len(prefix):]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, reportIDSeqDigits, seq)
}
