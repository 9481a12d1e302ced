package utils

import (
	"fmt"
	"time"
)

const (
	dateTimeLayout = "Mon, Jan 2, 2006, 3:04 PM"
	dateLayout     = "Mon, Jan 2, 2006"
	timeLayout     = "3:04 PM"
)

// FormatDateTime renders a timestamp the way event cards display it,
// e.g. "Mon, Jul 4, 2026, 8:30 PM".
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// FormatPrice renders a cent amount as a dollar string, "$12.34".
// Free events render as "FREE".
func FormatPrice(cents int64) string {
	if cents == 0 {
		return "FREE"
	}
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
