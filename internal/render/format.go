package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders a day as "Jan 02, 2006", or "N/A" for the zero value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 02, 2006")
}

// FormatDateShort renders a day as "Jan 02", or "N/A" for the zero value.
func FormatDateShort(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 02")
}

// YearsAgo describes how many whole years have passed since t.
func YearsAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	years := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}
	return fmt.Sprintf("%d years ago", years)
}

// Age renders the calendar difference between birthday and now as
// "X years, Y months, Z days".
func Age(birthday, now time.Time) string {
	years := now.Year() - birthday.Year()
	months := int(now.Month()) - int(birthday.Month())
	days := now.Day() - birthday.Day()
	// Borrow whole months until the day difference is non-negative. Short
	// months (February) can require more than one borrow.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for days < 0 {
		months--
		anchor = anchor.AddDate(0, -1, 0)
		// Day zero of the next month is this month's last day.
		days += time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	for months < 0 {
		years--
		months += 12
	}
	return fmt.Sprintf("%d years, %d months, %d days", years, months, days)
}

// Comma formats an integer with thousands separators.
func Comma(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return sign + strings.Join(groups, ",")
}
