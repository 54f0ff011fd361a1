package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	eventDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParseEventDate parses a wall-clock event date in EventDateLayout.
// Every field must be zero padded, and impossible calendar values such as
// 2025-02-30 are rejected.
func ParseEventDate(s string) (time.Time, error) {
	if !eventDatePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("event date %q is not in YYYY-MM-DDTHH:MM format", s)
	}
	return time.Parse(EventDateLayout, s)
}

// ValidateEvent returns the field problems of an event about to be stored.
func ValidateEvent(e *Event) []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if _, err := ParseEventDate(e.EventDate); err != nil {
		errs = append(errs, "event_date must be a valid date in YYYY-MM-DDTHH:MM format")
	}
	return errs
}
