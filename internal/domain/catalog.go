package domain

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID
	Name string
	Icon string
}

// Service is a bookable offering as returned to clients. It never carries
// availability windows.
type Service struct {
	ID              uuid.UUID
	Name            string
	Category        string
	Description     string
	Price           float64
	DurationMinutes int
	ImageURL        string
	Rating          float64
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// AvailabilityWindow is a weekly recurring slot [Start, End) on DayOfWeek.
type AvailabilityWindow struct {
	ServiceID uuid.UUID
	DayOfWeek time.Weekday
	Start     civil.Time
	End       civil.Time
}

// ServiceAvailability is a catalog record: a service together with its windows.
type ServiceAvailability struct {
	Service
	Windows []AvailabilityWindow
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	errInvalidDate  = errors.New("invalid date")
	errInvalidClock = errors.New("invalid time")
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (civil.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, errInvalidDate
	}
	return civil.DateOf(t), nil
}

// ParseClock parses a wall-clock time of day as HH:MM or HH:MM:SS. Seconds are
// dropped; the model is minute precision.
func ParseClock(s string) (civil.Time, error) {
	s = strings.TrimSpace(s)
	layout := clockLayout
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return civil.Time{}, errInvalidClock
	}
	return civil.Time{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// EndOfDay is the exclusive end of a calendar day, written 24:00.
var EndOfDay = civil.Time{Hour: 24}

// ParseWindowEnd parses the end of an availability window. It accepts
// everything ParseClock does plus 24:00, which closes the window at midnight.
func ParseWindowEnd(s string) (civil.Time, error) {
	switch strings.TrimSpace(s) {
	case "24:00", "24:00:00":
		return EndOfDay, nil
	}
	return ParseClock(s)
}

// FormatClock renders a time of day as HH:MM.
func FormatClock(t civil.Time) string {
	if clockMinutes(t) >= minutesPerDay {
		return "24:00"
	}
	return time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(clockLayout)
}

func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format(dateLayout)
}

func weekdayOf(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func clockMinutes(t civil.Time) int {
	return t.Hour*60 + t.Minute
}

func clockFromMinutes(m int) civil.Time {
	return civil.Time{Hour: m / 60, Minute: m % 60}
}
