package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// FilterCriteria is the user's current filter selection. Nil pointers and an
// empty category list mean the corresponding predicate is inactive.
type FilterCriteria struct {
	Categories []string
	DateFrom   *civil.Date
	DateTo     *civil.Date
	TimeFrom   *civil.Time
	TimeTo     *civil.Time
}

func (c FilterCriteria) IsEmpty() bool {
	return len(c.Categories) == 0 &&
		c.DateFrom == nil &&
		c.DateTo == nil &&
		c.TimeFrom == nil &&
		c.TimeTo == nil
}

// FilterServices returns the services of catalog that satisfy every active
// predicate of c, in catalog order. The result is never nil and never
// includes availability windows.
//
// A DateTo set without a DateFrom is ignored; the date range only becomes
// active once DateFrom is chosen. An inverted range (DateTo before DateFrom)
// covers no weekdays and therefore matches nothing.
func FilterServices(catalog []ServiceAvailability, c FilterCriteria) []Service {
	out := make([]Service, 0, len(catalog))

	var categories map[string]struct{}
	if len(c.Categories) > 0 {
		categories = make(map[string]struct{}, len(c.Categories))
		for _, name := range c.Categories {
			categories[name] = struct{}{}
		}
	}

	var weekdays map[time.Weekday]struct{}
	dateActive := c.DateFrom != nil
	if dateActive {
		to := *c.DateFrom
		if c.DateTo != nil {
			to = *c.DateTo
		}
		weekdays = WeekdaySet(*c.DateFrom, to)
	}

	timeActive := c.TimeFrom != nil || c.TimeTo != nil

	for _, s := range catalog {
		if categories != nil {
			if _, ok := categories[s.Category]; !ok {
				continue
			}
		}
		if dateActive && !availableOnAny(s.Windows, weekdays) {
			continue
		}
		if timeActive && !overlapsAny(s.Windows, c.TimeFrom, c.TimeTo) {
			continue
		}
		out = append(out, s.Service)
	}

	return out
}

// WeekdaySet returns the distinct days of week covered by the inclusive date
// range [from, to]. An inverted range yields an empty set.
func WeekdaySet(from, to civil.Date) map[time.Weekday]struct{} {
	set := make(map[time.Weekday]struct{}, 7)
	if to.Before(from) {
		return set
	}

	for d := from; !d.After(to); d = d.AddDays(1) {
		set[weekdayOf(d)] = struct{}{}
		if len(set) == 7 {
			break
		}
	}
	return set
}

func availableOnAny(windows []AvailabilityWindow, weekdays map[time.Weekday]struct{}) bool {
	for _, w := range windows {
		if _, ok := weekdays[w.DayOfWeek]; ok {
			return true
		}
	}
	return false
}

// overlapsAny reports whether any window overlaps the half-open request
// [from, to). A nil bound is open (start or end of day).
func overlapsAny(windows []AvailabilityWindow, from, to *civil.Time) bool {
	for _, w := range windows {
		if windowOverlaps(w, from, to) {
			return true
		}
	}
	return false
}

func windowOverlaps(w AvailabilityWindow, from, to *civil.Time) bool {
	if from != nil && clockMinutes(w.End) <= clockMinutes(*from) {
		return false
	}
	if to != nil && clockMinutes(w.Start) >= clockMinutes(*to) {
		return false
	}
	return true
}

// FilterByCategory is the single-select quick filter applied on top of a
// service list. An empty category keeps everything.
func FilterByCategory(services []Service, category string) []Service {
	if category == "" {
		return services
	}
	out := make([]Service, 0, len(services))
	for _, s := range services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
