package domain

import (
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// Slot is a concrete bookable interval on a calendar date.
type Slot struct {
	Date  civil.Date
	Start civil.Time
	End   civil.Time
}

const minutesPerDay = 24 * 60

// ExpandSlots turns weekly windows into concrete slot start times for every
// date in [from, to]. Slots are laid back to back from each window start and
// must end at or before the window end. Overlapping windows do not produce
// duplicate slots.
func ExpandSlots(windows []AvailabilityWindow, duration time.Duration, from, to civil.Date) ([]Slot, error) {
	if duration <= 0 || duration%time.Minute != 0 {
		return nil, errors.New("invalid duration")
	}
	if to.Before(from) {
		return nil, errors.New("invalid date range")
	}
	step := int(duration / time.Minute)

	byDay := make(map[time.Weekday][]AvailabilityWindow, 7)
	for _, w := range windows {
		if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
			return nil, errors.New("invalid weekday")
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	out := make([]Slot, 0, 16)
	for d := from; !d.After(to); d = d.AddDays(1) {
		seen := make(map[int]struct{})
		day := make([]Slot, 0, 8)
		for _, w := range byDay[weekdayOf(d)] {
			end := clockMinutes(w.End)
			for start := clockMinutes(w.Start); start+step <= end && start+step <= minutesPerDay; start += step {
				if _, ok := seen[start]; ok {
					continue
				}
				seen[start] = struct{}{}
				day = append(day, Slot{
					Date:  d,
					Start: clockFromMinutes(start),
					End:   clockFromMinutes(start + step),
				})
			}
		}
		sort.Slice(day, func(i, j int) bool {
			return clockMinutes(day[i].Start) < clockMinutes(day[j].Start)
		})
		out = append(out, day...)
	}

	return out, nil
}

// SlotFits reports whether [start, start+duration) on date lies inside one of
// the windows for that date's weekday.
func SlotFits(windows []AvailabilityWindow, date civil.Date, start civil.Time, duration time.Duration) bool {
	wd := weekdayOf(date)
	s := clockMinutes(start)
	e := s + int(duration/time.Minute)
	for _, w := range windows {
		if w.DayOfWeek != wd {
			continue
		}
		if clockMinutes(w.Start) <= s && e <= clockMinutes(w.End) {
			return true
		}
	}
	return false
}
