package domain

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

func mustDate(t *testing.T, s string) *civil.Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error: %v", s, err)
	}
	return &d
}

func mustClock(t *testing.T, s string) *civil.Time {
	t.Helper()
	c, err := ParseClock(s)
	if err != nil {
		t.Fatalf("ParseClock(%q) error: %v", s, err)
	}
	return &c
}

func window(t *testing.T, day time.Weekday, start, end string) AvailabilityWindow {
	t.Helper()
	e, err := ParseWindowEnd(end)
	if err != nil {
		t.Fatalf("ParseWindowEnd(%q) error: %v", end, err)
	}
	return AvailabilityWindow{DayOfWeek: day, Start: *mustClock(t, start), End: e}
}

func svc(id byte, name, category string, windows ...AvailabilityWindow) ServiceAvailability {
	return ServiceAvailability{
		Service: Service{
			ID:              uuid.UUID{15: id},
			Name:            name,
			Category:        category,
			Price:           10,
			DurationMinutes: 60,
		},
		Windows: windows,
	}
}

func testCatalog(t *testing.T) []ServiceAvailability {
	return []ServiceAvailability{
		svc(1, "Classic Manicure", "Nail", window(t, time.Monday, "09:00", "12:00")),
		svc(2, "Gel Pedicure", "Nail", window(t, time.Wednesday, "13:00", "17:00")),
		svc(3, "Hydrating Facial", "Facial", window(t, time.Wednesday, "09:00", "12:00"), window(t, time.Saturday, "10:00", "14:00")),
		svc(4, "Haircut & Style", "Hair"),
		svc(5, "Deep Tissue Massage", "Massage", window(t, time.Sunday, "08:00", "20:00")),
	}
}

func names(services []Service) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.Name)
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterServices_EmptyCriteriaReturnsCatalogInOrder(t *testing.T) {
	catalog := testCatalog(t)

	got := FilterServices(catalog, FilterCriteria{})
	if len(got) != len(catalog) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(catalog))
	}
	for i := range catalog {
		if got[i] != catalog[i].Service {
			t.Fatalf("got[%d] = %+v, want %+v", i, got[i], catalog[i].Service)
		}
	}
}

func TestFilterServices_EmptyCatalogNeverNil(t *testing.T) {
	got := FilterServices(nil, FilterCriteria{Categories: []string{"Nail"}})
	if got == nil {
		t.Fatalf("expected non-nil result")
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestFilterServices_Stages(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		name     string
		criteria func(t *testing.T) FilterCriteria
		want     []string
	}{
		{
			name: "category exact match",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{Categories: []string{"Nail"}}
			},
			want: []string{"Classic Manicure", "Gel Pedicure"},
		},
		{
			name: "category is case sensitive",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{Categories: []string{"nail"}}
			},
			want: []string{},
		},
		{
			name: "multiple categories keep catalog order",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{Categories: []string{"Massage", "Facial"}}
			},
			want: []string{"Hydrating Facial", "Deep Tissue Massage"},
		},
		{
			name: "single day wednesday",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{DateFrom: mustDate(t, "2025-03-05")}
			},
			want: []string{"Gel Pedicure", "Hydrating Facial"},
		},
		{
			name: "weekend range",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{DateFrom: mustDate(t, "2025-03-08"), DateTo: mustDate(t, "2025-03-09")}
			},
			want: []string{"Hydrating Facial", "Deep Tissue Massage"},
		},
		{
			name: "date to without date from is inactive",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{DateTo: mustDate(t, "2025-03-05")}
			},
			want: []string{"Classic Manicure", "Gel Pedicure", "Hydrating Facial", "Haircut & Style", "Deep Tissue Massage"},
		},
		{
			name: "time from only",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{TimeFrom: mustClock(t, "15:00")}
			},
			want: []string{"Gel Pedicure", "Deep Tissue Massage"},
		},
		{
			name: "time to only",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{TimeTo: mustClock(t, "09:00")}
			},
			want: []string{"Deep Tissue Massage"},
		},
		{
			name: "time window is not tied to the date stage",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{DateFrom: mustDate(t, "2025-03-05"), TimeFrom: mustClock(t, "12:30"), TimeTo: mustClock(t, "13:30")}
			},
			want: []string{"Gel Pedicure", "Hydrating Facial"},
		},
		{
			name: "all stages",
			criteria: func(t *testing.T) FilterCriteria {
				return FilterCriteria{
					Categories: []string{"Facial", "Hair"},
					DateFrom:   mustDate(t, "2025-03-03"),
					DateTo:     mustDate(t, "2025-03-06"),
					TimeFrom:   mustClock(t, "11:00"),
					TimeTo:     mustClock(t, "13:00"),
				}
			},
			want: []string{"Hydrating Facial"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(FilterServices(catalog, tt.criteria(t)))
			if !equalNames(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterServices_CategoryMonotonicity(t *testing.T) {
	catalog := testCatalog(t)
	base := FilterCriteria{Categories: []string{"Nail"}, DateFrom: mustDate(t, "2025-03-03"), DateTo: mustDate(t, "2025-03-05")}
	wider := base
	wider.Categories = []string{"Nail", "Facial"}

	narrow := FilterServices(catalog, base)
	wide := FilterServices(catalog, wider)

	in := make(map[string]struct{}, len(wide))
	for _, s := range wide {
		in[s.Name] = struct{}{}
	}
	for _, s := range narrow {
		if _, ok := in[s.Name]; !ok {
			t.Fatalf("%q dropped after adding a category", s.Name)
		}
	}
	if len(wide) < len(narrow) {
		t.Fatalf("len(wide) = %d < len(narrow) = %d", len(wide), len(narrow))
	}
}

func TestFilterServices_ConjunctionOfStages(t *testing.T) {
	catalog := testCatalog(t)
	categoryOnly := FilterCriteria{Categories: []string{"Nail", "Facial"}}
	dateOnly := FilterCriteria{DateFrom: mustDate(t, "2025-03-05")}
	both := FilterCriteria{Categories: categoryOnly.Categories, DateFrom: dateOnly.DateFrom}

	byDate := make(map[string]struct{})
	for _, s := range FilterServices(catalog, dateOnly) {
		byDate[s.Name] = struct{}{}
	}
	var want []string
	for _, s := range FilterServices(catalog, categoryOnly) {
		if _, ok := byDate[s.Name]; ok {
			want = append(want, s.Name)
		}
	}

	got := names(FilterServices(catalog, both))
	if !equalNames(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterServices_TimeOverlapBoundaries(t *testing.T) {
	catalog := []ServiceAvailability{
		svc(1, "Hydrating Facial", "Facial", window(t, time.Wednesday, "09:00", "12:00")),
	}
	day := mustDate(t, "2025-03-05")

	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{name: "overlaps window end", from: "11:00", to: "13:00", want: 1},
		{name: "starts exactly at window end", from: "12:00", want: 0},
		{name: "ends exactly at window start", to: "09:00", want: 0},
		{name: "ends one minute into window", to: "09:01", want: 1},
		{name: "request inside window", from: "10:00", to: "10:30", want: 1},
		{name: "inverted request", from: "13:00", to: "08:00", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FilterCriteria{DateFrom: day, DateTo: day}
			if tt.from != "" {
				c.TimeFrom = mustClock(t, tt.from)
			}
			if tt.to != "" {
				c.TimeTo = mustClock(t, tt.to)
			}
			got := FilterServices(catalog, c)
			if len(got) != tt.want {
				t.Fatalf("len(got) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFilterServices_ServiceWithoutWindows(t *testing.T) {
	catalog := []ServiceAvailability{svc(4, "Haircut & Style", "Hair")}

	for _, c := range []FilterCriteria{
		{DateFrom: mustDate(t, "2025-03-05")},
		{DateFrom: mustDate(t, "2025-01-01"), DateTo: mustDate(t, "2025-12-31")},
		{TimeFrom: mustClock(t, "00:00")},
	} {
		if got := FilterServices(catalog, c); len(got) != 0 {
			t.Fatalf("criteria %+v: len(got) = %d, want 0", c, len(got))
		}
	}
}

func TestFilterServices_InvertedDateRangeMatchesNothing(t *testing.T) {
	catalog := testCatalog(t)

	got := FilterServices(catalog, FilterCriteria{
		DateFrom: mustDate(t, "2025-03-10"),
		DateTo:   mustDate(t, "2025-03-01"),
	})
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestFilterServices_MalformedWindowIsDegenerate(t *testing.T) {
	catalog := []ServiceAvailability{
		svc(9, "Broken", "Nail", window(t, time.Monday, "12:00", "09:00")),
	}

	got := FilterServices(catalog, FilterCriteria{TimeFrom: mustClock(t, "10:00"), TimeTo: mustClock(t, "11:00")})
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestFilterServices_DoesNotMutateCatalog(t *testing.T) {
	catalog := testCatalog(t)
	before := len(catalog[2].Windows)

	_ = FilterServices(catalog, FilterCriteria{DateFrom: mustDate(t, "2025-03-05"), TimeFrom: mustClock(t, "10:00")})
	if len(catalog[2].Windows) != before {
		t.Fatalf("windows changed: %d, want %d", len(catalog[2].Windows), before)
	}
}

func TestWeekdaySet(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want []time.Weekday
	}{
		{
			name: "monday through sunday",
			from: "2025-03-03",
			to:   "2025-03-09",
			want: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		},
		{name: "single wednesday", from: "2025-03-05", to: "2025-03-05", want: []time.Weekday{time.Wednesday}},
		{name: "month rollover", from: "2025-01-31", to: "2025-02-01", want: []time.Weekday{time.Friday, time.Saturday}},
		{name: "leap day", from: "2024-02-28", to: "2024-03-01", want: []time.Weekday{time.Wednesday, time.Thursday, time.Friday}},
		{name: "year rollover", from: "2025-12-31", to: "2026-01-01", want: []time.Weekday{time.Wednesday, time.Thursday}},
		{name: "inverted", from: "2025-03-10", to: "2025-03-01", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekdaySet(*mustDate(t, tt.from), *mustDate(t, tt.to))
			if len(got) != len(tt.want) {
				t.Fatalf("len(set) = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for _, wd := range tt.want {
				if _, ok := got[wd]; !ok {
					t.Fatalf("set missing %s", wd)
				}
			}
		})
	}
}

func TestWeekdaySet_LongRangeShortCircuits(t *testing.T) {
	got := WeekdaySet(*mustDate(t, "2000-01-01"), *mustDate(t, "2099-12-31"))
	if len(got) != 7 {
		t.Fatalf("len(set) = %d, want 7", len(got))
	}
}

func TestFilterByCategory(t *testing.T) {
	services := FilterServices(testCatalog(t), FilterCriteria{})

	if got := FilterByCategory(services, ""); len(got) != len(services) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(services))
	}
	got := names(FilterByCategory(services, "Nail"))
	want := []string{"Classic Manicure", "Gel Pedicure"}
	if !equalNames(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: " 13:30 ", want: "13:30"},
		{in: "07:15:42", want: "07:15"},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock error: %v", err)
			}
			if FormatClock(got) != tt.want {
				t.Fatalf("FormatClock = %q, want %q", FormatClock(got), tt.want)
			}
		})
	}
}

func TestParseWindowEnd(t *testing.T) {
	for _, in := range []string{"24:00", "24:00:00", " 24:00 "} {
		got, err := ParseWindowEnd(in)
		if err != nil {
			t.Fatalf("ParseWindowEnd(%q) error: %v", in, err)
		}
		if got != EndOfDay || FormatClock(got) != "24:00" {
			t.Fatalf("ParseWindowEnd(%q) = %v, want end of day", in, got)
		}
	}

	got, err := ParseWindowEnd("17:30:00")
	if err != nil || FormatClock(got) != "17:30" {
		t.Fatalf("ParseWindowEnd(17:30:00) = %v, %v", got, err)
	}
	for _, in := range []string{"24:01", "25:00", "late"} {
		if _, err := ParseWindowEnd(in); err == nil {
			t.Fatalf("ParseWindowEnd(%q) expected error", in)
		}
	}
}

func TestFilterServices_WindowEndingAtMidnight(t *testing.T) {
	catalog := []ServiceAvailability{
		svc(1, "Late Facial", "Facial", window(t, time.Wednesday, "20:00", "24:00")),
	}
	date := mustDate(t, "2025-03-05")

	got := FilterServices(catalog, FilterCriteria{DateFrom: date, DateTo: date, TimeFrom: mustClock(t, "23:30")})
	if !equalNames(names(got), []string{"Late Facial"}) {
		t.Fatalf("filtered = %v, want [Late Facial]", names(got))
	}
}

func TestParseDate_RejectsInvalidCalendarDates(t *testing.T) {
	for _, in := range []string{"2025-02-30", "2025-13-01", "03/05/2025", ""} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) expected error", in)
		}
	}
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if FormatDate(d) != "2024-02-29" {
		t.Fatalf("FormatDate = %q, want %q", FormatDate(d), "2024-02-29")
	}
}
