package domain

import (
	"testing"
	"time"
)

func TestExpandSlots_Validation(t *testing.T) {
	windows := []AvailabilityWindow{window(t, time.Wednesday, "09:00", "12:00")}
	from := *mustDate(t, "2025-03-05")

	tests := []struct {
		name     string
		windows  []AvailabilityWindow
		duration time.Duration
		to       string
		wantErr  string
	}{
		{name: "zero duration", windows: windows, duration: 0, to: "2025-03-05", wantErr: "invalid duration"},
		{name: "sub-minute duration", windows: windows, duration: 90 * time.Second, to: "2025-03-05", wantErr: "invalid duration"},
		{name: "inverted range", windows: windows, duration: time.Hour, to: "2025-03-04", wantErr: "invalid date range"},
		{
			name:     "invalid weekday",
			windows:  []AvailabilityWindow{{DayOfWeek: 7}},
			duration: time.Hour,
			to:       "2025-03-05",
			wantErr:  "invalid weekday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandSlots(tt.windows, tt.duration, from, *mustDate(t, tt.to))
			if err == nil {
				t.Fatalf("expected error")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExpandSlots_StepsByDurationInsideWindow(t *testing.T) {
	windows := []AvailabilityWindow{
		window(t, time.Wednesday, "09:00", "12:00"),
		window(t, time.Thursday, "13:00", "14:30"),
	}

	slots, err := ExpandSlots(windows, 45*time.Minute, *mustDate(t, "2025-03-05"), *mustDate(t, "2025-03-06"))
	if err != nil {
		t.Fatalf("ExpandSlots error: %v", err)
	}

	want := []string{
		"2025-03-05 09:00-09:45",
		"2025-03-05 09:45-10:30",
		"2025-03-05 10:30-11:15",
		"2025-03-05 11:15-12:00",
		"2025-03-06 13:00-13:45",
		"2025-03-06 13:45-14:30",
	}
	if len(slots) != len(want) {
		t.Fatalf("len(slots) = %d, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		got := FormatDate(s.Date) + " " + FormatClock(s.Start) + "-" + FormatClock(s.End)
		if got != want[i] {
			t.Fatalf("slot[%d] = %q, want %q", i, got, want[i])
		}
	}
}

func TestExpandSlots_OverlappingWindowsAreDeduplicatedAndSorted(t *testing.T) {
	windows := []AvailabilityWindow{
		window(t, time.Monday, "10:00", "12:00"),
		window(t, time.Monday, "09:00", "11:00"),
	}

	slots, err := ExpandSlots(windows, time.Hour, *mustDate(t, "2025-03-03"), *mustDate(t, "2025-03-03"))
	if err != nil {
		t.Fatalf("ExpandSlots error: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00"}
	if len(slots) != len(want) {
		t.Fatalf("len(slots) = %d, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if FormatClock(s.Start) != want[i] {
			t.Fatalf("slot[%d] start = %s, want %s", i, FormatClock(s.Start), want[i])
		}
	}
}

func TestExpandSlots_WindowShorterThanDuration(t *testing.T) {
	windows := []AvailabilityWindow{window(t, time.Monday, "09:00", "09:30")}

	slots, err := ExpandSlots(windows, time.Hour, *mustDate(t, "2025-03-03"), *mustDate(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("ExpandSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestExpandSlots_WindowEndingAtMidnight(t *testing.T) {
	windows := []AvailabilityWindow{window(t, time.Wednesday, "22:00", "24:00:00")}
	date := *mustDate(t, "2025-03-05")

	slots, err := ExpandSlots(windows, time.Hour, date, date)
	if err != nil {
		t.Fatalf("ExpandSlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	if got := FormatClock(slots[1].Start) + "-" + FormatClock(slots[1].End); got != "23:00-24:00" {
		t.Fatalf("last slot = %s, want 23:00-24:00", got)
	}
	if !SlotFits(windows, date, *mustClock(t, "23:00"), time.Hour) {
		t.Fatalf("23:00 for an hour should fit a window closing at midnight")
	}
}

func TestSlotFits(t *testing.T) {
	windows := []AvailabilityWindow{window(t, time.Wednesday, "09:00", "12:00")}
	wed := *mustDate(t, "2025-03-05")
	thu := *mustDate(t, "2025-03-06")

	tests := []struct {
		name  string
		date  string
		start string
		dur   time.Duration
		want  bool
	}{
		{name: "fits at window start", start: "09:00", dur: time.Hour, want: true},
		{name: "ends at window end", start: "11:00", dur: time.Hour, want: true},
		{name: "runs past window end", start: "11:30", dur: time.Hour, want: false},
		{name: "before window", start: "08:30", dur: time.Hour, want: false},
		{name: "wrong weekday", date: "thu", start: "09:00", dur: time.Hour, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := wed
			if tt.date == "thu" {
				date = thu
			}
			if got := SlotFits(windows, date, *mustClock(t, tt.start), tt.dur); got != tt.want {
				t.Fatalf("SlotFits = %v, want %v", got, tt.want)
			}
		})
	}
}
