package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone Asia/Kolkata", timezone: "Asia/Kolkata"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want string
	}{
		{name: "back across month", from: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), n: -1, want: "2024-02-29"},
		{name: "back across year", from: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), n: -6, want: "2023-12-28"},
		{name: "forward", from: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), n: 1, want: "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeDateKey(AddDays(tt.from, tt.n)); got != tt.want {
				t.Errorf("AddDays() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-03-10 is 23 hours long in New York.
	from := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
	if got := EncodeDateKey(AddDays(from, -1)); got != "2024-03-10" {
		t.Errorf("AddDays() across DST = %q, want 2024-03-10", got)
	}
}

func TestFirstOfMonth(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		offset int
		want   string
	}{
		{offset: 0, want: "2024-03-01"},
		{offset: -3, want: "2023-12-01"},
		{offset: 10, want: "2025-01-01"},
		{offset: -27, want: "2021-12-01"},
	}
	for _, tt := range tests {
		if got := EncodeDateKey(FirstOfMonth(ref, tt.offset)); got != tt.want {
			t.Errorf("FirstOfMonth(offset=%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.March, 31},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFormatMealTime(t *testing.T) {
	if got := FormatMealTime(nil, time.UTC); got != "-" {
		t.Errorf("FormatMealTime(nil) = %q, want -", got)
	}
	ts := time.Date(2024, time.June, 10, 12, 5, 0, 0, time.UTC)
	if got := FormatMealTime(&ts, time.UTC); got != "12:05 PM" {
		t.Errorf("FormatMealTime() = %q, want 12:05 PM", got)
	}
}
