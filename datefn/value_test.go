package datefn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func daysIn(y, m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if isLeap(y) {
		return 29
	}
	return 28
}

type ymd struct {
	Y, M, D int
}

func TestCalendarRoundTrip(t *testing.T) {
	// Sample the representable year range. Day 0 of the julian count is
	// late in -4713, so start just after it.
	for y := -4712; y <= 9999; y += 97 {
		for m := 1; m <= 12; m++ {
			for _, d := range []int{1, 15, 28, daysIn(y, m)} {
				v := value{year: y, month: m, day: d, validYMD: true}
				v.computeJD()
				if v.invalid {
					t.Fatalf("computeJD(%04d-%02d-%02d) errored", y, m, d)
				}
				v.validYMD = false
				v.computeYMD()
				got := ymd{v.year, v.month, v.day}
				if diff := cmp.Diff(ymd{y, m, d}, got); diff != "" {
					t.Fatalf("round trip %04d-%02d-%02d mismatch (-want +got):\n%s", y, m, d, diff)
				}
			}
		}
	}
}

func TestCalendarRoundTripLeapEdges(t *testing.T) {
	for _, tt := range []ymd{
		{2000, 2, 29}, // century leap year
		{1900, 2, 28}, // century common year
		{2024, 2, 29},
		{2024, 12, 31},
		{-4712, 1, 1},
		{9999, 12, 31},
	} {
		v := value{year: tt.Y, month: tt.M, day: tt.D, validYMD: true}
		v.computeJD()
		v.validYMD = false
		v.computeYMD()
		got := ymd{v.year, v.month, v.day}
		if diff := cmp.Diff(tt, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestComputeFloor(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d int
		want    int
	}{
		{"low day never overflows", 2023, 2, 28, 0},
		{"31-day month", 2023, 1, 31, 0},
		{"30-day month day 30", 2023, 4, 30, 0},
		{"30-day month day 31", 2023, 4, 31, 1},
		{"february common year", 2023, 2, 31, 3},
		{"february leap year", 2024, 2, 31, 2},
		{"february century common", 1900, 2, 29, 1},
		{"february century leap", 2000, 2, 29, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := value{year: tt.y, month: tt.m, day: tt.d, validYMD: true}
			v.computeFloor()
			if v.floorDays != tt.want {
				t.Errorf("computeFloor(%d-%02d-%02d) = %d, want %d", tt.y, tt.m, tt.d, v.floorDays, tt.want)
			}
		})
	}
}

func TestGetDigits(t *testing.T) {
	var y, m, d int
	if got := getDigits("2024-03-10", "40f-21a-21d", &y, &m, &d); got != 3 {
		t.Fatalf("getDigits = %d fields, want 3", got)
	}
	if y != 2024 || m != 3 || d != 10 {
		t.Errorf("getDigits parsed %d-%d-%d, want 2024-3-10", y, m, d)
	}
	if got := getDigits("2024-13-10", "40f-21a-21d", &y, &m, &d); got != 1 {
		t.Errorf("month 13 accepted, fields = %d", got)
	}
	if got := getDigits("2024/03/10", "40f-21a-21d", &y, &m, &d); got != 0 {
		t.Errorf("wrong separator accepted, fields = %d", got)
	}
}
