package shift_test

import (
	"testing"
	"time"

	"github.com/warp/hr-engine/date"
	"github.com/warp/hr-engine/shift"
)

func day(n int) date.Date {
	return date.New(2026, time.September, 1).AddDays(n - 1)
}

func interval(start, end int) *shift.Assignment {
	return &shift.Assignment{
		ID:        "a",
		StartDate: day(start),
		EndDate:   day(end),
		State:     shift.StateActive,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		start, end     int
		exStart, exEnd int
		want           bool
	}{
		{"disjoint before", 1, 4, 5, 10, false},
		{"disjoint after", 11, 15, 5, 10, false},
		{"touching boundary overlaps", 1, 5, 5, 10, true},
		{"touching other boundary overlaps", 10, 15, 5, 10, true},
		{"contained", 6, 8, 5, 10, true},
		{"containing", 1, 20, 5, 10, true},
		{"identical", 5, 10, 5, 10, true},
		{"single day inside", 7, 7, 5, 10, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := []*shift.Assignment{interval(tc.exStart, tc.exEnd)}
			got := shift.Overlaps(day(tc.start), day(tc.end), existing)
			if got != tc.want {
				t.Errorf("Overlaps([%d,%d] vs [%d,%d]) = %v, want %v",
					tc.start, tc.end, tc.exStart, tc.exEnd, got, tc.want)
			}
		})
	}
}

func TestOverlaps_NoExisting(t *testing.T) {
	if shift.Overlaps(day(1), day(5), nil) {
		t.Error("empty assignment list must not overlap")
	}
}

func TestOverlaps_ChecksAllAssignments(t *testing.T) {
	existing := []*shift.Assignment{
		interval(1, 3),
		interval(20, 25),
	}
	if !shift.Overlaps(day(22), day(30), existing) {
		t.Error("expected overlap with the second assignment")
	}
	if shift.Overlaps(day(5), day(15), existing) {
		t.Error("gap between assignments must not overlap")
	}
}
