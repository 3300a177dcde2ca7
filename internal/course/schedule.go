package course

import (
	"fmt"
	"strings"
)

// Slot is one weekly meeting of a class. Times are "HH:MM" strings and the
// interval is half-open: [StartTime, EndTime).
type Slot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ValidateSchedule checks every slot for completeness and ordering, then runs
// a pairwise same-day overlap check. Touching boundaries do not overlap.
func ValidateSchedule(slots []Slot) error {
	for i, s := range slots {
		if s.Day == "" || s.StartTime == "" || s.EndTime == "" {
			return fmt.Errorf("%w: slot %d is incomplete: day, start_time and end_time are required", ErrInvalid, i+1)
		}
		if s.StartTime >= s.EndTime {
			return fmt.Errorf("%w: slot %d: start_time %s must be before end_time %s", ErrInvalid, i+1, s.StartTime, s.EndTime)
		}
	}
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slotsConflict(slots[i], slots[j]) {
				return fmt.Errorf("%w: slot %d (%s %s-%s) overlaps slot %d (%s %s-%s)",
					ErrInvalid,
					i+1, slots[i].Day, slots[i].StartTime, slots[i].EndTime,
					j+1, slots[j].Day, slots[j].StartTime, slots[j].EndTime)
			}
		}
	}
	return nil
}

// slotsConflict reports whether two slots share a day and their half-open
// intervals intersect.
func slotsConflict(a, b Slot) bool {
	if !strings.EqualFold(a.Day, b.Day) {
		return false
	}
	return a.StartTime < b.EndTime && a.EndTime > b.StartTime
}
