package calendar

import (
	"sort"
	"time"
)

// SuggestSlots returns the free gaps of a day around the existing events,
// ordered by start time. The last slot ends at 23:59. Overlapping events are
// treated as one busy block because the cursor only ever moves forward.
func SuggestSlots(existing []Event) []TimeSlot {
	ranges := make([]TimeRange, 0, len(existing))
	for _, e := range existing {
		r, err := e.TimeRange()
		if err != nil {
			continue
		}
		ranges = append(ranges, r)
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})

	slots := make([]TimeSlot, 0, len(ranges)+1)
	cursor := Midnight
	for _, r := range ranges {
		if r.Start > cursor {
			slots = append(slots, TimeSlot{Start: cursor, End: r.Start})
		}
		if r.End > cursor {
			cursor = r.End
		}
	}
	if cursor < EndOfDay {
		slots = append(slots, TimeSlot{Start: cursor, End: EndOfDay})
	}
	return slots
}

// SuggestSlotsFor returns only the free slots lasting at least minDuration.
func SuggestSlotsFor(existing []Event, minDuration time.Duration) []TimeSlot {
	all := SuggestSlots(existing)
	if minDuration <= 0 {
		return all
	}
	result := make([]TimeSlot, 0, len(all))
	for _, s := range all {
		if s.Duration() >= minDuration {
			result = append(result, s)
		}
	}
	return result
}
