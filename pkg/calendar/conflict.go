package calendar

import (
	log "github.com/sirupsen/logrus"
)

// overlaps reports whether candidate collides with existing. Ranges touching
// at a single boundary minute do not overlap.
func overlaps(candidate, existing TimeRange) bool {
	startsDuring := candidate.Start >= existing.Start && candidate.Start < existing.End
	endsDuring := candidate.End > existing.Start && candidate.End <= existing.End
	contains := candidate.Start <= existing.Start && candidate.End >= existing.End
	return startsDuring || endsDuring || contains
}

// HasConflict reports whether candidate overlaps any of the existing events.
// The event identified by excludeUid is ignored, which is what an edit needs;
// pass an empty string to compare against every event.
func HasConflict(existing []Event, candidate TimeRange, excludeUid string) bool {
	for _, e := range existing {
		if conflictsWith(e, candidate, excludeUid) {
			return true
		}
	}
	return false
}

// Conflicts returns every existing event overlapping candidate, in input order.
func Conflicts(existing []Event, candidate TimeRange, excludeUid string) []Event {
	var result []Event
	for _, e := range existing {
		if conflictsWith(e, candidate, excludeUid) {
			result = append(result, e)
		}
	}
	return result
}

func conflictsWith(e Event, candidate TimeRange, excludeUid string) bool {
	if excludeUid != "" && e.UID == excludeUid {
		return false
	}
	r, err := e.TimeRange()
	if err != nil {
		log.Debugf("skipping event %s with unparseable times: %v", e.UID, err)
		return false
	}
	return overlaps(candidate, r)
}
