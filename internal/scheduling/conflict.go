package scheduling

import "time"

// intervalsOverlap reports whether the half-open intervals [s1,e1) and
// [s2,e2) intersect: s1 < e2 && s2 < e1. Back-to-back slots do not overlap.
func intervalsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// HasConflict reports whether a candidate slot for a doctor overlaps any
// active appointment in existing. excludeID skips the appointment being
// updated; pass "" when scheduling a new one. Candidate and existing entries
// share the same fixed duration.
func HasConflict(existing []Appointment, doctorID string, start time.Time, duration time.Duration, excludeID string) bool {
	end := start.Add(duration)
	for _, appt := range existing {
		if excludeID != "" && appt.ID == excludeID {
			continue
		}
		if appt.DoctorID != doctorID || !appt.Active() {
			continue
		}
		if intervalsOverlap(start, end, appt.StartTime, appt.StartTime.Add(duration)) {
			return true
		}
	}
	return false
}
