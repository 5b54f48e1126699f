package scheduling

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 10, hour, min, 0, 0, time.UTC)
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(10, 0), at(10, 30), at(10, 0), at(10, 30), true},
		{"partial overlap", at(10, 0), at(10, 30), at(10, 15), at(10, 45), true},
		{"contained", at(10, 0), at(11, 0), at(10, 15), at(10, 45), true},
		{"adjacent before", at(9, 30), at(10, 0), at(10, 0), at(10, 30), false},
		{"adjacent after", at(10, 30), at(11, 0), at(10, 0), at(10, 30), false},
		{"disjoint", at(8, 0), at(8, 30), at(10, 0), at(10, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := intervalsOverlap(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("intervalsOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasConflict(t *testing.T) {
	const slot = 30 * time.Minute
	existing := []Appointment{
		{ID: "A0001", DoctorID: "D0001", StartTime: at(10, 0), Status: StatusScheduled},
		{ID: "A0002", DoctorID: "D0001", StartTime: at(14, 0), Status: StatusCancelled},
		{ID: "A0003", DoctorID: "D0002", StartTime: at(10, 0), Status: StatusConfirmed},
	}

	tests := []struct {
		name      string
		doctorID  string
		start     time.Time
		excludeID string
		want      bool
	}{
		{"overlapping same doctor", "D0001", at(10, 15), "", true},
		{"adjacent slot is free", "D0001", at(10, 30), "", false},
		{"cancelled slot is free", "D0001", at(14, 0), "", false},
		{"other doctor same time", "D0003", at(10, 0), "", false},
		{"confirmed blocks too", "D0002", at(10, 15), "", true},
		{"excluded id ignored", "D0001", at(10, 0), "A0001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict(existing, tt.doctorID, tt.start, slot, tt.excludeID); got != tt.want {
				t.Errorf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}
