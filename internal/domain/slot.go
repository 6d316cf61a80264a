package domain

import "time"

// TimeSlot is a half-open time interval [Start, End)
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the slot has positive length
func (s TimeSlot) IsValid() bool {
	return s.Start.Before(s.End)
}

// Duration returns the slot length
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps reports whether two half-open intervals intersect.
// Adjacent slots (one ends exactly where the other starts) do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// String formats the slot as "HH:MM - HH:MM"
func (s TimeSlot) String() string {
	return s.Start.Format(TimeFormat) + " - " + s.End.Format(TimeFormat)
}
