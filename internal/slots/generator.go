// Package slots holds the pure scheduling rules: generating candidate time
// windows for a day and deciding whether a window is free.
package slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// Generate yields the slots of length durationMinutes tiling [opening, closing)
// on the calendar day of date, in date's location. Generation stops before a
// slot that would end after closing. Invalid or degenerate input (duration <= 0,
// opening >= closing, unparsable times) yields nothing.
//
// The sequence is restartable: every range over it starts from opening again.
func Generate(date time.Time, opening, closing types.TimeString, durationMinutes int) iter.Seq[domain.TimeSlot] {
	return func(yield func(domain.TimeSlot) bool) {
		if durationMinutes <= 0 {
			return
		}

		openAt, err := opening.On(date)
		if err != nil {
			return
		}
		closeAt, err := closing.On(date)
		if err != nil {
			return
		}
		if !openAt.Before(closeAt) {
			return
		}

		step := time.Duration(durationMinutes) * time.Minute
		for start := openAt; !start.Add(step).After(closeAt); start = start.Add(step) {
			if !yield(domain.TimeSlot{Start: start, End: start.Add(step)}) {
				return
			}
		}
	}
}

// Collect materializes a slot sequence. It never returns nil.
func Collect(seq iter.Seq[domain.TimeSlot]) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0)
	for slot := range seq {
		result = append(result, slot)
	}
	return result
}

// StartingAfter filters out slots that start before now.
func StartingAfter(seq iter.Seq[domain.TimeSlot], now time.Time) iter.Seq[domain.TimeSlot] {
	return func(yield func(domain.TimeSlot) bool) {
		for slot := range seq {
			if slot.Start.Before(now) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Format renders a slot as "10:00 - 10:30".
func Format(slot domain.TimeSlot) string {
	return slot.String()
}
