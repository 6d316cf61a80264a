package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// ErrInvalidSettings is returned by Settings.Validate
var ErrInvalidSettings = errors.New("invalid settings")

// Settings represents the operating hours of the venue (singleton)
type Settings struct {
	OpeningTime         types.TimeString
	ClosingTime         types.TimeString
	SlotDurationMinutes int
	UpdatedAt           time.Time
}

// DefaultSettings returns the settings used until an approver changes them
func DefaultSettings() *Settings {
	return &Settings{
		OpeningTime:         types.TimeString(DefaultOpeningTime),
		ClosingTime:         types.TimeString(DefaultClosingTime),
		SlotDurationMinutes: DefaultSlotDurationMinutes,
	}
}

// Validate checks operating hours: both times well-formed, opening before
// closing, slot duration within limits. Closing at "24:00" means midnight.
func (s *Settings) Validate() error {
	if err := s.OpeningTime.Validate(); err != nil {
		return fmt.Errorf("%w: opening_time: %w", ErrInvalidSettings, err)
	}
	if s.OpeningTime.IsEndOfDay() {
		return fmt.Errorf("%w: opening_time cannot be 24:00", ErrInvalidSettings)
	}
	if err := s.ClosingTime.Validate(); err != nil {
		return fmt.Errorf("%w: closing_time: %w", ErrInvalidSettings, err)
	}
	if !s.OpeningTime.IsBefore(s.ClosingTime) {
		return fmt.Errorf("%w: opening_time must be before closing_time", ErrInvalidSettings)
	}
	if s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot_duration_minutes must be between %d and %d",
			ErrInvalidSettings, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	return nil
}
