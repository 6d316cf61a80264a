package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeLayout = "15:04"

const minutesPerDay = 24 * 60

var (
	// ErrInvalidTimeString is returned when a value cannot be parsed as a time of day
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the 00:00-23:59 range
	ErrTimeOverflow = errors.New("time string out of day range")
)

// TimeString is a time of day in HH:MM form ("15:00").
// The zero value is the empty string and means "not set".
// "24:00" is accepted as the end of the day and places onto the next midnight.
type TimeString string

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses user input into a normalized TimeString.
// Accepted forms: "15:00", "9:30", "15.30", "15", "15:00:00".
func NewTimeStringFromString(s string) (TimeString, error) {
	hour, minute, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return fromMinutes(hour*60 + minute), nil
}

// MustTimeString is NewTimeStringFromString for constants and tests.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// IsEndOfDay reports whether t is "24:00".
func (t TimeString) IsEndOfDay() bool {
	m, err := t.Minutes()
	return err == nil && m == minutesPerDay
}

// Validate checks that the value is a well-formed time of day.
func (t TimeString) Validate() error {
	_, _, err := parseClock(string(t))
	return err
}

// Minutes returns the number of minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	hour, minute, err := parseClock(string(t))
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

// AddMinutes shifts the time of day, failing if the result leaves the day.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total := current + minutes
	if total < 0 || total >= minutesPerDay {
		return "", fmt.Errorf("%w: %s %+d min", ErrTimeOverflow, t, minutes)
	}
	return fromMinutes(total), nil
}

func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a > b
}

// On places the time of day on the calendar date of day, in day's location.
func (t TimeString) On(day time.Time) (time.Time, error) {
	hour, minute, err := parseClock(string(t))
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location()), nil
}

// Scan implements sql.Scanner for TIME and TEXT columns.
func (t *TimeString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	return t.scanString(s)
}

func fromMinutes(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

func parseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty value", ErrInvalidTimeString)
	}

	hourPart, minutePart := s, "0"
	if i := strings.IndexAny(s, ":."); i >= 0 {
		hourPart, minutePart = s[:i], s[i+1:]
		// TIME columns come back as "15:00:00"; seconds are dropped
		if j := strings.IndexAny(minutePart, ":."); j >= 0 {
			minutePart = minutePart[:j]
		}
		if minutePart == "" {
			minutePart = "0"
		}
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if hour == 24 && minute != 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return hour, minute, nil
}
