package domain

// Default operating settings, applied when the settings row does not exist yet
const (
	DefaultOpeningTime         = "15:00"
	DefaultClosingTime         = "21:00"
	DefaultSlotDurationMinutes = 120
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 24 * 60
	MaxUserNameLength      = 100
	MaxPhoneLength         = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SettingsID is the fixed key of the operating settings singleton row.
const SettingsID = 1
