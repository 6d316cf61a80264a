package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusExpired   ReservationStatus = "expired"
)

// AllStatuses lists every known reservation status
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusExpired,
}

// ActiveStatuses are the non-terminal statuses; the sweep expires only these
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// IsValid returns true if s is one of the known statuses
func (s ReservationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses that never change again
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// Reservation represents a booking of one table for a time window
type Reservation struct {
	ID      int64
	TableID int64
	UserID  int64

	// Denormalized from the joined table and user rows
	TableNumber int
	UserChatID  int64
	UserName    string
	UserPhone   string

	StartTime time.Time
	EndTime   time.Time
	Status    ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expiration is a reservation moved to expired together with the status it
// had before. Only a confirmed one was holding its table.
type Expiration struct {
	Reservation    *Reservation
	PreviousStatus ReservationStatus
}

// HeldTable reports whether the expired reservation was holding its table.
func (e Expiration) HeldTable() bool {
	return e.PreviousStatus == StatusConfirmed
}

// Window returns the reserved time interval
func (r *Reservation) Window() TimeSlot {
	return TimeSlot{Start: r.StartTime, End: r.EndTime}
}

// IsActive returns true if the reservation is pending or confirmed
func (r *Reservation) IsActive() bool {
	return !r.Status.IsTerminal()
}

// CanBeConfirmed returns true if an approver may confirm the reservation
func (r *Reservation) CanBeConfirmed() bool {
	return r.Status == StatusPending
}

// CanBeCancelled returns true if the reservation may still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsOwnedBy returns true if chatID is the account that made the reservation
func (r *Reservation) IsOwnedBy(chatID int64) bool {
	return r.UserChatID == chatID
}

// IsDue returns true if the reservation window has ended at now
func (r *Reservation) IsDue(now time.Time) bool {
	return !r.EndTime.After(now)
}

// ReservationsFilter фильтр для получения списка бронирований
type ReservationsFilter struct {
	UserID   *int64             // Только бронирования пользователя (опционально)
	TableID  *int64             // Только бронирования стола (опционально)
	Status   *ReservationStatus // Фильтр по статусу (опционально)
	From     *time.Time         // Окно заканчивается после From (опционально)
	To       *time.Time         // Окно начинается до To (опционально)
	Statuses []ReservationStatus
}
