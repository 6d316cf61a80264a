package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ErrInvalidPolicy is returned for a blocking policy that would let two active
// reservations on one table overlap.
var ErrInvalidPolicy = errors.New("slots: invalid blocking policy")

// BlockingPolicy is the set of statuses that take part in overlap exclusion.
type BlockingPolicy map[domain.ReservationStatus]struct{}

// DefaultBlockingPolicy blocks on pending and confirmed reservations, so two
// users can never hold pending requests for the same window.
func DefaultBlockingPolicy() BlockingPolicy {
	return NewBlockingPolicy(domain.StatusPending, domain.StatusConfirmed)
}

func NewBlockingPolicy(statuses ...domain.ReservationStatus) BlockingPolicy {
	p := make(BlockingPolicy, len(statuses))
	for _, s := range statuses {
		p[s] = struct{}{}
	}
	return p
}

// ParseBlockingPolicy builds a policy from config values. Empty input gives the
// default policy. Only active statuses are allowed and both must block: without
// pending two users could hold overlapping requests on one table.
func ParseBlockingPolicy(values []string) (BlockingPolicy, error) {
	if len(values) == 0 {
		return DefaultBlockingPolicy(), nil
	}

	p := make(BlockingPolicy, len(values))
	for _, v := range values {
		status := domain.ReservationStatus(v)
		if status != domain.StatusPending && status != domain.StatusConfirmed {
			return nil, fmt.Errorf("%w: status %q cannot block", ErrInvalidPolicy, v)
		}
		p[status] = struct{}{}
	}
	for _, required := range domain.ActiveStatuses {
		if !p.Blocks(required) {
			return nil, fmt.Errorf("%w: %s must block", ErrInvalidPolicy, required)
		}
	}
	return p, nil
}

func (p BlockingPolicy) Blocks(status domain.ReservationStatus) bool {
	_, ok := p[status]
	return ok
}

// Statuses returns the blocking statuses in lifecycle order.
func (p BlockingPolicy) Statuses() []domain.ReservationStatus {
	result := make([]domain.ReservationStatus, 0, len(p))
	for _, s := range domain.AllStatuses {
		if p.Blocks(s) {
			result = append(result, s)
		}
	}
	return result
}

// IsAvailable reports whether window is free on table tableID. Reservations of
// other tables and reservations whose status the policy does not block are
// ignored. Adjacent windows do not conflict.
func IsAvailable(tableID int64, window domain.TimeSlot, reservations []*domain.Reservation, policy BlockingPolicy) bool {
	for _, r := range reservations {
		if r == nil || r.TableID != tableID || !policy.Blocks(r.Status) {
			continue
		}
		if window.Overlaps(r.Window()) {
			return false
		}
	}
	return true
}

// FreeSlots keeps the candidates that IsAvailable accepts.
func FreeSlots(tableID int64, candidates []domain.TimeSlot, reservations []*domain.Reservation, policy BlockingPolicy) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(candidates))
	for _, slot := range candidates {
		if IsAvailable(tableID, slot, reservations, policy) {
			result = append(result, slot)
		}
	}
	return result
}
