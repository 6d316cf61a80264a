package transition_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest валидирует входные данные и разбирает целевой статус
func validateRequest(req *Request) (domain.ReservationStatus, error) {
	if req.ReservationID <= 0 {
		return "", fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.ActorChatID == 0 {
		return "", fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	target := domain.ReservationStatus(req.TargetStatus)
	if !target.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.TargetStatus)
	}

	return target, nil
}

// checkTransition проверяет права и допустимость перехода.
// Порядок проверок: сначала права (ErrForbidden), затем состояние (ErrInvalidTransition).
//
//	pending            -> confirmed  только администратор
//	pending, confirmed -> cancelled  администратор или владелец
//	pending, expired   -> недостижимы вручную
func checkTransition(r *domain.Reservation, target domain.ReservationStatus, isApprover, isOwner bool) error {
	switch target {
	case domain.StatusConfirmed:
		if !isApprover {
			return ErrForbidden
		}
		if !r.CanBeConfirmed() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
		}
	case domain.StatusCancelled:
		if !isApprover && !isOwner {
			return ErrForbidden
		}
		if !r.CanBeCancelled() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
		}
	default:
		if !isApprover && !isOwner {
			return ErrForbidden
		}
		return fmt.Errorf("%w: %s cannot be set manually", ErrInvalidTransition, target)
	}
	return nil
}
