package transition_reservation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-TableBooking/internal/service/notifier"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
)

// UseCase use case смены статуса бронирования (подтверждение и отмена)
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	txManager       TransactionManager
	notifier        Notifier
	approvers       domain.ApproverSet
	metrics         MetricsRecorder
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	txManager TransactionManager,
	notifier Notifier,
	approvers domain.ApproverSet,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		txManager:       txManager,
		notifier:        notifier,
		approvers:       approvers,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет переход. Статус бронирования и флаг стола меняются в одной
// транзакции при заблокированных строках бронирования и стола.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionReservation: id=%d, actor=%d, target=%s",
		req.ReservationID, req.ActorChatID, req.TargetStatus)

	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("TransitionReservation: validation failed: %v", err)
		return nil, err
	}

	isApprover := uc.approvers.Contains(req.ActorChatID)

	var (
		reservation *domain.Reservation
		previous    domain.ReservationStatus
	)

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		r, err := uc.reservationRepo.GetByIDForUpdate(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		if err := checkTransition(r, target, isApprover, r.IsOwnedBy(req.ActorChatID)); err != nil {
			return err
		}

		// Флаг стола меняется только под блокировкой строки стола
		if _, err := uc.tableRepo.GetByIDForUpdate(txCtx, r.TableID); err != nil {
			return fmt.Errorf("%w: failed to lock table: %w", ErrInternal, err)
		}

		if target == domain.StatusConfirmed {
			if err := uc.ensureWindowFree(txCtx, r); err != nil {
				return err
			}
		}

		if err := uc.reservationRepo.UpdateStatus(txCtx, r.ID, target); err != nil {
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		switch {
		case target == domain.StatusConfirmed:
			if err := uc.tableRepo.SetAvailability(txCtx, r.TableID, false); err != nil {
				return fmt.Errorf("%w: failed to hold table: %w", ErrInternal, err)
			}
		case r.Status == domain.StatusConfirmed:
			// отмена pending не трогает флаг, выставленный администратором
			if _, err := uc.tableRepo.ReleaseIfIdle(txCtx, r.TableID); err != nil {
				return fmt.Errorf("%w: failed to release table: %w", ErrInternal, err)
			}
		}

		previous = r.Status
		r.Status = target
		reservation = r
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			uc.logger.Warn("TransitionReservation: reservation id=%d not found", req.ReservationID)
		case errors.Is(err, ErrForbidden):
			uc.logger.Warn("TransitionReservation: actor=%d is not allowed to set %s on id=%d",
				req.ActorChatID, target, req.ReservationID)
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotTaken):
			uc.logger.Warn("TransitionReservation: id=%d: %v", req.ReservationID, err)
		default:
			uc.logger.Error("TransitionReservation: transaction failed for id=%d: %v", req.ReservationID, err)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: %w", ErrInternal, err)
			}
		}
		return nil, err
	}

	uc.logger.Info("TransitionReservation: id=%d %s -> %s", reservation.ID, previous, reservation.Status)
	if uc.metrics != nil {
		uc.metrics.IncTransition(string(target))
	}

	uc.notify(ctx, reservation, req.ActorChatID, isApprover)

	return &Response{
		ID:             reservation.ID,
		TableNumber:    reservation.TableNumber,
		UserChatID:     reservation.UserChatID,
		StartTime:      reservation.StartTime,
		EndTime:        reservation.EndTime,
		Status:         string(reservation.Status),
		PreviousStatus: string(previous),
	}, nil
}

// ensureWindowFree проверяет, что окно бронирования не пересекается с другими
// подтвержденными бронированиями того же стола
func (uc *UseCase) ensureWindowFree(ctx context.Context, r *domain.Reservation) error {
	confirmed := []domain.ReservationStatus{domain.StatusConfirmed}
	overlapping, err := uc.reservationRepo.ListOverlapping(ctx, r.TableID, r.Window(), confirmed)
	if err != nil {
		return fmt.Errorf("%w: failed to list overlapping reservations: %w", ErrInternal, err)
	}

	others := slices.DeleteFunc(overlapping, func(o *domain.Reservation) bool { return o.ID == r.ID })
	if !slots.IsAvailable(r.TableID, r.Window(), others, slots.NewBlockingPolicy(confirmed...)) {
		return fmt.Errorf("%w: id=%d, window %s", ErrSlotTaken, r.ID, r.Window())
	}
	return nil
}

// notify уведомляет противоположную сторону: владельца, если действовал
// администратор, и администраторов, если отменил сам владелец
func (uc *UseCase) notify(ctx context.Context, r *domain.Reservation, actor int64, isApprover bool) {
	switch r.Status {
	case domain.StatusConfirmed:
		uc.notifier.NotifyUser(ctx, r.UserChatID, notifier.ConfirmedText(r))
	case domain.StatusCancelled:
		if isApprover && !r.IsOwnedBy(actor) {
			uc.notifier.NotifyUser(ctx, r.UserChatID, notifier.CancelledText(r))
			return
		}
		uc.notifier.NotifyApprovers(ctx, notifier.CancelledByOwnerText(r))
	}
}
