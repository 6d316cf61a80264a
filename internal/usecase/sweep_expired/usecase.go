package sweep_expired

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// UseCase переводит закончившиеся бронирования в expired и освобождает столы
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет один прогон. Повторный вызов без изменений в данных
// ничего не меняет и возвращает Expired = 0.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := req.Now
	if now.IsZero() {
		now = uc.timeProvider.Now()
	}

	var (
		expired  int
		released []int64
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		due, err := uc.reservationRepo.ExpireDue(txCtx, now)
		if err != nil {
			return fmt.Errorf("%w: failed to expire reservations: %w", ErrInternal, err)
		}
		expired = len(due)

		// Стол держит только подтвержденное бронирование, истекший pending
		// не трогает флаг, выставленный администратором
		tableIDs := make([]int64, 0, len(due))
		for _, e := range due {
			if e.HeldTable() {
				tableIDs = append(tableIDs, e.Reservation.TableID)
			}
		}
		slices.Sort(tableIDs)
		tableIDs = slices.Compact(tableIDs)

		released = make([]int64, 0, len(tableIDs))
		for _, id := range tableIDs {
			if _, err := uc.tableRepo.GetByIDForUpdate(txCtx, id); err != nil {
				return fmt.Errorf("%w: failed to lock table %d: %w", ErrInternal, id, err)
			}
			changed, err := uc.tableRepo.ReleaseIfIdle(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: failed to release table %d: %w", ErrInternal, id, err)
			}
			if changed {
				released = append(released, id)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("SweepExpired: %v", err)
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return nil, err
	}

	if expired > 0 {
		uc.logger.Info("SweepExpired: expired=%d, released tables=%v", expired, released)
	}
	if uc.metrics != nil {
		uc.metrics.AddExpired(expired)
	}

	return &Response{
		Expired:        expired,
		ReleasedTables: released,
		Now:            now,
	}, nil
}
