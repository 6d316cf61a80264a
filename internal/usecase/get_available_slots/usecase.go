package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	tableRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/table"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
)

// UseCase use case для получения свободных окон стола на день
type UseCase struct {
	tableRepo       TableRepository
	reservationRepo ReservationRepository
	settings        SettingsProvider
	policy          slots.BlockingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tableRepo TableRepository,
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	policy slots.BlockingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
		settings:        settings,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute строит сетку слотов по часам работы и убирает занятые.
// Результат только для показа: при создании бронирования проверка повторяется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: table=%d, date=%s", req.TableNumber, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	day := startOfDay(req.Date, now.Location())
	today := startOfDay(now, now.Location())
	if day.Before(today) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", day.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
	}

	// 2. Получаем стол
	table, err := uc.tableRepo.GetByNumber(ctx, req.TableNumber)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			uc.logger.Warn("GetAvailableSlots: table %d not found", req.TableNumber)
			return nil, ErrTableNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get table %d: %v", req.TableNumber, err)
		return nil, fmt.Errorf("%w: failed to get table: %w", ErrInternal, err)
	}

	// 3. Часы работы
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
	}

	// 4. Генерируем сетку; на сегодня скрываем уже начавшиеся слоты
	seq := slots.Generate(day, settings.OpeningTime, settings.ClosingTime, settings.SlotDurationMinutes)
	if day.Equal(today) {
		seq = slots.StartingAfter(seq, now)
	}
	candidates := slots.Collect(seq)

	// 5. Блокирующие бронирования стола за этот день
	from, to := day, day.AddDate(0, 0, 1)
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationsFilter{
		TableID:  &table.ID,
		From:     &from,
		To:       &to,
		Statuses: uc.policy.Statuses(),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
	}

	free := slots.FreeSlots(table.ID, candidates, reservations, uc.policy)

	result := make([]Slot, 0, len(free))
	for _, s := range free {
		result = append(result, Slot{Start: s.Start, End: s.End, Label: slots.Format(s)})
	}

	uc.logger.Info("GetAvailableSlots: table=%d, date=%s: %d of %d slots free",
		req.TableNumber, day.Format(domain.DateFormat), len(result), len(candidates))

	return &Response{
		TableNumber:    table.Number,
		TableAvailable: table.IsAvailable,
		Date:           day,
		Slots:          result,
	}, nil
}
