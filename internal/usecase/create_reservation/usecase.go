package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	tableRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/table"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/internal/service/notifier"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
)

// Результаты создания для метрик
const (
	resultCreated     = "created"
	resultUnavailable = "unavailable"
	resultRejected    = "rejected"
	resultFailed      = "failed"
)

// UseCase use case для создания бронирования стола
type UseCase struct {
	userRepo        UserRepository
	tableRepo       TableRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	locker          Locker
	notifier        Notifier
	settings        SettingsProvider
	policy          slots.BlockingPolicy
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	userRepo UserRepository,
	tableRepo TableRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	locker Locker,
	notifier Notifier,
	settings SettingsProvider,
	policy slots.BlockingPolicy,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		userRepo:        userRepo,
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		locker:          locker,
		notifier:        notifier,
		settings:        settings,
		policy:          policy,
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

// Execute создает бронирование в статусе pending.
// Повторная проверка доступности и вставка выполняются как одна сериализованная
// единица: блокировка по номеру стола, SERIALIZABLE транзакция и FOR UPDATE на строке стола.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: chat=%d, table=%d, window=%s",
		req.ChatID, req.TableNumber, domain.TimeSlot{Start: req.StartTime, End: req.EndTime})

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.record(resultRejected)
		return nil, err
	}

	// 2. Пользователь должен быть зарегистрирован
	user, err := uc.userRepo.GetByChatID(ctx, req.ChatID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: chat=%d is not registered", req.ChatID)
			uc.record(resultRejected)
			return nil, ErrNotRegistered
		}
		uc.logger.Error("CreateReservation: failed to get user chat=%d: %v", req.ChatID, err)
		uc.record(resultFailed)
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInternal, err)
	}

	// 3. Проверка окна
	if err := validateWindow(req.StartTime, req.EndTime, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		uc.record(resultRejected)
		return nil, err
	}

	window := domain.TimeSlot{Start: req.StartTime, End: req.EndTime}

	// 4. Окно должно лежать в часах работы
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get settings: %v", err)
		uc.record(resultFailed)
		return nil, fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
	}
	if err := validateHours(window, settings); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		if errors.Is(err, ErrOutsideHours) {
			uc.record(resultRejected)
		} else {
			uc.record(resultFailed)
		}
		return nil, err
	}

	// 5. Все создания на один стол проходят через одну блокировку
	unlock, err := uc.locker.Lock(ctx, lockKey(req.TableNumber))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to lock table=%d: %v", req.TableNumber, err)
		uc.record(resultFailed)
		return nil, fmt.Errorf("%w: failed to lock table: %w", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Reservation

	// 6. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		table, err := uc.tableRepo.GetByNumberForUpdate(txCtx, req.TableNumber)
		if err != nil {
			if errors.Is(err, tableRepo.ErrTableNotFound) {
				return ErrTableNotFound
			}
			return fmt.Errorf("%w: failed to get table: %w", ErrInternal, err)
		}

		// Снятый флаг без подтвержденных бронирований выставил администратор
		if !table.IsAvailable {
			held, err := uc.reservationRepo.HasConfirmed(txCtx, table.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to check table hold: %w", ErrInternal, err)
			}
			if !held {
				return ErrTableOutOfService
			}
		}

		existing, err := uc.reservationRepo.ListOverlapping(txCtx, table.ID, window, uc.policy.Statuses())
		if err != nil {
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		if !slots.IsAvailable(table.ID, window, existing, uc.policy) {
			return ErrSlotUnavailable
		}

		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			TableID:   table.ID,
			UserID:    user.ID,
			StartTime: window.Start,
			EndTime:   window.End,
			Status:    domain.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		created.TableNumber = table.Number
		created.UserChatID = user.ChatID
		created.UserName = user.Name
		created.UserPhone = user.Phone
		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrTableNotFound):
			uc.logger.Warn("CreateReservation: table=%d not found", req.TableNumber)
			uc.record(resultRejected)
		case errors.Is(err, ErrTableOutOfService):
			uc.logger.Warn("CreateReservation: table=%d is out of service", req.TableNumber)
			uc.record(resultUnavailable)
		case errors.Is(err, ErrSlotUnavailable):
			uc.logger.Warn("CreateReservation: table=%d window=%s is not available", req.TableNumber, window)
			uc.record(resultUnavailable)
		default:
			uc.logger.Error("CreateReservation: transaction failed: %v", err)
			uc.record(resultFailed)
			if !errors.Is(err, ErrInternal) {
				err = fmt.Errorf("%w: %w", ErrInternal, err)
			}
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d table=%d", result.ID, result.TableNumber)
	uc.record(resultCreated)

	// 7. Уведомления после фиксации, ошибки доставки не влияют на результат
	uc.notifier.NotifyApprovers(ctx, notifier.NewReservationText(result))

	return &Response{
		ID:          result.ID,
		TableNumber: result.TableNumber,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Status:      string(result.Status),
		CreatedAt:   result.CreatedAt,
	}, nil
}

func (uc *UseCase) record(result string) {
	if uc.metrics != nil {
		uc.metrics.IncReservation(result)
	}
}

func lockKey(tableNumber int) string {
	return "table:" + strconv.Itoa(tableNumber)
}
