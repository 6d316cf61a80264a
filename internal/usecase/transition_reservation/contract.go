package transition_reservation

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	ListOverlapping(ctx context.Context, tableID int64, window domain.TimeSlot, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Table, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	ReleaseIfIdle(ctx context.Context, id int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс рассылки уведомлений
type Notifier interface {
	NotifyApprovers(ctx context.Context, text string)
	NotifyUser(ctx context.Context, chatID int64, text string)
}

// MetricsRecorder счетчик выполненных переходов
type MetricsRecorder interface {
	IncTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
