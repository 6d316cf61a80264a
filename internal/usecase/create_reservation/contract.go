package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByChatID(ctx context.Context, chatID int64) (*domain.User, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	GetByNumberForUpdate(ctx context.Context, number int) (*domain.Table, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListOverlapping(ctx context.Context, tableID int64, window domain.TimeSlot, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	HasConfirmed(ctx context.Context, tableID int64) (bool, error)
}

// SettingsProvider отдает часы работы
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker сериализует создание бронирований на один стол (keylock или redislock)
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Notifier интерфейс рассылки уведомлений
type Notifier interface {
	NotifyApprovers(ctx context.Context, text string)
}

// MetricsRecorder счетчик результатов создания бронирований
type MetricsRecorder interface {
	IncReservation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
