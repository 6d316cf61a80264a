package reservations

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByChatID(ctx context.Context, chatID int64) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
