package tables

import (
	"context"
	"io"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	List(ctx context.Context) ([]*domain.Table, error)
	GetByNumber(ctx context.Context, number int) (*domain.Table, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	EnsureNumbers(ctx context.Context, numbers []int) (int64, error)
}

// LayoutRenderer рисует схему зала
type LayoutRenderer interface {
	Render(w io.Writer, availability map[int]bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
