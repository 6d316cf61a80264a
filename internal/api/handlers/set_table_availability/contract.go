package set_table_availability

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/service/tables/models"
)

type TableService interface {
	SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.TableResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
