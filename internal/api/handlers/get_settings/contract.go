package get_settings

import (
	"context"

	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
)

type SettingsService interface {
	Read(ctx context.Context, actorChatID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
