package update_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpdateRequest
	err error
}

func (f *fakeService) Update(_ context.Context, req *models.UpdateRequest) (*models.SettingsResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SettingsResponse{}, nil
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	r = r.WithContext(middleware.WithUserID(r.Context(), 1))
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func TestHandle(t *testing.T) {
	body := `{"openingTime":"10:00","closingTime":"23:00","slotDurationMinutes":60}`

	t.Run("ok", func(t *testing.T) {
		svc := &fakeService{}
		rec := doRequest(NewHandler(svc, logger.Nop()), body)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.got)
		assert.Equal(t, int64(1), svc.got.ActorChatID)
		assert.Equal(t, "10:00", string(svc.got.OpeningTime))
		assert.Equal(t, 60, svc.got.SlotDurationMinutes)
	})

	t.Run("forbidden", func(t *testing.T) {
		rec := doRequest(NewHandler(&fakeService{err: settings.ErrAccessDenied}, logger.Nop()), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := doRequest(NewHandler(&fakeService{err: settings.ErrInvalidInput}, logger.Nop()), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed time", func(t *testing.T) {
		svc := &fakeService{}
		rec := doRequest(NewHandler(svc, logger.Nop()), `{"openingTime":"25:99"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.got)
	})
}
