package get_user_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	result, err := h.service.ListByUser(r.Context(), chatID)
	if err != nil {
		h.logger.Error("GET /users/me/reservations - Failed: chat_id=%d, error=%v", chatID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/me/reservations - chat_id=%d, count=%d", chatID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result.Reservations)
}
