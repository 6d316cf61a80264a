package set_table_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/tables"
	"github.com/m04kA/SMC-TableBooking/internal/service/tables/models"
)

const (
	msgInvalidTableNumber = "некорректный номер стола"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgForbidden          = "доступно только администраторам"
	msgTableNotFound      = "стол не найден"
)

type Handler struct {
	service TableService
	logger  Logger
}

func NewHandler(service TableService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tables/{number}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || number <= 0 {
		handlers.RespondBadRequest(w, msgInvalidTableNumber)
		return
	}

	var req models.SetAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /tables/{number}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ActorChatID = actorID
	req.Number = number

	result, err := h.service.SetAvailability(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, tables.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, tables.ErrTableNotFound):
			handlers.RespondNotFound(w, msgTableNotFound)
		default:
			h.logger.Error("PATCH /tables/{number}/availability - Failed: table=%d, error=%v", number, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tables/{number}/availability - table=%d available=%t by actor=%d",
		number, result.Available, actorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
