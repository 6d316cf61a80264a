package transition_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	transitionReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/transition_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStatus        = "статус должен быть confirmed или cancelled"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "недостаточно прав для этого действия"
	msgInvalidTransition    = "бронирование нельзя перевести в этот статус"
	msgSlotTaken            = "на это время стол уже подтвержден другому гостю"
)

type Handler struct {
	useCase TransitionReservationUseCase
	logger  Logger
}

func NewHandler(useCase TransitionReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionReservation.Request{
		ReservationID: reservationID,
		ActorChatID:   actorID,
		TargetStatus:  req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, transitionReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid input: id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, transitionReservation.ErrNotFound):
			h.logger.Warn("PATCH /reservations/{id}/status - Not found: id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionReservation.ErrForbidden):
			h.logger.Warn("PATCH /reservations/{id}/status - Forbidden: id=%d, actor=%d", reservationID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionReservation.ErrInvalidTransition):
			h.logger.Warn("PATCH /reservations/{id}/status - Invalid transition: id=%d, target=%s", reservationID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, transitionReservation.ErrSlotTaken):
			h.logger.Warn("PATCH /reservations/{id}/status - Window taken: id=%d", reservationID)
			handlers.RespondConflict(w, msgSlotTaken)

		default:
			h.logger.Error("PATCH /reservations/{id}/status - Failed: id=%d, actor=%d, error=%v",
				reservationID, actorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/status - id=%d %s -> %s by actor=%d",
		result.ID, result.PreviousStatus, result.Status, actorID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
