package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса, ожидаются tableNumber, startTime и endTime в RFC 3339"
	msgNotRegistered      = "сначала зарегистрируйтесь"
	msgInvalidWindow      = "некорректное время: начало должно быть раньше конца и не в прошлом"
	msgTableNotFound      = "стол не найден"
	msgSlotUnavailable    = "выбранное время уже занято"
	msgOutsideHours       = "выбранное время вне часов работы"
	msgTableOutOfService  = "стол временно не принимает бронирования"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(chatID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrNotRegistered):
			h.logger.Warn("POST /reservations - Not registered: chat_id=%d", chatID)
			handlers.RespondForbidden(w, msgNotRegistered)

		case errors.Is(err, createReservation.ErrInvalidWindow):
			h.logger.Warn("POST /reservations - Invalid window: chat_id=%d", chatID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, createReservation.ErrOutsideHours):
			h.logger.Warn("POST /reservations - Outside hours: chat_id=%d", chatID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: chat_id=%d, error=%v", chatID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrTableNotFound):
			h.logger.Warn("POST /reservations - Table not found: table=%d", req.TableNumber)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, createReservation.ErrTableOutOfService):
			h.logger.Warn("POST /reservations - Table out of service: table=%d", req.TableNumber)
			handlers.RespondConflict(w, msgTableOutOfService)

		case errors.Is(err, createReservation.ErrSlotUnavailable):
			h.logger.Warn("POST /reservations - Slot unavailable: chat_id=%d, table=%d", chatID, req.TableNumber)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: chat_id=%d, table=%d, error=%v",
				chatID, req.TableNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, chat_id=%d, table=%d",
		result.ID, chatID, result.TableNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
