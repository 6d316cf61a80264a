package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TableBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidTableNumber = "некорректный номер стола"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgPastDate           = "дата уже прошла"
	msgTableNotFound      = "стол не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tables/{number}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || number <= 0 {
		h.logger.Warn("GET /tables/{number}/available-slots - Invalid table number: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTableNumber)
		return
	}

	// Без date берем сегодняшний день
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.ParseInLocation(domain.DateFormat, raw, time.Local)
		if err != nil {
			h.logger.Warn("GET /tables/{number}/available-slots - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		TableNumber: number,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidTableNumber)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrTableNotFound):
			handlers.RespondNotFound(w, msgTableNotFound)

		default:
			h.logger.Error("GET /tables/{number}/available-slots - Failed: table=%d, error=%v", number, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
