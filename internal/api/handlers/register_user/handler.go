package register_user

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/service/users"
	"github.com/m04kA/SMC-TableBooking/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "укажите имя (до 100 символов) и телефон (до 32 символов)"
	msgNotRegistered      = "пользователь не зарегистрирован"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/users/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	chatID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	var req models.RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /users/me - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ChatID = chatID

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("PUT /users/me - Failed to register: chat_id=%d, error=%v", chatID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /users/me - User registered: chat_id=%d, id=%d", chatID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/users/me
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	chatID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}

	result, err := h.service.GetByChatID(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			handlers.RespondNotFound(w, msgNotRegistered)
			return
		}
		h.logger.Error("GET /users/me - Failed: chat_id=%d, error=%v", chatID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
