package get_layout

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
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

// Handle GET /api/v1/tables/layout.png
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Рисуем в буфер, чтобы при ошибке отдать JSON, а не обрезанный PNG
	var buf bytes.Buffer
	if err := h.service.RenderLayout(r.Context(), &buf); err != nil {
		h.logger.Error("GET /tables/layout.png - Failed to render layout: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
