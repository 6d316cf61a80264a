package sweep_expired

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TableBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TableBooking/internal/domain"
	sweepExpired "github.com/m04kA/SMC-TableBooking/internal/usecase/sweep_expired"
)

const msgForbidden = "доступно только администраторам"

// SweepResponse HTTP response model
type SweepResponse struct {
	Expired        int     `json:"expired"`
	ReleasedTables []int64 `json:"releasedTableIds"`
	Now            string  `json:"now"`
}

type Handler struct {
	useCase   SweepExpiredUseCase
	approvers domain.ApproverSet
	logger    Logger
}

func NewHandler(useCase SweepExpiredUseCase, approvers domain.ApproverSet, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		approvers: approvers,
		logger:    logger,
	}
}

// Handle POST /api/v1/admin/sweep
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "unauthorized")
		return
	}
	if !h.approvers.Contains(actorID) {
		h.logger.Warn("POST /admin/sweep - Forbidden: actor=%d", actorID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &sweepExpired.Request{})
	if err != nil {
		h.logger.Error("POST /admin/sweep - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/sweep - expired=%d by actor=%d", result.Expired, actorID)
	handlers.RespondJSON(w, http.StatusOK, SweepResponse{
		Expired:        result.Expired,
		ReleasedTables: result.ReleasedTables,
		Now:            result.Now.Format(time.RFC3339),
	})
}
