package transition_reservation

import (
	"time"

	transitionReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/transition_reservation"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string `json:"status"` // confirmed или cancelled
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	ID             int64  `json:"id"`
	TableNumber    int    `json:"tableNumber"`
	UserChatID     int64  `json:"userChatId"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionReservation.Response) *TransitionResponse {
	return &TransitionResponse{
		ID:             resp.ID,
		TableNumber:    resp.TableNumber,
		UserChatID:     resp.UserChatID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         resp.Status,
		PreviousStatus: resp.PreviousStatus,
	}
}
