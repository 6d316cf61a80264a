package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	TableNumber int       `json:"tableNumber"`
	StartTime   time.Time `json:"startTime"` // RFC 3339
	EndTime     time.Time `json:"endTime"`   // RFC 3339
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID          int64  `json:"id"`
	TableNumber int    `json:"tableNumber"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(chatID int64) *createReservation.Request {
	return &createReservation.Request{
		ChatID:      chatID,
		TableNumber: r.TableNumber,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:          resp.ID,
		TableNumber: resp.TableNumber,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
