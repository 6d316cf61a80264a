package models

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
)

// ListAllRequest запрос администратора на список всех бронирований
type ListAllRequest struct {
	ActorChatID int64
	Status      *string // Фильтр по статусу (опционально)
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID          int64     `json:"id"`
	TableNumber int       `json:"tableNumber"`
	UserChatID  int64     `json:"userChatId"`
	UserName    string    `json:"userName"`
	UserPhone   string    `json:"userPhone,omitempty"`
	Date        string    `json:"date"`  // "2025-06-10"
	Label       string    `json:"label"` // "15:00 - 17:00"
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		TableNumber: r.TableNumber,
		UserChatID:  r.UserChatID,
		UserName:    r.UserName,
		UserPhone:   r.UserPhone,
		Date:        r.StartTime.Format(domain.DateFormat),
		Label:       slots.Format(r.Window()),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список бронирований
func FromDomainReservationList(items []*domain.Reservation) *ReservationListResponse {
	result := make([]ReservationResponse, 0, len(items))
	for _, r := range items {
		result = append(result, FromDomainReservation(r))
	}
	return &ReservationListResponse{Reservations: result}
}
