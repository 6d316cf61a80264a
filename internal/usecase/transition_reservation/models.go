package transition_reservation

import "time"

// Request модель запроса на смену статуса
type Request struct {
	ReservationID int64  // ID бронирования
	ActorChatID   int64  // Кто выполняет действие
	TargetStatus  string // confirmed или cancelled
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID             int64
	TableNumber    int
	UserChatID     int64
	StartTime      time.Time
	EndTime        time.Time
	Status         string
	PreviousStatus string
}
