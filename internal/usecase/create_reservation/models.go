package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	ChatID      int64     // ID аккаунта пользователя в чате
	TableNumber int       // Номер стола
	StartTime   time.Time // Начало окна
	EndTime     time.Time // Конец окна (не включительно)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	TableNumber int
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	CreatedAt   time.Time
}
