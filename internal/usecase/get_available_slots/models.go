package get_available_slots

import "time"

// Request модель запроса на получение свободных окон
type Request struct {
	TableNumber int       // Номер стола
	Date        time.Time // День (время суток игнорируется)
}

// Response модель ответа со списком свободных окон
type Response struct {
	TableNumber    int
	TableAvailable bool // Флаг стола; false означает, что стол выведен из обслуживания
	Date           time.Time
	Slots          []Slot
}

// Slot свободное окно
type Slot struct {
	Start time.Time
	End   time.Time
	Label string // "15:00 - 17:00"
}
