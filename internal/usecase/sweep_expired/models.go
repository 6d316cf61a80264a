package sweep_expired

import "time"

// Request модель запроса. Нулевой Now означает текущее время.
type Request struct {
	Now time.Time
}

// Response итог прогона
type Response struct {
	Expired        int     // Сколько бронирований переведено в expired
	ReleasedTables []int64 // ID столов, снова ставших доступными
	Now            time.Time
}
