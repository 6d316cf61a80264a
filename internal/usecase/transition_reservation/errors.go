package transition_reservation

import "errors"

var (
	// ErrNotFound возвращается, когда бронирование не найдено
	ErrNotFound = errors.New("transition_reservation: reservation not found")

	// ErrForbidden возвращается, когда у пользователя нет прав на переход
	ErrForbidden = errors.New("transition_reservation: action is forbidden")

	// ErrInvalidTransition возвращается, когда из текущего статуса нельзя перейти в целевой
	ErrInvalidTransition = errors.New("transition_reservation: invalid status transition")

	// ErrSlotTaken возвращается, когда окно уже занято другим подтвержденным бронированием
	ErrSlotTaken = errors.New("transition_reservation: window is held by another confirmed reservation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_reservation: internal error")
)
