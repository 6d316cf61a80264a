package create_reservation

import "errors"

var (
	// ErrNotRegistered возвращается, когда пользователь чата не зарегистрирован
	ErrNotRegistered = errors.New("create_reservation: user is not registered")

	// ErrInvalidWindow возвращается, когда начало не раньше конца или уже прошло
	ErrInvalidWindow = errors.New("create_reservation: invalid time window")

	// ErrOutsideHours возвращается, когда окно выходит за часы работы
	ErrOutsideHours = errors.New("create_reservation: window is outside operating hours")

	// ErrTableNotFound возвращается, когда стола с таким номером нет
	ErrTableNotFound = errors.New("create_reservation: table not found")

	// ErrTableOutOfService возвращается, когда администратор снял стол с бронирования
	ErrTableOutOfService = errors.New("create_reservation: table is out of service")

	// ErrSlotUnavailable возвращается, когда окно пересекается с блокирующим бронированием
	ErrSlotUnavailable = errors.New("create_reservation: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
