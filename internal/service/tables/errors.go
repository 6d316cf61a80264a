package tables

import "errors"

var (
	// ErrTableNotFound возвращается, когда стола с таким номером нет
	ErrTableNotFound = errors.New("tables: table not found")

	// ErrAccessDenied возвращается, когда действие доступно только администраторам
	ErrAccessDenied = errors.New("tables: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("tables: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tables: internal error")
)
