package chatgateway

import "errors"

var (
	// ErrRecipientNotFound возвращается, когда шлюз не знает такого чата
	ErrRecipientNotFound = errors.New("chatgateway client: recipient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("chatgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("chatgateway client: invalid response")
)
