package chatgateway

// Message тело запроса на отправку сообщения
type Message struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
