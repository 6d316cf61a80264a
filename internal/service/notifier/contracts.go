package notifier

import "context"

// Sink доставляет текст одному получателю (chat ID)
type Sink interface {
	Send(ctx context.Context, recipientID int64, text string) error
}

// MetricsRecorder счетчик результатов доставки
type MetricsRecorder interface {
	IncNotification(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
