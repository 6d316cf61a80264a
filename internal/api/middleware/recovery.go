package middleware

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
)

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger gorillahandlers.RecoveryHandlerLogger) func(http.Handler) http.Handler {
	return gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(logger),
		gorillahandlers.PrintRecoveryStack(true),
	)
}
