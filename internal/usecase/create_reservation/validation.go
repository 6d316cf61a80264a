package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ChatID == 0 {
		return fmt.Errorf("%w: chatID is required", ErrInvalidInput)
	}

	if req.TableNumber <= 0 {
		return fmt.Errorf("%w: tableNumber must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	return nil
}

// validateWindow проверяет, что окно непустое и не начинается в прошлом
func validateWindow(start, end, now time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWindow,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	if start.Before(now) {
		return fmt.Errorf("%w: start %s is in the past", ErrInvalidWindow, start.Format(time.RFC3339))
	}

	return nil
}

// validateHours проверяет, что окно целиком лежит в часах работы дня начала.
// Часы берутся в часовом поясе начала окна.
func validateHours(window domain.TimeSlot, settings *domain.Settings) error {
	openAt, err := settings.OpeningTime.On(window.Start)
	if err != nil {
		return fmt.Errorf("%w: opening time: %w", ErrInternal, err)
	}
	closeAt, err := settings.ClosingTime.On(window.Start)
	if err != nil {
		return fmt.Errorf("%w: closing time: %w", ErrInternal, err)
	}

	if window.Start.Before(openAt) || window.End.After(closeAt) {
		return fmt.Errorf("%w: %s not within %s-%s", ErrOutsideHours,
			window, settings.OpeningTime, settings.ClosingTime)
	}
	return nil
}
