package notifier

import (
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

const displayDateFormat = "02.01.2006"

// NewReservationText сообщение администраторам о новой заявке
func NewReservationText(r *domain.Reservation) string {
	return fmt.Sprintf(
		"Новое бронирование #%d!\n\nПользователь: %s (%s)\nСтол: %d\nДата: %s\nВремя: %s",
		r.ID, r.UserName, phoneOrPlaceholder(r.UserPhone), r.TableNumber,
		r.StartTime.Format(displayDateFormat), r.Window().String(),
	)
}

// ConfirmedText сообщение владельцу о подтверждении
func ConfirmedText(r *domain.Reservation) string {
	return fmt.Sprintf(
		"Ваше бронирование подтверждено!\n\nСтол: %d\nДата: %s\nВремя: %s",
		r.TableNumber, r.StartTime.Format(displayDateFormat), r.Window().String(),
	)
}

// CancelledText сообщение владельцу об отмене администратором
func CancelledText(r *domain.Reservation) string {
	return fmt.Sprintf(
		"Ваше бронирование отменено!\n\nСтол: %d\nДата: %s\nВремя: %s",
		r.TableNumber, r.StartTime.Format(displayDateFormat), r.Window().String(),
	)
}

// CancelledByOwnerText сообщение администраторам об отмене пользователем
func CancelledByOwnerText(r *domain.Reservation) string {
	return fmt.Sprintf(
		"Бронирование #%d отменено пользователем!\nСтол: %d\nВремя: %s\nКлиент: %s (%s)",
		r.ID, r.TableNumber, r.Window().String(), r.UserName, phoneOrPlaceholder(r.UserPhone),
	)
}

func phoneOrPlaceholder(phone string) string {
	if phone == "" {
		return "нет телефона"
	}
	return phone
}
