package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TableBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TableNumber    int            `json:"tableNumber"`
	TableAvailable bool           `json:"tableAvailable"`
	Date           string         `json:"date"`
	Slots          []SlotResponse `json:"slots"`
}

// SlotResponse свободное окно
type SlotResponse struct {
	StartTime string `json:"startTime"` // RFC 3339, передается обратно в POST /reservations
	EndTime   string `json:"endTime"`
	Label     string `json:"label"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.Start.Format(time.RFC3339),
			EndTime:   s.End.Format(time.RFC3339),
			Label:     s.Label,
		})
	}

	return &AvailableSlotsResponse{
		TableNumber:    resp.TableNumber,
		TableAvailable: resp.TableAvailable,
		Date:           resp.Date.Format(domain.DateFormat),
		Slots:          slots,
	}
}
