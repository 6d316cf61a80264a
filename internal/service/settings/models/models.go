package models

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

// UpdateRequest запрос на изменение часов работы
type UpdateRequest struct {
	ActorChatID         int64            `json:"-"`
	OpeningTime         types.TimeString `json:"openingTime"`
	ClosingTime         types.TimeString `json:"closingTime"`
	SlotDurationMinutes int              `json:"slotDurationMinutes"`
}

// SettingsResponse ответ с часами работы
type SettingsResponse struct {
	OpeningTime         types.TimeString `json:"openingTime"`
	ClosingTime         types.TimeString `json:"closingTime"`
	SlotDurationMinutes int              `json:"slotDurationMinutes"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.Settings) *SettingsResponse {
	return &SettingsResponse{
		OpeningTime:         s.OpeningTime,
		ClosingTime:         s.ClosingTime,
		SlotDurationMinutes: s.SlotDurationMinutes,
		UpdatedAt:           s.UpdatedAt,
	}
}
