package models

import "github.com/m04kA/SMC-TableBooking/internal/domain"

// SetAvailabilityRequest запрос на вывод стола из обслуживания или возврат в него
type SetAvailabilityRequest struct {
	ActorChatID int64 `json:"-"`
	Number      int   `json:"-"`
	Available   bool  `json:"available"`
}

// TableResponse ответ с данными стола
type TableResponse struct {
	Number    int  `json:"number"`
	Available bool `json:"available"`
}

// FromDomainTable конвертирует domain модель в DTO
func FromDomainTable(t *domain.Table) TableResponse {
	return TableResponse{Number: t.Number, Available: t.IsAvailable}
}

// FromDomainTableList конвертирует список столов
func FromDomainTableList(tables []*domain.Table) []TableResponse {
	result := make([]TableResponse, 0, len(tables))
	for _, t := range tables {
		result = append(result, FromDomainTable(t))
	}
	return result
}
