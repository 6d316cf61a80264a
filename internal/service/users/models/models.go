package models

import (
	"time"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// RegisterRequest запрос на регистрацию (повторная регистрация перезаписывает имя и телефон)
type RegisterRequest struct {
	ChatID int64  `json:"-"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// UserResponse ответ с данными пользователя
type UserResponse struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chatId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		ChatID:    u.ChatID,
		Name:      u.Name,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
