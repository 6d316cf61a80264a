package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/internal/service/users/models"
)

// Service сервис для работы с пользователями
type Service struct {
	userRepo  UserRepository
	approvers domain.ApproverSet
	logger    Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, approvers domain.ApproverSet, logger Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		approvers: approvers,
		logger:    logger,
	}
}

// Register регистрирует пользователя или обновляет его имя и телефон.
// Флаг is_admin выставляется по списку администраторов из конфигурации.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: chat=%d", req.ChatID)

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)

	if err := validateRegister(req.ChatID, name, phone); err != nil {
		s.logger.Warn("Register: validation failed for chat=%d: %v", req.ChatID, err)
		return nil, err
	}

	user, err := s.userRepo.Upsert(ctx, &domain.User{
		ChatID:  req.ChatID,
		Name:    name,
		Phone:   phone,
		IsAdmin: s.approvers.Contains(req.ChatID),
	})
	if err != nil {
		s.logger.Error("Register: repository error for chat=%d: %v", req.ChatID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Register: user id=%d saved for chat=%d, admin=%t", user.ID, user.ChatID, user.IsAdmin)
	return models.FromDomainUser(user), nil
}

// GetByChatID получает пользователя по ID чата
func (s *Service) GetByChatID(ctx context.Context, chatID int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("GetByChatID: chat=%d is not registered", chatID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetByChatID: repository error for chat=%d: %v", chatID, err)
		return nil, fmt.Errorf("%w: GetByChatID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

// ResetNonAdmins удаляет всех пользователей без прав администратора вместе с их бронированиями
func (s *Service) ResetNonAdmins(ctx context.Context) (int64, error) {
	deleted, err := s.userRepo.DeleteNonAdmins(ctx)
	if err != nil {
		s.logger.Error("ResetNonAdmins: repository error: %v", err)
		return 0, fmt.Errorf("%w: ResetNonAdmins - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ResetNonAdmins: deleted %d users", deleted)
	return deleted, nil
}

func validateRegister(chatID int64, name, phone string) error {
	if chatID == 0 {
		return fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxUserNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxUserNameLength)
	}
	if utf8.RuneCountInString(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phone is longer than %d characters", ErrInvalidInput, domain.MaxPhoneLength)
	}
	return nil
}
