package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
)

// Service сервис часов работы заведения
type Service struct {
	settingsRepo SettingsRepository
	txManager    TransactionManager
	defaults     *domain.Settings
	approvers    domain.ApproverSet
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек.
// defaults записываются в хранилище при первом обращении.
func NewService(
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	defaults *domain.Settings,
	approvers domain.ApproverSet,
	logger Logger,
) *Service {
	if defaults == nil {
		defaults = domain.DefaultSettings()
	}
	return &Service{
		settingsRepo: settingsRepo,
		txManager:    txManager,
		defaults:     defaults,
		approvers:    approvers,
		logger:       logger,
	}
}

// Get возвращает настройки, создавая строку со значениями по умолчанию при ее отсутствии.
// Создание идет в serializable транзакции, параллельные вызовы видят одну и ту же строку.
func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %w", ErrInternal, err)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, err := s.settingsRepo.CreateIfAbsent(txCtx, s.defaults)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("Get: settings created with defaults %s-%s/%d",
				s.defaults.OpeningTime, s.defaults.ClosingTime, s.defaults.SlotDurationMinutes)
		}

		current, err = s.settingsRepo.Get(txCtx)
		return err
	})
	if err != nil {
		s.logger.Error("Get: failed to create default settings: %v", err)
		return nil, fmt.Errorf("%w: Get - create defaults: %w", ErrInternal, err)
	}

	return current, nil
}

// Read возвращает настройки администратору
func (s *Service) Read(ctx context.Context, actorChatID int64) (*models.SettingsResponse, error) {
	if !s.approvers.Contains(actorChatID) {
		s.logger.Warn("Read: actor=%d is not an approver", actorChatID)
		return nil, ErrAccessDenied
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(current), nil
}

// Update меняет часы работы. Доступно только администраторам.
// Существующие бронирования не пересчитываются.
func (s *Service) Update(ctx context.Context, req *models.UpdateRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: actor=%d, %s-%s/%d",
		req.ActorChatID, req.OpeningTime, req.ClosingTime, req.SlotDurationMinutes)

	if !s.approvers.Contains(req.ActorChatID) {
		s.logger.Warn("Update: actor=%d is not an approver", req.ActorChatID)
		return nil, ErrAccessDenied
	}

	next := &domain.Settings{
		OpeningTime:         req.OpeningTime,
		ClosingTime:         req.ClosingTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}
	if err := next.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.settingsRepo.Upsert(ctx, next)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved")
	return models.FromDomainSettings(saved), nil
}
