package tables

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	tableRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/table"
	"github.com/m04kA/SMC-TableBooking/internal/service/tables/models"
)

// Service сервис для работы со столами
type Service struct {
	tableRepo TableRepository
	renderer  LayoutRenderer
	approvers domain.ApproverSet
	logger    Logger
}

// NewService создает новый экземпляр сервиса столов
func NewService(tableRepo TableRepository, renderer LayoutRenderer, approvers domain.ApproverSet, logger Logger) *Service {
	return &Service{
		tableRepo: tableRepo,
		renderer:  renderer,
		approvers: approvers,
		logger:    logger,
	}
}

// List возвращает все столы по возрастанию номера
func (s *Service) List(ctx context.Context) ([]models.TableResponse, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainTableList(tables), nil
}

// Seed создает отсутствующие столы из схемы зала. Существующие не меняются.
func (s *Service) Seed(ctx context.Context, numbers []int) (int64, error) {
	for _, n := range numbers {
		if n <= 0 {
			return 0, fmt.Errorf("%w: table number %d must be positive", ErrInvalidInput, n)
		}
	}

	created, err := s.tableRepo.EnsureNumbers(ctx, numbers)
	if err != nil {
		s.logger.Error("Seed: repository error: %v", err)
		return 0, fmt.Errorf("%w: Seed - repository error: %w", ErrInternal, err)
	}

	if created > 0 {
		s.logger.Info("Seed: created %d tables", created)
	}
	return created, nil
}

// SetAvailability вручную выводит стол из обслуживания или возвращает его.
// Доступно только администраторам.
func (s *Service) SetAvailability(ctx context.Context, req *models.SetAvailabilityRequest) (*models.TableResponse, error) {
	s.logger.Info("SetAvailability: table=%d, available=%t, actor=%d", req.Number, req.Available, req.ActorChatID)

	if !s.approvers.Contains(req.ActorChatID) {
		s.logger.Warn("SetAvailability: actor=%d is not an approver", req.ActorChatID)
		return nil, ErrAccessDenied
	}

	table, err := s.tableRepo.GetByNumber(ctx, req.Number)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("SetAvailability: table %d not found", req.Number)
			return nil, ErrTableNotFound
		}
		s.logger.Error("SetAvailability: failed to get table %d: %v", req.Number, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %w", ErrInternal, err)
	}

	if err := s.tableRepo.SetAvailability(ctx, table.ID, req.Available); err != nil {
		s.logger.Error("SetAvailability: failed to update table %d: %v", req.Number, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %w", ErrInternal, err)
	}

	table.IsAvailable = req.Available
	resp := models.FromDomainTable(table)
	return &resp, nil
}

// RenderLayout рисует схему зала в PNG с текущими флагами столов
func (s *Service) RenderLayout(ctx context.Context, w io.Writer) error {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		s.logger.Error("RenderLayout: repository error: %v", err)
		return fmt.Errorf("%w: RenderLayout - repository error: %w", ErrInternal, err)
	}

	availability := make(map[int]bool, len(tables))
	for _, t := range tables {
		availability[t.Number] = t.IsAvailable
	}

	if err := s.renderer.Render(w, availability); err != nil {
		s.logger.Error("RenderLayout: render failed: %v", err)
		return fmt.Errorf("%w: RenderLayout - render failed: %w", ErrInternal, err)
	}
	return nil
}
