package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/internal/service/reservations/models"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	userRepo        UserRepository
	approvers       domain.ApproverSet
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	userRepo UserRepository,
	approvers domain.ApproverSet,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		approvers:       approvers,
		logger:          logger,
	}
}

// ListByUser возвращает бронирования пользователя чата.
// У незарегистрированного пользователя бронирований нет, это не ошибка.
func (s *Service) ListByUser(ctx context.Context, chatID int64) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByUser: chat=%d", chatID)

	user, err := s.userRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return models.FromDomainReservationList(nil), nil
		}
		s.logger.Error("ListByUser: failed to get user chat=%d: %v", chatID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %w", ErrInternal, err)
	}

	items, err := s.reservationRepo.List(ctx, domain.ReservationsFilter{UserID: &user.ID})
	if err != nil {
		s.logger.Error("ListByUser: repository error for chat=%d: %v", chatID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByUser: found %d reservations for chat=%d", len(items), chatID)
	return models.FromDomainReservationList(items), nil
}

// ListAll возвращает все бронирования. Доступно только администраторам.
func (s *Service) ListAll(ctx context.Context, req *models.ListAllRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListAll: actor=%d, status=%v", req.ActorChatID, req.Status)

	if !s.approvers.Contains(req.ActorChatID) {
		s.logger.Warn("ListAll: actor=%d is not an approver", req.ActorChatID)
		return nil, ErrAccessDenied
	}

	var filter domain.ReservationsFilter
	if req.Status != nil {
		status := domain.ReservationStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	items, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainReservationList(items), nil
}
