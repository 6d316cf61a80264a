package transition_reservation_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/reservation"
	uc "github.com/m04kA/SMC-TableBooking/internal/usecase/transition_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

const (
	approverChatID = 1
	ownerChatID    = 1001
	strangerChatID = 1002
	tableID        = 10
)

type memStore struct {
	mu           sync.Mutex
	reservations map[int64]*domain.Reservation
	available    map[int64]bool
	locked       []int64
	failUpdate   error
}

func newMemStore(reservations ...*domain.Reservation) *memStore {
	s := &memStore{
		reservations: map[int64]*domain.Reservation{},
		available:    map[int64]bool{tableID: true},
	}
	for _, r := range reservations {
		s.reservations[r.ID] = r
	}
	return s
}

func (s *memStore) GetByIDForUpdate(_ context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	s.reservations[id].Status = status
	return nil
}

func (s *memStore) ListOverlapping(
	_ context.Context,
	table int64,
	window domain.TimeSlot,
	statuses []domain.ReservationStatus,
) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.TableID == table && slices.Contains(statuses, r.Status) && window.Overlaps(r.Window()) {
			cp := *r
			result = append(result, &cp)
		}
	}
	return result, nil
}

// tables отдает тот же memStore как репозиторий столов
type tables struct{ *memStore }

func (t tables) GetByIDForUpdate(_ context.Context, id int64) (*domain.Table, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked = append(t.locked, id)
	return &domain.Table{ID: id, IsAvailable: t.available[id]}, nil
}

func (s *memStore) SetAvailability(_ context.Context, id int64, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available[id] = available
	return nil
}

func (s *memStore) ReleaseIfIdle(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.TableID == id && r.Status == domain.StatusConfirmed {
			return false, nil
		}
	}
	changed := !s.available[id]
	s.available[id] = true
	return changed, nil
}

func (s *memStore) status(id int64) domain.ReservationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id].Status
}

func (s *memStore) tableAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available[tableID]
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sentMessage struct {
	to   int64 // 0 означает всех администраторов
	text string
}

type fakeNotifier struct {
	sent []sentMessage
}

func (n *fakeNotifier) NotifyApprovers(_ context.Context, text string) {
	n.sent = append(n.sent, sentMessage{text: text})
}

func (n *fakeNotifier) NotifyUser(_ context.Context, chatID int64, text string) {
	n.sent = append(n.sent, sentMessage{to: chatID, text: text})
}

func reservation(id int64, status domain.ReservationStatus) *domain.Reservation {
	start := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:          id,
		TableID:     tableID,
		TableNumber: 1,
		UserID:      7,
		UserChatID:  ownerChatID,
		UserName:    "Анна",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Status:      status,
	}
}

func newUseCase(store *memStore, n *fakeNotifier) *uc.UseCase {
	return uc.NewUseCase(store, tables{store}, directTx{}, n, domain.NewApproverSet(approverChatID), nil, logger.Nop())
}

func TestExecute_ApproverConfirmsPending(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))
	n := &fakeNotifier{}

	resp, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "pending", resp.PreviousStatus)
	assert.Equal(t, domain.StatusConfirmed, store.status(1))
	assert.False(t, store.tableAvailable())
	assert.Equal(t, []int64{tableID}, store.locked)
	require.Len(t, n.sent, 1)
	assert.Equal(t, int64(ownerChatID), n.sent[0].to)
}

func TestExecute_SecondOverlappingConfirmRejected(t *testing.T) {
	first := reservation(1, domain.StatusPending)
	second := reservation(2, domain.StatusPending)
	second.StartTime = first.StartTime.Add(time.Hour)
	second.EndTime = first.EndTime.Add(time.Hour)
	store := newMemStore(first, second)
	n := &fakeNotifier{}
	useCase := newUseCase(store, n)

	_, err := useCase.Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "confirmed",
	})
	require.NoError(t, err)

	_, err = useCase.Execute(t.Context(), &uc.Request{
		ReservationID: 2, ActorChatID: approverChatID, TargetStatus: "confirmed",
	})

	assert.ErrorIs(t, err, uc.ErrSlotTaken)
	assert.Equal(t, domain.StatusConfirmed, store.status(1))
	assert.Equal(t, domain.StatusPending, store.status(2))
	assert.Len(t, n.sent, 1)

	// отказ по второму окну не мешает его отмене
	_, err = useCase.Execute(t.Context(), &uc.Request{
		ReservationID: 2, ActorChatID: approverChatID, TargetStatus: "cancelled",
	})
	require.NoError(t, err)
	assert.False(t, store.tableAvailable())
}

func TestExecute_AdjacentConfirmAllowed(t *testing.T) {
	first := reservation(1, domain.StatusConfirmed)
	second := reservation(2, domain.StatusPending)
	second.StartTime = first.EndTime
	second.EndTime = first.EndTime.Add(time.Hour)
	store := newMemStore(first, second)
	store.available[tableID] = false

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ReservationID: 2, ActorChatID: approverChatID, TargetStatus: "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, store.status(2))
}

func TestExecute_CancelPendingKeepsTableOutOfService(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))
	store.available[tableID] = false

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: ownerChatID, TargetStatus: "cancelled",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, store.status(1))
	assert.False(t, store.tableAvailable())
}

func TestExecute_NonApproverNonOwnerCannotConfirm(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))
	n := &fakeNotifier{}

	_, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: strangerChatID, TargetStatus: "confirmed",
	})

	assert.ErrorIs(t, err, uc.ErrForbidden)
	assert.Equal(t, domain.StatusPending, store.status(1))
	assert.True(t, store.tableAvailable())
	assert.Empty(t, n.sent)
}

func TestExecute_OwnerCannotConfirm(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: ownerChatID, TargetStatus: "confirmed",
	})

	assert.ErrorIs(t, err, uc.ErrForbidden)
}

func TestExecute_OwnerCancelReleasesTable(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusConfirmed))
	store.available[tableID] = false
	n := &fakeNotifier{}

	resp, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: ownerChatID, TargetStatus: "cancelled",
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.True(t, store.tableAvailable())
	require.Len(t, n.sent, 1)
	assert.Zero(t, n.sent[0].to, "owner cancellation goes to approvers")
}

func TestExecute_NonOwnerCancelRejected(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusConfirmed))
	store.available[tableID] = false

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: strangerChatID, TargetStatus: "cancelled",
	})

	assert.ErrorIs(t, err, uc.ErrForbidden)
	assert.Equal(t, domain.StatusConfirmed, store.status(1))
	assert.False(t, store.tableAvailable())
}

func TestExecute_ApproverCancelNotifiesOwner(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))
	n := &fakeNotifier{}

	_, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "cancelled",
	})

	require.NoError(t, err)
	require.Len(t, n.sent, 1)
	assert.Equal(t, int64(ownerChatID), n.sent[0].to)
}

func TestExecute_CancelKeepsTableHeldByOtherConfirmed(t *testing.T) {
	other := reservation(2, domain.StatusConfirmed)
	other.StartTime = other.StartTime.Add(24 * time.Hour)
	other.EndTime = other.EndTime.Add(24 * time.Hour)
	store := newMemStore(reservation(1, domain.StatusConfirmed), other)
	store.available[tableID] = false

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "cancelled",
	})

	require.NoError(t, err)
	assert.False(t, store.tableAvailable())
}

func TestExecute_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.ReservationStatus
		target string
		actor  int64
	}{
		{"confirm confirmed", domain.StatusConfirmed, "confirmed", approverChatID},
		{"confirm cancelled", domain.StatusCancelled, "confirmed", approverChatID},
		{"cancel cancelled", domain.StatusCancelled, "cancelled", ownerChatID},
		{"cancel expired", domain.StatusExpired, "cancelled", approverChatID},
		{"back to pending", domain.StatusConfirmed, "pending", approverChatID},
		{"manual expire", domain.StatusPending, "expired", ownerChatID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(reservation(1, tt.from))
			n := &fakeNotifier{}

			_, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
				ReservationID: 1, ActorChatID: tt.actor, TargetStatus: tt.target,
			})

			assert.ErrorIs(t, err, uc.ErrInvalidTransition)
			assert.Equal(t, tt.from, store.status(1))
			assert.Empty(t, n.sent)
		})
	}
}

func TestExecute_ErrorOrder(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusCancelled))
	useCase := newUseCase(store, &fakeNotifier{})

	_, err := useCase.Execute(t.Context(), &uc.Request{ReservationID: 404, ActorChatID: strangerChatID, TargetStatus: "confirmed"})
	assert.ErrorIs(t, err, uc.ErrNotFound)

	// нет прав важнее недопустимого перехода
	_, err = useCase.Execute(t.Context(), &uc.Request{ReservationID: 1, ActorChatID: strangerChatID, TargetStatus: "confirmed"})
	assert.ErrorIs(t, err, uc.ErrForbidden)

	_, err = useCase.Execute(t.Context(), &uc.Request{ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "done"})
	assert.ErrorIs(t, err, uc.ErrInvalidInput)
}

func TestExecute_StoreFailureIsInternal(t *testing.T) {
	store := newMemStore(reservation(1, domain.StatusPending))
	store.failUpdate = errors.New("connection reset")
	n := &fakeNotifier{}

	_, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ReservationID: 1, ActorChatID: approverChatID, TargetStatus: "confirmed",
	})

	assert.ErrorIs(t, err, uc.ErrInternal)
	assert.Empty(t, n.sent)
}
