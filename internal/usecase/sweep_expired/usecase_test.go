package sweep_expired_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	uc "github.com/m04kA/SMC-TableBooking/internal/usecase/sweep_expired"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type memStore struct {
	reservations []*domain.Reservation
	available    map[int64]bool
	locked       []int64
	expireErr    error
}

func (s *memStore) ExpireDue(_ context.Context, now time.Time) ([]domain.Expiration, error) {
	if s.expireErr != nil {
		return nil, s.expireErr
	}
	due := make([]domain.Expiration, 0)
	for _, r := range s.reservations {
		if r.IsActive() && r.IsDue(now) {
			previous := r.Status
			r.Status = domain.StatusExpired
			cp := *r
			due = append(due, domain.Expiration{Reservation: &cp, PreviousStatus: previous})
		}
	}
	return due, nil
}

func (s *memStore) GetByIDForUpdate(_ context.Context, id int64) (*domain.Table, error) {
	s.locked = append(s.locked, id)
	return &domain.Table{ID: id, IsAvailable: s.available[id]}, nil
}

func (s *memStore) ReleaseIfIdle(_ context.Context, id int64) (bool, error) {
	for _, r := range s.reservations {
		if r.TableID == id && r.Status == domain.StatusConfirmed {
			return false, nil
		}
	}
	changed := !s.available[id]
	s.available[id] = true
	return changed, nil
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type expiredCounter struct{ total int }

func (c *expiredCounter) AddExpired(n int) { c.total += n }

var base = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func res(id, tableID int64, status domain.ReservationStatus, startOffset, endOffset time.Duration) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		TableID:   tableID,
		StartTime: base.Add(startOffset),
		EndTime:   base.Add(endOffset),
		Status:    status,
	}
}

func TestExecute_ExpiresDueAndReleasesTables(t *testing.T) {
	store := &memStore{
		reservations: []*domain.Reservation{
			res(1, 10, domain.StatusConfirmed, -3*time.Hour, -time.Hour),
			res(2, 10, domain.StatusPending, -2*time.Hour, 0),
			res(3, 20, domain.StatusConfirmed, -3*time.Hour, -2*time.Hour),
			res(4, 20, domain.StatusConfirmed, time.Hour, 2*time.Hour),
			res(5, 30, domain.StatusCancelled, -3*time.Hour, -2*time.Hour),
			res(6, 30, domain.StatusPending, time.Hour, 2*time.Hour),
		},
		available: map[int64]bool{10: false, 20: false, 30: true},
	}
	counter := &expiredCounter{}

	resp, err := uc.NewUseCase(store, store, directTx{}, counter, logger.Nop()).
		Execute(t.Context(), &uc.Request{Now: base})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Expired)
	assert.Equal(t, []int64{10}, resp.ReleasedTables)
	assert.True(t, store.available[10])
	assert.False(t, store.available[20], "table 20 still has a future confirmed reservation")
	assert.Equal(t, domain.StatusCancelled, store.reservations[4].Status)
	assert.Equal(t, domain.StatusPending, store.reservations[5].Status)
	assert.Equal(t, 3, counter.total)
}

func TestExecute_ExpiredPendingKeepsTableOutOfService(t *testing.T) {
	store := &memStore{
		reservations: []*domain.Reservation{
			res(1, 10, domain.StatusPending, -2*time.Hour, -time.Hour),
		},
		available: map[int64]bool{10: false},
	}

	resp, err := uc.NewUseCase(store, store, directTx{}, nil, logger.Nop()).
		Execute(t.Context(), &uc.Request{Now: base})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expired)
	assert.Empty(t, resp.ReleasedTables)
	assert.False(t, store.available[10], "table taken out of service must stay unavailable")
	assert.Empty(t, store.locked)
	assert.Equal(t, domain.StatusExpired, store.reservations[0].Status)
}

func TestExecute_LocksTableBeforeRelease(t *testing.T) {
	store := &memStore{
		reservations: []*domain.Reservation{
			res(1, 20, domain.StatusConfirmed, -3*time.Hour, -2*time.Hour),
			res(2, 10, domain.StatusConfirmed, -3*time.Hour, -time.Hour),
			res(3, 10, domain.StatusConfirmed, -2*time.Hour, -time.Hour),
		},
		available: map[int64]bool{10: false, 20: false},
	}

	resp, err := uc.NewUseCase(store, store, directTx{}, nil, logger.Nop()).
		Execute(t.Context(), &uc.Request{Now: base})

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, store.locked)
	assert.Equal(t, []int64{10, 20}, resp.ReleasedTables)
}

func TestExecute_Idempotent(t *testing.T) {
	store := &memStore{
		reservations: []*domain.Reservation{
			res(1, 10, domain.StatusConfirmed, -2*time.Hour, -time.Hour),
			res(2, 10, domain.StatusPending, -time.Hour, -30*time.Minute),
		},
		available: map[int64]bool{10: false},
	}
	useCase := uc.NewUseCase(store, store, directTx{}, nil, logger.Nop()).
		WithTimeProvider(fixedClock{now: base})

	first, err := useCase.Execute(t.Context(), &uc.Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Expired)
	assert.Equal(t, base, first.Now)

	second, err := useCase.Execute(t.Context(), &uc.Request{})
	require.NoError(t, err)
	assert.Zero(t, second.Expired)
	assert.Empty(t, second.ReleasedTables)
}

func TestExecute_EndEqualToNowIsDue(t *testing.T) {
	store := &memStore{
		reservations: []*domain.Reservation{res(1, 10, domain.StatusPending, -time.Hour, 0)},
		available:    map[int64]bool{10: true},
	}

	resp, err := uc.NewUseCase(store, store, directTx{}, nil, logger.Nop()).
		Execute(t.Context(), &uc.Request{Now: base})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expired)
}

func TestExecute_StoreFailure(t *testing.T) {
	store := &memStore{expireErr: errors.New("connection refused"), available: map[int64]bool{}}

	_, err := uc.NewUseCase(store, store, directTx{}, nil, logger.Nop()).
		Execute(t.Context(), &uc.Request{Now: base})

	assert.ErrorIs(t, err, uc.ErrInternal)
}
