package create_reservation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	tableRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/table"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/internal/slots"
	uc "github.com/m04kA/SMC-TableBooking/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-TableBooking/pkg/keylock"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

// memStore хранит пользователей, столы и бронирования в памяти
type memStore struct {
	mu           sync.Mutex
	users        map[int64]*domain.User
	tables       map[int]*domain.Table
	reservations []*domain.Reservation
	nextID       int64
	listDelay    time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int64]*domain.User{
			1001: {ID: 1, ChatID: 1001, Name: "Анна", Phone: "+79990000000"},
			1002: {ID: 2, ChatID: 1002, Name: "Борис"},
		},
		tables: map[int]*domain.Table{
			1: {ID: 10, Number: 1, IsAvailable: true},
			2: {ID: 20, Number: 2, IsAvailable: true},
		},
	}
}

func (s *memStore) GetByChatID(_ context.Context, chatID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[chatID]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) GetByNumberForUpdate(_ context.Context, number int) (*domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[number]
	if !ok {
		return nil, tableRepo.ErrTableNotFound
	}
	return t, nil
}

func (s *memStore) ListOverlapping(_ context.Context, tableID int64, window domain.TimeSlot, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	s.mu.Lock()
	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.TableID == tableID && window.Overlaps(r.Window()) {
			for _, st := range statuses {
				if r.Status == st {
					result = append(result, r)
				}
			}
		}
	}
	delay := s.listDelay
	s.mu.Unlock()

	// widen the check-then-insert gap so missing serialization shows up
	time.Sleep(delay)
	return result, nil
}

func (s *memStore) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	s.reservations = append(s.reservations, r)
	return r, nil
}

func (s *memStore) HasConfirmed(_ context.Context, tableID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.TableID == tableID && r.Status == domain.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

type directTx struct{}

func (directTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *fakeNotifier) NotifyApprovers(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
}

type fixedSettings struct{ settings *domain.Settings }

func (f fixedSettings) Get(context.Context) (*domain.Settings, error) {
	return f.settings, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
}

func newUseCase(store *memStore, n *fakeNotifier) *uc.UseCase {
	return newUseCaseWithHours(store, n, domain.DefaultSettings())
}

func newUseCaseWithHours(store *memStore, n *fakeNotifier, settings *domain.Settings) *uc.UseCase {
	return uc.NewUseCase(store, store, store, directTx{}, keylock.New(), n,
		fixedSettings{settings: settings}, slots.DefaultBlockingPolicy(), nil, logger.Nop()).
		WithTimeProvider(fixedClock{now: now})
}

func TestExecute_CreatesPendingAndNotifies(t *testing.T) {
	store := newMemStore()
	n := &fakeNotifier{}

	resp, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ChatID:      1001,
		TableNumber: 1,
		StartTime:   at(18, 0),
		EndTime:     at(20, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 1, resp.TableNumber)
	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "Анна")
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  uc.Request
		want error
	}{
		{"not registered", uc.Request{ChatID: 9999, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0)}, uc.ErrNotRegistered},
		{"start equals end", uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(18, 0), EndTime: at(18, 0)}, uc.ErrInvalidWindow},
		{"start after end", uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(20, 0), EndTime: at(18, 0)}, uc.ErrInvalidWindow},
		{"start in the past", uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(11, 0), EndTime: at(13, 0)}, uc.ErrInvalidWindow},
		{"unknown table", uc.Request{ChatID: 1001, TableNumber: 99, StartTime: at(18, 0), EndTime: at(20, 0)}, uc.ErrTableNotFound},
		{"opens later", uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(14, 0), EndTime: at(16, 0)}, uc.ErrOutsideHours},
		{"ends after closing", uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(20, 0), EndTime: at(22, 0)}, uc.ErrOutsideHours},
		{"missing table number", uc.Request{ChatID: 1001, StartTime: at(18, 0), EndTime: at(20, 0)}, uc.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			n := &fakeNotifier{}

			_, err := newUseCase(store, n).Execute(t.Context(), &tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, store.count())
			assert.Empty(t, n.texts)
		})
	}
}

func TestExecute_TableOutOfService(t *testing.T) {
	store := newMemStore()
	store.tables[1].IsAvailable = false
	n := &fakeNotifier{}

	_, err := newUseCase(store, n).Execute(t.Context(), &uc.Request{
		ChatID: 1001, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0),
	})

	assert.ErrorIs(t, err, uc.ErrTableOutOfService)
	assert.Zero(t, store.count())
	assert.Empty(t, n.texts)
}

func TestExecute_HeldTableAcceptsOtherWindows(t *testing.T) {
	store := newMemStore()
	store.tables[1].IsAvailable = false
	store.reservations = append(store.reservations, &domain.Reservation{
		ID: 100, TableID: 10, UserID: 2, StartTime: at(15, 0), EndTime: at(17, 0), Status: domain.StatusConfirmed,
	})
	store.nextID = 100
	useCase := newUseCase(store, &fakeNotifier{})

	_, err := useCase.Execute(t.Context(), &uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0)})
	require.NoError(t, err)

	_, err = useCase.Execute(t.Context(), &uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(16, 0), EndTime: at(18, 0)})
	assert.ErrorIs(t, err, uc.ErrSlotUnavailable)
}

func TestExecute_ClosingAtMidnight(t *testing.T) {
	store := newMemStore()
	settings := &domain.Settings{OpeningTime: "18:00", ClosingTime: "24:00", SlotDurationMinutes: 120}

	_, err := newUseCaseWithHours(store, &fakeNotifier{}, settings).Execute(t.Context(), &uc.Request{
		ChatID: 1001, TableNumber: 1, StartTime: at(22, 0), EndTime: at(24, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.count())
}

func TestExecute_PendingBlocksOverlap(t *testing.T) {
	store := newMemStore()
	useCase := newUseCase(store, &fakeNotifier{})

	_, err := useCase.Execute(t.Context(), &uc.Request{ChatID: 1001, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0)})
	require.NoError(t, err)

	_, err = useCase.Execute(t.Context(), &uc.Request{ChatID: 1002, TableNumber: 1, StartTime: at(19, 0), EndTime: at(21, 0)})
	assert.ErrorIs(t, err, uc.ErrSlotUnavailable)

	// соседнее окно и другой стол доступны
	_, err = useCase.Execute(t.Context(), &uc.Request{ChatID: 1002, TableNumber: 1, StartTime: at(20, 0), EndTime: at(21, 0)})
	assert.NoError(t, err)
	_, err = useCase.Execute(t.Context(), &uc.Request{ChatID: 1002, TableNumber: 2, StartTime: at(18, 0), EndTime: at(20, 0)})
	assert.NoError(t, err)
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	store := newMemStore()
	store.reservations = append(store.reservations, &domain.Reservation{
		ID: 100, TableID: 10, UserID: 2, StartTime: at(18, 0), EndTime: at(20, 0), Status: domain.StatusCancelled,
	})
	store.nextID = 100

	_, err := newUseCase(store, &fakeNotifier{}).Execute(t.Context(), &uc.Request{
		ChatID: 1001, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0),
	})

	assert.NoError(t, err)
}

func TestExecute_ConcurrentSameWindowExactlyOneSucceeds(t *testing.T) {
	const workers = 25

	store := newMemStore()
	store.listDelay = time.Millisecond
	n := &fakeNotifier{}
	useCase := newUseCase(store, n)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		succeeded   int
		unavailable int
		other       []error
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			<-start

			_, err := useCase.Execute(context.Background(), &uc.Request{
				ChatID: chatID, TableNumber: 1, StartTime: at(18, 0), EndTime: at(20, 0),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, uc.ErrSlotUnavailable):
				unavailable++
			default:
				other = append(other, err)
			}
		}(int64(1001 + i%2))
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, unavailable)
	assert.Equal(t, 1, store.count())
	assert.Len(t, n.texts, 1)
}
