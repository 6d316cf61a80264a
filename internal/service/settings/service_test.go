package settings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings"
	"github.com/m04kA/SMC-TableBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/types"
)

type memSettings struct {
	mu      sync.Mutex
	current *domain.Settings
	creates int
}

func (m *memSettings) Get(context.Context) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	cp := *m.current
	return &cp, nil
}

func (m *memSettings) CreateIfAbsent(_ context.Context, s *domain.Settings) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return false, nil
	}
	cp := *s
	m.current = &cp
	m.creates++
	return true, nil
}

func (m *memSettings) Upsert(_ context.Context, s *domain.Settings) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.UpdatedAt = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	m.current = &cp
	return &cp, nil
}

// serialTx выполняет транзакции по одной, как serializable без конфликтов
type serialTx struct{ mu sync.Mutex }

func (tx *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return fn(ctx)
}

func newService(repo *memSettings) *settings.Service {
	return settings.NewService(repo, &serialTx{}, nil, domain.NewApproverSet(1), logger.Nop())
}

func TestGet_CreatesDefaultsOnce(t *testing.T) {
	repo := &memSettings{}
	svc := newService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.Get(context.Background())
			if assert.NoError(t, err) {
				assert.Equal(t, types.TimeString("15:00"), s.OpeningTime)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, repo.current.SlotDurationMinutes)
}

func TestGet_ReturnsExisting(t *testing.T) {
	repo := &memSettings{current: &domain.Settings{
		OpeningTime: "10:00", ClosingTime: "12:00", SlotDurationMinutes: 30,
	}}

	s, err := newService(repo).Get(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 30, s.SlotDurationMinutes)
	assert.Zero(t, repo.creates)
}

func TestRead_ApproverOnly(t *testing.T) {
	svc := newService(&memSettings{})

	_, err := svc.Read(t.Context(), 2)
	assert.ErrorIs(t, err, settings.ErrAccessDenied)

	resp, err := svc.Read(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("21:00"), resp.ClosingTime)
}

func TestUpdate(t *testing.T) {
	repo := &memSettings{}
	svc := newService(repo)

	_, err := svc.Update(t.Context(), &models.UpdateRequest{ActorChatID: 2, OpeningTime: "10:00", ClosingTime: "22:00", SlotDurationMinutes: 60})
	assert.ErrorIs(t, err, settings.ErrAccessDenied)

	_, err = svc.Update(t.Context(), &models.UpdateRequest{ActorChatID: 1, OpeningTime: "22:00", ClosingTime: "10:00", SlotDurationMinutes: 60})
	assert.ErrorIs(t, err, settings.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)

	_, err = svc.Update(t.Context(), &models.UpdateRequest{ActorChatID: 1, OpeningTime: "10:00", ClosingTime: "22:00", SlotDurationMinutes: 0})
	assert.ErrorIs(t, err, settings.ErrInvalidInput)

	resp, err := svc.Update(t.Context(), &models.UpdateRequest{ActorChatID: 1, OpeningTime: "10:00", ClosingTime: "22:00", SlotDurationMinutes: 60})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.OpeningTime)
	assert.Equal(t, 60, repo.current.SlotDurationMinutes)
}
