package users_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-TableBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TableBooking/internal/service/users"
	"github.com/m04kA/SMC-TableBooking/internal/service/users/models"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type memUsers struct {
	byChat map[int64]*domain.User
	nextID int64
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{byChat: map[int64]*domain.User{}}
}

func (m *memUsers) Upsert(_ context.Context, u *domain.User) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if existing, ok := m.byChat[u.ChatID]; ok {
		existing.Name, existing.Phone, existing.IsAdmin = u.Name, u.Phone, u.IsAdmin
		return existing, nil
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	m.byChat[u.ChatID] = &cp
	return &cp, nil
}

func (m *memUsers) GetByChatID(_ context.Context, chatID int64) (*domain.User, error) {
	u, ok := m.byChat[chatID]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) DeleteNonAdmins(context.Context) (int64, error) {
	var n int64
	for chatID, u := range m.byChat {
		if !u.IsAdmin {
			delete(m.byChat, chatID)
			n++
		}
	}
	return n, nil
}

func newService(repo *memUsers) *users.Service {
	return users.NewService(repo, domain.NewApproverSet(1), logger.Nop())
}

func TestRegister_CreatesAndOverwrites(t *testing.T) {
	repo := newMemUsers()
	svc := newService(repo)

	first, err := svc.Register(t.Context(), &models.RegisterRequest{ChatID: 42, Name: "  Анна ", Phone: "+7 999"})
	require.NoError(t, err)
	assert.Equal(t, "Анна", first.Name)
	assert.False(t, first.IsAdmin)

	second, err := svc.Register(t.Context(), &models.RegisterRequest{ChatID: 42, Name: "Анна К.", Phone: ""})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Анна К.", second.Name)
	assert.Len(t, repo.byChat, 1)
}

func TestRegister_ApproverGetsAdminFlag(t *testing.T) {
	resp, err := newService(newMemUsers()).Register(t.Context(), &models.RegisterRequest{ChatID: 1, Name: "Admin"})

	require.NoError(t, err)
	assert.True(t, resp.IsAdmin)
}

func TestRegister_Validation(t *testing.T) {
	svc := newService(newMemUsers())

	tests := []*models.RegisterRequest{
		{ChatID: 0, Name: "x"},
		{ChatID: 5, Name: "   "},
		{ChatID: 5, Name: strings.Repeat("я", domain.MaxUserNameLength+1)},
		{ChatID: 5, Name: "x", Phone: strings.Repeat("1", domain.MaxPhoneLength+1)},
	}
	for _, req := range tests {
		_, err := svc.Register(t.Context(), req)
		assert.ErrorIs(t, err, users.ErrInvalidInput)
	}
}

func TestRegister_RepositoryFailure(t *testing.T) {
	repo := newMemUsers()
	repo.err = errors.New("db down")

	_, err := newService(repo).Register(t.Context(), &models.RegisterRequest{ChatID: 5, Name: "x"})

	assert.ErrorIs(t, err, users.ErrInternal)
}

func TestGetByChatID_NotFound(t *testing.T) {
	_, err := newService(newMemUsers()).GetByChatID(t.Context(), 99)

	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestResetNonAdmins(t *testing.T) {
	repo := newMemUsers()
	svc := newService(repo)
	for _, id := range []int64{1, 2, 3} {
		_, err := svc.Register(t.Context(), &models.RegisterRequest{ChatID: id, Name: "u"})
		require.NoError(t, err)
	}

	deleted, err := svc.ResetNonAdmins(t.Context())

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	_, err = svc.GetByChatID(t.Context(), 1)
	assert.NoError(t, err)
}
