package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/psqlbuilder"
)

// Repository репозиторий пользователей чата
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert регистрирует пользователя или перезаписывает имя, телефон и признак
// администратора при повторной регистрации
func (r *Repository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("chat_id", "name", "phone", "is_admin").
		Values(user.ChatID, user.Name, user.Phone, user.IsAdmin).
		Suffix(`ON CONFLICT (chat_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			is_admin = EXCLUDED.is_admin,
			updated_at = now()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return user, nil
}

// GetByChatID получает пользователя по ID аккаунта в чате
func (r *Repository) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "chat_id", "name", "phone", "is_admin", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByChatID - build select query: %w", ErrBuildQuery, err)
	}

	var u domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.ChatID,
		&u.Name,
		&u.Phone,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByChatID - scan user: %w", ErrScanRow, err)
	}

	return &u, nil
}

// DeleteNonAdmins удаляет всех пользователей без прав администратора.
// Их бронирования удаляются каскадно. Возвращает число удаленных пользователей.
func (r *Repository) DeleteNonAdmins(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("users").
		Where(squirrel.Eq{"is_admin": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteNonAdmins - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteNonAdmins - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteNonAdmins - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}
