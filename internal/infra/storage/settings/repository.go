package settings

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

// Repository репозиторий настроек работы заведения.
// Таблица содержит не более одной строки с id = domain.SettingsID.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("opening_time", "closing_time", "slot_duration_minutes", "updated_at").
		From("settings").
		Where(squirrel.Eq{"id": domain.SettingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %w", ErrBuildQuery, err)
	}

	var s domain.Settings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.OpeningTime,
		&s.ClosingTime,
		&s.SlotDurationMinutes,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	return &s, nil
}

// CreateIfAbsent создает строку настроек, если ее еще нет.
// Возвращает true, если строка была создана этим вызовом.
func (r *Repository) CreateIfAbsent(ctx context.Context, s *domain.Settings) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("settings").
		Columns("id", "opening_time", "closing_time", "slot_duration_minutes").
		Values(domain.SettingsID, s.OpeningTime, s.ClosingTime, s.SlotDurationMinutes).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %w", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CreateIfAbsent - get rows affected: %w", ErrExecQuery, err)
	}

	return created > 0, nil
}

// Upsert сохраняет настройки, создавая строку при необходимости
func (r *Repository) Upsert(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("settings").
		Columns("id", "opening_time", "closing_time", "slot_duration_minutes").
		Values(domain.SettingsID, s.OpeningTime, s.ClosingTime, s.SlotDurationMinutes).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			updated_at = now()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}
