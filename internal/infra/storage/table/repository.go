package table

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

// Repository репозиторий столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория столов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List возвращает все столы по возрастанию номера
func (r *Repository) List(ctx context.Context) ([]*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "number", "is_available").
		From("tables").
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	tables := make([]*domain.Table, 0)
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		tables = append(tables, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return tables, nil
}

// GetByNumber получает стол по номеру
func (r *Repository) GetByNumber(ctx context.Context, number int) (*domain.Table, error) {
	return r.get(ctx, "GetByNumber", squirrel.Eq{"number": number}, false)
}

// GetByNumberForUpdate получает стол по номеру и блокирует строку до конца транзакции.
// Блокировка строки стола сериализует создание бронирований даже когда
// пересекающихся бронирований еще нет.
func (r *Repository) GetByNumberForUpdate(ctx context.Context, number int) (*domain.Table, error) {
	return r.get(ctx, "GetByNumberForUpdate", squirrel.Eq{"number": number}, dbmetrics.IsInTransaction(ctx))
}

// GetByID получает стол по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	return r.get(ctx, "GetByID", squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate получает стол по ID и блокирует строку до конца транзакции.
// Все изменения флага доступности одного стола выполняются под этой блокировкой.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Table, error) {
	return r.get(ctx, "GetByIDForUpdate", squirrel.Eq{"id": id}, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, op string, where squirrel.Eq, lock bool) (*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id", "number", "is_available").
		From("tables").
		Where(where)
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	var t domain.Table
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Number, &t.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan table: %w", ErrScanRow, op, err)
	}

	return &t, nil
}

// SetAvailability меняет флаг доступности стола
func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tables").
		Set("is_available", available).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTableNotFound
	}

	return nil
}

// ReleaseIfIdle возвращает стол в доступные, если его не держит ни одно
// подтвержденное бронирование. Возвращает true, если флаг изменился.
func (r *Repository) ReleaseIfIdle(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tables").
		Set("is_available", true).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_available": false}).
		Where("NOT EXISTS (SELECT 1 FROM reservations WHERE table_id = ? AND status = ?)", id, string(domain.StatusConfirmed)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseIfIdle - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseIfIdle - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseIfIdle - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// EnsureNumbers создает отсутствующие столы с указанными номерами.
// Существующие столы не изменяются. Возвращает число созданных столов.
func (r *Repository) EnsureNumbers(ctx context.Context, numbers []int) (int64, error) {
	if len(numbers) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("tables").Columns("number", "is_available")
	for _, n := range numbers {
		builder = builder.Values(n, true)
	}

	query, args, err := builder.Suffix("ON CONFLICT (number) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureNumbers - build insert query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureNumbers - execute insert: %w", ErrExecQuery, err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureNumbers - get rows affected: %w", ErrExecQuery, err)
	}

	return created, nil
}
