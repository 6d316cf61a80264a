package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableBooking/pkg/psqlbuilder"
)

// selectColumns колонки бронирования вместе с номером стола и chat_id владельца
var selectColumns = []string{
	"r.id",
	"r.table_id",
	"t.number",
	"r.user_id",
	"u.chat_id",
	"u.name",
	"u.phone",
	"r.start_time",
	"r.end_time",
	"r.status",
	"r.created_at",
	"r.updated_at",
}

// Repository репозиторий для работы с бронированиями столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("reservations r").
		Join("tables t ON t.id = r.table_id").
		Join("users u ON u.id = r.user_id")
}

// Create создает бронирование. Проверка пересечений выполняется вызывающим
// кодом в той же транзакции.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns("table_id", "user_id", "start_time", "end_time", "status").
		Values(
			reservation.TableID,
			reservation.UserID,
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование и блокирует его строку до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := baseSelect().Where(squirrel.Eq{"r.id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE OF r")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return reservation, nil
}

// List получает бронирования по фильтру, отсортированные по времени начала
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := baseSelect()

	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"r.user_id": *filter.UserID})
	}
	if filter.TableID != nil {
		builder = builder.Where(squirrel.Eq{"r.table_id": *filter.TableID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"r.status": statusStrings(filter.Statuses)})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.Gt{"r.end_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"r.start_time": *filter.To})
	}

	query, args, err := builder.OrderBy("r.start_time ASC", "r.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListOverlapping получает бронирования стола в указанных статусах, пересекающие окно.
// Соседние интервалы (конец одного равен началу другого) не считаются пересечением.
func (r *Repository) ListOverlapping(
	ctx context.Context,
	tableID int64,
	window domain.TimeSlot,
	statuses []domain.ReservationStatus,
) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := baseSelect().
		Where(squirrel.Eq{"r.table_id": tableID}).
		Where(squirrel.Eq{"r.status": statusStrings(statuses)}).
		Where(squirrel.Lt{"r.start_time": window.End}).
		Where(squirrel.Gt{"r.end_time": window.Start}).
		OrderBy("r.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// HasConfirmed проверяет, есть ли у стола подтвержденное бронирование
func (r *Repository) HasConfirmed(ctx context.Context, tableID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{"table_id": tableID}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasConfirmed - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasConfirmed - scan row: %w", ErrScanRow, err)
	}
	return true, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ExpireDue переводит в expired все активные бронирования, закончившиеся к now.
// Строки сначала блокируются, чтобы вернуть статус, который был до истечения.
// Должен вызываться внутри транзакции.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) ([]domain.Expiration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectQuery, args, err := psqlbuilder.Select("id", "table_id", "user_id", "start_time", "end_time", "status").
		From("reservations").
		Where(squirrel.LtOrEq{"end_time": now}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	expired := make([]domain.Expiration, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		res := domain.Reservation{Status: domain.StatusExpired}
		var previous domain.ReservationStatus
		if err := rows.Scan(&res.ID, &res.TableID, &res.UserID, &res.StartTime, &res.EndTime, &previous); err != nil {
			return nil, fmt.Errorf("%w: ExpireDue - scan row: %w", ErrScanRow, err)
		}
		expired = append(expired, domain.Expiration{Reservation: &res, PreviousStatus: previous})
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - rows error: %w", ErrScanRow, err)
	}
	if len(ids) == 0 {
		return expired, nil
	}

	updateQuery, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - build update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, updateQuery, args...); err != nil {
		return nil, fmt.Errorf("%w: ExpireDue - execute update: %w", ErrExecQuery, err)
	}

	return expired, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.TableID,
		&res.TableNumber,
		&res.UserID,
		&res.UserChatID,
		&res.UserName,
		&res.UserPhone,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
