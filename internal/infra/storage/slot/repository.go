package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/TableBookingService/pkg/psqlbuilder"
	"github.com/m04kA/TableBookingService/pkg/types"
)

const table = "time_slots"

var columns = []string{
	"id",
	"slot_date",
	"slot_time",
	"start_instant",
	"capacity_tables",
	"duration_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий временных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertBatch вставляет слоты одним запросом.
// Уже существующие пары (slot_date, slot_time) пропускаются, возвращается число вставленных строк.
func (r *Repository) InsertBatch(ctx context.Context, slots []*domain.TimeSlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(table).
		Columns("slot_date", "slot_time", "start_instant", "capacity_tables", "duration_minutes", "is_active")
	for _, s := range slots {
		insert = insert.Values(s.Date, s.Time, s.StartInstant, s.CapacityTables, s.DurationMinutes, s.IsActive)
	}

	query, args, err := insert.Suffix("ON CONFLICT (slot_date, slot_time) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetByDate возвращает слоты даты сервиса, отсортированные по времени начала
func (r *Repository) GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"slot_date": date}).
		OrderBy("start_instant ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByStartInstant возвращает слот, начинающийся в указанный момент.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByStartInstant(ctx context.Context, instant time.Time) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"start_instant": instant.UTC()}).
		OrderBy("slot_date ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStartInstant - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStartInstant - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetOverlapping возвращает слоты, интервалы которых пересекают interval, в порядке начала.
// Внутри транзакции строки блокируются в этом же порядке, что исключает взаимные блокировки.
func (r *Repository) GetOverlapping(ctx context.Context, interval domain.Interval) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Lt{"start_instant": interval.End.UTC()}).
		Where(squirrel.Expr("start_instant + make_interval(mins => duration_minutes) > ?", interval.Start.UTC())).
		OrderBy("start_instant ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// SetActive включает или выключает слот даты сервиса
func (r *Repository) SetActive(ctx context.Context, date types.Date, slotTime types.TimeString, active bool) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_date": date, "slot_time": slotTime}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetActive - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var s domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.Time,
		&s.StartInstant,
		&s.CapacityTables,
		&s.DurationMinutes,
		&s.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartInstant = s.StartInstant.UTC()
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
