package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/TableBookingService/pkg/psqlbuilder"
	"github.com/m04kA/TableBookingService/pkg/types"
)

const (
	reservationsTable      = "reservations"
	reservationTablesTable = "reservation_tables"

	uniqueViolation     = "23505"
	claimConstraint     = "reservation_tables_claim_key"
	bookingIDConstraint = "reservations_booking_id_key"
)

var columns = []string{
	"id",
	"booking_id",
	"service_date",
	"slot_time",
	"start_instant",
	"duration_minutes",
	"party_size",
	"table_numbers",
	"customer_name",
	"customer_email",
	"customer_phone",
	"special_requests",
	"status",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований и занятых ими столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет бронирование и по строке reservation_tables на каждый стол.
// Должен вызываться внутри транзакции: вставка строк столов может нарушить
// частичный уникальный индекс, и тогда бронирование не должно остаться в базе.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(reservationsTable).
		Columns(
			"booking_id",
			"service_date",
			"slot_time",
			"start_instant",
			"duration_minutes",
			"party_size",
			"table_numbers",
			"customer_name",
			"customer_email",
			"customer_phone",
			"special_requests",
			"status",
		).
		Values(
			res.BookingID,
			res.ServiceDate,
			res.SlotTime,
			res.StartInstant.UTC(),
			res.DurationMinutes,
			res.PartySize,
			toInt64Array(res.TableNumbers),
			res.CustomerName,
			res.CustomerEmail,
			res.CustomerPhone,
			res.SpecialRequests,
			res.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	if len(res.TableNumbers) == 0 {
		return res, nil
	}

	insert := psqlbuilder.Insert(reservationTablesTable).
		Columns("reservation_id", "start_instant", "table_number")
	for _, t := range res.TableNumbers {
		insert = insert.Values(res.ID, res.StartInstant.UTC(), t)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build tables insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute tables insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByBookingID получает бронирование по публичному идентификатору
func (r *Repository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(reservationsTable).
		Where(squirrel.Eq{"booking_id": bookingID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetConfirmedInRange получает подтвержденные бронирования с началом в [from, to)
func (r *Repository) GetConfirmedInRange(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(reservationsTable).
		Where(squirrel.GtOrEq{"start_instant": from.UTC()}).
		Where(squirrel.Lt{"start_instant": to.UTC()}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		OrderBy("start_instant ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetByServiceDate получает все бронирования даты сервиса в любом статусе
func (r *Repository) GetByServiceDate(ctx context.Context, date types.Date) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(reservationsTable).
		Where(squirrel.Eq{"service_date": date}).
		OrderBy("start_instant ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByServiceDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ReservedTables возвращает отсортированные номера столов, занятых на момент instant
func (r *Repository) ReservedTables(ctx context.Context, instant time.Time) ([]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT rt.table_number").
		From(reservationTablesTable + " rt").
		Join(reservationsTable + " r ON r.id = rt.reservation_id").
		Where(squirrel.Eq{"rt.start_instant": instant.UTC()}).
		Where(squirrel.Eq{"rt.released": false}).
		Where(squirrel.Eq{"r.status": domain.StatusConfirmed}).
		OrderBy("rt.table_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReservedTables - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReservedTables - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tables := make([]int, 0)
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: ReservedTables - scan table_number: %v", ErrScanRow, err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReservedTables - rows error: %v", ErrScanRow, err)
	}

	return tables, nil
}

// UpdateStatus условно переводит бронирование из статуса from в статус to.
// Если текущий статус уже не from, возвращает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, bookingID string, from, to domain.ReservationStatus) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(reservationsTable).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "status": from})

	if to == domain.StatusCancelled {
		updateBuilder = updateBuilder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ReleaseTables освобождает столы бронирования, чтобы их можно было занять снова
func (r *Repository) ReleaseTables(ctx context.Context, reservationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(reservationTablesTable).
		Set("released", true).
		Where(squirrel.Eq{"reservation_id": reservationID, "released": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseTables - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseTables - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case claimConstraint:
		return fmt.Errorf("%w: %s", ErrTableAlreadyClaimed, pqErr.Detail)
	case bookingIDConstraint:
		return ErrDuplicateBookingID
	default:
		return nil
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var tables pq.Int64Array
	var specialRequests, status sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.BookingID,
		&res.ServiceDate,
		&res.SlotTime,
		&res.StartInstant,
		&res.DurationMinutes,
		&res.PartySize,
		&tables,
		&res.CustomerName,
		&res.CustomerEmail,
		&res.CustomerPhone,
		&specialRequests,
		&status,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.StartInstant = res.StartInstant.UTC()
	res.TableNumbers = fromInt64Array(tables)
	res.Status = domain.ReservationStatus(status.String)
	if specialRequests.Valid {
		res.SpecialRequests = &specialRequests.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		res.CancelledAt = &t
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func toInt64Array(tables []int) pq.Int64Array {
	result := make(pq.Int64Array, len(tables))
	for i, t := range tables {
		result[i] = int64(t)
	}
	return result
}

func fromInt64Array(tables pq.Int64Array) []int {
	result := make([]int, len(tables))
	for i, t := range tables {
		result[i] = int(t)
	}
	return result
}
