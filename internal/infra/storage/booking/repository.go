package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pglock"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	tableName = "bookings"

	// pgExclusionViolation код ошибки PostgreSQL при нарушении EXCLUDE constraint
	pgExclusionViolation = "23P01"

	lockNamespace = "bookings"
)

var columns = []string{
	"id",
	"host_id",
	"guest_name",
	"guest_email",
	"start_at",
	"end_at",
	"calendar_event_id",
	"meet_link",
	"calendar_status",
	"calendar_attempts",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockHost берёт транзакционную advisory-блокировку бронирований хоста
// Все конкурентные транзакции бронирования одного хоста выстраиваются в очередь на этой блокировке.
// Должна вызываться внутри транзакции (см. txmanager)
func (r *Repository) LockHost(ctx context.Context, hostID int64) error {
	if err := pglock.AcquireXact(ctx, r.db, pglock.Key(lockNamespace, hostID)); err != nil {
		return fmt.Errorf("%w: LockHost: %v", ErrTransaction, err)
	}
	return nil
}

// Create создает новое бронирование
// Если интервал пересекается с существующим, возвращает ErrOverlap
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.CalendarStatus == "" {
		booking.CalendarStatus = domain.CalendarPending
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"host_id",
			"guest_name",
			"guest_email",
			"start_at",
			"end_at",
			"calendar_status",
		).
		Values(
			booking.HostID,
			booking.GuestName,
			booking.GuestEmail,
			booking.StartAt,
			booking.EndAt,
			booking.CalendarStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if isExclusionViolation(err) {
		return nil, ErrOverlap
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByHost возвращает бронирования хоста, отсортированные по времени начала
func (r *Repository) ListByHost(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"host_id": filter.HostID}).
		OrderBy("start_at ASC", "id ASC")

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"end_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHost - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHost - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListOverlapping возвращает бронирования хоста, пересекающиеся с [start, end)
// Условие пересечения полуоткрытых интервалов: start_at < end AND end_at > start
func (r *Repository) ListOverlapping(ctx context.Context, hostID int64, start, end time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"host_id": hostID}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// AttachCalendarEvent сохраняет данные созданного события календаря
func (r *Repository) AttachCalendarEvent(ctx context.Context, id int64, eventID string, meetLink *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("calendar_event_id", eventID).
		Set("meet_link", meetLink).
		Set("calendar_status", domain.CalendarCreated).
		Set("calendar_attempts", squirrel.Expr("calendar_attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachCalendarEvent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "AttachCalendarEvent", query, args)
}

// MarkCalendarFailed фиксирует неудачную попытку создания события
func (r *Repository) MarkCalendarFailed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("calendar_status", domain.CalendarFailed).
		Set("calendar_attempts", squirrel.Expr("calendar_attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCalendarFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkCalendarFailed", query, args)
}

// MarkCalendarSkipped помечает бронирование, для которого событие не создаётся
func (r *Repository) MarkCalendarSkipped(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("calendar_status", domain.CalendarSkipped).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCalendarSkipped - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "MarkCalendarSkipped", query, args)
}

// ClaimCalendarRetry забирает будущие бронирования, событие для которых нужно создать повторно:
// неудачные попытки и зависшие в pending дольше staleBefore.
// Забранные строки переводятся в pending, поэтому другой экземпляр сервиса их не увидит.
// Строки, заблокированные параллельным claim, пропускаются (SKIP LOCKED)
func (r *Repository) ClaimCalendarRetry(ctx context.Context, now time.Time, staleBefore time.Time, maxAttempts int, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	candidates, candidateArgs, err := squirrel.Select("id").
		From(tableName).
		Where(squirrel.Or{
			squirrel.Eq{"calendar_status": domain.CalendarFailed},
			squirrel.And{
				squirrel.Eq{"calendar_status": domain.CalendarPending},
				squirrel.Lt{"updated_at": staleBefore},
			},
		}).
		Where(squirrel.Lt{"calendar_attempts": maxAttempts}).
		Where(squirrel.Gt{"start_at": now}).
		OrderBy("start_at ASC").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimCalendarRetry - build select query: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("calendar_status", domain.CalendarPending).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("id IN ("+candidates+")", candidateArgs...)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimCalendarRetry - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ClaimCalendarRetry - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var eventID, meetLink sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.HostID,
		&booking.GuestName,
		&booking.GuestEmail,
		&booking.StartAt,
		&booking.EndAt,
		&eventID,
		&meetLink,
		&booking.CalendarStatus,
		&booking.CalendarAttempts,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if eventID.Valid {
		booking.CalendarEventID = &eventID.String
	}
	if meetLink.Valid {
		booking.MeetLink = &meetLink.String
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation
}
