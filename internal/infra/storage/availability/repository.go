package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pglock"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const (
	tableName = "availability_slots"

	pgUniqueViolation = "23505"

	lockNamespace = "availability"
)

var columns = []string{
	"id",
	"host_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_type",
	"name",
	"slot_id",
	"duration_minutes",
	"created_at",
	"updated_at",
}

// Filter условия выборки слотов хоста
type Filter struct {
	HostID   int64
	SlotType *string
	Day      *domain.Weekday
}

// Repository репозиторий опубликованных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockHost берёт транзакционную advisory-блокировку инвентаря хоста
// Сериализует все изменения слотов одного хоста, в том числе bulk-замену одного типа
func (r *Repository) LockHost(ctx context.Context, hostID int64) error {
	if err := pglock.AcquireXact(ctx, r.db, pglock.Key(lockNamespace, hostID)); err != nil {
		return fmt.Errorf("%w: LockHost: %v", ErrTransaction, err)
	}
	return nil
}

// LockHostShared разделяемая блокировка инвентаря хоста
// Бронирование держит её, пока проверяет окно, поэтому изменения слотов хоста ждут его фиксации
func (r *Repository) LockHostShared(ctx context.Context, hostID int64) error {
	if err := pglock.AcquireXactShared(ctx, r.db, pglock.Key(lockNamespace, hostID)); err != nil {
		return fmt.Errorf("%w: LockHostShared: %v", ErrTransaction, err)
	}
	return nil
}

// List возвращает слоты хоста в порядке добавления
func (r *Repository) List(ctx context.Context, filter Filter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"host_id": filter.HostID}).
		OrderBy("id ASC")

	if filter.SlotType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_type": *filter.SlotType})
	}
	if filter.Day != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": *filter.Day})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// FindByWindow ищет слот хоста по (day, start, end) независимо от типа
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) FindByWindow(ctx context.Context, hostID int64, day domain.Weekday, start, end types.TimeString) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"host_id":     hostID,
			"day_of_week": day,
			"start_time":  start,
			"end_time":    end,
		}).
		OrderBy("id ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByWindow - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByWindow - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// Create сохраняет один слот
func (r *Repository) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	created, err := r.CreateBatch(ctx, []*domain.AvailabilitySlot{slot})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateBatch сохраняет слоты одним INSERT
// Заполняет ID, CreatedAt и UpdatedAt у переданных слотов
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.AvailabilitySlot) ([]*domain.AvailabilitySlot, error) {
	if len(slots) == 0 {
		return slots, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(tableName).
		Columns(
			"host_id",
			"day_of_week",
			"start_time",
			"end_time",
			"slot_type",
			"name",
			"slot_id",
			"duration_minutes",
		)

	bySlotID := make(map[string]*domain.AvailabilitySlot, len(slots))
	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(
			slot.HostID,
			slot.DayOfWeek,
			slot.StartTime,
			slot.EndTime,
			slot.SlotType,
			slot.Name,
			slot.SlotID,
			slot.DurationMinutes,
		)
		bySlotID[slot.SlotID] = slot
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING slot_id, id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlot
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID string
		var id int64
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&slotID, &id, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - scan returning: %v", ErrScanRow, err)
		}
		if slot, ok := bySlotID[slotID]; ok {
			slot.ID = id
			slot.CreatedAt = createdAt.Time
			slot.UpdatedAt = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("%w: CreateBatch - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// UpdateType меняет тип существующего слота
func (r *Repository) UpdateType(ctx context.Context, id int64, slotType, name string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("slot_type", slotType).
		Set("name", name).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateType - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlot
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateType - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// DeleteByType удаляет все слоты типа, возвращает количество удалённых
func (r *Repository) DeleteByType(ctx context.Context, hostID int64, slotType string) (int64, error) {
	return r.delete(ctx, "DeleteByType", squirrel.Eq{"host_id": hostID, "slot_type": slotType})
}

// DeleteByDay удаляет все слоты дня недели, возвращает количество удалённых
func (r *Repository) DeleteByDay(ctx context.Context, hostID int64, day domain.Weekday) (int64, error) {
	return r.delete(ctx, "DeleteByDay", squirrel.Eq{"host_id": hostID, "day_of_week": day})
}

// DeleteBySlotID удаляет слот по его публичному идентификатору
func (r *Repository) DeleteBySlotID(ctx context.Context, hostID int64, slotID string) (int64, error) {
	return r.delete(ctx, "DeleteBySlotID", squirrel.Eq{"host_id": hostID, "slot_id": slotID})
}

func (r *Repository) delete(ctx context.Context, op string, where squirrel.Eq) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var slot domain.AvailabilitySlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.HostID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.SlotType,
		&slot.Name,
		&slot.SlotID,
		&slot.DurationMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
