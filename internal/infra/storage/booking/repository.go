package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

var bookingColumns = []string{
	"id",
	"kind",
	"customer_id",
	"service_id",
	"plan_id",
	"item_ids",
	"category_id",
	"price",
	"status",
	"payment_state",
	"scheduled_date",
	"scheduled_slot",
	"assigned_staff_id",
	"notes",
	"report",
	"cancel_reason",
	"cancelled_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями (заявки и заказы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись вместе с её кандидатами расписания.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var scheduledSlot *string
	if b.ScheduledSlot != nil {
		s := b.ScheduledSlot.String()
		scheduledSlot = &s
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"kind",
			"customer_id",
			"service_id",
			"plan_id",
			"item_ids",
			"category_id",
			"price",
			"status",
			"payment_state",
			"scheduled_date",
			"scheduled_slot",
			"assigned_staff_id",
			"notes",
			"report",
			"version",
		).
		Values(
			b.Kind,
			b.CustomerID,
			b.ServiceID,
			b.PlanID,
			pq.Array(b.ItemIDs),
			b.CategoryID,
			b.Price,
			b.Status,
			b.PaymentState,
			b.ScheduledDate,
			scheduledSlot,
			b.AssignedStaffID,
			b.Notes,
			b.Report,
			1,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.Version = 1
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if len(b.Candidates) > 0 {
		if err := r.insertCandidates(ctx, executor, b.ID, b.Candidates); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// GetByID получает запись по ID вместе с кандидатами расписания
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: статус и расписание одной записи
	// изменяются взаимоисключающе
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("GetByID - %w", err)
	}

	candidates, err := r.getCandidates(ctx, executor, b.ID)
	if err != nil {
		return nil, err
	}
	b.Candidates = candidates

	return b, nil
}

// GetByCustomerID получает историю записей клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListScheduledByDate получает записи с подтверждённым слотом на дату.
// Отменённые и завершённые записи не занимают время и исключаются.
// Внутри транзакции добавляет FOR UPDATE для пересчёта занятости на коммите.
func (r *Repository) ListScheduledByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"scheduled_date": dateOnly(date)}).
		Where(squirrel.NotEq{"status": []string{
			string(domain.StatusCancelled),
			string(domain.StatusCompleted),
		}}).
		OrderBy("scheduled_slot ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ListHoldsByDate получает pending-записи с оплатой и приоритетным
// кандидатом на дату. Кандидат с priority=1 подгружается в Candidates.
func (r *Repository) ListHoldsByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	prefixed := make([]string, len(bookingColumns))
	for i, col := range bookingColumns {
		prefixed[i] = "b." + col
	}
	columns := append(prefixed, "c.slot_date", "c.slot", "c.priority")

	selectBuilder := psqlbuilder.Select(columns...).
		From("bookings b").
		Join("booking_candidates c ON c.booking_id = b.id").
		Where(squirrel.Eq{
			"b.status":        domain.StatusPending,
			"b.payment_state": domain.PaymentPaid,
			"c.priority":      1,
			"c.slot_date":     dateOnly(date),
		}).
		OrderBy("c.slot ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHoldsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHoldsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, candidate, err := scanBookingWithCandidate(rows)
		if err != nil {
			return nil, err
		}
		b.Candidates = []domain.SlotCandidate{*candidate}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHoldsByDate - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// CountCustomerOnDate подсчитывает записи клиента, созданные в указанную
// дату. Используется admission control; внутри сериализуемой транзакции
// счётчик перечитывается на коммите.
func (r *Repository) CountCustomerOnDate(ctx context.Context, filter domain.CustomerDayFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"customer_id": filter.CustomerID,
			"kind":        filter.Kind,
		}).
		Where(squirrel.Expr("created_at::date = ?", dateOnly(filter.Date)))

	if filter.PaymentState != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"payment_state": *filter.PaymentState})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountCustomerOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountCustomerOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateFields частичное обновление записи, условное по версии.
// Обновление проходит только если версия в БД равна expectedVersion;
// иначе возвращается ErrVersionConflict и вызывающий перечитывает запись.
func (r *Repository) UpdateFields(ctx context.Context, id int64, expectedVersion int64, upd UpdateFields) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("version", expectedVersion+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": expectedVersion})

	if upd.Status != nil {
		updateBuilder = updateBuilder.Set("status", *upd.Status)
	}
	if upd.PaymentState != nil {
		updateBuilder = updateBuilder.Set("payment_state", *upd.PaymentState)
	}
	if upd.ServiceID != nil {
		updateBuilder = updateBuilder.Set("service_id", *upd.ServiceID)
	}
	if upd.PlanID != nil {
		updateBuilder = updateBuilder.Set("plan_id", *upd.PlanID)
	}
	if upd.ItemIDs != nil {
		updateBuilder = updateBuilder.Set("item_ids", pq.Array(*upd.ItemIDs))
	}
	if upd.CategoryID != nil {
		updateBuilder = updateBuilder.Set("category_id", *upd.CategoryID)
	}
	if upd.Price != nil {
		updateBuilder = updateBuilder.Set("price", *upd.Price)
	}
	if upd.ScheduledDate != nil {
		updateBuilder = updateBuilder.Set("scheduled_date", *upd.ScheduledDate)
	}
	if upd.ScheduledSlot != nil {
		updateBuilder = updateBuilder.Set("scheduled_slot", (*upd.ScheduledSlot).String())
	}
	if upd.ClearSchedule {
		updateBuilder = updateBuilder.
			Set("scheduled_date", nil).
			Set("scheduled_slot", nil)
	}
	if upd.AssignedStaffID != nil {
		updateBuilder = updateBuilder.Set("assigned_staff_id", *upd.AssignedStaffID)
	}
	if upd.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *upd.Notes)
	}
	if upd.Report != nil {
		updateBuilder = updateBuilder.Set("report", *upd.Report)
	}
	if upd.CancelReason != nil {
		updateBuilder = updateBuilder.Set("cancel_reason", *upd.CancelReason)
	}
	if upd.CancelledAt != nil {
		updateBuilder = updateBuilder.Set("cancelled_at", *upd.CancelledAt)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateFields - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateFields - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateFields - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем отсутствие записи и конфликт версий
		exists, err := r.exists(ctx, executor, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrVersionConflict
	}

	return nil
}

// ReplaceCandidates заменяет кандидатов расписания записи.
// Вызывается внутри транзакции вместе с UpdateFields.
func (r *Repository) ReplaceCandidates(ctx context.Context, bookingID int64, candidates []domain.SlotCandidate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_candidates").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceCandidates - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceCandidates - execute delete: %v", ErrExecQuery, err)
	}

	if len(candidates) == 0 {
		return nil
	}

	return r.insertCandidates(ctx, executor, bookingID, candidates)
}

// UpdateFields набор частичных изменений записи. Nil-поля не трогаются.
type UpdateFields struct {
	Status       *domain.BookingStatus
	PaymentState *domain.PaymentState

	ServiceID  **int64
	PlanID     **int64
	ItemIDs    *[]int64
	CategoryID **int64
	Price      *float64

	ScheduledDate *time.Time
	ScheduledSlot *timerange.Interval
	// ClearSchedule сбрасывает подтверждённый слот (откат в pending)
	ClearSchedule bool

	AssignedStaffID **int64

	Notes  **string
	Report **string

	CancelReason *string
	CancelledAt  *time.Time
}

// Вспомогательные методы

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

func (r *Repository) insertCandidates(ctx context.Context, executor DBExecutor, bookingID int64, candidates []domain.SlotCandidate) error {
	insertBuilder := psqlbuilder.Insert("booking_candidates").
		Columns("booking_id", "slot_date", "slot", "priority")

	for _, c := range candidates {
		insertBuilder = insertBuilder.Values(bookingID, dateOnly(c.Date), c.Slot.String(), c.Priority)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertCandidates - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertCandidates - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getCandidates(ctx context.Context, executor DBExecutor, bookingID int64) ([]domain.SlotCandidate, error) {
	query, args, err := psqlbuilder.Select("slot_date", "slot", "priority").
		From("booking_candidates").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("priority ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	candidates := make([]domain.SlotCandidate, 0)
	for rows.Next() {
		var (
			slotDate time.Time
			slotText string
			priority int
		)
		if err := rows.Scan(&slotDate, &slotText, &priority); err != nil {
			return nil, fmt.Errorf("%w: getCandidates - scan row: %v", ErrScanRow, err)
		}

		slot, err := timerange.Parse(slotText)
		if err != nil {
			return nil, fmt.Errorf("%w: getCandidates - booking id=%d: %v", ErrCorruptSlot, bookingID, err)
		}

		candidates = append(candidates, domain.SlotCandidate{Date: slotDate, Slot: slot, Priority: priority})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getCandidates - rows error: %v", ErrScanRow, err)
	}

	return candidates, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b             domain.Booking
		itemIDs       pq.Int64Array
		scheduledSlot sql.NullString
		scheduledDate sql.NullTime
		cancelledAt   sql.NullTime
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.Kind,
		&b.CustomerID,
		&b.ServiceID,
		&b.PlanID,
		&itemIDs,
		&b.CategoryID,
		&b.Price,
		&b.Status,
		&b.PaymentState,
		&scheduledDate,
		&scheduledSlot,
		&b.AssignedStaffID,
		&b.Notes,
		&b.Report,
		&b.CancelReason,
		&cancelledAt,
		&b.Version,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan booking: %v", ErrScanRow, err)
	}

	b.ItemIDs = []int64(itemIDs)
	if scheduledDate.Valid {
		d := scheduledDate.Time
		b.ScheduledDate = &d
	}
	if scheduledSlot.Valid {
		slot, err := timerange.Parse(scheduledSlot.String)
		if err != nil {
			return nil, fmt.Errorf("%w: booking id=%d: %v", ErrCorruptSlot, b.ID, err)
		}
		b.ScheduledSlot = &slot
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanBookings - %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func scanBookingWithCandidate(rows *sql.Rows) (*domain.Booking, *domain.SlotCandidate, error) {
	var (
		b             domain.Booking
		itemIDs       pq.Int64Array
		scheduledSlot sql.NullString
		scheduledDate sql.NullTime
		cancelledAt   sql.NullTime
		createdAt     sql.NullTime
		updatedAt     sql.NullTime

		candDate time.Time
		candSlot string
		candPrio int
	)

	err := rows.Scan(
		&b.ID,
		&b.Kind,
		&b.CustomerID,
		&b.ServiceID,
		&b.PlanID,
		&itemIDs,
		&b.CategoryID,
		&b.Price,
		&b.Status,
		&b.PaymentState,
		&scheduledDate,
		&scheduledSlot,
		&b.AssignedStaffID,
		&b.Notes,
		&b.Report,
		&b.CancelReason,
		&cancelledAt,
		&b.Version,
		&createdAt,
		&updatedAt,
		&candDate,
		&candSlot,
		&candPrio,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: scan booking with candidate: %v", ErrScanRow, err)
	}

	b.ItemIDs = []int64(itemIDs)
	if scheduledDate.Valid {
		d := scheduledDate.Time
		b.ScheduledDate = &d
	}
	if scheduledSlot.Valid {
		slot, err := timerange.Parse(scheduledSlot.String)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: booking id=%d: %v", ErrCorruptSlot, b.ID, err)
		}
		b.ScheduledSlot = &slot
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	slot, err := timerange.Parse(candSlot)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: booking id=%d candidate: %v", ErrCorruptSlot, b.ID, err)
	}

	return &b, &domain.SlotCandidate{Date: candDate, Slot: slot, Priority: candPrio}, nil
}

// dateOnly обнуляет время, чтобы сравнивать только даты
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
