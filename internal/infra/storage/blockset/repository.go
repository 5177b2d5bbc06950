package blockset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Repository репозиторий для работы с ручными блокировками дня.
// Интервалы хранятся в канонической текстовой форме "HH:MM-HH:MM,...";
// декодирование через timerange — единственная точка, где допускаются
// legacy-формы записи.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDate получает набор блокировок на дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*domain.DayBlockSet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("block_date", "intervals", "version", "updated_at").
		From("day_blocks").
		Where(squirrel.Eq{"block_date": dateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	var (
		set           domain.DayBlockSet
		intervalsText string
		updatedAt     sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&set.Date,
		&intervalsText,
		&set.Version,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBlockSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - scan block set: %v", ErrScanRow, err)
	}

	intervals, err := timerange.ParseList(intervalsText)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - date=%s: %v", ErrCorruptIntervals,
			set.Date.Format(domain.DateFormat), err)
	}

	set.Intervals = intervals
	set.UpdatedAt = updatedAt.Time

	return &set, nil
}

// Put сохраняет набор блокировок условно по версии.
// expectedVersion = 0 означает вставку новой даты; существующая строка
// при этом не затирается, а возвращается ErrVersionConflict.
// Для expectedVersion > 0 выполняется условный UPDATE; несовпадение
// версии — ErrVersionConflict, отсутствие строки — ErrBlockSetNotFound.
func (r *Repository) Put(ctx context.Context, set *domain.DayBlockSet, expectedVersion int64) error {
	if expectedVersion == 0 {
		return r.insert(ctx, set)
	}
	return r.update(ctx, set, expectedVersion)
}

func (r *Repository) insert(ctx context.Context, set *domain.DayBlockSet) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("day_blocks").
		Columns("block_date", "intervals", "version").
		Values(dateOnly(set.Date), timerange.FormatList(set.Intervals), 1).
		Suffix("ON CONFLICT (block_date) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Put - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Put - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Put - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Дата появилась между чтением и записью
		return ErrVersionConflict
	}

	set.Version = 1
	return nil
}

func (r *Repository) update(ctx context.Context, set *domain.DayBlockSet, expectedVersion int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("day_blocks").
		Set("intervals", timerange.FormatList(set.Intervals)).
		Set("version", expectedVersion+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"block_date": dateOnly(set.Date),
			"version":    expectedVersion,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Put - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Put - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Put - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		exists, err := r.exists(ctx, executor, set.Date)
		if err != nil {
			return err
		}
		if !exists {
			return ErrBlockSetNotFound
		}
		return ErrVersionConflict
	}

	set.Version = expectedVersion + 1
	return nil
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, date time.Time) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("day_blocks").
		Where(squirrel.Eq{"block_date": dateOnly(date)}).
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

// dateOnly обнуляет время, чтобы сравнивать только даты
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
