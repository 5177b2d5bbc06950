package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Service сервис мутации ручных блокировок. Хранимый набор на дату
// всегда нормализован: интервалы попарно не пересекаются и не касаются.
// Записи условны по версии; один внутренний повтор при конфликте.
type Service struct {
	blocksetRepo BlockSetRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blocksetRepo BlockSetRepository, logger Logger) *Service {
	return &Service{
		blocksetRepo: blocksetRepo,
		logger:       logger,
	}
}

// DateResult результат применения операции к одной дате
type DateResult struct {
	Set *domain.DayBlockSet
	Err error
}

// Apply применяет операцию к набору блокировок одной даты.
// При конфликте версий перечитывает и повторяет один раз; второй
// конфликт подряд поднимается как ErrStaleWrite.
func (s *Service) Apply(ctx context.Context, date time.Time, op domain.BlockOperation, intervals []timerange.Interval) (*domain.DayBlockSet, error) {
	result, err := s.applyOnce(ctx, date, op, intervals)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, blocksetRepo.ErrVersionConflict) {
		return nil, err
	}

	s.logger.Warn("Apply: version conflict for date=%s, retrying once", date.Format(domain.DateFormat))

	result, err = s.applyOnce(ctx, date, op, intervals)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, blocksetRepo.ErrVersionConflict) {
		return nil, fmt.Errorf("%w: date=%s", ErrStaleWrite, date.Format(domain.DateFormat))
	}
	return nil, err
}

// ApplyRange применяет операцию независимо к каждой дате диапазона.
// Ошибка на одной дате не прерывает остальные: результат по каждой дате
// возвращается отдельно.
func (s *Service) ApplyRange(ctx context.Context, start, end time.Time, op domain.BlockOperation, intervals []timerange.Interval) (map[string]DateResult, error) {
	start = dateOnly(start)
	end = dateOnly(end)

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > domain.MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days, limit %d", ErrRangeTooWide, days, domain.MaxRangeDays)
	}

	results := make(map[string]DateResult, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		set, err := s.Apply(ctx, d, op, intervals)
		if err != nil {
			s.logger.Warn("ApplyRange: date=%s failed: %v", d.Format(domain.DateFormat), err)
		}
		results[d.Format(domain.DateFormat)] = DateResult{Set: set, Err: err}
	}

	return results, nil
}

func (s *Service) applyOnce(ctx context.Context, date time.Time, op domain.BlockOperation, intervals []timerange.Interval) (*domain.DayBlockSet, error) {
	// 1. Читаем текущий набор; отсутствие строки означает пустой набор
	// с нулевой версией
	current, err := s.blocksetRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, blocksetRepo.ErrBlockSetNotFound) {
		return nil, fmt.Errorf("%w: Apply - fetch current set: %v", ErrInternal, err)
	}

	var (
		stored          []timerange.Interval
		expectedVersion int64
	)
	if current != nil {
		stored = current.Intervals
		expectedVersion = current.Version
	}

	// 2. Вычисляем новый нормализованный набор
	var next []timerange.Interval
	switch op {
	case domain.BlockOpSet:
		next = timerange.Merge(intervals)
	case domain.BlockOpAdd:
		combined := make([]timerange.Interval, 0, len(stored)+len(intervals))
		combined = append(combined, stored...)
		combined = append(combined, intervals...)
		next = timerange.Merge(combined)
	case domain.BlockOpRemove:
		next = timerange.Subtract(stored, intervals)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, op)
	}

	// 3. Условная запись по прочитанной версии
	set := &domain.DayBlockSet{
		Date:      dateOnly(date),
		Intervals: next,
	}
	if err := s.blocksetRepo.Put(ctx, set, expectedVersion); err != nil {
		if errors.Is(err, blocksetRepo.ErrVersionConflict) || errors.Is(err, blocksetRepo.ErrBlockSetNotFound) {
			// Строка исчезла или версия ушла вперед между чтением и записью
			return nil, blocksetRepo.ErrVersionConflict
		}
		return nil, fmt.Errorf("%w: Apply - persist set: %v", ErrInternal, err)
	}

	return set, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
