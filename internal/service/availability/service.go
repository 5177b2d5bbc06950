package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Service резолвер занятости. Собирает представление дня из трех
// источников: ручные блокировки, подтвержденные записи и оплаченные
// удержания. Источники не склеиваются между собой.
type Service struct {
	bookingRepo  BookingRepository
	blocksetRepo BlockSetRepository
	cache        DayViewCache
	logger       Logger
}

// NewService создает новый экземпляр резолвера занятости.
// cache может быть nil - кэширование в этом случае отключено.
func NewService(
	bookingRepo BookingRepository,
	blocksetRepo BlockSetRepository,
	cache DayViewCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		blocksetRepo: blocksetRepo,
		cache:        cache,
		logger:       logger,
	}
}

// ResolveDay собирает представление занятости на дату.
// Детерминировано для согласованного снимка источников; побочных
// эффектов, кроме заполнения кэша, не имеет.
func (s *Service) ResolveDay(ctx context.Context, date time.Time) (*DayView, error) {
	if s.cache != nil {
		var cached DayView
		hit, err := s.cache.GetDay(ctx, date, &cached)
		if err != nil {
			// Кэш не участвует в корректности, пересчитываем из хранилища
			s.logger.Warn("ResolveDay: cache read failed for date=%s: %v", formatDate(date), err)
		} else if hit {
			return &cached, nil
		}
	}

	view, err := s.resolveFromStore(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, date, view); err != nil {
			s.logger.Warn("ResolveDay: cache write failed for date=%s: %v", formatDate(date), err)
		}
	}

	return view, nil
}

// CheckSlot проверяет конкретный интервал против представления дня.
// Пересечения считаются строго (касание границами не мешает).
func (s *Service) CheckSlot(ctx context.Context, date time.Time, requested timerange.Interval) (*SlotCheck, error) {
	view, err := s.ResolveDay(ctx, date)
	if err != nil {
		return nil, err
	}

	check := &SlotCheck{}
	for i := range view.Entries {
		entry := &view.Entries[i]
		iv, err := entry.Interval()
		if err != nil {
			// Испорченная запись из кэша; хранилище таких не отдает
			s.logger.Warn("CheckSlot: dropping entry with malformed slot %q for date=%s: %v",
				entry.Slot, view.Date, err)
			continue
		}
		if !requested.StrictOverlaps(iv) {
			continue
		}
		switch entry.Source {
		case SourceManual:
			check.BlockedByManual = true
		case SourceScheduled, SourceHeld:
			check.HeldCount++
		}
	}

	return check, nil
}

// resolveFromStore пересобирает представление дня из хранилища
func (s *Service) resolveFromStore(ctx context.Context, date time.Time) (*DayView, error) {
	view := &DayView{
		Date:    formatDate(date),
		Entries: make([]Entry, 0),
	}

	// 1. Ручные блокировки
	blockSet, err := s.blocksetRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, blocksetRepo.ErrBlockSetNotFound) {
		s.logger.Error("ResolveDay: failed to fetch blocks for date=%s: %v", formatDate(date), err)
		return nil, fmt.Errorf("%w: ResolveDay - fetch blocks: %v", ErrInternal, err)
	}
	if blockSet != nil {
		for _, iv := range blockSet.Intervals {
			view.Entries = append(view.Entries, newEntry(SourceManual, iv, nil, nil))
		}
	}

	// 2. Подтвержденные записи с назначенным слотом
	scheduled, err := s.bookingRepo.ListScheduledByDate(ctx, date)
	if err != nil {
		s.logger.Error("ResolveDay: failed to fetch scheduled bookings for date=%s: %v", formatDate(date), err)
		return nil, fmt.Errorf("%w: ResolveDay - fetch scheduled bookings: %v", ErrInternal, err)
	}
	for _, b := range scheduled {
		if !b.CountsForAvailability() || b.ScheduledSlot == nil {
			continue
		}
		id := b.ID
		status := string(b.Status)
		view.Entries = append(view.Entries, newEntry(SourceScheduled, *b.ScheduledSlot, &id, &status))
	}

	// 3. Оплаченные удержания: pending-записи с оплатой и кандидатом priority=1.
	// Неоплаченные кандидаты в представление не попадают.
	holds, err := s.bookingRepo.ListHoldsByDate(ctx, date)
	if err != nil {
		s.logger.Error("ResolveDay: failed to fetch holds for date=%s: %v", formatDate(date), err)
		return nil, fmt.Errorf("%w: ResolveDay - fetch holds: %v", ErrInternal, err)
	}
	for _, b := range holds {
		if !b.IsHold() {
			continue
		}
		hold := b.PrimaryHold()
		id := b.ID
		status := string(b.Status)
		view.Entries = append(view.Entries, newEntry(SourceHeld, hold.Slot, &id, &status))
	}

	return view, nil
}

// InvalidateDate сбрасывает кэш представления на дату.
// Вызывается после любой мутации записей или блокировок на эту дату.
func (s *Service) InvalidateDate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		s.logger.Warn("InvalidateDate: cache invalidation failed for date=%s: %v", formatDate(date), err)
	}
}
