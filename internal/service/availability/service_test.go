package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListScheduledByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListHoldsByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockBlockSetRepo struct {
	mock.Mock
}

func (m *mockBlockSetRepo) GetByDate(ctx context.Context, date time.Time) (*domain.DayBlockSet, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBlockSet), args.Error(1)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func mustInterval(t *testing.T, s string) timerange.Interval {
	t.Helper()
	iv, err := timerange.Parse(s)
	require.NoError(t, err)
	return iv
}

func paidHold(t *testing.T, id int64, date time.Time, slot string) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		ID:           id,
		Kind:         domain.KindAppointment,
		Status:       domain.StatusPending,
		PaymentState: domain.PaymentPaid,
		Candidates: []domain.SlotCandidate{
			{Date: date, Slot: mustInterval(t, slot), Priority: 1},
		},
	}
}

func scheduledBooking(t *testing.T, id int64, date time.Time, slot string) *domain.Booking {
	t.Helper()
	iv := mustInterval(t, slot)
	return &domain.Booking{
		ID:            id,
		Kind:          domain.KindAppointment,
		Status:        domain.StatusScheduled,
		PaymentState:  domain.PaymentPaid,
		ScheduledDate: &date,
		ScheduledSlot: &iv,
	}
}

func TestResolveDay_TagSeparation(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: []timerange.Interval{mustInterval(t, "12:00-13:00")},
		Version:   1,
	}, nil)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{
		scheduledBooking(t, 10, date, "09:00-09:30"),
	}, nil)
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{
		paidHold(t, 20, date, "09:00-09:30"),
	}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	view, err := svc.ResolveDay(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, view.Entries, 3)

	// Записи с разными источниками не склеиваются, даже на одном слоте
	sources := map[string]int{}
	for _, e := range view.Entries {
		sources[e.Source]++
	}
	assert.Equal(t, 1, sources[SourceManual])
	assert.Equal(t, 1, sources[SourceScheduled])
	assert.Equal(t, 1, sources[SourceHeld])

	for _, e := range view.Entries {
		switch e.Source {
		case SourceManual:
			assert.Nil(t, e.BookingID)
			assert.Equal(t, "12:00-13:00", e.Slot)
		case SourceScheduled:
			require.NotNil(t, e.BookingID)
			assert.Equal(t, int64(10), *e.BookingID)
			assert.Equal(t, "scheduled", *e.Status)
		case SourceHeld:
			require.NotNil(t, e.BookingID)
			assert.Equal(t, int64(20), *e.BookingID)
			assert.Equal(t, "pending", *e.Status)
		}
	}
}

func TestResolveDay_NoBlocksStored(t *testing.T) {
	date := time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC)

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	view, err := svc.ResolveDay(context.Background(), date)
	require.NoError(t, err)
	assert.Empty(t, view.Entries)
}

func TestCheckSlot_HeldCountIsACount(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)
	// Два независимых оплаченных удержания на одном слоте
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{
		paidHold(t, 1, date, "09:00-09:30"),
		paidHold(t, 2, date, "09:00-09:30"),
	}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	check, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:00-09:30"))
	require.NoError(t, err)
	assert.Equal(t, 2, check.HeldCount)
	assert.False(t, check.BlockedByManual)
}

func TestCheckSlot_UnpaidHoldsInvisible(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	unpaid := paidHold(t, 1, date, "09:00-09:30")
	unpaid.PaymentState = domain.PaymentUnpaid

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{unpaid}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	check, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:00-09:30"))
	require.NoError(t, err)
	assert.Equal(t, 0, check.HeldCount)
}

func TestCheckSlot_ManualBlockStrictOverlap(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: []timerange.Interval{mustInterval(t, "10:00-11:00")},
		Version:   1,
	}, nil)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	// Касание границей блокировки не мешает
	touching, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:00-10:00"))
	require.NoError(t, err)
	assert.False(t, touching.BlockedByManual)

	overlapping, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:30-10:30"))
	require.NoError(t, err)
	assert.True(t, overlapping.BlockedByManual)
}

func TestCheckSlot_ScheduledCountsTowardsHeld(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	bookings := new(mockBookingRepo)
	blocks := new(mockBlockSetRepo)

	blocks.On("GetByDate", mock.Anything, date).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	bookings.On("ListScheduledByDate", mock.Anything, date).Return([]*domain.Booking{
		scheduledBooking(t, 10, date, "09:00-09:30"),
	}, nil)
	bookings.On("ListHoldsByDate", mock.Anything, date).Return([]*domain.Booking{}, nil)

	svc := NewService(bookings, blocks, nil, noopLogger{})

	check, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:00-09:30"))
	require.NoError(t, err)
	assert.Equal(t, 1, check.HeldCount)
	assert.False(t, check.BlockedByManual)
}

// stubDayCache отдает заранее подготовленное представление дня
type stubDayCache struct {
	view DayView
}

func (c *stubDayCache) GetDay(ctx context.Context, date time.Time, dest interface{}) (bool, error) {
	*dest.(*DayView) = c.view
	return true, nil
}

func (c *stubDayCache) SetDay(ctx context.Context, date time.Time, view interface{}) error {
	return nil
}

func (c *stubDayCache) InvalidateDate(ctx context.Context, date time.Time) error {
	return nil
}

func TestCheckSlot_CorruptCachedEntrySkipped(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	// Кэшированное представление с испорченным текстом слота: запись
	// пропускается, остальные учитываются как обычно
	cache := &stubDayCache{view: DayView{
		Date: "2025-09-20",
		Entries: []Entry{
			{Source: SourceManual, Slot: "garbage"},
			{Source: SourceHeld, Slot: "09:00-09:30"},
		},
	}}

	svc := NewService(new(mockBookingRepo), new(mockBlockSetRepo), cache, noopLogger{})

	check, err := svc.CheckSlot(context.Background(), date, mustInterval(t, "09:00-10:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, check.HeldCount)
	assert.False(t, check.BlockedByManual)
}
