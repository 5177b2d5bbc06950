package manage_blocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/schedule"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

type mockSchedule struct {
	mock.Mock
}

func (m *mockSchedule) Apply(ctx context.Context, date time.Time, op domain.BlockOperation, intervals []timerange.Interval) (*domain.DayBlockSet, error) {
	args := m.Called(ctx, date, op, intervals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBlockSet), args.Error(1)
}

func (m *mockSchedule) ApplyRange(ctx context.Context, start, end time.Time, op domain.BlockOperation, intervals []timerange.Interval) (map[string]schedule.DateResult, error) {
	args := m.Called(ctx, start, end, op, intervals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]schedule.DateResult), args.Error(1)
}

type mockStaffClient struct {
	mock.Mock
}

func (m *mockStaffClient) GetMember(ctx context.Context, staffID int64) (*staff.Member, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Member), args.Error(1)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, payload interface{}) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type mockInvalidator struct {
	dates []time.Time
}

func (m *mockInvalidator) InvalidateDate(_ context.Context, date time.Time) {
	m.dates = append(m.dates, date)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func coordinatorMember(id int64) *staff.Member {
	return &staff.Member{ID: id, Name: "Coordinator", Roles: []string{"coordinator"}, Active: true}
}

func mustInterval(t *testing.T, s string) timerange.Interval {
	t.Helper()
	iv, err := timerange.Parse(s)
	require.NoError(t, err)
	return iv
}

func TestUseCase_Execute_SingleDateSet(t *testing.T) {
	sched := new(mockSchedule)
	staffCli := new(mockStaffClient)
	producer := new(mockProducer)
	invalidator := &mockInvalidator{}

	uc := NewUseCase(sched, staffCli, producer, invalidator, noopLogger{})

	date := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	iv := mustInterval(t, "10:00-12:00")

	staffCli.On("GetMember", mock.Anything, int64(7)).Return(coordinatorMember(7), nil)
	sched.On("Apply", mock.Anything, date, domain.BlockOpSet, []timerange.Interval{iv}).
		Return(&domain.DayBlockSet{Date: date, Intervals: []timerange.Interval{iv}, Version: 1}, nil)
	producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ActorID:   7,
		Date:      "2025-07-10",
		Op:        "set",
		Intervals: []string{"10:00-12:00"},
	})

	require.NoError(t, err)
	require.Contains(t, resp.Results, "2025-07-10")
	assert.Equal(t, []string{"10:00-12:00"}, resp.Results["2025-07-10"].Intervals)
	assert.Empty(t, resp.Results["2025-07-10"].Error)
	require.Len(t, invalidator.dates, 1)
	assert.Equal(t, date, invalidator.dates[0])
	producer.AssertNumberOfCalls(t, "Publish", 1)
}

func TestUseCase_Execute_NonCoordinatorRejected(t *testing.T) {
	sched := new(mockSchedule)
	staffCli := new(mockStaffClient)
	producer := new(mockProducer)
	invalidator := &mockInvalidator{}

	uc := NewUseCase(sched, staffCli, producer, invalidator, noopLogger{})

	staffCli.On("GetMember", mock.Anything, int64(5)).Return(&staff.Member{
		ID: 5, Name: "Mechanic", Roles: []string{"mechanic"}, Active: true,
	}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ActorID:   5,
		Date:      "2025-07-10",
		Op:        "add",
		Intervals: []string{"10:00-12:00"},
	})

	assert.ErrorIs(t, err, ErrUnauthorized)
	sched.AssertNotCalled(t, "Apply")
}

func TestUseCase_Execute_UnknownActorUnauthorized(t *testing.T) {
	sched := new(mockSchedule)
	staffCli := new(mockStaffClient)
	uc := NewUseCase(sched, staffCli, new(mockProducer), &mockInvalidator{}, noopLogger{})

	staffCli.On("GetMember", mock.Anything, int64(99)).Return(nil, staff.ErrStaffNotFound)

	_, err := uc.Execute(context.Background(), &Request{
		ActorID:   99,
		Date:      "2025-07-10",
		Op:        "set",
		Intervals: []string{"10:00-12:00"},
	})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUseCase_Execute_RangePartialFailure(t *testing.T) {
	sched := new(mockSchedule)
	staffCli := new(mockStaffClient)
	producer := new(mockProducer)
	invalidator := &mockInvalidator{}

	uc := NewUseCase(sched, staffCli, producer, invalidator, noopLogger{})

	start := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)
	iv := mustInterval(t, "09:00-10:00")

	staffCli.On("GetMember", mock.Anything, int64(7)).Return(coordinatorMember(7), nil)
	sched.On("ApplyRange", mock.Anything, start, end, domain.BlockOpAdd, []timerange.Interval{iv}).
		Return(map[string]schedule.DateResult{
			"2025-07-10": {Set: &domain.DayBlockSet{Date: start, Intervals: []timerange.Interval{iv}, Version: 2}},
			"2025-07-11": {Err: schedule.ErrStaleWrite},
			"2025-07-12": {Set: &domain.DayBlockSet{Date: end, Intervals: []timerange.Interval{iv}, Version: 1}},
		}, nil)
	producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ActorID:   7,
		StartDate: "2025-07-10",
		EndDate:   "2025-07-12",
		Op:        "add",
		Intervals: []string{"09:00-10:00"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Empty(t, resp.Results["2025-07-10"].Error)
	assert.NotEmpty(t, resp.Results["2025-07-11"].Error)
	assert.Empty(t, resp.Results["2025-07-12"].Error)
	// Инвалидация и события только по успешным датам
	assert.Len(t, invalidator.dates, 2)
	producer.AssertNumberOfCalls(t, "Publish", 2)
}

func TestUseCase_Execute_MalformedInterval(t *testing.T) {
	sched := new(mockSchedule)
	staffCli := new(mockStaffClient)
	uc := NewUseCase(sched, staffCli, new(mockProducer), &mockInvalidator{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ActorID:   7,
		Date:      "2025-07-10",
		Op:        "set",
		Intervals: []string{"9am-10am"},
	})

	assert.ErrorIs(t, err, ErrMalformedInterval)
	staffCli.AssertNotCalled(t, "GetMember")
}

func TestUseCase_Execute_DateAndRangeCannotMix(t *testing.T) {
	uc := NewUseCase(new(mockSchedule), new(mockStaffClient), new(mockProducer), &mockInvalidator{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ActorID:   7,
		Date:      "2025-07-10",
		StartDate: "2025-07-10",
		EndDate:   "2025-07-12",
		Op:        "set",
		Intervals: []string{"10:00-11:00"},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_UnknownOperation(t *testing.T) {
	uc := NewUseCase(new(mockSchedule), new(mockStaffClient), new(mockProducer), &mockInvalidator{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ActorID:   7,
		Date:      "2025-07-10",
		Op:        "toggle",
		Intervals: []string{"10:00-11:00"},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
