package schedule

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

func (m *mockBlockSetRepo) Put(ctx context.Context, set *domain.DayBlockSet, expectedVersion int64) error {
	args := m.Called(ctx, set, expectedVersion)
	return args.Error(0)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func mustIntervals(t *testing.T, specs ...string) []timerange.Interval {
	t.Helper()
	out := make([]timerange.Interval, 0, len(specs))
	for _, s := range specs {
		iv, err := timerange.Parse(s)
		require.NoError(t, err)
		out = append(out, iv)
	}
	return out
}

func slotStrings(ivs []timerange.Interval) []string {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, iv.String())
	}
	return out
}

func TestApply_SetNormalizes(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "08:00-09:00"),
		Version:   3,
	}, nil)
	repo.On("Put", mock.Anything, mock.Anything, int64(3)).Return(nil)

	svc := NewService(repo, noopLogger{})

	// Пересекающиеся и касающиеся интервалы склеиваются
	set, err := svc.Apply(context.Background(), date, domain.BlockOpSet,
		mustIntervals(t, "10:00-11:00", "11:00-12:00", "10:30-11:30"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-12:00"}, slotStrings(set.Intervals))

	repo.AssertExpectations(t)
}

func TestApply_AddUnionsWithStored(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "09:00-10:00", "14:00-15:00"),
		Version:   1,
	}, nil)
	repo.On("Put", mock.Anything, mock.Anything, int64(1)).Return(nil)

	svc := NewService(repo, noopLogger{})

	set, err := svc.Apply(context.Background(), date, domain.BlockOpAdd,
		mustIntervals(t, "10:00-11:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-11:00", "14:00-15:00"}, slotStrings(set.Intervals))
}

func TestApply_RemoveSubtracts(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "09:00-12:00"),
		Version:   2,
	}, nil)
	repo.On("Put", mock.Anything, mock.Anything, int64(2)).Return(nil)

	svc := NewService(repo, noopLogger{})

	set, err := svc.Apply(context.Background(), date, domain.BlockOpRemove,
		mustIntervals(t, "10:00-11:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-10:00", "11:00-12:00"}, slotStrings(set.Intervals))
}

func TestApply_MissingRowMeansEmptySet(t *testing.T) {
	date := time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	// Отсутствующая строка пишется как вставка с ожидаемой версией 0
	repo.On("Put", mock.Anything, mock.Anything, int64(0)).Return(nil)

	svc := NewService(repo, noopLogger{})

	set, err := svc.Apply(context.Background(), date, domain.BlockOpAdd,
		mustIntervals(t, "09:00-10:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-10:00"}, slotStrings(set.Intervals))
}

func TestApply_RetriesOnceOnVersionConflict(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "09:00-10:00"),
		Version:   1,
	}, nil).Once()
	repo.On("Put", mock.Anything, mock.Anything, int64(1)).Return(blocksetRepo.ErrVersionConflict).Once()

	// Повторное чтение видит конкурирующую запись
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "09:00-10:00", "13:00-14:00"),
		Version:   2,
	}, nil).Once()
	repo.On("Put", mock.Anything, mock.Anything, int64(2)).Return(nil).Once()

	svc := NewService(repo, noopLogger{})

	set, err := svc.Apply(context.Background(), date, domain.BlockOpAdd,
		mustIntervals(t, "10:00-11:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-11:00", "13:00-14:00"}, slotStrings(set.Intervals))
	repo.AssertExpectations(t)
}

func TestApply_SecondConflictSurfacesStaleWrite(t *testing.T) {
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	repo.On("GetByDate", mock.Anything, date).Return(&domain.DayBlockSet{
		Date:      date,
		Intervals: mustIntervals(t, "09:00-10:00"),
		Version:   1,
	}, nil)
	repo.On("Put", mock.Anything, mock.Anything, int64(1)).Return(blocksetRepo.ErrVersionConflict)

	svc := NewService(repo, noopLogger{})

	_, err := svc.Apply(context.Background(), date, domain.BlockOpAdd,
		mustIntervals(t, "10:00-11:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStaleWrite)
}

func TestApplyRange_PartialFailure(t *testing.T) {
	start := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)
	bad := time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC)

	repo := new(mockBlockSetRepo)
	for _, d := range []time.Time{start, bad, end} {
		repo.On("GetByDate", mock.Anything, d).Return(nil, blocksetRepo.ErrBlockSetNotFound)
	}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(set *domain.DayBlockSet) bool {
		return set.Date.Equal(bad)
	}), int64(0)).Return(blocksetRepo.ErrVersionConflict)
	repo.On("Put", mock.Anything, mock.Anything, int64(0)).Return(nil)

	svc := NewService(repo, noopLogger{})

	results, err := svc.ApplyRange(context.Background(), start, end, domain.BlockOpSet,
		mustIntervals(t, "09:00-10:00"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Ошибка на одной дате не прерывает соседние
	assert.NoError(t, results["2025-09-20"].Err)
	assert.Error(t, results["2025-09-21"].Err)
	assert.NoError(t, results["2025-09-22"].Err)
}

func TestApplyRange_RejectsInvertedRange(t *testing.T) {
	svc := NewService(new(mockBlockSetRepo), noopLogger{})

	_, err := svc.ApplyRange(context.Background(),
		time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		domain.BlockOpSet, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyRange_RejectsTooWideRange(t *testing.T) {
	svc := NewService(new(mockBlockSetRepo), noopLogger{})

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, domain.MaxRangeDays)

	_, err := svc.ApplyRange(context.Background(), start, end, domain.BlockOpSet, nil)
	assert.ErrorIs(t, err, ErrRangeTooWide)
}
