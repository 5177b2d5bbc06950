package manage_blocks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/schedule"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// ScheduleService интерфейс сервиса мутации блокировок
type ScheduleService interface {
	Apply(ctx context.Context, date time.Time, op domain.BlockOperation, intervals []timerange.Interval) (*domain.DayBlockSet, error)
	ApplyRange(ctx context.Context, start, end time.Time, op domain.BlockOperation, intervals []timerange.Interval) (map[string]schedule.DateResult, error)
}

// StaffClient интерфейс клиента StaffService
type StaffClient interface {
	GetMember(ctx context.Context, staffID int64) (*staff.Member, error)
}

// EventProducer интерфейс продюсера доменных событий
type EventProducer interface {
	Publish(ctx context.Context, payload interface{}) error
}

// CacheInvalidator сбрасывает кэш занятости по датам
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
