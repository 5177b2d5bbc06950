package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// AvailabilityResolver интерфейс резолвера занятости
type AvailabilityResolver interface {
	ResolveDay(ctx context.Context, date time.Time) (*availability.DayView, error)
	CheckSlot(ctx context.Context, date time.Time, requested timerange.Interval) (*availability.SlotCheck, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
