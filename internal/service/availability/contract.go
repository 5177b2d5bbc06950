package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListScheduledByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
	ListHoldsByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// BlockSetRepository интерфейс репозитория ручных блокировок
type BlockSetRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DayBlockSet, error)
}

// DayViewCache кэш представлений занятости по датам
type DayViewCache interface {
	GetDay(ctx context.Context, date time.Time, dest interface{}) (bool, error)
	SetDay(ctx context.Context, date time.Time, view interface{}) error
	InvalidateDate(ctx context.Context, date time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
