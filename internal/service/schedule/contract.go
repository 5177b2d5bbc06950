package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// BlockSetRepository интерфейс репозитория ручных блокировок
type BlockSetRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DayBlockSet, error)
	Put(ctx context.Context, set *domain.DayBlockSet, expectedVersion int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
