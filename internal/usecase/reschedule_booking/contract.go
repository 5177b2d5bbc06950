package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListScheduledByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
	UpdateFields(ctx context.Context, id int64, expectedVersion int64, upd bookingRepo.UpdateFields) error
	ReplaceCandidates(ctx context.Context, bookingID int64, candidates []domain.SlotCandidate) error
}

// BlockSetRepository интерфейс репозитория ручных блокировок
type BlockSetRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DayBlockSet, error)
}

// StaffClient интерфейс клиента StaffService
type StaffClient interface {
	GetMember(ctx context.Context, staffID int64) (*staff.Member, error)
}

// CacheInvalidator сбрасывает кэш занятости по датам
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
