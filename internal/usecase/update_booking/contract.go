package update_booking

import (
	"context"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateFields(ctx context.Context, id int64, expectedVersion int64, upd bookingRepo.UpdateFields) error
}

// PricingClient интерфейс клиента PricingService.
// Цена при правке ценообразующих полей всегда пересчитывается заново
type PricingClient interface {
	GetServiceQuote(ctx context.Context, serviceID, planID int64) (*pricing.ServiceQuote, error)
	GetOrderQuote(ctx context.Context, itemIDs []int64, categoryID int64) (*pricing.OrderQuote, error)
}

// StaffClient интерфейс клиента StaffService
type StaffClient interface {
	GetMember(ctx context.Context, staffID int64) (*staff.Member, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
