package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountCustomerOnDate(ctx context.Context, filter domain.CustomerDayFilter) (int, error)
}

// StaffClient интерфейс клиента StaffService
type StaffClient interface {
	GetMember(ctx context.Context, staffID int64) (*staff.Member, error)
}

// PricingClient интерфейс клиента PricingService
type PricingClient interface {
	GetServiceQuote(ctx context.Context, serviceID, planID int64) (*pricing.ServiceQuote, error)
	GetOrderQuote(ctx context.Context, itemIDs []int64, categoryID int64) (*pricing.OrderQuote, error)
}

// EventProducer интерфейс продюсера доменных событий
type EventProducer interface {
	Publish(ctx context.Context, payload interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
