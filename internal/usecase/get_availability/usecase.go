package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Request модель запроса занятости на дату.
// CheckSlot непустой - вместо полного представления возвращается
// результат проверки конкретного интервала
type Request struct {
	Date      string
	CheckSlot string
}

// Response модель ответа: либо представление дня, либо проверка слота
type Response struct {
	View  *availability.DayView
	Check *availability.SlotCheck
}

// UseCase use case запроса занятости
type UseCase struct {
	resolver AvailabilityResolver
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resolver AvailabilityResolver, logger Logger) *UseCase {
	return &UseCase{resolver: resolver, logger: logger}
}

// Execute выполняет use case запроса занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, time.UTC)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	if req.CheckSlot != "" {
		slot, err := timerange.Parse(req.CheckSlot)
		if err != nil {
			uc.logger.Warn("GetAvailability: malformed checkSlot %q: %v", req.CheckSlot, err)
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedInterval, req.CheckSlot, err)
		}

		check, err := uc.resolver.CheckSlot(ctx, date, slot)
		if err != nil {
			uc.logger.Error("GetAvailability: check slot failed for date=%s: %v", req.Date, err)
			return nil, fmt.Errorf("%w: check slot: %v", ErrInternal, err)
		}
		return &Response{Check: check}, nil
	}

	view, err := uc.resolver.ResolveDay(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailability: resolve day failed for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: resolve day: %v", ErrInternal, err)
	}
	return &Response{View: view}, nil
}
