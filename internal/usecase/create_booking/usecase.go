package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/events"
	pricingClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
)

// UseCase use case для создания записи (appointment или order)
type UseCase struct {
	bookingRepo  BookingRepository
	pricing      PricingClient
	staffClient  StaffClient
	producer     EventProducer
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	pricing PricingClient,
	staffCli StaffClient,
	producer EventProducer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		pricing:      pricing,
		staffClient:  staffCli,
		producer:     producer,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания записи.
// Дневной лимит неоплаченных заявок перечитывается внутри сериализуемой
// транзакции: проверка и вставка атомарны
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: kind=%s, customer=%d, creator=%d, candidates=%d",
		req.Kind, req.CustomerID, req.CreatorID, len(req.Candidates))

	// 1. Валидация входных данных и разбор слотов
	candidates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	kind := domain.BookingKind(req.Kind)

	// 2. Привилегию сотрудника подтверждает StaffService, а не флаг запроса:
	// клиент без ролей сотрудника проходит admission control на общих основаниях
	creatorIsStaff := false
	if req.CreatorIsStaff {
		member, err := uc.staffClient.GetMember(ctx, req.CreatorID)
		switch {
		case err == nil:
			creatorIsStaff = len(domain.RolesFromStrings(member.Roles)) > 0
		case errors.Is(err, staffClient.ErrStaffNotFound):
			uc.logger.Warn("CreateBooking: creator=%d claimed staff privilege but is not a staff member", req.CreatorID)
		default:
			uc.logger.Error("CreateBooking: failed to resolve creator=%d: %v", req.CreatorID, err)
			return nil, fmt.Errorf("%w: failed to resolve creator: %v", ErrInternal, err)
		}
	}

	// 3. Цена всегда запрашивается заново, никогда не приходит с клиента
	price, err := uc.resolvePrice(ctx, kind, req)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 4. Admission control + вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем счётчик неоплаченных заявок того же вида
		count, err := uc.bookingRepo.CountCustomerOnDate(txCtx, domain.CustomerDayFilter{
			CustomerID:   req.CustomerID,
			Kind:         kind,
			Date:         now,
			PaymentState: ptr.Ptr(domain.PaymentUnpaid),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count daily bookings: %v", err)
			return fmt.Errorf("%w: failed to count daily bookings: %v", ErrInternal, err)
		}

		// 4.2. Лимит применяется только к клиентам; сотрудники создают без
		// ограничений
		ceiling := domain.DailyCeiling(kind)
		if !creatorIsStaff && count >= ceiling {
			uc.logger.Warn("CreateBooking: daily limit reached for customer=%d, kind=%s: %d/%d",
				req.CustomerID, kind, count, ceiling)
			return fmt.Errorf("%w: %d of %d for kind=%s", ErrDailyLimitExceeded, count, ceiling, kind)
		}

		// 4.3. Создаем запись в статусе pending без оплаты
		booking := &domain.Booking{
			Kind:         kind,
			CustomerID:   req.CustomerID,
			ServiceID:    req.ServiceID,
			PlanID:       req.PlanID,
			ItemIDs:      req.ItemIDs,
			CategoryID:   req.CategoryID,
			Price:        price,
			Candidates:   candidates,
			Status:       domain.StatusPending,
			PaymentState: domain.PaymentUnpaid,
			Notes:        req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 5. Событие после коммита; сбой доставки не откатывает мутацию
	if uc.producer != nil {
		event := events.BookingCreated{
			Type:       events.TypeBookingCreated,
			BookingID:  result.ID,
			Kind:       string(result.Kind),
			CustomerID: result.CustomerID,
			CreatedAt:  result.CreatedAt,
		}
		if err := uc.producer.Publish(ctx, event); err != nil {
			uc.logger.Error("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
		}
	}

	return toResponse(result), nil
}

// resolvePrice запрашивает цену у PricingService в зависимости от вида записи
func (uc *UseCase) resolvePrice(ctx context.Context, kind domain.BookingKind, req *Request) (float64, error) {
	switch kind {
	case domain.KindAppointment:
		planID := int64(0)
		if req.PlanID != nil {
			planID = *req.PlanID
		}
		quote, err := uc.pricing.GetServiceQuote(ctx, *req.ServiceID, planID)
		if err != nil {
			if errors.Is(err, pricingClient.ErrQuoteNotFound) {
				uc.logger.Warn("CreateBooking: no price for service=%d, plan=%d", *req.ServiceID, planID)
				return 0, ErrPriceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service quote: %v", err)
			return 0, fmt.Errorf("%w: failed to get service quote: %v", ErrInternal, err)
		}
		return quote.Price, nil

	case domain.KindOrder:
		quote, err := uc.pricing.GetOrderQuote(ctx, req.ItemIDs, *req.CategoryID)
		if err != nil {
			if errors.Is(err, pricingClient.ErrQuoteNotFound) {
				uc.logger.Warn("CreateBooking: no price for items=%v, category=%d", req.ItemIDs, *req.CategoryID)
				return 0, ErrPriceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get order quote: %v", err)
			return 0, fmt.Errorf("%w: failed to get order quote: %v", ErrInternal, err)
		}
		return quote.Total, nil
	}

	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
}
