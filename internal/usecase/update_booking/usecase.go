package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	pricingClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/pricing"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/workflow"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
)

// UseCase use case правки полей записи. Запрос классифицируется по
// затронутым полям в один из сценариев (basic info / reports), правила
// сценария применяет workflow. Оплата замораживает ценообразующие поля
type UseCase struct {
	bookingRepo BookingRepository
	pricing     PricingClient
	staffClient StaffClient
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	pricing PricingClient,
	staffClient StaffClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		pricing:     pricing,
		staffClient: staffClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case правки записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, actor=%d", req.BookingID, req.ActorID)

	// 1. Валидация и классификация сценария
	scenario, err := classify(req)
	if err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Роли актора поставляет StaffService
	member, err := uc.staffClient.GetMember(ctx, req.ActorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			return nil, fmt.Errorf("%w: actor=%d", ErrUnauthorized, req.ActorID)
		}
		uc.logger.Error("UpdateBooking: failed to resolve actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: failed to resolve actor: %v", ErrInternal, err)
	}
	actor := workflow.Actor{
		StaffID: member.ID,
		Roles:   domain.RolesFromStrings(member.Roles),
	}

	// 3. Правка с одним повтором при конфликте версий
	result, err := uc.updateOnce(ctx, req, scenario, actor)
	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		uc.logger.Warn("UpdateBooking: version conflict for booking=%d, retrying once", req.BookingID)
		result, err = uc.updateOnce(ctx, req, scenario, actor)
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: booking=%d", ErrStaleWrite, req.BookingID)
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking=%d", result.ID)
	return toResponse(result), nil
}

func (uc *UseCase) updateOnce(ctx context.Context, req *Request, scenario workflow.EditScenario, actor workflow.Actor) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем запись
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to fetch booking: %v", ErrInternal, err)
		}

		// 2. Правила сценария
		if err := workflow.Evaluate(workflow.EditRequest{
			Scenario:           scenario,
			Actor:              actor,
			Booking:            b,
			TouchesPriceFields: req.touchesPriceFields(),
		}); err != nil {
			return mapWorkflowError(err)
		}

		// 3. Проверяем согласованность полей с видом записи
		if err := validateKindFields(b.Kind, req); err != nil {
			return err
		}

		upd := bookingRepo.UpdateFields{}
		if req.ServiceID != nil {
			upd.ServiceID = ptr.Ptr(req.ServiceID)
			b.ServiceID = req.ServiceID
		}
		if req.PlanID != nil {
			upd.PlanID = ptr.Ptr(req.PlanID)
			b.PlanID = req.PlanID
		}
		if len(req.ItemIDs) > 0 {
			upd.ItemIDs = &req.ItemIDs
			b.ItemIDs = req.ItemIDs
		}
		if req.CategoryID != nil {
			upd.CategoryID = ptr.Ptr(req.CategoryID)
			b.CategoryID = req.CategoryID
		}
		if req.Notes != nil {
			upd.Notes = ptr.Ptr(req.Notes)
			b.Notes = req.Notes
		}
		if req.Report != nil {
			upd.Report = ptr.Ptr(req.Report)
			b.Report = req.Report
		}

		// 4. Ценообразующие поля изменились - цена пересчитывается заново,
		// никогда не переносится со старого состава
		if req.touchesPriceFields() {
			price, err := uc.recomputePrice(txCtx, b)
			if err != nil {
				return err
			}
			upd.Price = &price
			b.Price = price
		}

		// 5. Условная запись по прочитанной версии
		if err := uc.bookingRepo.UpdateFields(txCtx, req.BookingID, b.Version, upd); err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				return bookingRepo.ErrVersionConflict
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		b.Version++
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// recomputePrice запрашивает цену для нового состава записи
func (uc *UseCase) recomputePrice(ctx context.Context, b *domain.Booking) (float64, error) {
	switch b.Kind {
	case domain.KindAppointment:
		if b.ServiceID == nil {
			return 0, fmt.Errorf("%w: appointment has no service", ErrInvalidInput)
		}
		planID := int64(0)
		if b.PlanID != nil {
			planID = *b.PlanID
		}
		quote, err := uc.pricing.GetServiceQuote(ctx, *b.ServiceID, planID)
		if err != nil {
			if errors.Is(err, pricingClient.ErrQuoteNotFound) {
				return 0, ErrPriceNotFound
			}
			return 0, fmt.Errorf("%w: failed to get service quote: %v", ErrInternal, err)
		}
		return quote.Price, nil

	case domain.KindOrder:
		if len(b.ItemIDs) == 0 || b.CategoryID == nil {
			return 0, fmt.Errorf("%w: order has no items or category", ErrInvalidInput)
		}
		quote, err := uc.pricing.GetOrderQuote(ctx, b.ItemIDs, *b.CategoryID)
		if err != nil {
			if errors.Is(err, pricingClient.ErrQuoteNotFound) {
				return 0, ErrPriceNotFound
			}
			return 0, fmt.Errorf("%w: failed to get order quote: %v", ErrInternal, err)
		}
		return quote.Total, nil
	}

	return 0, fmt.Errorf("%w: unknown kind %q", ErrInternal, b.Kind)
}

// classify определяет сценарий по затронутым полям
func classify(req *Request) (workflow.EditScenario, error) {
	if req.BookingID <= 0 || req.ActorID <= 0 {
		return "", fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}

	basic := req.touchesBasicInfo()
	reports := req.Report != nil

	switch {
	case basic && reports:
		return "", fmt.Errorf("%w: report and basic fields cannot be edited together", ErrInvalidInput)
	case reports:
		if len(*req.Report) > domain.MaxReportLength {
			return "", fmt.Errorf("%w: report exceeds %d characters", ErrInvalidInput, domain.MaxReportLength)
		}
		return workflow.ScenarioReports, nil
	case basic:
		if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
			return "", fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		return workflow.ScenarioBasicInfo, nil
	default:
		return "", fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
}

// validateKindFields отклоняет поля чужого вида записи
func validateKindFields(kind domain.BookingKind, req *Request) error {
	switch kind {
	case domain.KindAppointment:
		if len(req.ItemIDs) > 0 || req.CategoryID != nil {
			return fmt.Errorf("%w: order fields are not allowed for appointments", ErrInvalidInput)
		}
	case domain.KindOrder:
		if req.ServiceID != nil || req.PlanID != nil {
			return fmt.Errorf("%w: appointment fields are not allowed for orders", ErrInvalidInput)
		}
	}
	return nil
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrPaymentLocked):
		return fmt.Errorf("%w: %v", ErrPaymentLocked, err)
	case errors.Is(err, workflow.ErrEditNotAllowedInStatus):
		return fmt.Errorf("%w: %v", ErrEditNotAllowed, err)
	case errors.Is(err, workflow.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
