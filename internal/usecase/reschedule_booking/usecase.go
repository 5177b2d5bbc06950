package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/workflow"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// UseCase use case изменения расписания записи: замена кандидатов,
// подтверждение слота, назначение исполнителя. Подтверждаемый слот
// перепроверяется против блокировок и других подтвержденных записей
// внутри сериализуемой транзакции
type UseCase struct {
	bookingRepo  BookingRepository
	blocksetRepo BlockSetRepository
	staffClient  StaffClient
	invalidator  CacheInvalidator
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blocksetRepo BlockSetRepository,
	staffClient StaffClient,
	invalidator CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blocksetRepo: blocksetRepo,
		staffClient:  staffClient,
		invalidator:  invalidator,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case изменения расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, actor=%d, candidates=%d, confirm=%v",
		req.BookingID, req.ActorID, len(req.Candidates), req.ConfirmSlot != nil)

	// 1. Валидация входных данных
	parsed, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Роли актора поставляет StaffService
	member, err := uc.staffClient.GetMember(ctx, req.ActorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			return nil, fmt.Errorf("%w: actor=%d", ErrUnauthorized, req.ActorID)
		}
		uc.logger.Error("RescheduleBooking: failed to resolve actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: failed to resolve actor: %v", ErrInternal, err)
	}
	actor := workflow.Actor{
		StaffID: member.ID,
		Roles:   domain.RolesFromStrings(member.Roles),
	}

	// 3. Изменение с одним повтором при конфликте версий
	result, touched, err := uc.rescheduleOnce(ctx, req, parsed, actor)
	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		uc.logger.Warn("RescheduleBooking: version conflict for booking=%d, retrying once", req.BookingID)
		result, touched, err = uc.rescheduleOnce(ctx, req, parsed, actor)
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: booking=%d", ErrStaleWrite, req.BookingID)
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: successfully updated booking=%d", result.ID)

	// 4. Кэш занятости затронутых дат сбрасывается после коммита
	for _, d := range touched {
		uc.invalidator.InvalidateDate(ctx, d)
	}

	return toResponse(result), nil
}

// parsedRequest разобранные поля запроса
type parsedRequest struct {
	candidates  []domain.SlotCandidate
	confirmSlot *timerange.Interval
}

func (uc *UseCase) rescheduleOnce(ctx context.Context, req *Request, parsed *parsedRequest, actor workflow.Actor) (*domain.Booking, []time.Time, error) {
	var (
		result  *domain.Booking
		touched []time.Time
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем запись с блокировкой
		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to fetch booking: %v", ErrInternal, err)
		}

		// 2. Правила сценария scheduling
		if err := workflow.Evaluate(workflow.EditRequest{
			Scenario: workflow.ScenarioScheduling,
			Actor:    actor,
			Booking:  b,
		}); err != nil {
			return mapWorkflowError(err)
		}

		upd := bookingRepo.UpdateFields{}
		touched = touched[:0]
		if b.ScheduledDate != nil {
			touched = append(touched, *b.ScheduledDate)
		}

		// 3. Назначение исполнителя проверяется на допуск к услуге
		if req.AssignedStaffID != nil {
			if err := uc.checkWorkerCapability(txCtx, b, *req.AssignedStaffID); err != nil {
				return err
			}
			upd.AssignedStaffID = &req.AssignedStaffID
			b.AssignedStaffID = req.AssignedStaffID
		}

		// 4. Подтверждение слота перепроверяет занятость на коммите
		if parsed.confirmSlot != nil {
			d := *req.ConfirmDate
			slot := *parsed.confirmSlot
			if err := uc.checkSlotFree(txCtx, b.ID, d, slot); err != nil {
				return err
			}
			b.ScheduledDate = &d
			b.ScheduledSlot = &slot
			upd.ScheduledDate = &d
			upd.ScheduledSlot = &slot
			touched = append(touched, d)
		}

		// 5. Замена кандидатов
		if len(parsed.candidates) > 0 {
			if err := uc.bookingRepo.ReplaceCandidates(txCtx, b.ID, parsed.candidates); err != nil {
				return fmt.Errorf("%w: failed to replace candidates: %v", ErrInternal, err)
			}
			b.Candidates = parsed.candidates
		}

		// 6. Условная запись по прочитанной версии. Пустое обновление тоже
		// двигает версию: конкурирующая правка статуса не сможет пройти
		// поверх устаревшего чтения
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
		return nil, nil, err
	}

	return result, touched, nil
}

// checkWorkerCapability проверяет, что исполнитель допущен к услуге записи
func (uc *UseCase) checkWorkerCapability(ctx context.Context, b *domain.Booking, workerID int64) error {
	worker, err := uc.staffClient.GetMember(ctx, workerID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			return fmt.Errorf("%w: staff_id=%d", ErrWorkerNotFound, workerID)
		}
		return fmt.Errorf("%w: failed to resolve worker: %v", ErrInternal, err)
	}

	// Допуск проверяется только для appointment: заказы исполнителя не требуют
	if b.Kind == domain.KindAppointment && b.ServiceID != nil && !worker.CanPerform(*b.ServiceID) {
		return fmt.Errorf("%w: staff_id=%d, service=%d", ErrWorkerNotCapable, workerID, *b.ServiceID)
	}

	return nil
}

// checkSlotFree проверяет слот против блокировок и других подтвержденных
// записей. Пересечения строгие; оплаченные удержания не мешают
func (uc *UseCase) checkSlotFree(ctx context.Context, selfID int64, date time.Time, slot timerange.Interval) error {
	blocks, err := uc.blocksetRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, blocksetRepo.ErrBlockSetNotFound) {
		return fmt.Errorf("%w: failed to fetch blocks: %v", ErrInternal, err)
	}
	if blocks != nil {
		for _, iv := range blocks.Intervals {
			if slot.StrictOverlaps(iv) {
				return fmt.Errorf("%w: %s blocked by %s on %s",
					ErrSlotConflict, slot, iv, date.Format(domain.DateFormat))
			}
		}
	}

	scheduled, err := uc.bookingRepo.ListScheduledByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch scheduled bookings: %v", ErrInternal, err)
	}
	for _, other := range scheduled {
		if other.ID == selfID || other.ScheduledSlot == nil {
			continue
		}
		if slot.StrictOverlaps(*other.ScheduledSlot) {
			return fmt.Errorf("%w: %s taken by booking=%d on %s",
				ErrSlotConflict, slot, other.ID, date.Format(domain.DateFormat))
		}
	}

	return nil
}

// validateRequest разбирает слоты и проверяет согласованность запроса
func validateRequest(req *Request) (*parsedRequest, error) {
	if req.BookingID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}
	if len(req.Candidates) == 0 && req.ConfirmSlot == nil && req.AssignedStaffID == nil {
		return nil, fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}
	if len(req.Candidates) > 0 && req.ConfirmSlot != nil {
		return nil, fmt.Errorf("%w: candidates and slot confirmation cannot be combined", ErrInvalidInput)
	}
	if (req.ConfirmSlot == nil) != (req.ConfirmDate == nil) {
		return nil, fmt.Errorf("%w: slot confirmation requires both date and interval", ErrInvalidInput)
	}
	if req.AssignedStaffID != nil && *req.AssignedStaffID <= 0 {
		return nil, fmt.Errorf("%w: assignedStaffID must be positive", ErrInvalidInput)
	}

	parsed := &parsedRequest{}

	if req.ConfirmSlot != nil {
		slot, err := timerange.Parse(*req.ConfirmSlot)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedInterval, *req.ConfirmSlot, err)
		}
		parsed.confirmSlot = &slot
	}

	if len(req.Candidates) > 0 {
		if len(req.Candidates) > domain.MaxCandidatesPerReq {
			return nil, fmt.Errorf("%w: at most %d slot candidates allowed", ErrInvalidInput, domain.MaxCandidatesPerReq)
		}
		seen := make(map[int]bool, len(req.Candidates))
		primaries := 0
		for _, in := range req.Candidates {
			if in.Date.IsZero() {
				return nil, fmt.Errorf("%w: candidate date is required", ErrInvalidInput)
			}
			if in.Priority <= 0 {
				return nil, fmt.Errorf("%w: candidate priority must be positive", ErrInvalidInput)
			}
			if seen[in.Priority] {
				return nil, fmt.Errorf("%w: duplicate candidate priority %d", ErrInvalidInput, in.Priority)
			}
			seen[in.Priority] = true
			if in.Priority == 1 {
				primaries++
			}

			slot, err := timerange.Parse(in.Slot)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrMalformedInterval, in.Slot, err)
			}
			parsed.candidates = append(parsed.candidates, domain.SlotCandidate{
				Date:     in.Date,
				Slot:     slot,
				Priority: in.Priority,
			})
		}
		if primaries != 1 {
			return nil, fmt.Errorf("%w: exactly one candidate must have priority 1", ErrInvalidInput)
		}
	}

	return parsed, nil
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrEditNotAllowedInStatus):
		return fmt.Errorf("%w: %v", ErrEditNotAllowed, err)
	case errors.Is(err, workflow.ErrUnauthorized):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
