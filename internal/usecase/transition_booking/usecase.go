package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/booking"
	blocksetRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/blockset"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/internal/service/workflow"
)

// UseCase use case смены статуса записи.
// Легальность перехода решают таблицы workflow; занятость слота
// перепроверяется на коммите внутри сериализуемой транзакции, запись
// условна по версии с одним внутренним повтором
type UseCase struct {
	bookingRepo  BookingRepository
	blocksetRepo BlockSetRepository
	staffClient  StaffClient
	producer     EventProducer
	invalidator  CacheInvalidator
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	blocksetRepo BlockSetRepository,
	staffClient StaffClient,
	producer EventProducer,
	invalidator CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blocksetRepo: blocksetRepo,
		staffClient:  staffClient,
		producer:     producer,
		invalidator:  invalidator,
		txManager:    txManager,
		logger:       logger,
	}
}

// transitionOutcome результат успешного перехода для пост-коммитных шагов
type transitionOutcome struct {
	booking    *domain.Booking
	fromStatus domain.BookingStatus
	// Даты, чье представление занятости затронуто переходом
	touchedDates []time.Time
}

// Execute выполняет use case смены статуса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, actor=%d, to=%s",
		req.BookingID, req.ActorID, req.RequestedStatus)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and actorID must be positive", ErrInvalidInput)
	}
	to := domain.BookingStatus(req.RequestedStatus)
	if !domain.ValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.RequestedStatus)
	}

	// 2. Роли актора поставляет StaffService; мутации не деградируют
	member, err := uc.staffClient.GetMember(ctx, req.ActorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			uc.logger.Warn("TransitionBooking: actor=%d is not a staff member", req.ActorID)
			return nil, fmt.Errorf("%w: actor=%d", ErrUnauthorized, req.ActorID)
		}
		uc.logger.Error("TransitionBooking: failed to resolve actor=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: failed to resolve actor: %v", ErrInternal, err)
	}
	actor := workflow.Actor{
		StaffID: member.ID,
		Roles:   domain.RolesFromStrings(member.Roles),
	}

	// 3. Переход в сериализуемой транзакции; один повтор при конфликте версий
	outcome, err := uc.transitionOnce(ctx, req, actor, to)
	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		uc.logger.Warn("TransitionBooking: version conflict for booking=%d, retrying once", req.BookingID)
		outcome, err = uc.transitionOnce(ctx, req, actor, to)
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: booking=%d", ErrStaleWrite, req.BookingID)
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionBooking: booking=%d transitioned %s -> %s",
		outcome.booking.ID, outcome.fromStatus, outcome.booking.Status)

	// 4. Пост-коммитные шаги: кэш и событие. Сбои не откатывают переход
	for _, d := range outcome.touchedDates {
		uc.invalidator.InvalidateDate(ctx, d)
	}
	if uc.producer != nil {
		event := events.BookingTransitioned{
			Type:       events.TypeBookingTransitioned,
			BookingID:  outcome.booking.ID,
			FromStatus: string(outcome.fromStatus),
			ToStatus:   string(outcome.booking.Status),
			ActorID:    req.ActorID,
			OccurredAt: time.Now(),
		}
		if err := uc.producer.Publish(ctx, event); err != nil {
			uc.logger.Error("TransitionBooking: failed to publish event for booking=%d: %v",
				outcome.booking.ID, err)
		}
	}

	return toResponse(outcome.booking), nil
}

// transitionOnce одна попытка перехода. Конфликт версий поднимается
// наружу как bookingRepo.ErrVersionConflict для повтора
func (uc *UseCase) transitionOnce(ctx context.Context, req *Request, actor workflow.Actor, to domain.BookingStatus) (*transitionOutcome, error) {
	var outcome *transitionOutcome
	bookingID := req.BookingID

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем запись с блокировкой
		b, err := uc.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, bookingID)
			}
			return fmt.Errorf("%w: failed to fetch booking: %v", ErrInternal, err)
		}
		from := b.Status

		// 2. Таблицы переходов
		if err := workflow.Evaluate(workflow.EditRequest{
			Scenario:        workflow.ScenarioStatus,
			Actor:           actor,
			Booking:         b,
			RequestedStatus: to,
		}); err != nil {
			if errors.Is(err, workflow.ErrInvalidTransition) {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		upd := bookingRepo.UpdateFields{Status: &to}
		touched := make([]time.Time, 0, 2)
		if b.ScheduledDate != nil {
			touched = append(touched, *b.ScheduledDate)
		}

		// 3. Переход в scheduled подтверждает основной кандидат, если слот
		// ещё не закреплён
		if to == domain.StatusScheduled && !b.HasConfirmedSlot() {
			hold := b.PrimaryHold()
			if hold == nil {
				return fmt.Errorf("%w: booking=%d has no primary candidate", ErrMissingConfirmedSlot, bookingID)
			}
			d := hold.Date
			slot := hold.Slot
			b.ScheduledDate = &d
			b.ScheduledSlot = &slot
			upd.ScheduledDate = &d
			upd.ScheduledSlot = &slot
		}
		if err := workflow.ValidateTransitionTarget(b, to); err != nil {
			return fmt.Errorf("%w: %v", ErrMissingConfirmedSlot, err)
		}

		// 4. Переход, выводящий запись на календарь, перепроверяет занятость
		// на коммите
		if to == domain.StatusScheduled && (from == domain.StatusPending || from == domain.StatusCancelled) {
			if err := uc.checkSlotFree(txCtx, b); err != nil {
				return err
			}
			touched = append(touched, *b.ScheduledDate)
		}

		// 5. Откат в pending освобождает подтверждённый слот
		if to == domain.StatusPending {
			upd.ClearSchedule = true
			b.ScheduledDate = nil
			b.ScheduledSlot = nil
		}

		// Отмена фиксирует причину и время для аудита
		if to == domain.StatusCancelled {
			now := time.Now().UTC()
			upd.CancelledAt = &now
			b.CancelledAt = &now
			if req.Reason != nil {
				upd.CancelReason = req.Reason
				b.CancelReason = req.Reason
			}
		}

		// 6. Условная запись по прочитанной версии
		if err := uc.bookingRepo.UpdateFields(txCtx, bookingID, b.Version, upd); err != nil {
			if errors.Is(err, bookingRepo.ErrVersionConflict) {
				return bookingRepo.ErrVersionConflict
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return fmt.Errorf("%w: id=%d", ErrBookingNotFound, bookingID)
			}
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		b.Status = to
		b.Version++
		outcome = &transitionOutcome{booking: b, fromStatus: from, touchedDates: touched}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// checkSlotFree проверяет подтверждённый слот записи против блокировок и
// других подтверждённых записей той же даты. Пересечения строгие:
// касание границами не конфликтует; оплаченные удержания не мешают
func (uc *UseCase) checkSlotFree(ctx context.Context, b *domain.Booking) error {
	date := *b.ScheduledDate
	slot := *b.ScheduledSlot

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
		if other.ID == b.ID || other.ScheduledSlot == nil {
			continue
		}
		if slot.StrictOverlaps(*other.ScheduledSlot) {
			return fmt.Errorf("%w: %s taken by booking=%d on %s",
				ErrSlotConflict, slot, other.ID, date.Format(domain.DateFormat))
		}
	}

	return nil
}
