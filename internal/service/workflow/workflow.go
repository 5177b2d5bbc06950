package workflow

import (
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// Actor — инициатор изменения. Роли поставляются staff-сервисом и
// никогда не выводятся заново внутри ядра.
type Actor struct {
	StaffID int64
	Roles   []domain.Role
}

// IsCoordinator проверяет наличие роли координатора.
func (a Actor) IsCoordinator() bool {
	return domain.HasRole(a.Roles, domain.RoleCoordinator)
}

// IsClerk проверяет наличие роли клерка.
func (a Actor) IsClerk() bool {
	return domain.HasRole(a.Roles, domain.RoleClerk)
}

// IsAssignedWorker проверяет, что актор — назначенный исполнитель записи.
func (a Actor) IsAssignedWorker(b *domain.Booking) bool {
	return b.AssignedStaffID != nil && *b.AssignedStaffID == a.StaffID
}

// EditRequest — запрос на изменение записи, классифицированный по сценарию.
// Ровно один сценарий на запрос; хендлеры классифицируют запрос по
// затронутым полям до вызова ядра.
type EditRequest struct {
	Scenario EditScenario
	Actor    Actor
	Booking  *domain.Booking

	// Для ScenarioStatus
	RequestedStatus domain.BookingStatus

	// Для ScenarioBasicInfo: запрос затрагивает ценообразующие поля
	// (услуга/план, список позиций)
	TouchesPriceFields bool
}

// Evaluate применяет правила сценария к запросу. Возвращает nil, если
// изменение легально, либо типизированную ошибку отказа. Никаких побочных
// эффектов: запись не изменяется.
func Evaluate(req EditRequest) error {
	if req.Booking == nil {
		return fmt.Errorf("%w: no booking", ErrUnknownScenario)
	}

	switch req.Scenario {
	case ScenarioStatus:
		return evaluateTransition(req.Actor, req.Booking, req.RequestedStatus)
	case ScenarioBasicInfo:
		return evaluateBasicInfo(req.Actor, req.Booking, req.TouchesPriceFields)
	case ScenarioScheduling:
		return evaluateScheduling(req.Actor, req.Booking)
	case ScenarioReports:
		return evaluateReports(req.Actor, req.Booking)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScenario, req.Scenario)
	}
}

// evaluateTransition проверяет легальность перехода статуса по двум
// аддитивным таблицам. Переход легален, если его разрешает таблица
// координатора для актора-координатора, ИЛИ таблица исполнителя для
// назначенного исполнителя. Все прочие комбинации — ErrInvalidTransition.
func evaluateTransition(actor Actor, b *domain.Booking, to domain.BookingStatus) error {
	if !domain.ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if to == b.Status {
		return fmt.Errorf("%w: booking already in status %q", ErrInvalidTransition, to)
	}

	if actor.IsCoordinator() && tableAllows(coordinatorTransitions, b.Status, to) {
		return nil
	}
	if actor.IsAssignedWorker(b) && tableAllows(workerTransitions, b.Status, to) {
		return nil
	}

	// Тройка (роль, текущий, запрошенный), не перечисленная ни в одной
	// таблице, всегда отклоняется как InvalidTransition — в том числе
	// когда переход разрешён другой роли.
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
}

func evaluateBasicInfo(actor Actor, b *domain.Booking, touchesPrice bool) error {
	if !actor.IsCoordinator() {
		return fmt.Errorf("%w: basic info edits require coordinator", ErrUnauthorized)
	}
	if !basicInfoStatuses[b.Status] {
		return fmt.Errorf("%w: basic info is frozen in status %q", ErrEditNotAllowedInStatus, b.Status)
	}
	if touchesPrice && b.IsPriceLocked() {
		return fmt.Errorf("%w: booking id=%d is paid", ErrPaymentLocked, b.ID)
	}
	return nil
}

func evaluateScheduling(actor Actor, b *domain.Booking) error {
	if !actor.IsCoordinator() {
		return fmt.Errorf("%w: scheduling edits require coordinator", ErrUnauthorized)
	}
	if !schedulingStatuses[b.Status] {
		return fmt.Errorf("%w: scheduling is frozen in status %q", ErrEditNotAllowedInStatus, b.Status)
	}
	return nil
}

func evaluateReports(actor Actor, b *domain.Booking) error {
	if !actor.IsCoordinator() && !actor.IsClerk() && !actor.IsAssignedWorker(b) {
		return fmt.Errorf("%w: report edits require coordinator, clerk or assigned worker", ErrUnauthorized)
	}
	if b.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: reports are editable only for completed bookings", ErrEditNotAllowedInStatus)
	}
	return nil
}

// ValidateTransitionTarget проверяет инвариант планирования: запись в
// scheduled/ongoing обязана иметь ровно один подтверждённый слот.
// Вызывается usecase-ом после выбора слота, перед записью.
func ValidateTransitionTarget(b *domain.Booking, to domain.BookingStatus) error {
	if (to == domain.StatusScheduled || to == domain.StatusOngoing) && !b.HasConfirmedSlot() {
		return fmt.Errorf("%w: transition to %s", ErrMissingConfirmedSlot, to)
	}
	return nil
}
