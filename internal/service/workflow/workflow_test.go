package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

var (
	coordinator = Actor{StaffID: 100, Roles: []domain.Role{domain.RoleCoordinator}}
	clerk       = Actor{StaffID: 200, Roles: []domain.Role{domain.RoleClerk}}
	mechanic    = Actor{StaffID: 300, Roles: []domain.Role{domain.RoleMechanic}}
	stranger    = Actor{StaffID: 999, Roles: []domain.Role{domain.RoleMechanic}}
)

func testBooking(status domain.BookingStatus) *domain.Booking {
	slot, _ := timerange.Parse("09:00-09:30")
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              1,
		Kind:            domain.KindAppointment,
		CustomerID:      42,
		ServiceID:       ptr.Ptr(int64(7)),
		Status:          status,
		PaymentState:    domain.PaymentUnpaid,
		ScheduledDate:   &date,
		ScheduledSlot:   &slot,
		AssignedStaffID: ptr.Ptr(int64(300)), // mechanic is assigned
	}
}

func evalTransition(actor Actor, from, to domain.BookingStatus) error {
	return Evaluate(EditRequest{
		Scenario:        ScenarioStatus,
		Actor:           actor,
		Booking:         testBooking(from),
		RequestedStatus: to,
	})
}

// Полный перебор троек (роль, текущий, запрошенный): всё, что не
// перечислено в таблицах, обязано отклоняться как InvalidTransition.
func TestTransitions_ExhaustiveSweep(t *testing.T) {
	coordTable := CoordinatorTransitions()
	workerTable := WorkerTransitions()

	actors := map[string]struct {
		actor    Actor
		table    map[domain.BookingStatus][]domain.BookingStatus
		assigned bool
	}{
		"coordinator":     {actor: coordinator, table: coordTable},
		"assigned_worker": {actor: mechanic, table: workerTable, assigned: true},
		"clerk":           {actor: clerk, table: map[domain.BookingStatus][]domain.BookingStatus{}},
	}

	for name, tc := range actors {
		for _, from := range domain.AllStatuses {
			for _, to := range domain.AllStatuses {
				if from == to {
					continue
				}

				allowed := false
				for _, legal := range tc.table[from] {
					if legal == to {
						allowed = true
					}
				}

				err := evalTransition(tc.actor, from, to)
				if allowed {
					assert.NoError(t, err, "%s: %s -> %s must be legal", name, from, to)
				} else {
					assert.ErrorIs(t, err, ErrInvalidTransition, "%s: %s -> %s must be rejected", name, from, to)
				}
			}
		}
	}
}

func TestTransitions_PendingToCompletedForbiddenForEveryRole(t *testing.T) {
	for _, actor := range []Actor{coordinator, clerk, mechanic, stranger} {
		err := evalTransition(actor, domain.StatusPending, domain.StatusCompleted)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestTransitions_WorkerMustBeAssigned(t *testing.T) {
	// Назначенный исполнитель может начать работу
	require.NoError(t, evalTransition(mechanic, domain.StatusScheduled, domain.StatusOngoing))

	// Другой механик с той же ролью — нет
	err := evalTransition(stranger, domain.StatusScheduled, domain.StatusOngoing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitions_SameStatusRejected(t *testing.T) {
	err := evalTransition(coordinator, domain.StatusPending, domain.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitions_ReactivationAndReopen(t *testing.T) {
	// Cancelled реактивируем координатором
	require.NoError(t, evalTransition(coordinator, domain.StatusCancelled, domain.StatusPending))
	require.NoError(t, evalTransition(coordinator, domain.StatusCancelled, domain.StatusScheduled))

	// Completed переоткрывается только назначенным исполнителем
	require.NoError(t, evalTransition(mechanic, domain.StatusCompleted, domain.StatusOngoing))
	assert.ErrorIs(t, evalTransition(coordinator, domain.StatusCompleted, domain.StatusOngoing), ErrInvalidTransition)
}

func TestBasicInfo_PaymentLock(t *testing.T) {
	paid := testBooking(domain.StatusPending)
	paid.PaymentState = domain.PaymentPaid

	// Изменение услуги/плана на оплаченной записи — PaymentLocked
	err := Evaluate(EditRequest{
		Scenario:           ScenarioBasicInfo,
		Actor:              coordinator,
		Booking:            paid,
		TouchesPriceFields: true,
	})
	assert.ErrorIs(t, err, ErrPaymentLocked)

	// Изменение только заметок — разрешено
	err = Evaluate(EditRequest{
		Scenario:           ScenarioBasicInfo,
		Actor:              coordinator,
		Booking:            paid,
		TouchesPriceFields: false,
	})
	assert.NoError(t, err)
}

func TestBasicInfo_RoleAndStatusGates(t *testing.T) {
	// Только координатор
	err := Evaluate(EditRequest{
		Scenario: ScenarioBasicInfo,
		Actor:    clerk,
		Booking:  testBooking(domain.StatusPending),
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Completed — заморожено
	err = Evaluate(EditRequest{
		Scenario: ScenarioBasicInfo,
		Actor:    coordinator,
		Booking:  testBooking(domain.StatusCompleted),
	})
	assert.ErrorIs(t, err, ErrEditNotAllowedInStatus)

	// Ongoing — ещё доступно
	err = Evaluate(EditRequest{
		Scenario: ScenarioBasicInfo,
		Actor:    coordinator,
		Booking:  testBooking(domain.StatusOngoing),
	})
	assert.NoError(t, err)
}

func TestScheduling_Gates(t *testing.T) {
	// Координатор может в pending и scheduled
	for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusScheduled} {
		err := Evaluate(EditRequest{Scenario: ScenarioScheduling, Actor: coordinator, Booking: testBooking(status)})
		assert.NoError(t, err, "status %s", status)
	}

	// В ongoing/completed/cancelled расписание заморожено
	for _, status := range []domain.BookingStatus{domain.StatusOngoing, domain.StatusCompleted, domain.StatusCancelled} {
		err := Evaluate(EditRequest{Scenario: ScenarioScheduling, Actor: coordinator, Booking: testBooking(status)})
		assert.ErrorIs(t, err, ErrEditNotAllowedInStatus, "status %s", status)
	}

	// Исполнитель не редактирует расписание
	err := Evaluate(EditRequest{Scenario: ScenarioScheduling, Actor: mechanic, Booking: testBooking(domain.StatusPending)})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReports_Gates(t *testing.T) {
	completed := testBooking(domain.StatusCompleted)

	// Координатор, клерк и назначенный исполнитель могут
	for _, actor := range []Actor{coordinator, clerk, mechanic} {
		err := Evaluate(EditRequest{Scenario: ScenarioReports, Actor: actor, Booking: completed})
		assert.NoError(t, err)
	}

	// Посторонний механик — нет
	err := Evaluate(EditRequest{Scenario: ScenarioReports, Actor: stranger, Booking: completed})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Отчёты — только пострабочая запись
	err = Evaluate(EditRequest{Scenario: ScenarioReports, Actor: coordinator, Booking: testBooking(domain.StatusOngoing)})
	assert.ErrorIs(t, err, ErrEditNotAllowedInStatus)
}

func TestValidateTransitionTarget(t *testing.T) {
	b := testBooking(domain.StatusPending)
	b.ScheduledDate = nil
	b.ScheduledSlot = nil

	assert.ErrorIs(t, ValidateTransitionTarget(b, domain.StatusScheduled), ErrMissingConfirmedSlot)
	assert.ErrorIs(t, ValidateTransitionTarget(b, domain.StatusOngoing), ErrMissingConfirmedSlot)
	assert.NoError(t, ValidateTransitionTarget(b, domain.StatusCancelled))

	withSlot := testBooking(domain.StatusPending)
	assert.NoError(t, ValidateTransitionTarget(withSlot, domain.StatusScheduled))
}

func TestEvaluate_UnknownScenario(t *testing.T) {
	err := Evaluate(EditRequest{Scenario: "bulk", Actor: coordinator, Booking: testBooking(domain.StatusPending)})
	assert.ErrorIs(t, err, ErrUnknownScenario)
}
