package domain

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// BookingKind distinguishes the two booking flavours sharing one shape.
type BookingKind string

const (
	KindAppointment BookingKind = "appointment" // inspection/repair work
	KindOrder       BookingKind = "order"       // parts order
)

// BookingStatus represents the workflow status of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusScheduled BookingStatus = "scheduled"
	StatusOngoing   BookingStatus = "ongoing"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentState represents the payment state of a booking, orthogonal to
// its workflow status.
type PaymentState string

const (
	PaymentUnpaid    PaymentState = "unpaid"
	PaymentPaid      PaymentState = "paid"
	PaymentCancelled PaymentState = "cancelled"
)

// SlotCandidate is a requested (date, interval, priority) tuple on a
// pending booking. Priority 1 is the primary hold.
type SlotCandidate struct {
	Date     time.Time
	Slot     timerange.Interval
	Priority int
}

// Booking represents an appointment or a parts order. Bookings are never
// physically deleted; cancellation is a terminal status, not a removal.
type Booking struct {
	ID         int64
	Kind       BookingKind
	CustomerID int64

	// Classification. Appointments reference a service (and optionally a
	// plan); orders reference an item list and a category. Prices are
	// resolved externally and denormalized for history.
	ServiceID  *int64
	PlanID     *int64
	ItemIDs    []int64
	CategoryID *int64
	Price      float64

	// Scheduling. Candidates are ranked requests before confirmation; a
	// scheduled/ongoing booking has exactly one confirmed slot.
	Candidates      []SlotCandidate
	ScheduledDate   *time.Time
	ScheduledSlot   *timerange.Interval
	AssignedStaffID *int64

	Status       BookingStatus
	PaymentState PaymentState

	Notes  *string
	Report *string

	// Cancellation audit trail. Set once when the booking enters the
	// cancelled status; rescheduling a cancelled booking keeps them.
	CancelReason *string
	CancelledAt  *time.Time

	// Version guards every mutation: updates are conditional on the
	// version read, so concurrent status and scheduling edits of one
	// record cannot interleave.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsForAvailability reports whether the booking's confirmed slot
// occupies time on the calendar.
func (b *Booking) CountsForAvailability() bool {
	return b.Status != StatusCancelled && b.Status != StatusCompleted
}

// HasConfirmedSlot reports whether the booking carries exactly one
// confirmed scheduling tuple.
func (b *Booking) HasConfirmedSlot() bool {
	return b.ScheduledDate != nil && b.ScheduledSlot != nil
}

// PrimaryHold returns the priority-1 candidate, or nil if absent.
func (b *Booking) PrimaryHold() *SlotCandidate {
	for i := range b.Candidates {
		if b.Candidates[i].Priority == 1 {
			return &b.Candidates[i]
		}
	}
	return nil
}

// IsHold reports whether the booking acts as a soft block: a pending
// booking whose primary candidate is paid for. Holds count toward
// conflict detection but are weaker than a scheduled booking.
func (b *Booking) IsHold() bool {
	return b.Status == StatusPending && b.PaymentState == PaymentPaid && b.PrimaryHold() != nil
}

// IsPriceLocked reports whether price-affecting fields are frozen.
func (b *Booking) IsPriceLocked() bool {
	return b.PaymentState == PaymentPaid
}

// CustomerDayFilter selects a customer's bookings of one kind created on
// one calendar date. Used by admission control.
type CustomerDayFilter struct {
	CustomerID   int64
	Kind         BookingKind
	Date         time.Time
	PaymentState *PaymentState
}
