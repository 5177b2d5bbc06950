package domain

// Admission control ceilings: maximum same-day unpaid bookings a customer
// may have of each kind before new creations are refused. Staff creators
// bypass both.
const (
	MaxDailyAppointments = 5
	MaxDailyOrders       = 10
)

// Business validation constants
const (
	MaxNotesLength      = 500
	MaxReportLength     = 2000
	MaxCandidatesPerReq = 5
	MaxRangeDays        = 31 // widest date range a block operation may span
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses enumerates every valid workflow status.
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusScheduled,
	StatusOngoing,
	StatusCompleted,
	StatusCancelled,
}

// AllPaymentStates enumerates every valid payment state.
var AllPaymentStates = []PaymentState{
	PaymentUnpaid,
	PaymentPaid,
	PaymentCancelled,
}

// DailyCeiling returns the admission ceiling for the given booking kind.
func DailyCeiling(kind BookingKind) int {
	if kind == KindOrder {
		return MaxDailyOrders
	}
	return MaxDailyAppointments
}

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s BookingStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentState reports whether p is a known payment state.
func ValidPaymentState(p PaymentState) bool {
	for _, v := range AllPaymentStates {
		if v == p {
			return true
		}
	}
	return false
}
