package transition_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	transitionBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/transition_booking"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	ID            int64   `json:"id"`
	Status        string  `json:"status"`
	PaymentState  string  `json:"paymentState"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	ScheduledSlot *string `json:"scheduledSlot,omitempty"`
	Version       int64   `json:"version"`
	UpdatedAt     string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *TransitionResponse {
	out := &TransitionResponse{
		ID:            resp.ID,
		Status:        resp.Status,
		PaymentState:  resp.PaymentState,
		ScheduledSlot: resp.ScheduledSlot,
		Version:       resp.Version,
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.ScheduledDate != nil {
		d := resp.ScheduledDate.Format(domain.DateFormat)
		out.ScheduledDate = &d
	}
	return out
}
