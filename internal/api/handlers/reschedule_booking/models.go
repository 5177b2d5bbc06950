package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/reschedule_booking"
)

// SlotCandidate кандидат расписания в HTTP моделях
type SlotCandidate struct {
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Priority int    `json:"priority"`
}

// RescheduleRequest HTTP request model.
// Либо заменяет кандидатов, либо подтверждает конкретный слот
type RescheduleRequest struct {
	Candidates []SlotCandidate `json:"candidates,omitempty"`

	ConfirmDate *string `json:"confirmDate,omitempty"`
	ConfirmSlot *string `json:"confirmSlot,omitempty"`

	AssignedStaffID *int64 `json:"assignedStaffId,omitempty"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	Candidates      []SlotCandidate `json:"candidates"`
	ScheduledDate   *string         `json:"scheduledDate,omitempty"`
	ScheduledSlot   *string         `json:"scheduledSlot,omitempty"`
	AssignedStaffID *int64          `json:"assignedStaffId,omitempty"`
	Version         int64           `json:"version"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(bookingID, actorID int64) (*rescheduleBooking.Request, error) {
	candidates := make([]rescheduleBooking.CandidateInput, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		date, err := time.ParseInLocation(domain.DateFormat, c.Date, time.UTC)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, rescheduleBooking.CandidateInput{
			Date:     date,
			Slot:     c.Slot,
			Priority: c.Priority,
		})
	}

	req := &rescheduleBooking.Request{
		BookingID:       bookingID,
		ActorID:         actorID,
		Candidates:      candidates,
		ConfirmSlot:     r.ConfirmSlot,
		AssignedStaffID: r.AssignedStaffID,
	}
	if r.ConfirmDate != nil {
		date, err := time.ParseInLocation(domain.DateFormat, *r.ConfirmDate, time.UTC)
		if err != nil {
			return nil, err
		}
		req.ConfirmDate = &date
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleResponse {
	candidates := make([]SlotCandidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		candidates = append(candidates, SlotCandidate{
			Date:     c.Date.Format(domain.DateFormat),
			Slot:     c.Slot,
			Priority: c.Priority,
		})
	}

	out := &RescheduleResponse{
		ID:              resp.ID,
		Status:          resp.Status,
		Candidates:      candidates,
		ScheduledSlot:   resp.ScheduledSlot,
		AssignedStaffID: resp.AssignedStaffID,
		Version:         resp.Version,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.ScheduledDate != nil {
		d := resp.ScheduledDate.Format(domain.DateFormat)
		out.ScheduledDate = &d
	}
	return out
}
