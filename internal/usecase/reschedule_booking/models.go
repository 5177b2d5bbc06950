package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// CandidateInput запрошенный слот с приоритетом
type CandidateInput struct {
	Date     time.Time
	Slot     string
	Priority int
}

// Request модель запроса на изменение расписания записи.
// Запрос либо заменяет кандидатов, либо подтверждает конкретный слот;
// назначение исполнителя может сопровождать любой вариант
type Request struct {
	BookingID int64
	ActorID   int64

	// Замена списка кандидатов
	Candidates []CandidateInput

	// Подтверждение конкретного слота
	ConfirmDate *time.Time
	ConfirmSlot *string

	// Назначение исполнителя (с проверкой допуска к услуге)
	AssignedStaffID *int64
}

// Response модель ответа с обновленным расписанием
type Response struct {
	ID              int64
	Status          string
	Candidates      []CandidateInput
	ScheduledDate   *time.Time
	ScheduledSlot   *string
	AssignedStaffID *int64
	Version         int64
	UpdatedAt       time.Time
}

func toResponse(b *domain.Booking) *Response {
	candidates := make([]CandidateInput, 0, len(b.Candidates))
	for _, c := range b.Candidates {
		candidates = append(candidates, CandidateInput{
			Date:     c.Date,
			Slot:     c.Slot.String(),
			Priority: c.Priority,
		})
	}

	resp := &Response{
		ID:              b.ID,
		Status:          string(b.Status),
		Candidates:      candidates,
		ScheduledDate:   b.ScheduledDate,
		AssignedStaffID: b.AssignedStaffID,
		Version:         b.Version,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.ScheduledSlot != nil {
		s := b.ScheduledSlot.String()
		resp.ScheduledSlot = &s
	}
	return resp
}
