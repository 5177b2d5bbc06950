package transition_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	BookingID       int64
	ActorID         int64  // ID сотрудника, инициирующего переход
	RequestedStatus string // Целевой статус
	Reason          *string
}

// Response модель ответа после перехода
type Response struct {
	ID            int64
	Status        string
	PaymentState  string
	ScheduledDate *time.Time
	ScheduledSlot *string
	Version       int64
	UpdatedAt     time.Time
}

func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:            b.ID,
		Status:        string(b.Status),
		PaymentState:  string(b.PaymentState),
		ScheduledDate: b.ScheduledDate,
		Version:       b.Version,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.ScheduledSlot != nil {
		s := b.ScheduledSlot.String()
		resp.ScheduledSlot = &s
	}
	return resp
}
