package update_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// Request модель запроса на правку полей записи.
// nil-поле означает "не трогать". Запрос относится ровно к одному
// сценарию: отчёт нельзя править вместе с основными полями
type Request struct {
	BookingID int64
	ActorID   int64

	// Основные поля (basic info)
	ServiceID  *int64
	PlanID     *int64
	ItemIDs    []int64
	CategoryID *int64
	Notes      *string

	// Отчёт о выполненной работе (reports)
	Report *string
}

// Response модель ответа с обновленной записью
type Response struct {
	ID           int64
	Kind         string
	Status       string
	PaymentState string
	Price        float64
	Notes        *string
	Report       *string
	Version      int64
	UpdatedAt    time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:           b.ID,
		Kind:         string(b.Kind),
		Status:       string(b.Status),
		PaymentState: string(b.PaymentState),
		Price:        b.Price,
		Notes:        b.Notes,
		Report:       b.Report,
		Version:      b.Version,
		UpdatedAt:    b.UpdatedAt,
	}
}

// touchesBasicInfo признак правки основных полей
func (r *Request) touchesBasicInfo() bool {
	return r.ServiceID != nil || r.PlanID != nil || len(r.ItemIDs) > 0 ||
		r.CategoryID != nil || r.Notes != nil
}

// touchesPriceFields признак правки ценообразующих полей
func (r *Request) touchesPriceFields() bool {
	return r.ServiceID != nil || r.PlanID != nil || len(r.ItemIDs) > 0 || r.CategoryID != nil
}
