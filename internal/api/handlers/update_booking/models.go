package update_booking

import (
	"time"

	updateBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model.
// nil-поле означает "не трогать"
type UpdateBookingRequest struct {
	ServiceID  *int64  `json:"serviceId,omitempty"`
	PlanID     *int64  `json:"planId,omitempty"`
	ItemIDs    []int64 `json:"itemIds,omitempty"`
	CategoryID *int64  `json:"categoryId,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Report     *string `json:"report,omitempty"`
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	ID           int64   `json:"id"`
	Kind         string  `json:"kind"`
	Status       string  `json:"status"`
	PaymentState string  `json:"paymentState"`
	Price        float64 `json:"price"`
	Notes        *string `json:"notes,omitempty"`
	Report       *string `json:"report,omitempty"`
	Version      int64   `json:"version"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID, actorID int64) *updateBooking.Request {
	return &updateBooking.Request{
		BookingID:  bookingID,
		ActorID:    actorID,
		ServiceID:  r.ServiceID,
		PlanID:     r.PlanID,
		ItemIDs:    r.ItemIDs,
		CategoryID: r.CategoryID,
		Notes:      r.Notes,
		Report:     r.Report,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *UpdateBookingResponse {
	return &UpdateBookingResponse{
		ID:           resp.ID,
		Kind:         resp.Kind,
		Status:       resp.Status,
		PaymentState: resp.PaymentState,
		Price:        resp.Price,
		Notes:        resp.Notes,
		Report:       resp.Report,
		Version:      resp.Version,
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
