package create_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	createBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/create_booking"
)

// SlotCandidate кандидат расписания в HTTP моделях
type SlotCandidate struct {
	Date     string `json:"date"` // "2025-07-10"
	Slot     string `json:"slot"` // "10:00-10:30"
	Priority int    `json:"priority"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Kind       string  `json:"kind"` // appointment | order
	CustomerID int64   `json:"customerId"`
	ServiceID  *int64  `json:"serviceId,omitempty"`
	PlanID     *int64  `json:"planId,omitempty"`
	ItemIDs    []int64 `json:"itemIds,omitempty"`
	CategoryID *int64  `json:"categoryId,omitempty"`

	Candidates []SlotCandidate `json:"candidates"`
	Notes      *string         `json:"notes,omitempty"`

	// CreatedByStaff — запись создает сотрудник от имени клиента,
	// дневные лимиты не применяются
	CreatedByStaff bool `json:"createdByStaff,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64           `json:"id"`
	Kind         string          `json:"kind"`
	CustomerID   int64           `json:"customerId"`
	Status       string          `json:"status"`
	PaymentState string          `json:"paymentState"`
	Price        float64         `json:"price"`
	Candidates   []SlotCandidate `json:"candidates"`
	Notes        *string         `json:"notes,omitempty"`
	Version      int64           `json:"version"`
	CreatedAt    string          `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(callerID int64) (*createBooking.Request, error) {
	candidates := make([]createBooking.CandidateInput, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		date, err := time.ParseInLocation(domain.DateFormat, c.Date, time.UTC)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, createBooking.CandidateInput{
			Date:     date,
			Slot:     c.Slot,
			Priority: c.Priority,
		})
	}

	return &createBooking.Request{
		Kind:           r.Kind,
		CustomerID:     r.CustomerID,
		CreatorID:      callerID,
		CreatorIsStaff: r.CreatedByStaff,
		ServiceID:      r.ServiceID,
		PlanID:         r.PlanID,
		ItemIDs:        r.ItemIDs,
		CategoryID:     r.CategoryID,
		Candidates:     candidates,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	candidates := make([]SlotCandidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		candidates = append(candidates, SlotCandidate{
			Date:     c.Date.Format(domain.DateFormat),
			Slot:     c.Slot,
			Priority: c.Priority,
		})
	}

	return &BookingResponse{
		ID:           resp.ID,
		Kind:         resp.Kind,
		CustomerID:   resp.CustomerID,
		Status:       resp.Status,
		PaymentState: resp.PaymentState,
		Price:        resp.Price,
		Candidates:   candidates,
		Notes:        resp.Notes,
		Version:      resp.Version,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
