package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetCustomerBookingsRequest запрос на получение записей клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	CallerID   int64   `json:"callerId"`
	Status     *string `json:"status,omitempty"`
}

// Response модели

// SlotCandidateResponse кандидат расписания в ответе
type SlotCandidateResponse struct {
	Date     string `json:"date"`
	Slot     string `json:"slot"`
	Priority int    `json:"priority"`
}

// BookingResponse запись в ответе
type BookingResponse struct {
	ID              int64                   `json:"id"`
	Kind            string                  `json:"kind"`
	CustomerID      int64                   `json:"customerId"`
	ServiceID       *int64                  `json:"serviceId,omitempty"`
	PlanID          *int64                  `json:"planId,omitempty"`
	ItemIDs         []int64                 `json:"itemIds,omitempty"`
	CategoryID      *int64                  `json:"categoryId,omitempty"`
	Price           float64                 `json:"price"`
	Candidates      []SlotCandidateResponse `json:"candidates"`
	ScheduledDate   *string                 `json:"scheduledDate,omitempty"`
	ScheduledSlot   *string                 `json:"scheduledSlot,omitempty"`
	AssignedStaffID *int64                  `json:"assignedStaffId,omitempty"`
	Status          string                  `json:"status"`
	PaymentState    string                  `json:"paymentState"`
	Notes           *string                 `json:"notes,omitempty"`
	Report          *string                 `json:"report,omitempty"`
	CancelReason    *string                 `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time              `json:"cancelledAt,omitempty"`
	Version         int64                   `json:"version"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// BookingListResponse список записей
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Конвертация domain -> response

// FromDomainBooking конвертирует доменную запись в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	candidates := make([]SlotCandidateResponse, 0, len(b.Candidates))
	for _, c := range b.Candidates {
		candidates = append(candidates, SlotCandidateResponse{
			Date:     c.Date.Format(domain.DateFormat),
			Slot:     c.Slot.String(),
			Priority: c.Priority,
		})
	}

	resp := &BookingResponse{
		ID:              b.ID,
		Kind:            string(b.Kind),
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		PlanID:          b.PlanID,
		ItemIDs:         b.ItemIDs,
		CategoryID:      b.CategoryID,
		Price:           b.Price,
		Candidates:      candidates,
		AssignedStaffID: b.AssignedStaffID,
		Status:          string(b.Status),
		PaymentState:    string(b.PaymentState),
		Notes:           b.Notes,
		Report:          b.Report,
		CancelReason:    b.CancelReason,
		CancelledAt:     b.CancelledAt,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.ScheduledDate != nil {
		d := b.ScheduledDate.Format(domain.DateFormat)
		resp.ScheduledDate = &d
	}
	if b.ScheduledSlot != nil {
		s := b.ScheduledSlot.String()
		resp.ScheduledSlot = &s
	}

	return resp
}

// FromDomainBookingList конвертирует список доменных записей в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: items, Total: len(items)}
}

// ToDomainBookingStatus конвертирует строку в статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.ValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
