package create_booking

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

// CandidateInput запрошенный слот с приоритетом
type CandidateInput struct {
	Date     time.Time // Дата слота (без времени)
	Slot     string    // Интервал "HH:MM-HH:MM"
	Priority int       // 1 — основной кандидат
}

// Request модель запроса на создание записи
type Request struct {
	Kind       string // Вид записи: appointment | order
	CustomerID int64  // ID клиента
	CreatorID  int64  // ID создающего (клиент или сотрудник)
	// CreatorIsStaff — создание сотрудником: дневные лимиты не применяются
	CreatorIsStaff bool

	// Для appointment
	ServiceID *int64
	PlanID    *int64

	// Для order
	ItemIDs    []int64
	CategoryID *int64

	Candidates []CandidateInput
	Notes      *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID           int64
	Kind         string
	CustomerID   int64
	Status       string
	PaymentState string
	Price        float64
	Candidates   []CandidateInput
	Notes        *string
	Version      int64
	CreatedAt    time.Time
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

	return &Response{
		ID:           b.ID,
		Kind:         string(b.Kind),
		CustomerID:   b.CustomerID,
		Status:       string(b.Status),
		PaymentState: string(b.PaymentState),
		Price:        b.Price,
		Candidates:   candidates,
		Notes:        b.Notes,
		Version:      b.Version,
		CreatedAt:    b.CreatedAt,
	}
}
