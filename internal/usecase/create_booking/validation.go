package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// validateRequest валидирует входные данные запроса.
// Слоты разбираются здесь же: некорректная форма отклоняется на входе,
// без частичной обработки
func validateRequest(req *Request) ([]domain.SlotCandidate, error) {
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.CreatorID <= 0 {
		return nil, fmt.Errorf("%w: creatorID must be positive", ErrInvalidInput)
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, req.Kind)
	}

	switch kind {
	case domain.KindAppointment:
		if req.ServiceID == nil || *req.ServiceID <= 0 {
			return nil, fmt.Errorf("%w: serviceID is required for appointments", ErrInvalidInput)
		}
		if len(req.ItemIDs) > 0 || req.CategoryID != nil {
			return nil, fmt.Errorf("%w: order fields are not allowed for appointments", ErrInvalidInput)
		}
	case domain.KindOrder:
		if len(req.ItemIDs) == 0 {
			return nil, fmt.Errorf("%w: itemIDs are required for orders", ErrInvalidInput)
		}
		if req.CategoryID == nil || *req.CategoryID <= 0 {
			return nil, fmt.Errorf("%w: categoryID is required for orders", ErrInvalidInput)
		}
		if req.ServiceID != nil || req.PlanID != nil {
			return nil, fmt.Errorf("%w: appointment fields are not allowed for orders", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return validateCandidates(req.Candidates)
}

// validateCandidates разбирает кандидатов и проверяет приоритеты:
// ровно один кандидат с приоритетом 1, приоритеты без дубликатов
func validateCandidates(inputs []CandidateInput) ([]domain.SlotCandidate, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one slot candidate is required", ErrInvalidInput)
	}
	if len(inputs) > domain.MaxCandidatesPerReq {
		return nil, fmt.Errorf("%w: at most %d slot candidates allowed", ErrInvalidInput, domain.MaxCandidatesPerReq)
	}

	seen := make(map[int]bool, len(inputs))
	candidates := make([]domain.SlotCandidate, 0, len(inputs))
	primaries := 0

	for _, in := range inputs {
		if in.Date.IsZero() {
			return nil, fmt.Errorf("%w: candidate date is required", ErrInvalidInput)
		}
		if in.Priority <= 0 {
			return nil, fmt.Errorf("%w: candidate priority must be positive", ErrInvalidInput)
		}
		if seen[in.Priority] {
			return nil, fmt.Errorf("%w: duplicate candidate priority %d", ErrInvalidInput, in.Priority)
		}
		seen[in.Priority] = true
		if in.Priority == 1 {
			primaries++
		}

		slot, err := timerange.Parse(in.Slot)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedInterval, in.Slot, err)
		}

		candidates = append(candidates, domain.SlotCandidate{
			Date:     in.Date,
			Slot:     slot,
			Priority: in.Priority,
		})
	}

	if primaries != 1 {
		return nil, fmt.Errorf("%w: exactly one candidate must have priority 1", ErrInvalidInput)
	}

	return candidates, nil
}

func parseKind(s string) (domain.BookingKind, bool) {
	switch domain.BookingKind(s) {
	case domain.KindAppointment, domain.KindOrder:
		return domain.BookingKind(s), true
	default:
		return "", false
	}
}
