package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-WorkshopService/internal/usecase/get_availability"
)

const (
	msgMissingDate  = "отсутствует параметр date"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSlot  = "некорректный формат слота, ожидается HH:MM-HH:MM"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?date=YYYY-MM-DD[&checkSlot=HH:MM-HH:MM]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /availability - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	slot := r.URL.Query().Get("checkSlot")

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		Date:      date,
		CheckSlot: slot,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrMalformedInterval):
			h.logger.Warn("GET /availability - Malformed slot: date=%s, slot=%s", date, slot)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid date: date=%s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /availability - Failed to resolve availability: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Check != nil {
		h.logger.Info("GET /availability - Slot checked: date=%s, slot=%s, held=%d, blocked=%t",
			date, slot, result.Check.HeldCount, result.Check.BlockedByManual)
		handlers.RespondJSON(w, http.StatusOK, result.Check)
		return
	}

	h.logger.Info("GET /availability - Day resolved: date=%s, entries=%d", date, len(result.View.Entries))
	handlers.RespondJSON(w, http.StatusOK, result.View)
}
