package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSlot        = "некорректный формат слота, ожидается HH:MM-HH:MM"
	msgInvalidInput       = "некорректные данные запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgDailyLimitExceeded = "превышен дневной лимит неоплаченных записей"
	msgPriceNotFound      = "цена для выбранной услуги или позиций не найдена"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(callerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse candidate date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrMalformedInterval):
			h.logger.Warn("POST /bookings - Malformed slot: customer_id=%d", req.CustomerID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", req.CustomerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrDailyLimitExceeded):
			h.logger.Warn("POST /bookings - Daily limit exceeded: customer_id=%d, kind=%s", req.CustomerID, req.Kind)
			handlers.RespondConflict(w, msgDailyLimitExceeded)

		case errors.Is(err, createBooking.ErrPriceNotFound):
			h.logger.Warn("POST /bookings - Price not found: customer_id=%d, kind=%s", req.CustomerID, req.Kind)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPriceNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v",
				req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, kind=%s",
		result.ID, req.CustomerID, req.Kind)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
