package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	updateBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/update_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID записи"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "запись не найдена"
	msgPaymentLocked      = "ценообразующие поля заморожены оплатой"
	msgEditNotAllowed     = "правка недоступна в текущем статусе записи"
	msgPriceNotFound      = "цена для выбранной услуги или позиций не найдена"
	msgStaleWrite         = "запись изменена параллельно, повторите запрос"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, callerID))
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id} - Unauthorized: booking_id=%d, actor_id=%d", bookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrPaymentLocked):
			h.logger.Warn("PATCH /bookings/{id} - Payment locked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgPaymentLocked)

		case errors.Is(err, updateBooking.ErrEditNotAllowed):
			h.logger.Warn("PATCH /bookings/{id} - Edit not allowed: booking_id=%d, actor_id=%d", bookingID, callerID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgEditNotAllowed)

		case errors.Is(err, updateBooking.ErrPriceNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Price not found: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPriceNotFound)

		case errors.Is(err, updateBooking.ErrStaleWrite):
			h.logger.Warn("PATCH /bookings/{id} - Stale write: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStaleWrite)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, actor_id=%d, version=%d",
		bookingID, callerID, result.Version)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
