package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	transitionBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidBookingID     = "некорректный ID записи"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgInvalidTransition    = "переход статуса недопустим"
	msgMissingConfirmedSlot = "нет подтвержденного слота для постановки в расписание"
	msgSlotConflict         = "слот конфликтует с блокировкой или другой записью"
	msgStaleWrite           = "запись изменена параллельно, повторите запрос"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transitionBooking.Request{
		BookingID:       bookingID,
		ActorID:         callerID,
		RequestedStatus: req.Status,
		Reason:          req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid input: booking_id=%d, status=%s", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, transitionBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionBooking.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/status - Unauthorized: booking_id=%d, actor_id=%d", bookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionBooking.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, status=%s, actor_id=%d",
				bookingID, req.Status, callerID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTransition)

		case errors.Is(err, transitionBooking.ErrMissingConfirmedSlot):
			h.logger.Warn("PATCH /bookings/{id}/status - No confirmed slot: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMissingConfirmedSlot)

		case errors.Is(err, transitionBooking.ErrSlotConflict):
			h.logger.Warn("PATCH /bookings/{id}/status - Slot conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, transitionBooking.ErrStaleWrite):
			h.logger.Warn("PATCH /bookings/{id}/status - Stale write: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStaleWrite)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to transition: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Transition applied: booking_id=%d, status=%s, actor_id=%d",
		bookingID, result.Status, callerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
