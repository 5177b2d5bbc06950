package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-WorkshopService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID записи"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSlot        = "некорректный формат слота, ожидается HH:MM-HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "запись не найдена"
	msgEditNotAllowed     = "изменение расписания недоступно в текущем статусе"
	msgSlotConflict       = "слот конфликтует с блокировкой или другой записью"
	msgWorkerNotFound     = "назначаемый сотрудник не найден"
	msgWorkerNotCapable   = "сотрудник не допущен к выбранной услуге"
	msgStaleWrite         = "запись изменена параллельно, повторите запрос"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/schedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, callerID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/schedule - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrMalformedInterval):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Malformed slot: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Unauthorized: booking_id=%d, actor_id=%d", bookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrEditNotAllowed):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Edit not allowed: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgEditNotAllowed)

		case errors.Is(err, rescheduleBooking.ErrWorkerNotFound):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Worker not found: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgWorkerNotFound)

		case errors.Is(err, rescheduleBooking.ErrWorkerNotCapable):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Worker not capable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgWorkerNotCapable)

		case errors.Is(err, rescheduleBooking.ErrSlotConflict):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Slot conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, rescheduleBooking.ErrStaleWrite):
			h.logger.Warn("PATCH /bookings/{id}/schedule - Stale write: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgStaleWrite)

		default:
			h.logger.Error("PATCH /bookings/{id}/schedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/schedule - Schedule updated: booking_id=%d, actor_id=%d, version=%d",
		bookingID, callerID, result.Version)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
