package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrMalformedInterval возвращается при некорректном формате слота
	ErrMalformedInterval = errors.New("reschedule_booking: malformed slot interval")

	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrEditNotAllowed возвращается, когда расписание заморожено в
	// текущем статусе записи
	ErrEditNotAllowed = errors.New("reschedule_booking: scheduling edit not allowed in current status")

	// ErrSlotConflict возвращается, когда подтверждаемый слот перекрыт
	// блокировкой или другой подтвержденной записью
	ErrSlotConflict = errors.New("reschedule_booking: slot conflict at commit time")

	// ErrWorkerNotCapable возвращается при назначении исполнителя без
	// допуска к услуге записи
	ErrWorkerNotCapable = errors.New("reschedule_booking: worker is not capable of the service")

	// ErrWorkerNotFound возвращается, когда назначаемый исполнитель не найден
	ErrWorkerNotFound = errors.New("reschedule_booking: assigned worker not found")

	// ErrStaleWrite возвращается после двух подряд конфликтов версий
	ErrStaleWrite = errors.New("reschedule_booking: stale write, concurrent modification")

	// ErrUnauthorized возвращается, когда актор не координатор
	ErrUnauthorized = errors.New("reschedule_booking: unauthorized")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
