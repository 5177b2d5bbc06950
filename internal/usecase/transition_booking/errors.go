package transition_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrInvalidTransition возвращается, когда переход не разрешен ни одной
	// из таблиц для актора
	ErrInvalidTransition = errors.New("transition_booking: invalid status transition")

	// ErrMissingConfirmedSlot возвращается при переходе в scheduled/ongoing
	// без подтвержденного слота
	ErrMissingConfirmedSlot = errors.New("transition_booking: no confirmed slot")

	// ErrSlotConflict возвращается, когда проверка занятости на коммите
	// не прошла: слот перекрыт блокировкой или другой подтвержденной записью
	ErrSlotConflict = errors.New("transition_booking: slot conflict at commit time")

	// ErrStaleWrite возвращается после двух подряд конфликтов версий.
	// Вызывающий перечитывает запись и повторяет не более одного раза
	ErrStaleWrite = errors.New("transition_booking: stale write, concurrent modification")

	// ErrUnauthorized возвращается, когда актор не сотрудник
	ErrUnauthorized = errors.New("transition_booking: unauthorized")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
