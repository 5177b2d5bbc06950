package update_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrPaymentLocked возвращается при правке ценообразующих полей
	// оплаченной записи
	ErrPaymentLocked = errors.New("update_booking: price-affecting fields are locked by payment")

	// ErrEditNotAllowed возвращается, когда сценарий правки запрещен в
	// текущем статусе записи
	ErrEditNotAllowed = errors.New("update_booking: edit not allowed in current status")

	// ErrPriceNotFound возвращается, когда для нового состава нет цены
	ErrPriceNotFound = errors.New("update_booking: price not found")

	// ErrStaleWrite возвращается после двух подряд конфликтов версий
	ErrStaleWrite = errors.New("update_booking: stale write, concurrent modification")

	// ErrUnauthorized возвращается, когда у актора нет прав на сценарий
	ErrUnauthorized = errors.New("update_booking: unauthorized")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
