package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrMalformedInterval возвращается при некорректном формате слота
	ErrMalformedInterval = errors.New("create_booking: malformed slot interval")

	// ErrDailyLimitExceeded возвращается, когда клиент исчерпал дневной
	// лимит неоплаченных заявок данного вида
	ErrDailyLimitExceeded = errors.New("create_booking: daily limit of unpaid bookings exceeded")

	// ErrPriceNotFound возвращается, когда для услуги или позиций нет цены
	ErrPriceNotFound = errors.New("create_booking: price not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
