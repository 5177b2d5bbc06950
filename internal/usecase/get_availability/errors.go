package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrMalformedInterval возвращается при некорректном формате слота
	ErrMalformedInterval = errors.New("get_availability: malformed slot interval")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
