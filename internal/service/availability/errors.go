package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = errors.New("availability: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
