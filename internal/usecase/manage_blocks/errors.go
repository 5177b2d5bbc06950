package manage_blocks

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("manage_blocks: invalid input data")

	// ErrMalformedInterval возвращается при некорректном формате интервала
	ErrMalformedInterval = errors.New("manage_blocks: malformed interval")

	// ErrUnauthorized возвращается, когда актор не координатор
	ErrUnauthorized = errors.New("manage_blocks: unauthorized")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("manage_blocks: internal error")
)
