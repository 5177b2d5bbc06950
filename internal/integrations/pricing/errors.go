package pricing

import "errors"

var (
	// ErrQuoteNotFound возвращается, когда для запрошенной услуги или позиций нет цены
	ErrQuoteNotFound = errors.New("pricing: quote not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricing client: invalid response")
)
