package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrVersionConflict возвращается, когда условное обновление не прошло
	// по версии: запись изменена конкурентно, вызывающий должен перечитать
	ErrVersionConflict = errors.New("booking.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrCorruptSlot возвращается, когда сохранённый интервал не декодируется
	ErrCorruptSlot = errors.New("booking.repository: stored slot is malformed")
)
