package schedule

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах операции
	ErrInvalidInput = errors.New("schedule: invalid input")

	// ErrRangeTooWide возвращается, когда диапазон дат превышает допустимый
	ErrRangeTooWide = errors.New("schedule: date range too wide")

	// ErrStaleWrite возвращается, когда условная запись дважды подряд
	// проиграла конкурирующей мутации. Вызывающий перечитывает и повторяет
	ErrStaleWrite = errors.New("schedule: stale write, concurrent modification")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
