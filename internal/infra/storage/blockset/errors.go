package blockset

import "errors"

var (
	// ErrBlockSetNotFound возвращается, когда для даты нет сохранённого набора
	ErrBlockSetNotFound = errors.New("blockset.repository: block set not found")

	// ErrVersionConflict возвращается, когда условная запись не прошла по
	// версии: дату редактируют конкурентно, вызывающий должен перечитать
	ErrVersionConflict = errors.New("blockset.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("blockset.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("blockset.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("blockset.repository: failed to scan row")

	// ErrCorruptIntervals возвращается, когда сохранённый набор не декодируется
	ErrCorruptIntervals = errors.New("blockset.repository: stored intervals are malformed")
)
