package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("staff client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("staff client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что StaffService недоступен: проверки ролей на путях чтения
	// пропускаются в пользу данных из заголовков запроса
	ErrServiceDegraded = errors.New("staff service unavailable: graceful degradation applied")
)
