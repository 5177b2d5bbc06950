package workflow

import "errors"

var (
	// ErrInvalidTransition возвращается, когда переход статуса не разрешён ни одной таблицей
	ErrInvalidTransition = errors.New("workflow: invalid status transition")

	// ErrUnauthorized возвращается, когда у актора нет прав на операцию
	ErrUnauthorized = errors.New("workflow: actor is not permitted")

	// ErrPaymentLocked возвращается при попытке изменить ценообразующие поля оплаченной записи
	ErrPaymentLocked = errors.New("workflow: price-affecting fields are locked by payment")

	// ErrEditNotAllowedInStatus возвращается, когда сценарий редактирования недоступен в текущем статусе
	ErrEditNotAllowedInStatus = errors.New("workflow: edit is not allowed in current status")

	// ErrUnknownScenario возвращается при неизвестном сценарии редактирования
	ErrUnknownScenario = errors.New("workflow: unknown edit scenario")

	// ErrMissingConfirmedSlot возвращается при переходе в scheduled/ongoing без подтверждённого слота
	ErrMissingConfirmedSlot = errors.New("workflow: booking has no confirmed slot")
)
