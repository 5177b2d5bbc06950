package workflow

import "github.com/m04kA/SMC-WorkshopService/internal/domain"

// Таблицы переходов заданы данными, а не условиями: полный набор правил
// перечислим и покрывается тестами как таблица. Две таблицы аддитивны —
// переход легален, если его разрешает хотя бы одна из них для роли актора.

// coordinatorTransitions — переходы, доступные координатору.
var coordinatorTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.StatusPending:   {domain.StatusScheduled, domain.StatusCancelled},
	domain.StatusScheduled: {domain.StatusPending, domain.StatusCancelled},
	domain.StatusOngoing:   {domain.StatusScheduled, domain.StatusCancelled},
	domain.StatusCancelled: {domain.StatusPending, domain.StatusScheduled},
	domain.StatusCompleted: {},
}

// workerTransitions — переходы, доступные назначенному исполнителю.
var workerTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.StatusPending:   {},
	domain.StatusScheduled: {domain.StatusOngoing},
	domain.StatusOngoing:   {domain.StatusCompleted, domain.StatusScheduled},
	domain.StatusCompleted: {domain.StatusOngoing},
	domain.StatusCancelled: {},
}

// EditScenario — классификация запроса на редактирование по затронутым полям.
type EditScenario string

const (
	// ScenarioBasicInfo — все поля, кроме статуса, расписания и отчётов
	ScenarioBasicInfo EditScenario = "basic_info"
	// ScenarioScheduling — кандидаты, подтверждённый слот, назначение исполнителя
	ScenarioScheduling EditScenario = "scheduling"
	// ScenarioReports — пострабочие отчёты и заметки о выполнении
	ScenarioReports EditScenario = "reports"
	// ScenarioStatus — смена статуса, управляется таблицами переходов
	ScenarioStatus EditScenario = "status"
)

// basicInfoStatuses — статусы, в которых разрешено редактирование основной информации.
var basicInfoStatuses = map[domain.BookingStatus]bool{
	domain.StatusPending:   true,
	domain.StatusScheduled: true,
	domain.StatusOngoing:   true,
}

// schedulingStatuses — статусы, в которых разрешено редактирование расписания.
var schedulingStatuses = map[domain.BookingStatus]bool{
	domain.StatusPending:   true,
	domain.StatusScheduled: true,
}

// CoordinatorTransitions возвращает копию таблицы переходов координатора.
func CoordinatorTransitions() map[domain.BookingStatus][]domain.BookingStatus {
	return copyTable(coordinatorTransitions)
}

// WorkerTransitions возвращает копию таблицы переходов назначенного исполнителя.
func WorkerTransitions() map[domain.BookingStatus][]domain.BookingStatus {
	return copyTable(workerTransitions)
}

func copyTable(src map[domain.BookingStatus][]domain.BookingStatus) map[domain.BookingStatus][]domain.BookingStatus {
	out := make(map[domain.BookingStatus][]domain.BookingStatus, len(src))
	for from, tos := range src {
		out[from] = append([]domain.BookingStatus(nil), tos...)
	}
	return out
}

func tableAllows(table map[domain.BookingStatus][]domain.BookingStatus, from, to domain.BookingStatus) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
