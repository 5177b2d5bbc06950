package manage_blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/events"
	staffClient "github.com/m04kA/SMC-WorkshopService/internal/integrations/staff"
	"github.com/m04kA/SMC-WorkshopService/pkg/timerange"
)

// Request модель запроса на мутацию блокировок.
// Указывается либо Date, либо пара StartDate/EndDate (диапазон)
type Request struct {
	ActorID   int64
	Date      string
	StartDate string
	EndDate   string
	Op        string
	Intervals []string
}

// DateOutcome результат по одной дате диапазона
type DateOutcome struct {
	Intervals []string `json:"intervals,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Response модель ответа: результат по каждой затронутой дате
type Response struct {
	Results map[string]DateOutcome
}

// UseCase use case мутации ручных блокировок. Только координатор;
// диапазонный вариант продолжает работу после отказов отдельных дат
type UseCase struct {
	schedule    ScheduleService
	staffClient StaffClient
	producer    EventProducer
	invalidator CacheInvalidator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	schedule ScheduleService,
	staffClient StaffClient,
	producer EventProducer,
	invalidator CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		schedule:    schedule,
		staffClient: staffClient,
		producer:    producer,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Execute выполняет use case мутации блокировок
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ManageBlocks: actor=%d, op=%s, date=%q, range=%q..%q",
		req.ActorID, req.Op, req.Date, req.StartDate, req.EndDate)

	// 1. Валидация входных данных
	op, ok := domain.ParseBlockOperation(req.Op)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, req.Op)
	}

	intervals, err := parseIntervals(req.Intervals)
	if err != nil {
		uc.logger.Warn("ManageBlocks: validation failed: %v", err)
		return nil, err
	}

	single := req.Date != ""
	ranged := req.StartDate != "" || req.EndDate != ""
	if single == ranged {
		return nil, fmt.Errorf("%w: specify either date or startDate+endDate", ErrInvalidInput)
	}

	// 2. Мутация блокировок доступна только координатору
	if err := uc.checkCoordinator(ctx, req.ActorID); err != nil {
		return nil, err
	}

	// 3. Применяем операцию
	var results map[string]DateOutcome
	if single {
		results, err = uc.applySingle(ctx, req.Date, op, intervals)
	} else {
		results, err = uc.applyRange(ctx, req.StartDate, req.EndDate, op, intervals)
	}
	if err != nil {
		return nil, err
	}

	// 4. Пост-коммитные шаги по успешным датам
	for dateStr, outcome := range results {
		if outcome.Error != "" {
			continue
		}
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.UTC)
		if err != nil {
			continue
		}
		uc.invalidator.InvalidateDate(ctx, date)
		if uc.producer != nil {
			event := events.SlotBlockChanged{
				Type:       events.TypeSlotBlockChanged,
				Date:       dateStr,
				Operation:  string(op),
				OccurredAt: time.Now(),
			}
			if err := uc.producer.Publish(ctx, event); err != nil {
				uc.logger.Error("ManageBlocks: failed to publish event for date=%s: %v", dateStr, err)
			}
		}
	}

	return &Response{Results: results}, nil
}

func (uc *UseCase) applySingle(ctx context.Context, dateStr string, op domain.BlockOperation, intervals []timerange.Interval) (map[string]DateOutcome, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}

	set, err := uc.schedule.Apply(ctx, date, op, intervals)
	if err != nil {
		uc.logger.Warn("ManageBlocks: apply failed for date=%s: %v", dateStr, err)
		return map[string]DateOutcome{dateStr: {Error: err.Error()}}, nil
	}

	return map[string]DateOutcome{dateStr: {Intervals: formatIntervals(set.Intervals)}}, nil
}

func (uc *UseCase) applyRange(ctx context.Context, startStr, endStr string, op domain.BlockOperation, intervals []timerange.Interval) (map[string]DateOutcome, error) {
	start, err := time.ParseInLocation(domain.DateFormat, startStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startDate %q", ErrInvalidInput, startStr)
	}
	end, err := time.ParseInLocation(domain.DateFormat, endStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endDate %q", ErrInvalidInput, endStr)
	}

	raw, err := uc.schedule.ApplyRange(ctx, start, end, op, intervals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	results := make(map[string]DateOutcome, len(raw))
	for dateStr, r := range raw {
		if r.Err != nil {
			results[dateStr] = DateOutcome{Error: r.Err.Error()}
			continue
		}
		results[dateStr] = DateOutcome{Intervals: formatIntervals(r.Set.Intervals)}
	}
	return results, nil
}

// checkCoordinator проверяет роль координатора; мутации не деградируют
func (uc *UseCase) checkCoordinator(ctx context.Context, actorID int64) error {
	if actorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	member, err := uc.staffClient.GetMember(ctx, actorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			return fmt.Errorf("%w: actor=%d", ErrUnauthorized, actorID)
		}
		uc.logger.Error("ManageBlocks: failed to resolve actor=%d: %v", actorID, err)
		return fmt.Errorf("%w: failed to resolve actor: %v", ErrInternal, err)
	}

	roles := domain.RolesFromStrings(member.Roles)
	if !domain.HasRole(roles, domain.RoleCoordinator) {
		return fmt.Errorf("%w: actor=%d is not a coordinator", ErrUnauthorized, actorID)
	}
	return nil
}

func parseIntervals(specs []string) ([]timerange.Interval, error) {
	intervals := make([]timerange.Interval, 0, len(specs))
	for _, s := range specs {
		iv, err := timerange.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedInterval, s, err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

func formatIntervals(ivs []timerange.Interval) []string {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, iv.String())
	}
	return out
}
