package manage_blocks

import (
	manageBlocks "github.com/m04kA/SMC-WorkshopService/internal/usecase/manage_blocks"
)

// ManageBlocksRequest HTTP request model.
// Указывается либо date, либо пара startDate/endDate
type ManageBlocksRequest struct {
	Date      string   `json:"date,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Op        string   `json:"op"` // set | add | remove
	Intervals []string `json:"intervals"`
}

// DateOutcome результат по одной дате
type DateOutcome struct {
	Intervals []string `json:"intervals,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ManageBlocksResponse HTTP response model
type ManageBlocksResponse struct {
	Results map[string]DateOutcome `json:"results"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ManageBlocksRequest) ToUseCaseRequest(actorID int64) *manageBlocks.Request {
	return &manageBlocks.Request{
		ActorID:   actorID,
		Date:      r.Date,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Op:        r.Op,
		Intervals: r.Intervals,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *manageBlocks.Response) *ManageBlocksResponse {
	results := make(map[string]DateOutcome, len(resp.Results))
	for date, outcome := range resp.Results {
		results[date] = DateOutcome{
			Intervals: outcome.Intervals,
			Error:     outcome.Error,
		}
	}
	return &ManageBlocksResponse{Results: results}
}
