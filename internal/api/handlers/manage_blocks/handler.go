package manage_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/api/middleware"
	manageBlocks "github.com/m04kA/SMC-WorkshopService/internal/usecase/manage_blocks"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "некорректный формат интервала, ожидается HH:MM-HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только координатору"
)

type Handler struct {
	useCase ManageBlocksUseCase
	logger  Logger
}

func NewHandler(useCase ManageBlocksUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ManageBlocksRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(callerID))
	if err != nil {
		switch {
		case errors.Is(err, manageBlocks.ErrMalformedInterval):
			h.logger.Warn("POST /blocks - Malformed interval: actor_id=%d", callerID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, manageBlocks.ErrInvalidInput):
			h.logger.Warn("POST /blocks - Invalid input: actor_id=%d, error=%v", callerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, manageBlocks.ErrUnauthorized):
			h.logger.Warn("POST /blocks - Unauthorized: actor_id=%d", callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /blocks - Failed to apply block mutation: actor_id=%d, error=%v", callerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocks - Block mutation applied: actor_id=%d, op=%s, dates=%d",
		callerID, req.Op, len(result.Results))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
