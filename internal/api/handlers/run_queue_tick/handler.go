package run_queue_tick

import (
	"net/http"

	"github.com/m04kA/BRB-QueueMonitor/internal/api/handlers"
	processQueueTick "github.com/m04kA/BRB-QueueMonitor/internal/usecase/process_queue_tick"
)

type Handler struct {
	useCase ProcessQueueTickUseCase
	logger  Logger
}

func NewHandler(useCase ProcessQueueTickUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/queue/tick
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context(), &processQueueTick.Request{})
	if err != nil {
		h.logger.Error("POST /internal/queue/tick - Tick failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/queue/tick - %s", result.Message)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
