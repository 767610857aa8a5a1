package run_queue_tick

import (
	"context"

	processQueueTick "github.com/m04kA/BRB-QueueMonitor/internal/usecase/process_queue_tick"
)

type ProcessQueueTickUseCase interface {
	Execute(ctx context.Context, req *processQueueTick.Request) (*processQueueTick.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
