package run_queue_tick

import (
	processQueueTick "github.com/m04kA/BRB-QueueMonitor/internal/usecase/process_queue_tick"
)

// RunQueueTickResponse HTTP ответ ручного запуска тика
type RunQueueTickResponse struct {
	ShopsProcessed      int    `json:"shops_processed"`
	ShopsSkipped        int    `json:"shops_skipped"`
	ReservationsCreated int    `json:"reservations_created"`
	NotificationsSent   int    `json:"notifications_sent"`
	ReservationsExpired int    `json:"reservations_expired"`
	EntriesWithoutSlot  int    `json:"entries_without_slot"`
	Message             string `json:"message"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(result *processQueueTick.Response) RunQueueTickResponse {
	return RunQueueTickResponse{
		ShopsProcessed:      result.ShopsProcessed,
		ShopsSkipped:        result.ShopsSkipped,
		ReservationsCreated: result.ReservationsCreated,
		NotificationsSent:   result.NotificationsSent,
		ReservationsExpired: result.ReservationsExpired,
		EntriesWithoutSlot:  result.EntriesWithoutSlot,
		Message:             result.Message,
	}
}
