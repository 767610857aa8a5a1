package process_queue_tick

import (
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
)

// scoreEntries вычисляет приоритет каждой записи:
//
//	score = eta_weight * (100 - travel_minutes)
//	      + position_weight * (100 - queue_index)
//	      + wait_time_bonus * min(wait_minutes, 60)
//
// где queue_index - позиция в FIFO с нуля, wait_minutes - время ожидания
// с момента создания записи. Чем выше значение, тем срочнее запись.
//
// Приоритет сохраняется на записи при создании брони для аудита,
// но цикл аллокации идёт в порядке FIFO. Чтобы перейти на аллокацию
// по приоритету, достаточно отсортировать записи по score перед циклом.
func scoreEntries(entries []*domain.QueueEntry, settings *domain.QueueSettings, now time.Time) {
	for i, entry := range entries {
		wait := entry.WaitMinutes(now)
		if wait > domain.WaitMinutesCap {
			wait = domain.WaitMinutesCap
		}

		score := settings.EtaWeight*(100-float64(entry.TravelMinutes)) +
			settings.PositionWeight*(100-float64(i)) +
			settings.WaitTimeBonus*float64(wait)

		entry.PriorityScore = &score
	}
}
