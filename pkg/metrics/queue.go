package metrics

import "time"

// TickProcessed фиксирует завершение тика с итоговым статусом и длительностью
func (m *Metrics) TickProcessed(status string, duration time.Duration) {
	m.QueueTicksTotal.WithLabelValues(status).Inc()
	m.QueueTickDuration.Observe(duration.Seconds())
}

// ShopError фиксирует сбой обработки одной точки
func (m *Metrics) ShopError() {
	m.QueueShopErrorsTotal.Inc()
}

// ReservationCreated фиксирует созданную предварительную бронь
func (m *Metrics) ReservationCreated() {
	m.QueueReservationsTotal.Inc()
}

// NotificationResult фиксирует исход отправки уведомления (sent, skipped, failed)
func (m *Metrics) NotificationResult(status string) {
	m.QueueNotificationsTotal.WithLabelValues(status).Inc()
}

// ReservationExpired фиксирует бронь, снятую по истечении окна подтверждения
func (m *Metrics) ReservationExpired() {
	m.QueueExpiredTotal.Inc()
}

// EntryWithoutSlot фиксирует запись, оставшуюся без слота в этом тике
func (m *Metrics) EntryWithoutSlot() {
	m.QueueEntriesWithoutSlot.Inc()
}
