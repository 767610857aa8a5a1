package process_queue_tick

// Request модель запроса на запуск тика
// Тело не требуется: тик обрабатывает все точки с включённой очередью
type Request struct{}

// Response итоги тика по всем точкам
// Детализация по точкам не возвращается, только логируется
type Response struct {
	ShopsProcessed      int    // точек обработано
	ShopsSkipped        int    // точек пропущено из-за ошибок
	ReservationsCreated int    // создано предварительных броней
	NotificationsSent   int    // отправлено уведомлений
	ReservationsExpired int    // снято броней по истечении окна
	EntriesWithoutSlot  int    // записей осталось без слота
	Message             string // краткая сводка
}

// Tuning параметры движка, общие для всех точек
type Tuning struct {
	HorizonHours              int // горизонт поиска слота
	GridMinutes               int // сетка начала слотов
	SafetyMarginMinutes       int // запас к времени в пути клиента
	ConfirmationWindowMinutes int // время жизни предварительной брони
}

// shopResult итоги обработки одной точки
type shopResult struct {
	reservations  int
	notifications int
	expired       int
	withoutSlot   int
}
