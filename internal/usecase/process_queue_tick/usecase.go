package process_queue_tick

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/service/notifications"
	"github.com/m04kA/BRB-QueueMonitor/internal/service/reservations"
	"github.com/m04kA/BRB-QueueMonitor/pkg/localtime"
)

// UseCase тик монитора виртуальной очереди
// По каждой точке с включённой очередью: загрузка состояния -> расчёт
// приоритетов -> подбор слота -> бронь -> уведомление -> снятие просроченных
// Точки обрабатываются последовательно и независимо: сбой одной точки
// не прерывает обработку остальных
type UseCase struct {
	entryRepo       QueueEntryRepository
	bookingRepo     BookingRepository
	catalogRepo     CatalogRepository
	settingsRepo    SettingsRepository
	reservationSvc  ReservationService
	notificationSvc NotificationService
	txManager       TxManager
	metrics         MetricsCollector
	tuning          Tuning
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр usecase тика очереди
// metrics может быть nil, если сбор метрик выключен
func NewUseCase(
	entryRepo QueueEntryRepository,
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	reservationSvc ReservationService,
	notificationSvc NotificationService,
	txManager TxManager,
	metrics MetricsCollector,
	tuning Tuning,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		entryRepo:       entryRepo,
		bookingRepo:     bookingRepo,
		catalogRepo:     catalogRepo,
		settingsRepo:    settingsRepo,
		reservationSvc:  reservationSvc,
		notificationSvc: notificationSvc,
		txManager:       txManager,
		metrics:         metrics,
		tuning:          tuning,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет один тик по всем точкам с включённой очередью
func (uc *UseCase) Execute(ctx context.Context, _ *Request) (*Response, error) {
	started := uc.timeProvider.Now()

	settingsList, err := uc.settingsRepo.ListEnabledSettings(ctx)
	if err != nil {
		uc.metrics.TickProcessed("error", uc.timeProvider.Now().Sub(started))
		uc.logger.Error("ProcessQueueTick: failed to load shop settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load shop settings: %v", ErrInternal, err)
	}

	resp := &Response{}

	for _, settings := range settingsList {
		if !settings.Enabled {
			continue
		}

		res, err := uc.processShop(ctx, settings)
		if err != nil {
			// Сбой одной точки не прерывает тик: остальные точки обрабатываются
			uc.logger.Error("ProcessQueueTick: shop=%d skipped: %v", settings.ShopID, err)
			uc.metrics.ShopError()
			resp.ShopsSkipped++
			continue
		}

		resp.ShopsProcessed++
		resp.ReservationsCreated += res.reservations
		resp.NotificationsSent += res.notifications
		resp.ReservationsExpired += res.expired
		resp.EntriesWithoutSlot += res.withoutSlot
	}

	resp.Message = fmt.Sprintf(
		"processed %d shops (%d skipped): %d reserved, %d notified, %d expired, %d left waiting",
		resp.ShopsProcessed, resp.ShopsSkipped,
		resp.ReservationsCreated, resp.NotificationsSent,
		resp.ReservationsExpired, resp.EntriesWithoutSlot,
	)

	uc.metrics.TickProcessed("ok", uc.timeProvider.Now().Sub(started))
	uc.logger.Info("ProcessQueueTick: %s", resp.Message)

	return resp, nil
}

// processShop обрабатывает одну точку
func (uc *UseCase) processShop(ctx context.Context, settings *domain.QueueSettings) (shopResult, error) {
	var res shopResult

	norm := localtime.NewNormalizer(settings.UTCOffsetMinutes)
	nowUTC := uc.timeProvider.Now().UTC()
	nowLocal := norm.ToLocal(nowUTC)

	waiting, err := uc.entryRepo.GetWaitingByShop(ctx, settings.ShopID)
	if err != nil {
		return res, fmt.Errorf("%w: waiting entries: %v", ErrLoadState, err)
	}

	unnotified, err := uc.entryRepo.GetUnnotifiedReserved(ctx, settings.ShopID)
	if err != nil {
		return res, fmt.Errorf("%w: unnotified entries: %v", ErrLoadState, err)
	}

	// Справочник услуг нужен и для аллокации, и для повторной проверки окна
	var services map[int64]*domain.Service
	if len(waiting) > 0 || len(unnotified) > 0 {
		services, err = uc.loadServices(ctx, settings.ShopID)
		if err != nil {
			return res, err
		}
	}

	// Брони, созданные вне окна уведомления прошлыми тиками:
	// проверяем окно заново, пока слот не наступил или бронь не снята
	res.notifications += uc.renotify(ctx, settings, unnotified, services, norm, nowLocal, nowUTC)

	if len(waiting) > 0 {
		allocated, err := uc.allocate(ctx, settings, waiting, services, norm, nowLocal, nowUTC)
		if err != nil {
			return res, err
		}
		res.reservations += allocated.reservations
		res.notifications += allocated.notifications
		res.withoutSlot += allocated.withoutSlot
	} else {
		uc.logger.Info("processShop: shop=%d has no waiting entries", settings.ShopID)
	}

	// Снятие просроченных строго после аллокации: только что созданная
	// бронь не может быть снята в том же проходе
	swept, err := uc.reservationSvc.SweepExpired(ctx, settings.ShopID, nowUTC)
	if err != nil {
		return res, fmt.Errorf("sweep expired: %w", err)
	}
	for i := 0; i < swept; i++ {
		uc.metrics.ReservationExpired()
	}
	res.expired = swept

	return res, nil
}

// allocate подбирает слоты для ожидающих записей точки в порядке FIFO
func (uc *UseCase) allocate(
	ctx context.Context,
	settings *domain.QueueSettings,
	waiting []*domain.QueueEntry,
	services map[int64]*domain.Service,
	norm localtime.Normalizer,
	nowLocal, nowUTC time.Time,
) (shopResult, error) {
	var res shopResult

	horizonEnd := nowLocal.Add(time.Duration(uc.tuning.HorizonHours) * time.Hour)

	var (
		staff       []*domain.Staff
		eligibility domain.StaffServiceMap
		hours       *domain.WeekSchedule
		bookings    []*domain.Booking
	)

	// Состав мастеров, расписание и занятость читаются одним read-only
	// снапшотом: подбор слотов считает по согласованному состоянию
	err := uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if staff, err = uc.catalogRepo.GetActiveStaff(ctx, settings.ShopID); err != nil {
			return fmt.Errorf("%w: staff roster: %v", ErrLoadState, err)
		}
		if eligibility, err = uc.catalogRepo.GetStaffServiceMap(ctx, settings.ShopID); err != nil {
			return fmt.Errorf("%w: staff-service map: %v", ErrLoadState, err)
		}
		if hours, err = uc.settingsRepo.GetBusinessHours(ctx, settings.ShopID); err != nil {
			return fmt.Errorf("%w: business hours for shop=%d: %v", ErrMissingReferenceData, settings.ShopID, err)
		}
		// Бронирования всей точки в пределах горизонта
		bookings, err = uc.bookingRepo.GetActiveByShopRange(ctx, settings.ShopID,
			norm.ToUTC(nowLocal), norm.ToUTC(horizonEnd))
		if err != nil {
			return fmt.Errorf("%w: bookings: %v", ErrLoadState, err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if len(staff) == 0 {
		return res, fmt.Errorf("%w: shop=%d has no active staff", ErrMissingReferenceData, settings.ShopID)
	}

	busy := staffIntervals(bookings, norm)

	scoreEntries(waiting, settings, nowUTC)

	for _, entry := range waiting {
		if !entry.IsAllocatable() {
			continue
		}

		svc, ok := services[entry.ServiceID]
		if !ok {
			uc.logger.Warn("allocate: entry=%d requests unknown or inactive service=%d, left waiting",
				entry.ID, entry.ServiceID)
			res.withoutSlot++
			uc.metrics.EntryWithoutSlot()
			continue
		}

		duration := time.Duration(requiredDuration(svc.DurationMinutes, settings.BufferPercent)) * time.Minute

		eligible := eligibleStaff(staff, eligibility, entry)
		if len(eligible) == 0 {
			uc.logger.Warn("allocate: entry=%d has no eligible staff for service=%d, left waiting",
				entry.ID, entry.ServiceID)
			res.withoutSlot++
			uc.metrics.EntryWithoutSlot()
			continue
		}

		// Нижняя граница: сейчас + время в пути клиента + страховой запас,
		// с округлением вверх до сетки
		floor := localtime.RoundUpToGrid(
			nowLocal.Add(time.Duration(entry.TravelMinutes+uc.tuning.SafetyMarginMinutes)*time.Minute),
			uc.tuning.GridMinutes,
		)

		best := uc.bestSlot(eligible, busy, slotSearch{
			floor:      floor,
			horizonEnd: horizonEnd,
			duration:   duration,
			hours:      hours,
			grid:       uc.tuning.GridMinutes,
		})

		if best == nil {
			uc.logger.Info("allocate: no slot within horizon for entry=%d shop=%d, left waiting",
				entry.ID, settings.ShopID)
			res.withoutSlot++
			uc.metrics.EntryWithoutSlot()
			continue
		}

		_, err := uc.reservationSvc.Reserve(ctx, reservations.ReserveParams{
			Entry:              entry,
			Service:            svc,
			Slot:               *best,
			Score:              *entry.PriorityScore,
			Now:                nowUTC,
			Normalizer:         norm,
			ConfirmationWindow: time.Duration(uc.tuning.ConfirmationWindowMinutes) * time.Minute,
		})
		if err != nil {
			// Запись остаётся в waiting и будет обработана следующим тиком
			uc.logger.Error("allocate: reserve failed for entry=%d shop=%d: %v", entry.ID, settings.ShopID, err)
			continue
		}

		res.reservations++
		uc.metrics.ReservationCreated()

		// Следующие записи этого тика должны видеть занятый интервал
		busy[best.StaffID] = insertInterval(busy[best.StaffID], interval{start: best.StartAt, end: best.EndAt})

		outcome := uc.notificationSvc.MaybeNotify(ctx, notifications.NotifyParams{
			Settings:       settings,
			Entry:          entry,
			ServiceName:    svc.Name,
			SlotStartLocal: best.StartAt,
			NowLocal:       nowLocal,
			NowUTC:         nowUTC,
		})
		uc.metrics.NotificationResult(string(outcome))
		if outcome == notifications.OutcomeSent {
			res.notifications++
		}
	}

	return res, nil
}

// bestSlot возвращает слот с самым ранним началом среди доступных мастеров
// При точном совпадении побеждает первый по порядку обхода (мастера
// отсортированы по id)
func (uc *UseCase) bestSlot(eligible []*domain.Staff, busy map[int64][]interval, s slotSearch) *domain.AvailableSlot {
	var best *domain.AvailableSlot
	for _, member := range eligible {
		s.bookings = busy[member.ID]
		slot := findEarliestSlot(member.ID, s)
		if slot == nil {
			continue
		}
		if best == nil || slot.StartAt.Before(best.StartAt) {
			best = slot
		}
	}
	return best
}

// renotify повторно проверяет окно уведомления для броней, созданных
// вне окна: сообщение уходит, как только лид-тайм попадает в окно
// Брони с уже наступившим слотом или истёкшим дедлайном подтверждения
// не трогаем - их снимет ExpirySweeper
func (uc *UseCase) renotify(
	ctx context.Context,
	settings *domain.QueueSettings,
	unnotified []*domain.QueueEntry,
	services map[int64]*domain.Service,
	norm localtime.Normalizer,
	nowLocal, nowUTC time.Time,
) int {
	sent := 0

	for _, entry := range unnotified {
		if entry.ReservedStart == nil {
			continue
		}

		slotLocal := norm.ToLocal(*entry.ReservedStart)
		if !slotLocal.After(nowLocal) {
			continue
		}

		// Дедлайн подтверждения уже прошёл: приглашать клиента к брони,
		// которую этот же тик снимет, нельзя
		if entry.IsSweepable(nowUTC) {
			continue
		}

		serviceName := "запись"
		if svc, ok := services[entry.ServiceID]; ok {
			serviceName = svc.Name
		}

		outcome := uc.notificationSvc.MaybeNotify(ctx, notifications.NotifyParams{
			Settings:       settings,
			Entry:          entry,
			ServiceName:    serviceName,
			SlotStartLocal: slotLocal,
			NowLocal:       nowLocal,
			NowUTC:         nowUTC,
		})
		uc.metrics.NotificationResult(string(outcome))
		if outcome == notifications.OutcomeSent {
			sent++
		}
	}

	return sent
}

// loadServices загружает активные услуги точки в мапу по id
func (uc *UseCase) loadServices(ctx context.Context, shopID int64) (map[int64]*domain.Service, error) {
	services, err := uc.catalogRepo.GetActiveServices(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("%w: services: %v", ErrLoadState, err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: shop=%d has no active services", ErrMissingReferenceData, shopID)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}
	return byID, nil
}

// eligibleStaff возвращает мастеров, выполняющих услугу записи
// Если клиент выбрал мастера и тот подходит, список сужается до него;
// если выбранный мастер не подходит, запись ждёт любого подходящего
func eligibleStaff(staff []*domain.Staff, eligibility domain.StaffServiceMap, entry *domain.QueueEntry) []*domain.Staff {
	eligible := make([]*domain.Staff, 0, len(staff))
	for _, member := range staff {
		if !eligibility.CanPerform(member.ID, entry.ServiceID) {
			continue
		}
		if entry.PreferredStaffID != nil && *entry.PreferredStaffID == member.ID {
			return []*domain.Staff{member}
		}
		eligible = append(eligible, member)
	}
	return eligible
}

// noopMetrics заглушка при выключенном сборе метрик
type noopMetrics struct{}

func (noopMetrics) TickProcessed(string, time.Duration) {}
func (noopMetrics) ShopError()                          {}
func (noopMetrics) ReservationCreated()                 {}
func (noopMetrics) NotificationResult(string)           {}
func (noopMetrics) ReservationExpired()                 {}
func (noopMetrics) EntryWithoutSlot()                   {}
