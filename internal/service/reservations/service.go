package reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/queueentry"
	"github.com/m04kA/BRB-QueueMonitor/pkg/localtime"
)

// Service создание и снятие предварительных броней виртуальной очереди
type Service struct {
	bookingRepo BookingRepository
	entryRepo   QueueEntryRepository
	auditRepo   AuditRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	bookingRepo BookingRepository,
	entryRepo QueueEntryRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ReserveParams параметры создания предварительной брони
type ReserveParams struct {
	Entry      *domain.QueueEntry
	Service    *domain.Service
	Slot       domain.AvailableSlot // локальное время точки
	Score      float64
	Now        time.Time // UTC
	Normalizer localtime.Normalizer

	// Окно подтверждения: бронь живёт Now + ConfirmationWindow
	ConfirmationWindow time.Duration
}

// Reserve создает предварительную бронь и переводит запись очереди в notified
// Обе записи выполняются в одной сериализуемой транзакции: при сбое вставки
// брони запись очереди остаётся в waiting и будет обработана следующим тиком
func (s *Service) Reserve(ctx context.Context, p ReserveParams) (*domain.Booking, error) {
	startUTC := p.Normalizer.ToUTC(p.Slot.StartAt)
	endUTC := p.Normalizer.ToUTC(p.Slot.EndAt)
	expiresAt := p.Now.Add(p.ConfirmationWindow)

	booking := &domain.Booking{
		ShopID:        p.Entry.ShopID,
		StaffID:       p.Slot.StaffID,
		ServiceID:     p.Service.ID,
		QueueEntryID:  &p.Entry.ID,
		StartAt:       startUTC,
		EndAt:         endUTC,
		Status:        domain.StatusQueueReserved,
		PaymentStatus: domain.PaymentPending,
		ServiceName:   p.Service.Name,
		ServicePrice:  p.Service.Price,
		ClientName:    &p.Entry.ClientName,
		ClientPhone:   &p.Entry.ClientPhone,
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.bookingRepo.CreateProvisional(txCtx, booking); err != nil {
			return fmt.Errorf("create provisional booking: %w", err)
		}

		upd := queueentry.ReserveUpdate{
			StaffID:       p.Slot.StaffID,
			ReservedStart: startUTC,
			ReservedEnd:   endUTC,
			PriorityScore: p.Score,
			ExpiresAt:     expiresAt,
		}
		if err := s.entryRepo.MarkReserved(txCtx, p.Entry.ID, upd); err != nil {
			return fmt.Errorf("mark entry reserved: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: entry=%d: %v", ErrReserveFailed, p.Entry.ID, err)
	}

	// Обновляем запись в памяти, чтобы дальнейшие шаги тика видели актуальное состояние
	p.Entry.Status = domain.EntryStatusNotified
	p.Entry.ReservedStaffID = &booking.StaffID
	p.Entry.ReservedStart = &booking.StartAt
	p.Entry.ReservedEnd = &booking.EndAt
	p.Entry.PriorityScore = &p.Score
	p.Entry.NotificationExpiresAt = &expiresAt

	s.logger.Info("Reserve: entry=%d shop=%d staff=%d slot=%s-%s booking=%d",
		p.Entry.ID, p.Entry.ShopID, p.Slot.StaffID,
		p.Slot.StartAt.Format(domain.TimeFormat), p.Slot.EndAt.Format(domain.TimeFormat), booking.ID)

	s.writeAudit(ctx, domain.AuditSlotReserved, p.Entry.ShopID, &p.Entry.ID, &booking.ID, map[string]interface{}{
		"staff_id":   booking.StaffID,
		"start_at":   booking.StartAt,
		"end_at":     booking.EndAt,
		"score":      p.Score,
		"expires_at": expiresAt,
		"service_id": p.Service.ID,
	})

	return booking, nil
}

// SweepExpired снимает брони, по которым истекло окно подтверждения:
// удаляет queue_reserved бронь и переводит запись в expired
// Возвращает количество снятых броней
// Ошибка по одной записи логируется и не прерывает обход: статус не меняется,
// запись будет подобрана следующим тиком
func (s *Service) SweepExpired(ctx context.Context, shopID int64, now time.Time) (int, error) {
	entries, err := s.entryRepo.GetExpiredNotified(ctx, shopID, now)
	if err != nil {
		return 0, fmt.Errorf("%w: shop=%d: %v", ErrSweepFailed, shopID, err)
	}

	swept := 0
	for _, entry := range entries {
		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			if _, err := s.bookingRepo.DeleteProvisionalByEntry(txCtx, entry.ID); err != nil {
				return fmt.Errorf("delete provisional booking: %w", err)
			}
			if err := s.entryRepo.MarkExpired(txCtx, entry.ID); err != nil {
				return fmt.Errorf("mark entry expired: %w", err)
			}
			return nil
		})

		if err != nil {
			s.logger.Error("SweepExpired: entry=%d shop=%d: %v", entry.ID, shopID, err)
			continue
		}

		s.logger.Info("SweepExpired: entry=%d shop=%d reservation reclaimed (expired at %s)",
			entry.ID, shopID, entry.NotificationExpiresAt.Format(time.RFC3339))

		s.writeAudit(ctx, domain.AuditNotificationExpired, shopID, &entry.ID, nil, map[string]interface{}{
			"expired_at":     entry.NotificationExpiresAt,
			"reserved_start": entry.ReservedStart,
			"reserved_end":   entry.ReservedEnd,
		})

		swept++
	}

	return swept, nil
}

// writeAudit пишет событие аудита; сбой записи не считается фатальным
func (s *Service) writeAudit(ctx context.Context, eventType domain.AuditEventType, shopID int64, entryID, bookingID *int64, details map[string]interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("writeAudit: failed to marshal details for %s: %v", eventType, err)
		payload = []byte("{}")
	}

	event := &domain.AuditEvent{
		ShopID:       shopID,
		QueueEntryID: entryID,
		BookingID:    bookingID,
		EventType:    eventType,
		Details:      string(payload),
	}

	if err := s.auditRepo.Insert(ctx, event); err != nil {
		s.logger.Warn("writeAudit: failed to insert %s event for shop=%d: %v", eventType, shopID, err)
	}
}
