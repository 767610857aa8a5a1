package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/integrations/messenger"
)

// Outcome исход попытки уведомления
type Outcome string

const (
	OutcomeSent    Outcome = "sent"    // сообщение отправлено
	OutcomeSkipped Outcome = "skipped" // вне окна уведомления, попробуем следующим тиком
	OutcomeFailed  Outcome = "failed"  // ошибка канала, бронь сохраняется
)

// Config параметры окна уведомления
type Config struct {
	MinLeadMinutes            int // минимум минут до слота
	MaxLeadMinutes            int // максимум минут до слота
	ConfirmationWindowMinutes int // дедлайн подтверждения в тексте сообщения
}

// Service решает, пора ли уведомлять клиента о брони, и отправляет сообщение
type Service struct {
	messengerClient MessengerClient
	entryRepo       QueueEntryRepository
	auditRepo       AuditRepository
	cfg             Config
	logger          Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	messengerClient MessengerClient,
	entryRepo QueueEntryRepository,
	auditRepo AuditRepository,
	cfg Config,
	logger Logger,
) *Service {
	return &Service{
		messengerClient: messengerClient,
		entryRepo:       entryRepo,
		auditRepo:       auditRepo,
		cfg:             cfg,
		logger:          logger,
	}
}

// WithinWindow возвращает true, если до слота осталось уместное время
// для уведомления: не слишком мало, чтобы клиент успел дойти,
// и не слишком много, чтобы он не забыл. Сравниваем длительности, а не
// целые минуты: лид 120м59с лежит за верхней границей
func (s *Service) WithinWindow(lead time.Duration) bool {
	return lead >= time.Duration(s.cfg.MinLeadMinutes)*time.Minute &&
		lead <= time.Duration(s.cfg.MaxLeadMinutes)*time.Minute
}

// NotifyParams параметры попытки уведомления
type NotifyParams struct {
	Settings       *domain.QueueSettings
	Entry          *domain.QueueEntry
	ServiceName    string
	SlotStartLocal time.Time // локальное время начала слота
	NowLocal       time.Time // локальное "сейчас"
	NowUTC         time.Time
}

// MaybeNotify отправляет клиенту предложение слота, если лид-тайм попадает
// в окно уведомления. Бронь при этом уже создана и держит место независимо
// от исхода отправки: ошибка канала логируется и не фатальна
func (s *Service) MaybeNotify(ctx context.Context, p NotifyParams) Outcome {
	lead := p.SlotStartLocal.Sub(p.NowLocal)
	minutesUntil := int(lead.Minutes())

	if !s.WithinWindow(lead) {
		s.logger.Info("MaybeNotify: entry=%d outside notification window (%d min until slot), deferring",
			p.Entry.ID, minutesUntil)
		return OutcomeSkipped
	}

	if !p.Settings.HasMessenger() {
		s.logger.Warn("MaybeNotify: shop=%d has no messenger credentials, entry=%d not notified",
			p.Settings.ShopID, p.Entry.ID)
		return OutcomeFailed
	}

	text := s.composeMessage(p, minutesUntil)

	creds := messenger.Credentials{
		Instance: p.Settings.MessengerInstance,
		Token:    p.Settings.MessengerToken,
	}

	if err := s.messengerClient.SendText(ctx, creds, p.Entry.ClientPhone, text); err != nil {
		// Бронь важнее сообщения: место остаётся за клиентом,
		// отправку повторит следующий тик
		s.logger.Error("MaybeNotify: failed to send message for entry=%d shop=%d: %v",
			p.Entry.ID, p.Settings.ShopID, err)
		return OutcomeFailed
	}

	if err := s.entryRepo.MarkNotificationSent(ctx, p.Entry.ID, p.NowUTC); err != nil {
		// Сообщение уже ушло; без отметки следующий тик отправит повтор
		s.logger.Error("MaybeNotify: message sent but failed to mark entry=%d: %v", p.Entry.ID, err)
	} else {
		sentAt := p.NowUTC
		p.Entry.NotificationSentAt = &sentAt
	}

	s.logger.Info("MaybeNotify: entry=%d notified, slot at %s (%d min ahead)",
		p.Entry.ID, p.SlotStartLocal.Format(domain.TimeFormat), minutesUntil)

	s.writeAudit(ctx, p, minutesUntil)

	return OutcomeSent
}

// composeMessage собирает текст приглашения для клиента
func (s *Service) composeMessage(p NotifyParams, minutesUntil int) string {
	return fmt.Sprintf(
		"Здравствуйте, %s! Подошла ваша очередь: %s в %s (через %d мин). "+
			"Вы указали время в пути %d мин. "+
			"Ответьте на это сообщение, чтобы подтвердить запись. "+
			"Бронь действует %d минут.",
		p.Entry.ClientName,
		p.ServiceName,
		p.SlotStartLocal.Format(domain.TimeFormat),
		minutesUntil,
		p.Entry.TravelMinutes,
		s.cfg.ConfirmationWindowMinutes,
	)
}

func (s *Service) writeAudit(ctx context.Context, p NotifyParams, minutesUntil int) {
	details, err := json.Marshal(map[string]interface{}{
		"minutes_until_slot": minutesUntil,
		"slot_start":         p.SlotStartLocal.Format(domain.TimeFormat),
		"travel_minutes":     p.Entry.TravelMinutes,
	})
	if err != nil {
		details = []byte("{}")
	}

	event := &domain.AuditEvent{
		ShopID:       p.Settings.ShopID,
		QueueEntryID: &p.Entry.ID,
		EventType:    domain.AuditNotificationSent,
		Details:      string(details),
	}

	if err := s.auditRepo.Insert(ctx, event); err != nil {
		s.logger.Warn("writeAudit: failed to insert notification_sent event for entry=%d: %v", p.Entry.ID, err)
	}
}
