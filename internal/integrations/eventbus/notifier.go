package eventbus

import (
	"context"
	"time"

	"github.com/m04kA/TableBookingService/internal/config"
	"github.com/m04kA/TableBookingService/internal/domain"
)

const publishTimeout = 3 * time.Second

// New создает публикатор по драйверу из конфигурации
func New(cfg config.EventsConfig, log Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", config.EventsDriverNone:
		return Noop{}, nil
	case config.EventsDriverRabbitMQ:
		return NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log), nil
	case config.EventsDriverKafka:
		return NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	default:
		return nil, ErrUnknownDriver
	}
}

// Notifier публикует события по принципу best effort:
// ошибка брокера логируется и никогда не возвращается вызывающему.
type Notifier struct {
	publisher Publisher
	metrics   Metrics
	log       Logger
	now       func() time.Time
}

// NewNotifier создает Notifier. metrics может быть nil.
func NewNotifier(publisher Publisher, metrics Metrics, log Logger) *Notifier {
	if publisher == nil {
		publisher = Noop{}
	}
	return &Notifier{
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Notify публикует событие о бронировании.
// Контекст запроса не используется: к этому моменту транзакция уже зафиксирована.
func (n *Notifier) Notify(eventType EventType, res *domain.Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	event := NewReservationEvent(eventType, res, n.now())
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Error("Notify: failed to publish %s for booking=%s: %v", eventType, res.BookingID, err)
		n.observe(eventType, "error")
		return
	}

	n.observe(eventType, "ok")
}

func (n *Notifier) observe(eventType EventType, result string) {
	if n.metrics != nil {
		n.metrics.IncEventPublished(string(eventType), result)
	}
}
