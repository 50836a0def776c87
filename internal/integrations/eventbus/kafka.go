package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka публикует события в топик, ключ сообщения - bookingId,
// поэтому события одного бронирования попадают в одну партицию по порядку.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka создает публикатор Kafka
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

// Publish синхронно пишет событие в топик
func (p *Kafka) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: kafka %s: %v", ErrPublish, p.writer.Topic, err)
	}

	return nil
}

// Close сбрасывает буферы и закрывает writer
func (p *Kafka) Close() error {
	return p.writer.Close()
}
