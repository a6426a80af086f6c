// kafka реализует notify.Sink поверх Kafka-продюсера.
//
// События сериализуются в JSON и публикуются в топик уведомлений, откуда их
// разбирают потребители доставки (inbox/push). Ключ сообщения — recipient_id,
// чтобы события одного получателя попадали в одну партицию и сохраняли порядок.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/config"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
)

// Producer — Kafka-приёмник событий уведомлений.
type Producer struct {
	p     *kafka.Producer
	topic string
}

// New создаёт продюсер и проверяет базовую конфигурацию.
func New(cfg *config.Config) (*Producer, error) {
	if cfg == nil || cfg.Kafka.Brokers == "" {
		return nil, fmt.Errorf("kafka: empty brokers")
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Kafka.Brokers,
		// Уведомления терпят потерю при аварии брокера, но не дубли-шторм:
		// одного подтверждения лидера достаточно.
		"acks": "1",
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return &Producer{p: p, topic: cfg.Kafka.Topic}, nil
}

// Publish публикует событие и дожидается подтверждения доставки либо
// истечения контекста.
func (pr *Producer) Publish(ctx context.Context, ev models.NotificationEvent) error {
	const op = "notify/kafka/Publish"

	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	delivery := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &pr.topic, Partition: kafka.PartitionAny},
		Key:            []byte(ev.RecipientID.String()),
		Value:          raw,
	}

	if err := pr.p.Produce(msg, delivery); err != nil {
		return fmt.Errorf("%s: produce: %w", op, err)
	}

	select {
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("%s: unexpected event %T", op, e)
		}

		if m.TopicPartition.Error != nil {
			return fmt.Errorf("%s: delivery: %w", op, m.TopicPartition.Error)
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// Close сбрасывает буфер продюсера и закрывает его.
func (pr *Producer) Close() error {
	pr.p.Flush(5000)
	pr.p.Close()
	return nil
}
