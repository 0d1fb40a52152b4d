package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/store/internal/cfg"
	"github.com/DRSN-tech/store/internal/usecase"
	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Producer публикует события об изменении продуктов. Ключом сообщения служит id продукта,
// поэтому события одного продукта попадают в одну партицию.
type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s, messages: %d", err.Error(), len(messages))
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// Publish ставит событие в очередь записи. Ошибки доставки приходят в Completion.
func (p *Producer) Publish(ctx context.Context, event *usecase.ProductEvent) error {
	value, err := GetPayloadBytes(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID.String()),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// EnsureTopic создаёт топик, если его ещё нет.
func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// GetPayloadBytes кодирует событие как protobuf Struct.
func GetPayloadBytes(event *usecase.ProductEvent) ([]byte, error) {
	fields := map[string]any{
		"event_id":    event.EventID,
		"type":        string(event.Type),
		"product_id":  event.ProductID.String(),
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}

	if event.Product != nil {
		fields["product"] = map[string]any{
			"id":         event.Product.ID.String(),
			"name":       event.Product.Name,
			"quantity":   event.Product.Quantity,
			"price":      event.Product.Price,
			"status":     event.Product.Status,
			"created_at": event.Product.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updated_at": event.Product.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
	}

	payload, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return proto.Marshal(payload)
}
