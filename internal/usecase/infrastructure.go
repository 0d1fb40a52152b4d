package usecase

import "context"

// EventProducer публикует события об изменениях продуктов.
type EventProducer interface {
	Publish(ctx context.Context, event *ProductEvent) error
}

type nopProducer struct{}

func (nopProducer) Publish(context.Context, *ProductEvent) error { return nil }
