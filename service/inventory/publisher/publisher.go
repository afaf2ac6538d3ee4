package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"retail_backoffice/pkg/infra/queue"
	"retail_backoffice/pkg/metrics"
	"retail_backoffice/service/inventory/model"
)

// IPublisher hands inventory changes to the realtime database sync. Callers
// have already committed the change to MongoDB.
type IPublisher interface {
	Publish(ctx context.Context, event model.SyncEvent) error
}

// Applier writes an event to the lookup cache.
type Applier interface {
	Apply(ctx context.Context, event model.SyncEvent) error
}

type sqsPublisher struct {
	client   queue.API
	queueURL string
}

func NewSQSPublisher(client queue.API, queueURL string) IPublisher {
	return &sqsPublisher{client: client, queueURL: queueURL}
}

func (p *sqsPublisher) Publish(ctx context.Context, event model.SyncEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sync event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind": {DataType: aws.String("String"), StringValue: aws.String(string(event.Kind))},
		},
	})
	if err != nil {
		metrics.SyncEvents.WithLabelValues(string(event.Kind), "publish_failed").Inc()
		return fmt.Errorf("enqueue sync event: %w", err)
	}
	metrics.SyncEvents.WithLabelValues(string(event.Kind), "published").Inc()
	return nil
}

type directPublisher struct {
	applier Applier
}

// NewDirectPublisher applies events inline, for deployments without a queue.
func NewDirectPublisher(applier Applier) IPublisher {
	return &directPublisher{applier: applier}
}

func (p *directPublisher) Publish(ctx context.Context, event model.SyncEvent) error {
	return p.applier.Apply(ctx, event)
}

// PublishAll publishes every event and returns the first error.
func PublishAll(ctx context.Context, p IPublisher, events []model.SyncEvent) error {
	var firstErr error
	for _, ev := range events {
		if err := p.Publish(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
