package kafka

import (
	"context"

	"storefront-media/internal/config"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

// ProducerClient publishes asset events to the media events topic.
type ProducerClient struct {
	producer *wbkafka.Producer
	retries  retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic),
		retries:  cfg.DefaultRetryStrategy(),
	}
}

func (p *ProducerClient) Send(ctx context.Context, key, value []byte) error {
	return p.producer.SendWithRetry(ctx, p.retries, key, value)
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
