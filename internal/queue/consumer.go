package queue

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/logger"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

type Consumer struct {
	client *redis.Client
	cfg    *config.Config
	log    zerolog.Logger
}

type MessageHandler func(ctx context.Context, data []byte) error

func NewConsumer(redisClient *RedisClient, cfg *config.Config) *Consumer {
	return &Consumer{
		client: redisClient.Client(),
		cfg:    cfg,
		log:    logger.Get(),
	}
}

// retryable reports whether a handler failure is transient. Only failures
// explicitly marked retryable circulate; everything else is parked so a bad
// message cannot loop forever.
func retryable(err error) bool {
	var rerr apperrors.RetryableError
	return errors.As(err, &rerr)
}

func (c *Consumer) ConsumeIngestionQueue(ctx context.Context, handler MessageHandler) error {
	return c.consume(ctx, c.cfg.Redis.IngestionQueue, handler)
}

func (c *Consumer) ConsumeReportQueue(ctx context.Context, handler MessageHandler) error {
	return c.consume(ctx, c.cfg.Redis.ReportQueue, handler)
}

// consume polls one list until the context ends. A message that fails with
// a RetryableError goes back to the tail of its queue; any other failure
// parks the message in the queue's dead-letter list.
func (c *Consumer) consume(ctx context.Context, queueName string, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			result, err := c.client.BRPop(ctx, 5*time.Second, queueName).Result()
			if err != nil {
				if err == redis.Nil {
					continue // timeout, keep polling
				}
				c.log.Error().Err(err).Str("queue", queueName).Msg("Failed to consume message")
				continue
			}

			if len(result) < 2 {
				continue
			}

			message := result[1]
			if err := handler(ctx, []byte(message)); err != nil {
				if retryable(err) {
					c.log.Warn().Err(err).Str("queue", queueName).Msg("Transient failure, re-enqueueing message")
					if pushErr := c.client.LPush(ctx, queueName, message).Err(); pushErr != nil {
						c.log.Error().Err(pushErr).Str("queue", queueName).Msg("Failed to re-enqueue message")
					}
					continue
				}
				c.log.Error().Err(err).Str("queue", queueName).Msg("Failed to process message")
				dlqName := queueName + c.cfg.Redis.DLQSuffix
				if dlqErr := c.client.LPush(ctx, dlqName, message).Err(); dlqErr != nil {
					c.log.Error().Err(dlqErr).Str("dlq", dlqName).Msg("Failed to move message to DLQ")
				}
			}
		}
	}
}
