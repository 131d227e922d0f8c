package queue

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/model"
)

type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueIngestionJob(ctx context.Context, job model.IngestionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.IngestionQueue, data).Err()
}

func (p *Producer) EnqueueReportJob(ctx context.Context, job model.ReportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.ReportQueue, data).Err()
}
