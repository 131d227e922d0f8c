package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/db"
	"github.com/monperrus/ladok3/internal/logger"
	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/queue"
	"github.com/monperrus/ladok3/internal/report"
)

// ReportWorker pushes staged results into Ladok. The report service holds
// one Ladok session and serializes its use, so jobs run inline on the
// consumer loop; returning their outcome lets the consumer re-enqueue
// transient failures and park permanent ones in the DLQ.
type ReportWorker struct {
	cfg           *config.Config
	repo          db.Repository
	reportService *report.Service
	consumer      *queue.Consumer
	log           zerolog.Logger
}

func NewReportWorker(
	cfg *config.Config,
	repo db.Repository,
	redisClient *queue.RedisClient,
) *ReportWorker {
	return &ReportWorker{
		cfg:           cfg,
		repo:          repo,
		reportService: report.NewService(cfg, repo),
		consumer:      queue.NewConsumer(redisClient, cfg),
		log:           logger.Get(),
	}
}

func (w *ReportWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting report worker")

	return w.consumer.ConsumeReportQueue(ctx, w.handleMessage)
}

func (w *ReportWorker) Stop() {
	w.log.Info().Msg("Stopping report worker")
}

func (w *ReportWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ReportJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal report job")
		return err
	}

	w.log.Info().Int64("file_id", job.FileID).Msg("Processing report job")

	return w.reportService.ProcessReportJob(ctx, job)
}
