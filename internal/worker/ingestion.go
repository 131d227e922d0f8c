package worker

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/db"
	"github.com/monperrus/ladok3/internal/excel"
	"github.com/monperrus/ladok3/internal/logger"
	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/queue"
	"github.com/monperrus/ladok3/internal/storage"
)

// IngestionWorker turns uploaded spreadsheets into staged result rows.
type IngestionWorker struct {
	cfg        *config.Config
	repo       db.Repository
	storage    storage.Storage
	parser     excel.ParsingStrategy
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewIngestionWorker(
	cfg *config.Config,
	repo db.Repository,
	storage storage.Storage,
	redisClient *queue.RedisClient,
) *IngestionWorker {
	return &IngestionWorker{
		cfg:        cfg,
		repo:       repo,
		storage:    storage,
		parser:     excel.NewExcelStrategy(),
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Ingestion.Count),
		log:        logger.Get(),
	}
}

func (w *IngestionWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting ingestion worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeIngestionQueue(ctx, w.handleMessage)
}

func (w *IngestionWorker) Stop() {
	w.log.Info().Msg("Stopping ingestion worker")
	w.workerPool.Stop()
}

func (w *IngestionWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.IngestionJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal ingestion job")
		return err
	}

	w.log.Info().Int64("file_id", job.FileID).Str("s3_path", job.S3Path).Msg("Processing ingestion job")

	w.workerPool.Submit(func(ctx context.Context) error {
		return w.processFile(ctx, job)
	})

	return nil
}

func (w *IngestionWorker) processFile(ctx context.Context, job model.IngestionJob) error {
	log := w.log.With().Int64("file_id", job.FileID).Logger()

	log.Debug().Msg("Downloading file from S3")
	reader, err := w.storage.Download(ctx, job.S3Path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to download file")
		return w.failFile(ctx, job.FileID, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read file data")
		return w.failFile(ctx, job.FileID, err)
	}

	log.Debug().Msg("Parsing Excel file")
	results, err := w.parser.Parse(ctx, data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse Excel file")
		return w.failFile(ctx, job.FileID, err)
	}

	log.Debug().Int("result_count", len(results)).Msg("Validating parsed results")
	if err := w.parser.Validate(ctx, results); err != nil {
		log.Error().Err(err).Msg("Result validation failed")
		return w.failFile(ctx, job.FileID, err)
	}

	log.Debug().Msg("Inserting results into staging table")
	if err := w.repo.InsertResults(ctx, job.FileID, results); err != nil {
		log.Error().Err(err).Msg("Failed to insert results")
		return w.failFile(ctx, job.FileID, err)
	}

	if err := w.repo.UpdateFileStatus(ctx, job.FileID, model.FileStatusParsedOK, nil); err != nil {
		log.Error().Err(err).Msg("Failed to update file status")
		return err
	}

	log.Info().Int("result_count", len(results)).Msg("File processed successfully")
	return nil
}

func (w *IngestionWorker) failFile(ctx context.Context, fileID int64, cause error) error {
	errorMsg := cause.Error()
	w.repo.UpdateFileStatus(ctx, fileID, model.FileStatusParsedFail, &errorMsg)
	return cause
}
