package report

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/db"
	"github.com/monperrus/ladok3/internal/ladok"
	"github.com/monperrus/ladok3/internal/logger"
	"github.com/monperrus/ladok3/internal/model"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// Service drains staged results into Ladok over one shared session. The
// session is not safe for concurrent use, so all reporting and the API's
// interactive calls are serialized through the service mutex.
type Service struct {
	cfg     *config.Config
	repo    db.Repository
	session *ladok.Session
	mu      sync.Mutex
	log     zerolog.Logger
}

func NewService(cfg *config.Config, repo db.Repository) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		session: ladok.NewFromConfig(cfg),
		log:     logger.Get(),
	}
}

// ensureSession signs in lazily on first use and again after the session
// expires server-side. Credential and page-shape failures are permanent;
// anything else is worth a retry on the next job.
func (s *Service) ensureSession(ctx context.Context) error {
	if s.session.SignedIn() {
		return nil
	}

	err := s.session.Login(ctx, s.cfg.Ladok.Username, s.cfg.Ladok.Password)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrInvalidCredentials) ||
		errors.Is(err, apperrors.ErrNotAuthorized) ||
		errors.Is(err, apperrors.ErrLoginPageChanged) {
		return err
	}
	return apperrors.NewRetryableError(err, "ladok sign-in failed")
}

// ProcessReportJob reports every READY row of one file, marking each row
// REPORTED or FAILED as it goes. A row that fails does not stop the rest of
// the file.
func (s *Service) ProcessReportJob(ctx context.Context, job model.ReportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.With().Int64("file_id", job.FileID).Logger()
	log.Info().Msg("Processing report job")

	if err := s.ensureSession(ctx); err != nil {
		log.Error().Err(err).Msg("Could not establish Ladok session")
		return err
	}

	batchSize := s.cfg.Workers.Report.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	reported := 0
	failed := 0
	for {
		rows, err := s.repo.GetReadyResults(ctx, job.FileID, batchSize)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get ready results")
			return err
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			if err := s.reportRow(ctx, row); err != nil {
				failed++
				errorMsg := err.Error()
				if dbErr := s.repo.UpdateResultStatus(ctx, row.ID, model.ResultStatusFailed, &errorMsg); dbErr != nil {
					return dbErr
				}
				continue
			}
			reported++
			if dbErr := s.repo.UpdateResultStatus(ctx, row.ID, model.ResultStatusReported, nil); dbErr != nil {
				return dbErr
			}
		}
	}

	log.Info().Int("reported", reported).Int("failed", failed).Msg("Report job completed")
	return nil
}

// reportRow writes one staged row to Ladok. An expired session is
// re-established once; a second failure is the row's result.
func (s *Service) reportRow(ctx context.Context, row model.ResultStaging) error {
	err := s.session.SaveResult(ctx, row.PersonNr, row.CourseCode, row.Moment, row.ExamDate, row.Grade, row.Scale)
	if errors.Is(err, apperrors.ErrNotSignedIn) {
		if err := s.ensureSession(ctx); err != nil {
			return err
		}
		err = s.session.SaveResult(ctx, row.PersonNr, row.CourseCode, row.Moment, row.ExamDate, row.Grade, row.Scale)
	}
	if err != nil {
		s.log.Warn().Err(err).
			Int64("result_id", row.ID).
			Str("course", row.CourseCode).
			Str("moment", row.Moment).
			Msg("Result rejected")
		return err
	}
	return nil
}

// GetResults serves the API's interactive result lookup over the shared
// session.
func (s *Service) GetResults(ctx context.Context, personNr, courseCode string) (model.CourseResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return nil, err
	}
	return s.session.GetResults(ctx, personNr, courseCode)
}

// SaveResult serves the API's single-result write over the shared session.
func (s *Service) SaveResult(ctx context.Context, req model.ReportResultRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSession(ctx); err != nil {
		return err
	}
	return s.session.SaveResult(ctx, req.PersonNr, req.CourseCode, req.Moment, req.ExamDate, req.Grade, req.Scale)
}
