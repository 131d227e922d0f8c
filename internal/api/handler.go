package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/db"
	"github.com/monperrus/ladok3/internal/logger"
	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/queue"
	"github.com/monperrus/ladok3/internal/report"
	"github.com/monperrus/ladok3/internal/storage"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

type Handler struct {
	repo          db.Repository
	producer      *queue.Producer
	storage       storage.Storage
	reportService *report.Service
	cfg           *config.Config
	log           zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	producer *queue.Producer,
	storage storage.Storage,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:          repo,
		producer:      producer,
		storage:       storage,
		reportService: report.NewService(cfg, repo),
		cfg:           cfg,
		log:           logger.Get(),
	}
}

// UploadFile receives a result spreadsheet, stores it and queues it for
// ingestion.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file in request"})
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .xlsx files are accepted"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer src.Close()

	s3Path := fmt.Sprintf("uploads/%d_%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename))
	if err := h.storage.Upload(c.Request.Context(), s3Path, src); err != nil {
		h.log.Error().Err(err).Str("s3_path", s3Path).Msg("Failed to store uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	fileID, err := h.repo.CreateFile(c.Request.Context(), s3Path)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	job := model.IngestionJob{FileID: fileID, S3Path: s3Path}
	if err := h.producer.EnqueueIngestionJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to enqueue ingestion job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue ingestion job"})
		return
	}

	h.log.Info().Int64("file_id", fileID).Str("s3_path", s3Path).Msg("File uploaded")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "File queued for ingestion",
		"file_id": fileID,
	})
}

// TriggerReport queues a parsed file for reporting to Ladok.
func (h *Handler) TriggerReport(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	file, err := h.repo.GetFile(c.Request.Context(), req.FileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", req.FileID).Msg("File not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if file.Status != model.FileStatusParsedOK {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "File is not ready for reporting",
			"status": file.Status,
		})
		return
	}

	job := model.ReportJob{FileID: req.FileID}
	if err := h.producer.EnqueueReportJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue report job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue report job"})
		return
	}

	h.log.Info().Int64("file_id", req.FileID).Msg("Report job enqueued")

	c.JSON(http.StatusOK, gin.H{
		"message": "Report job queued successfully",
		"job":     job,
	})
}

// GetReportStatus reports per-file progress: how many rows were reported,
// how many failed and why.
func (h *Handler) GetReportStatus(c *gin.Context) {
	fileIDStr := c.Param("file_id")
	fileID, err := strconv.ParseInt(fileIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	status, err := h.repo.GetReportStatus(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to get report status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	file, err := h.repo.GetFile(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("File not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	status.Status = string(file.Status)
	c.JSON(http.StatusOK, status)
}

// GetResults looks up one student's results on one course directly in Ladok.
func (h *Handler) GetResults(c *gin.Context) {
	personNr := c.Query("person_nr")
	courseCode := c.Query("course_code")
	if personNr == "" || courseCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "person_nr and course_code are required"})
		return
	}

	results, err := h.reportService.GetResults(c.Request.Context(), personNr, courseCode)
	if err != nil {
		h.renderLadokError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"person_nr":   personNr,
		"course_code": courseCode,
		"results":     results,
	})
}

// ReportResult writes one result to Ladok synchronously, outside the staged
// pipeline.
func (h *Handler) ReportResult(c *gin.Context) {
	var req model.ReportResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.reportService.SaveResult(c.Request.Context(), req); err != nil {
		h.renderLadokError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Result saved as draft"})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) renderLadokError(c *gin.Context, err error) {
	var verr apperrors.ValidationError
	var werr apperrors.WriteError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrNoMatchingEnrollment),
		errors.Is(err, apperrors.ErrNoMatchingComponent):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &werr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrNotAuthorized),
		errors.Is(err, apperrors.ErrLoginPageChanged):
		h.log.Error().Err(err).Msg("Ladok sign-in is broken")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Ladok sign-in failed"})
	default:
		h.log.Error().Err(err).Msg("Ladok call failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
