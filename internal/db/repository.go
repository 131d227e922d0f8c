package db

import (
	"context"
	"database/sql"

	"github.com/monperrus/ladok3/internal/model"
)

type Repository interface {
	CreateFile(ctx context.Context, s3Path string) (int64, error)
	UpdateFileStatus(ctx context.Context, fileID int64, status model.FileStatus, errorMessage *string) error
	GetFile(ctx context.Context, fileID int64) (*model.File, error)
	InsertResults(ctx context.Context, fileID int64, results []model.ResultRow) error
	GetReadyResults(ctx context.Context, fileID int64, limit int) ([]model.ResultStaging, error)
	UpdateResultStatus(ctx context.Context, id int64, status model.ResultStatus, errorMessage *string) error
	GetReportStatus(ctx context.Context, fileID int64) (*model.StatusResponse, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFile(ctx context.Context, s3Path string) (int64, error) {
	query := `INSERT INTO files (s3_path, status) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, s3Path, model.FileStatusUploaded)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *repository) UpdateFileStatus(ctx context.Context, fileID int64, status model.FileStatus, errorMessage *string) error {
	query := `UPDATE files SET status = ?, error_message = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, fileID)
	return err
}

func (r *repository) GetFile(ctx context.Context, fileID int64) (*model.File, error) {
	query := `SELECT id, s3_path, status, error_message, created_at, updated_at FROM files WHERE id = ?`

	var file model.File
	err := r.db.QueryRowContext(ctx, query, fileID).Scan(
		&file.ID, &file.S3Path, &file.Status,
		&file.ErrorMessage, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &file, nil
}

func (r *repository) InsertResults(ctx context.Context, fileID int64, results []model.ResultRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO results_staging (file_id, person_nr, course_code, moment, exam_date, grade, scale, status)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, result := range results {
		_, err := tx.ExecContext(ctx, query, fileID, result.PersonNr, result.CourseCode,
			result.Moment, result.ExamDate, result.Grade, result.Scale, model.ResultStatusReady)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetReadyResults(ctx context.Context, fileID int64, limit int) ([]model.ResultStaging, error) {
	query := `SELECT id, file_id, person_nr, course_code, moment, exam_date, grade, scale, status, error_message, created_at, updated_at
			  FROM results_staging
			  WHERE file_id = ? AND status = 'READY'
			  ORDER BY id
			  LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, fileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultStaging
	for rows.Next() {
		var result model.ResultStaging
		err := rows.Scan(&result.ID, &result.FileID, &result.PersonNr, &result.CourseCode,
			&result.Moment, &result.ExamDate, &result.Grade, &result.Scale, &result.Status,
			&result.ErrorMessage, &result.CreatedAt, &result.UpdatedAt)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (r *repository) UpdateResultStatus(ctx context.Context, id int64, status model.ResultStatus, errorMessage *string) error {
	query := `UPDATE results_staging SET status = ?, error_message = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, id)
	return err
}

func (r *repository) GetReportStatus(ctx context.Context, fileID int64) (*model.StatusResponse, error) {
	query := `SELECT
		COUNT(*) as total_records,
		COUNT(CASE WHEN status = 'REPORTED' THEN 1 END) as reported_count,
		COUNT(CASE WHEN status = 'FAILED' THEN 1 END) as failed_count,
		COALESCE(MAX(updated_at), NOW()) as updated_at
	FROM results_staging WHERE file_id = ?`

	var response model.StatusResponse
	err := r.db.QueryRowContext(ctx, query, fileID).Scan(
		&response.TotalRecords, &response.ReportedCount,
		&response.FailedCount, &response.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	response.FileID = fileID

	errorQuery := `SELECT DISTINCT error_message FROM results_staging
				   WHERE file_id = ? AND status = 'FAILED' AND error_message IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, errorQuery, fileID)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var errorMsg string
			if rows.Scan(&errorMsg) == nil {
				response.Errors = append(response.Errors, errorMsg)
			}
		}
	}

	return &response, nil
}
