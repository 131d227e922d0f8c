package model

import "time"

type IngestionJob struct {
	FileID int64  `json:"file_id"`
	S3Path string `json:"s3_path"`
}

type ReportJob struct {
	FileID int64 `json:"file_id"`
}

type ReportRequest struct {
	FileID int64 `json:"file_id"`
}

type StatusResponse struct {
	FileID        int64     `json:"file_id"`
	Status        string    `json:"status"`
	TotalRecords  int       `json:"total_records"`
	ReportedCount int       `json:"reported_count"`
	FailedCount   int       `json:"failed_count"`
	Errors        []string  `json:"errors,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReportResultRequest is the single-result write request on the API surface.
type ReportResultRequest struct {
	PersonNr   string `json:"person_nr" binding:"required"`
	CourseCode string `json:"course_code" binding:"required"`
	Moment     string `json:"moment" binding:"required"`
	ExamDate   string `json:"exam_date" binding:"required"`
	Grade      string `json:"grade" binding:"required"`
	Scale      string `json:"scale" binding:"required"`
}
