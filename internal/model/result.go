package model

import "time"

type ResultStatus string

const (
	ResultStatusReady    ResultStatus = "READY"
	ResultStatusReported ResultStatus = "REPORTED"
	ResultStatusFailed   ResultStatus = "FAILED"
)

// ResultStaging is one row of an uploaded result spreadsheet waiting to be
// reported to Ladok.
type ResultStaging struct {
	ID           int64        `json:"id" db:"id"`
	FileID       int64        `json:"file_id" db:"file_id"`
	PersonNr     string       `json:"person_nr" db:"person_nr"`
	CourseCode   string       `json:"course_code" db:"course_code"`
	Moment       string       `json:"moment" db:"moment"`
	ExamDate     string       `json:"exam_date" db:"exam_date"`
	Grade        string       `json:"grade" db:"grade"`
	Scale        string       `json:"scale" db:"scale"`
	Status       ResultStatus `json:"status" db:"status"`
	ErrorMessage *string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// ResultRow is a parsed spreadsheet row before staging.
type ResultRow struct {
	PersonNr   string `json:"person_nr"`
	CourseCode string `json:"course_code"`
	Moment     string `json:"moment"`
	ExamDate   string `json:"exam_date"`
	Grade      string `json:"grade"`
	Scale      string `json:"scale"`
}
