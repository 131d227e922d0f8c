package model

// Student as resolved from the student information service. The ID is the
// Ladok UID, distinct from the person number used to look the student up.
type Student struct {
	ID        string `json:"id"`
	PersonNr  string `json:"person_nr"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Alive     bool   `json:"alive"`
}

// CourseEnrollment is one course-round participation for a student.
// RoundID identifies the course round, EducationID groups the course
// variants, and InstanceID is the unit a whole-course grade is posted
// against.
type CourseEnrollment struct {
	ID          string `json:"id"`
	RoundID     string `json:"round_id"`
	EducationID string `json:"education_id"`
	InstanceID  string `json:"instance_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
}

// CourseComponent is a gradable sub-unit of a course round ("moment").
type CourseComponent struct {
	InstanceID  string `json:"instance_id"`
	Code        string `json:"code"`
	EducationID string `json:"education_id"`
	Name        string `json:"name"`
}

// ResultEntry is one merged result per course component. Status is either
// "attested" or "pending(N)" where N is the process-state code Ladok
// reported. Date is "0" for drafts that never got an examination date.
type ResultEntry struct {
	Grade  string `json:"grade"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// CourseResults maps component code to its merged result entry.
type CourseResults map[string]ResultEntry

// PendingResult is an editable draft result. LastModified is the
// optimistic-concurrency stamp Ladok requires on every update.
type PendingResult struct {
	ID           string `json:"id"`
	InstanceID   string `json:"instance_id"`
	GradeID      int    `json:"grade_id"`
	ScaleID      int    `json:"scale_id"`
	Date         string `json:"date"`
	LastModified string `json:"last_modified"`
}

// ResultSet is a student's current result state for one course round.
// Pending is keyed by component instance id so the create-vs-update decision
// is a single lookup.
type ResultSet struct {
	ID      string
	Pending map[string]PendingResult
}
