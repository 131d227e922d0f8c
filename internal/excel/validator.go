package excel

import (
	"context"

	"github.com/monperrus/ladok3/internal/ladok"
	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/normalize"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks every parsed row against the same rules the reporting
// layer applies, so a bad spreadsheet is rejected before anything is staged.
func (v *Validator) Validate(ctx context.Context, results []model.ResultRow) error {
	if len(results) == 0 {
		return apperrors.ErrSchemaValidation
	}

	for _, result := range results {
		if err := v.validateRow(result); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateRow(result model.ResultRow) error {
	if _, ok := normalize.PersonNr(result.PersonNr); !ok {
		return apperrors.ValidationError{
			Field:   "person_nr",
			Value:   result.PersonNr,
			Message: "not a valid person number",
		}
	}

	if _, ok := normalize.Date(result.ExamDate); !ok {
		return apperrors.ValidationError{
			Field:   "exam_date",
			Value:   result.ExamDate,
			Message: "not a valid date",
		}
	}

	if err := ladok.CheckGradeScale(result.Grade, result.Scale); err != nil {
		return err
	}

	if len(result.CourseCode) == 0 || len(result.CourseCode) > 50 {
		return apperrors.ValidationError{
			Field:   "course_code",
			Value:   result.CourseCode,
			Message: "course code cannot be empty",
		}
	}

	if len(result.Moment) == 0 || len(result.Moment) > 50 {
		return apperrors.ValidationError{
			Field:   "moment",
			Value:   result.Moment,
			Message: "moment cannot be empty",
		}
	}

	return nil
}
