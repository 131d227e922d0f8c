package excel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/monperrus/ladok3/internal/model"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseResultSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"person_nr", "course_code", "moment", "exam_date", "grade", "scale"},
		{"199112121212", "DD1321", "TEN1", "2019-03-23", "E", "AF"},
		{"200003031234", "DD1321", "LAB1", "190324", "P", "PF"},
	})

	results, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.ResultRow{
		PersonNr: "199112121212", CourseCode: "DD1321", Moment: "TEN1",
		ExamDate: "2019-03-23", Grade: "E", Scale: "AF",
	}, results[0])
	assert.Equal(t, "LAB1", results[1].Moment)
}

func TestParseShuffledColumns(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"grade", "Scale", "person_nr", "exam_date", "moment", "course_code"},
		{"A", "AF", "199112121212", "2019-06-01", "TEN1", "DD1321"},
	})

	results, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Grade)
	assert.Equal(t, "AF", results[0].Scale)
}

func TestParseMissingColumn(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"person_nr", "course_code", "moment", "exam_date", "grade"},
		{"199112121212", "DD1321", "TEN1", "2019-03-23", "E"},
	})

	_, err := NewParser().Parse(context.Background(), data)
	assert.ErrorContains(t, err, "missing required column: scale")
}

func TestParseHeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"person_nr", "course_code", "moment", "exam_date", "grade", "scale"},
	})

	_, err := NewParser().Parse(context.Background(), data)
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileFormat)
}

func TestParseNotAnExcelFile(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), []byte("person_nr,grade\n1,A\n"))
	assert.Error(t, err)
}

func TestValidateRejectsBadRows(t *testing.T) {
	ctx := context.Background()
	v := NewValidator()

	good := model.ResultRow{
		PersonNr: "199112121212", CourseCode: "DD1321", Moment: "TEN1",
		ExamDate: "190323", Grade: "E", Scale: "AF",
	}
	assert.NoError(t, v.Validate(ctx, []model.ResultRow{good}))

	assert.ErrorIs(t, v.Validate(ctx, nil), apperrors.ErrSchemaValidation)

	var verr apperrors.ValidationError

	bad := good
	bad.PersonNr = "abc"
	assert.ErrorAs(t, v.Validate(ctx, []model.ResultRow{bad}), &verr)
	assert.Equal(t, "person_nr", verr.Field)

	bad = good
	bad.ExamDate = "sometime in March"
	assert.ErrorAs(t, v.Validate(ctx, []model.ResultRow{bad}), &verr)
	assert.Equal(t, "exam_date", verr.Field)

	bad = good
	bad.Grade = "P" // wrong scale for this grade
	assert.ErrorAs(t, v.Validate(ctx, []model.ResultRow{bad}), &verr)
}
