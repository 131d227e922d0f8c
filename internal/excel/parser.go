package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/monperrus/ladok3/internal/model"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the first worksheet of an xlsx file into result rows. The
// header row names the columns; order does not matter.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.ResultRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrInvalidFileFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 { // header plus at least one data row
		return nil, apperrors.ErrInvalidFileFormat
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	requiredColumns := []string{"person_nr", "course_code", "moment", "exam_date", "grade", "scale"}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var results []model.ResultRow
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		result, err := p.parseRow(row, columnMap)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+2, err)
		}

		results = append(results, *result)
	}

	return results, nil
}

func (p *Parser) parseRow(row []string, columnMap map[string]int) (*model.ResultRow, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	result := model.ResultRow{
		PersonNr:   getValue("person_nr"),
		CourseCode: getValue("course_code"),
		Moment:     getValue("moment"),
		ExamDate:   getValue("exam_date"),
		Grade:      getValue("grade"),
		Scale:      getValue("scale"),
	}

	for _, field := range []struct {
		name, value string
	}{
		{"person_nr", result.PersonNr},
		{"course_code", result.CourseCode},
		{"moment", result.Moment},
		{"exam_date", result.ExamDate},
		{"grade", result.Grade},
		{"scale", result.Scale},
	} {
		if field.value == "" {
			return nil, fmt.Errorf("%s is required", field.name)
		}
	}

	return &result, nil
}
