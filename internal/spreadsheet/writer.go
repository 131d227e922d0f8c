// Package spreadsheet writes roster exports as xlsx workbooks.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RosterRow is one student line in a roster export.
type RosterRow struct {
	CanvasUserID int64
	Name         string
	LadokID      string
	PersonNr     string
	ProgramCode  string
	ProgramName  string
}

// WriteRoster writes the rows to an xlsx file at path. Person numbers are a
// separate column so they can be left out of exports that get shared.
func WriteRoster(path string, rows []RosterRow, includePersonNr bool) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := []interface{}{"canvas_user_id", "name", "ladok_id", "program_code", "program_name"}
	if includePersonNr {
		header = []interface{}{"canvas_user_id", "name", "ladok_id", "person_nr", "program_code", "program_name"}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{row.CanvasUserID, row.Name, row.LadokID, row.ProgramCode, row.ProgramName}
		if includePersonNr {
			values = []interface{}{row.CanvasUserID, row.Name, row.LadokID, row.PersonNr, row.ProgramCode, row.ProgramName}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
