package spreadsheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func TestWriteRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	err := WriteRoster(path, []RosterRow{
		{CanvasUserID: 1, Name: "Alba Student", LadokID: "uid-1", PersonNr: "199112121212",
			ProgramCode: "CDATE", ProgramName: "Civilingenjörsutbildning i datateknik"},
	}, true)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"canvas_user_id", "name", "ladok_id", "person_nr", "program_code", "program_name"}, rows[0])
	assert.Equal(t, "199112121212", rows[1][3])
}

func TestWriteRosterWithoutPersonNr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	err := WriteRoster(path, []RosterRow{
		{CanvasUserID: 1, Name: "Alba Student", LadokID: "uid-1", PersonNr: "199112121212"},
	}, false)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.NotContains(t, rows[0], "person_nr")
	for _, cell := range rows[1] {
		assert.NotEqual(t, "199112121212", cell)
	}
}
