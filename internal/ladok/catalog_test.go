package ladok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monperrus/ladok3/internal/model"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := newCatalog(model.GradeScaleList{Betygsskala: []model.GradeScaleJSON{
		{
			ID: "1", Kod: "AF", Benamning: model.Localized{Sv: "Sjugradig betygsskala"},
			Betygsgrad: []model.GradeJSON{
				{ID: "11", Kod: "A", GiltigSomSlutbetyg: true},
				{ID: "12", Kod: "B", GiltigSomSlutbetyg: true},
				{ID: "13", Kod: "C", GiltigSomSlutbetyg: true},
				{ID: "14", Kod: "D", GiltigSomSlutbetyg: true},
				{ID: "15", Kod: "E", GiltigSomSlutbetyg: true},
				{ID: "16", Kod: "F", GiltigSomSlutbetyg: false},
			},
		},
		{
			ID: "2", Kod: "PF", Benamning: model.Localized{Sv: "Tvågradig betygsskala"},
			Betygsgrad: []model.GradeJSON{
				{ID: "21", Kod: "P", GiltigSomSlutbetyg: true},
				{ID: "22", Kod: "F", GiltigSomSlutbetyg: false},
			},
		},
	}})
	require.NoError(t, err)
	return c
}

func TestCatalogLookups(t *testing.T) {
	c := testCatalog(t)

	scale, ok := c.ScaleByCode("AF")
	require.True(t, ok)
	assert.Equal(t, 1, scale.ID)
	assert.Len(t, scale.Grades, 6)

	grade, ok := scale.GradeByCode("E")
	require.True(t, ok)
	assert.Equal(t, 15, grade.ID)
	assert.True(t, grade.AcceptedAsFinal)

	fail, ok := scale.GradeByCode("F")
	require.True(t, ok)
	assert.False(t, fail.AcceptedAsFinal)

	_, ok = c.ScaleByCode("XX")
	assert.False(t, ok)
}

func TestCatalogGradeByIDSpansScales(t *testing.T) {
	c := testCatalog(t)

	grade, ok := c.GradeByID(21)
	require.True(t, ok)
	assert.Equal(t, "P", grade.Code)

	grade, ok = c.GradeByID(11)
	require.True(t, ok)
	assert.Equal(t, "A", grade.Code)

	_, ok = c.GradeByID(999)
	assert.False(t, ok)
}

func TestCatalogRejectsBadIDs(t *testing.T) {
	_, err := newCatalog(model.GradeScaleList{Betygsskala: []model.GradeScaleJSON{
		{ID: "not-a-number", Kod: "AF"},
	}})
	assert.Error(t, err)
}
