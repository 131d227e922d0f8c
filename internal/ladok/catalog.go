package ladok

import (
	"context"
	"fmt"
	"strconv"

	"github.com/monperrus/ladok3/internal/model"
)

type Grade struct {
	ID              int
	Code            string
	AcceptedAsFinal bool
}

type GradeScale struct {
	ID     int
	Code   string
	Name   string
	Grades []Grade
}

func (gs GradeScale) GradeByCode(code string) (Grade, bool) {
	for _, g := range gs.Grades {
		if g.Code == code {
			return g, true
		}
	}
	return Grade{}, false
}

// Catalog is the grade-scale reference data loaded once at sign-in. Grades
// are indexed by id across all scales for O(1) reverse lookup.
type Catalog struct {
	scales    []GradeScale
	scaleByID map[int]int // scale id -> index into scales
	gradeByID map[int]Grade
}

func newCatalog(list model.GradeScaleList) (*Catalog, error) {
	c := &Catalog{
		scaleByID: make(map[int]int),
		gradeByID: make(map[int]Grade),
	}
	for _, sw := range list.Betygsskala {
		scaleID, err := strconv.Atoi(sw.ID)
		if err != nil {
			return nil, fmt.Errorf("bad grade scale id %q: %w", sw.ID, err)
		}
		scale := GradeScale{
			ID:   scaleID,
			Code: sw.Kod,
			Name: sw.Benamning.Sv,
		}
		for _, gw := range sw.Betygsgrad {
			gradeID, err := strconv.Atoi(gw.ID)
			if err != nil {
				return nil, fmt.Errorf("bad grade id %q in scale %s: %w", gw.ID, sw.Kod, err)
			}
			grade := Grade{
				ID:              gradeID,
				Code:            gw.Kod,
				AcceptedAsFinal: gw.GiltigSomSlutbetyg,
			}
			scale.Grades = append(scale.Grades, grade)
			c.gradeByID[gradeID] = grade
		}
		c.scaleByID[scaleID] = len(c.scales)
		c.scales = append(c.scales, scale)
	}
	return c, nil
}

func (c *Catalog) Scales() []GradeScale {
	return c.scales
}

func (c *Catalog) ScaleByCode(code string) (GradeScale, bool) {
	for _, s := range c.scales {
		if s.Code == code {
			return s, true
		}
	}
	return GradeScale{}, false
}

func (c *Catalog) ScaleByID(id int) (GradeScale, bool) {
	idx, ok := c.scaleByID[id]
	if !ok {
		return GradeScale{}, false
	}
	return c.scales[idx], true
}

func (c *Catalog) GradeByID(id int) (Grade, bool) {
	g, ok := c.gradeByID[id]
	return g, ok
}

func (s *Session) loadCatalog(ctx context.Context) error {
	var list model.GradeScaleList
	if err := s.transport.getJSON(ctx, "/resultat/grunddata/betygsskala", &list); err != nil {
		return err
	}
	catalog, err := newCatalog(list)
	if err != nil {
		return err
	}
	s.catalog = catalog
	return nil
}
