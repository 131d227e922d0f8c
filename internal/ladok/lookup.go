package ladok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/monperrus/ladok3/internal/model"
)

// Pass-through accessors for Ladok's reference catalogs. These return the
// service's JSON verbatim; callers that need structure decode what they use.

// GradingRights lists the result-reporting rights of the signed-in user.
func (s *Session) GradingRights(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/resultat/resultatrattighet/listaforinloggadanvandare")
}

// CourseInstances lists course rounds for a course code.
func (s *Session) CourseInstances(ctx context.Context, courseCode, lang string) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/resultat/kurstillfalle/filtrera?kurskod="+url.QueryEscape(courseCode)+"&page=1&limit=100&skipCount=false&sprakkod="+lang)
}

// InstanceInfo resolves one course round by course code and round code.
func (s *Session) InstanceInfo(ctx context.Context, courseCode, instanceCode, lang string) (*model.CourseInstanceJSON, error) {
	var list model.CourseInstanceList
	path := "/resultat/kurstillfalle/filtrera?kurskod=" + url.QueryEscape(courseCode) + "&page=1&limit=25&skipCount=false&sprakkod=" + lang
	if err := s.transport.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}
	for _, instance := range list.Resultat {
		if instance.TillfallesKod == instanceCode {
			return &instance, nil
		}
	}
	return nil, fmt.Errorf("no course round %s for %s", instanceCode, courseCode)
}

// Participants lists the participants of a course round, including students
// who have not started and those who already completed the course.
func (s *Session) Participants(ctx context.Context, roundUID string) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"page":    1,
		"limit":   400,
		"orderby": []string{"EFTERNAMN_ASC", "FORNAMN_ASC", "PERSONNUMMER_ASC", "KONTROLLERAD_KURS_ASC"},
		"deltagaretillstand":      []string{"EJ_PABORJAD", "REGISTRERAD", "AVKLARAD"},
		"utbildningstillfalleUID": []string{roundUID},
	}
	return s.transport.mutate(ctx, http.MethodPut, "/studiedeltagande/deltagare/kurstillfalle", payload,
		"application/vnd.ladok-studiedeltagande+json")
}

// StudyStructure returns a student's program and course structure.
func (s *Session) StudyStructure(ctx context.Context, studentUID string) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/studiedeltagande/studiestruktur/student/"+studentUID)
}

// OrganizationInfo returns the organisation tree of the university.
func (s *Session) OrganizationInfo(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/resultat/organisation/utanlankar")
}

// PeriodInfo returns the study period calendar.
func (s *Session) PeriodInfo(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/resultat/grunddata/period")
}

// UniversityInfo returns basic facts about the institution itself.
func (s *Session) UniversityInfo(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/kataloginformation/grunddata/larosatesinformation")
}

// Countries returns the country reference catalog.
func (s *Session) Countries(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/kataloginformation/grunddata/land")
}

// Units returns the credit-unit reference catalog.
func (s *Session) Units(ctx context.Context) (json.RawMessage, error) {
	return s.transport.getRaw(ctx, "/kataloginformation/grunddata/enhet")
}

// ChangeLocale switches the session language ("sv" or "en").
func (s *Session) ChangeLocale(ctx context.Context, lang string) (json.RawMessage, error) {
	return s.transport.getRawGUI(ctx, "/services/i18n/changeLocale?lang="+lang)
}
