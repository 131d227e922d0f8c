package ladok

import (
	"context"
	"fmt"

	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/normalize"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// StudentData resolves a student by person number.
func (s *Session) StudentData(ctx context.Context, personNrRaw string) (*model.Student, error) {
	if !s.SignedIn() {
		return nil, apperrors.ErrNotSignedIn
	}
	personNr, ok := normalize.PersonNr(personNrRaw)
	if !ok {
		return nil, apperrors.ValidationError{Field: "person_nr", Value: personNrRaw, Message: "not a valid person number"}
	}
	return s.studentByPersonNr(ctx, personNr)
}

// StudentByUID resolves a student by Ladok UID.
func (s *Session) StudentByUID(ctx context.Context, uid string) (*model.Student, error) {
	var w model.StudentJSON
	if err := s.transport.getJSON(ctx, "/studentinformation/student/"+uid, &w); err != nil {
		return nil, err
	}
	return studentFromWire(w), nil
}

func (s *Session) studentByPersonNr(ctx context.Context, personNr string) (*model.Student, error) {
	path := "/studentinformation/student/filtrera?limit=2&orderby=EFTERNAMN_ASC&orderby=FORNAMN_ASC&orderby=PERSONNUMMER_ASC&page=1&personnummer=" + personNr + "&skipCount=false&sprakkod=sv"

	var res model.StudentSearchResult
	if err := s.transport.getJSON(ctx, path, &res); err != nil {
		return nil, err
	}
	if len(res.Resultat) != 1 {
		return nil, fmt.Errorf("%w: person number %s", apperrors.ErrStudentNotFound, personNr)
	}
	return studentFromWire(res.Resultat[0]), nil
}

func studentFromWire(w model.StudentJSON) *model.Student {
	return &model.Student{
		ID:        w.Uid,
		PersonNr:  w.Personnummer,
		FirstName: w.Fornamn,
		LastName:  w.Efternamn,
		Alive:     !w.Avliden,
	}
}

// studentEnrollments lists the student's current course-round
// participations. Rounds without a course code are skipped; these are
// participations Ladok has not tied to an education yet.
func (s *Session) studentEnrollments(ctx context.Context, studentID string) ([]model.CourseEnrollment, error) {
	var list model.ParticipationList
	path := "/studiedeltagande/tillfallesdeltagande/kurstillfallesdeltagande/student/" + studentID
	if err := s.transport.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}

	var enrollments []model.CourseEnrollment
	for _, p := range list.Tillfallesdeltaganden {
		if !p.Nuvarande || p.Utbildningsinformation.Utbildningskod == "" {
			continue
		}
		enrollments = append(enrollments, model.CourseEnrollment{
			ID:          p.Uid,
			RoundID:     p.Utbildningsinformation.UtbildningstillfalleUID,
			EducationID: p.Utbildningsinformation.UtbildningUID,
			InstanceID:  p.Utbildningsinformation.UtbildningsinstansUID,
			Code:        p.Utbildningsinformation.Utbildningskod,
			Name:        p.Utbildningsinformation.Benamning.Sv,
		})
	}
	return enrollments, nil
}

func (s *Session) enrollmentByCourseCode(ctx context.Context, studentID, courseCode string) (*model.CourseEnrollment, error) {
	enrollments, err := s.studentEnrollments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		if e.Code == courseCode {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%w: course %s", apperrors.ErrNoMatchingEnrollment, courseCode)
}

// courseComponents lists the gradable sub-units of a course round for a
// student.
func (s *Session) courseComponents(ctx context.Context, roundID, studentID string) ([]model.CourseComponent, error) {
	var list model.MomentList
	path := "/resultat/kurstillfalle/" + roundID + "/student/" + studentID + "/moment"
	if err := s.transport.getJSON(ctx, path, &list); err != nil {
		return nil, err
	}

	components := make([]model.CourseComponent, 0, len(list.IngaendeMoment))
	for _, m := range list.IngaendeMoment {
		components = append(components, model.CourseComponent{
			InstanceID:  m.UtbildningsinstansUID,
			Code:        m.Utbildningskod,
			EducationID: m.UtbildningUID,
			Name:        m.Benamning.Sv,
		})
	}
	return components, nil
}

// resultSet fetches the student's current results for a course round and
// keys the pending drafts by component instance id, which makes the
// create-vs-update decision in SaveResult a single map lookup.
func (s *Session) resultSet(ctx context.Context, roundID, studentID string) (*model.ResultSet, error) {
	var w model.StudyResultJSON
	path := "/resultat/studieresultat/student/" + studentID + "/utbildningstillfalle/" + roundID
	if err := s.transport.getJSON(ctx, path, &w); err != nil {
		return nil, err
	}

	rs := &model.ResultSet{
		ID:      w.Uid,
		Pending: make(map[string]model.PendingResult),
	}
	for _, r := range w.ResultatPaUtbildningar {
		if r.Arbetsunderlag == nil {
			continue
		}
		d := r.Arbetsunderlag
		rs.Pending[d.UtbildningsinstansUID] = model.PendingResult{
			ID:           d.Uid,
			InstanceID:   d.UtbildningsinstansUID,
			GradeID:      d.Betygsgrad,
			ScaleID:      d.BetygsskalaID,
			Date:         d.Examinationsdatum,
			LastModified: d.SenasteResultatandring,
		}
	}
	return rs, nil
}
