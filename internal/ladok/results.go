package ladok

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/monperrus/ladok3/internal/model"
	"github.com/monperrus/ladok3/internal/normalize"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

// CheckGradeScale rejects the two caller mistakes that can be caught without
// touching the network: passing a scale code where a grade belongs, and
// pairing a grade with a scale it cannot belong to.
func CheckGradeScale(gradeCode, scaleCode string) error {
	if gradeCode == "AF" || gradeCode == "PF" {
		return apperrors.ValidationError{
			Field: "grade", Value: gradeCode,
			Message: "looks like a grade scale code",
		}
	}
	// Substring match, so the empty grade is also rejected against PF.
	if (gradeCode == "P" && scaleCode == "AF") ||
		(strings.Contains("ABCDE", gradeCode) && scaleCode == "PF") {
		return apperrors.ValidationError{
			Field: "grade", Value: gradeCode,
			Message: "does not match grade scale " + scaleCode,
		}
	}
	return nil
}

// GetResults returns the merged view of attested and pending results for one
// student and course, keyed by component code. A pending draft shadows an
// attested entry for the same component; that is the service's own
// precedence, mirrored here by writing pending entries last.
func (s *Session) GetResults(ctx context.Context, personNrRaw, courseCode string) (model.CourseResults, error) {
	if !s.SignedIn() {
		return nil, apperrors.ErrNotSignedIn
	}

	personNr, ok := normalize.PersonNr(personNrRaw)
	if !ok {
		return nil, apperrors.ValidationError{Field: "person_nr", Value: personNrRaw, Message: "not a valid person number"}
	}

	student, err := s.studentByPersonNr(ctx, personNr)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.enrollmentByCourseCode(ctx, student.ID, courseCode)
	if err != nil {
		return nil, err
	}

	results := make(model.CourseResults)

	var attested model.AttestedResultList
	if err := s.transport.getJSON(ctx, "/resultat/studentresultat/attesterade/student/"+student.ID, &attested); err != nil {
		return nil, err
	}
	for _, course := range attested.StudentresultatPerKurs {
		if course.KursUID != enrollment.EducationID {
			continue
		}
		for _, r := range course.Studentresultat {
			// Credit transfers carry no grade code and no component code;
			// they are dropped from the view.
			if r.Betygsgradskod == "" || r.Utbildningskod == "" {
				continue
			}
			results[r.Utbildningskod] = model.ResultEntry{
				Grade:  r.Betygsgradskod,
				Status: "attested",
				Date:   r.Examinationsdatum,
			}
		}
		break
	}

	var pending model.PendingResultList
	pendingPath := "/resultat/resultat/resultat/student/" + student.ID + "/kurs/" + enrollment.EducationID +
		"?resultatstatus=UTKAST&resultatstatus=KLARMARKERAT"
	if err := s.transport.getJSON(ctx, pendingPath, &pending); err != nil {
		return nil, err
	}
	for _, r := range pending.Resultat {
		var instance model.EducationInstance
		if err := s.transport.getJSON(ctx, "/resultat/utbildningsinstans/"+r.UtbildningsinstansUID, &instance); err != nil {
			return nil, err
		}
		date := r.Examinationsdatum
		if date == "" {
			// Drafts that were never dated come back without a date.
			date = "0"
		}
		results[instance.Utbildningskod] = model.ResultEntry{
			Grade:  r.Betygsgradsobjekt.Kod,
			Status: fmt.Sprintf("pending(%d)", r.ProcessStatus),
			Date:   date,
		}
	}

	return results, nil
}

// SaveResult posts a draft result for one student, course and component, or
// updates the existing draft if there is one. Whole-course grades are posted
// by naming the course code itself as the component. Updates carry the
// draft's last-modification stamp; Ladok rejects the write if the draft
// changed since it was fetched.
func (s *Session) SaveResult(ctx context.Context, personNrRaw, courseCode, component, dateRaw, gradeCode, scaleCode string) error {
	if !s.SignedIn() {
		return apperrors.ErrNotSignedIn
	}

	if err := CheckGradeScale(gradeCode, scaleCode); err != nil {
		return err
	}

	personNr, ok := normalize.PersonNr(personNrRaw)
	if !ok {
		return apperrors.ValidationError{Field: "person_nr", Value: personNrRaw, Message: "not a valid person number"}
	}
	date, ok := normalize.Date(dateRaw)
	if !ok {
		return apperrors.ValidationError{Field: "exam_date", Value: dateRaw, Message: "not a valid date"}
	}

	student, err := s.studentByPersonNr(ctx, personNr)
	if err != nil {
		return err
	}
	enrollment, err := s.enrollmentByCourseCode(ctx, student.ID, courseCode)
	if err != nil {
		return err
	}

	// Component code equal to the course code means a whole-course grade,
	// posted against the enrollment's own instance.
	instanceID := ""
	if component == enrollment.Code {
		instanceID = enrollment.InstanceID
	} else {
		components, err := s.courseComponents(ctx, enrollment.RoundID, student.ID)
		if err != nil {
			return err
		}
		for _, c := range components {
			if c.Code == component {
				instanceID = c.InstanceID
				break
			}
		}
		if instanceID == "" {
			return fmt.Errorf("%w: %s in course %s", apperrors.ErrNoMatchingComponent, component, courseCode)
		}
	}

	resultSet, err := s.resultSet(ctx, enrollment.RoundID, student.ID)
	if err != nil {
		return err
	}

	scale, ok := s.catalog.ScaleByCode(scaleCode)
	if !ok {
		return apperrors.ValidationError{Field: "scale", Value: scaleCode, Message: "unknown grade scale"}
	}
	grade, ok := scale.GradeByCode(gradeCode)
	if !ok {
		return apperrors.ValidationError{Field: "grade", Value: gradeCode, Message: "not a grade in scale " + scaleCode}
	}

	var body []byte
	if previous, ok := resultSet.Pending[instanceID]; ok {
		payload := model.SaveResultRequest{Resultat: []model.SaveResultJSON{{
			ResultatUID:            previous.ID,
			Betygsgrad:             grade.ID,
			Noteringar:             []string{},
			BetygsskalaID:          scale.ID,
			Examinationsdatum:      date,
			SenasteResultatandring: previous.LastModified,
		}}}
		body, err = s.transport.putJSON(ctx, "/resultat/studieresultat/uppdatera", payload)
	} else {
		payload := model.SaveResultRequest{Resultat: []model.SaveResultJSON{{
			StudieresultatUID:     resultSet.ID,
			UtbildningsinstansUID: instanceID,
			Betygsgrad:            grade.ID,
			Noteringar:            []string{},
			BetygsskalaID:         scale.ID,
			Examinationsdatum:     date,
		}}}
		body, err = s.transport.postJSON(ctx, "/resultat/studieresultat/skapa", payload)
	}
	if err != nil {
		return err
	}

	var saved model.SaveResultResponse
	if err := json.Unmarshal(body, &saved); err != nil || saved.Resultat == nil {
		return apperrors.WriteError{
			PersonNr:  personNrRaw,
			Component: component,
			Grade:     gradeCode,
			Date:      dateRaw,
			Body:      string(body),
		}
	}

	s.log.Debug().
		Str("person_nr", personNr).
		Str("course", courseCode).
		Str("component", component).
		Str("grade", gradeCode).
		Msg("Result saved as draft")
	return nil
}
