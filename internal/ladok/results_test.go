package ladok

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monperrus/ladok3/internal/model"
	apperrors "github.com/monperrus/ladok3/pkg/errors"
)

const (
	testPersonNr  = "199112121212"
	testStudentID = "student-1"
)

// fakeProxy fakes the handful of proxy resources the result operations
// touch, for one student enrolled in DD1321 with components TEN1 and LAB1.
type fakeProxy struct {
	srv *httptest.Server

	draft      *model.DraftJSON // pending draft in the study-result set
	saveStatus string           // body returned by skapa/uppdatera

	hits       map[string]int
	saveMethod string
	savePath   string
	saveBody   []byte
	saveToken  string
}

func newFakeProxy(t *testing.T) *fakeProxy {
	t.Helper()
	f := &fakeProxy{
		saveStatus: `{"Resultat": [{}]}`,
		hits:       make(map[string]int),
	}

	mux := http.NewServeMux()
	serve := func(pattern string, payload func() interface{}) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			f.hits[pattern]++
			json.NewEncoder(w).Encode(payload())
		})
	}

	serve("/gui/proxy/studentinformation/student/filtrera", func() interface{} {
		return model.StudentSearchResult{Resultat: []model.StudentJSON{
			{Uid: testStudentID, Fornamn: "Alba", Efternamn: "Student", Personnummer: testPersonNr},
		}}
	})
	serve("/gui/proxy/studiedeltagande/tillfallesdeltagande/kurstillfallesdeltagande/student/"+testStudentID, func() interface{} {
		return model.ParticipationList{Tillfallesdeltaganden: []model.ParticipationJSON{
			{Uid: "part-0", Nuvarande: false, Utbildningsinformation: model.EducationInfo{Utbildningskod: "DD0000"}},
			{Uid: "part-1", Nuvarande: true, Utbildningsinformation: model.EducationInfo{
				UtbildningstillfalleUID: "round-1",
				UtbildningUID:           "edu-1",
				UtbildningsinstansUID:   "inst-course",
				Utbildningskod:          "DD1321",
				Benamning:               model.Localized{Sv: "Tillämpad programmering"},
			}},
			{Uid: "part-2", Nuvarande: true},
		}}
	})
	serve("/gui/proxy/resultat/studentresultat/attesterade/student/"+testStudentID, func() interface{} {
		return model.AttestedResultList{StudentresultatPerKurs: []model.AttestedCourseJSON{
			{KursUID: "edu-other", Studentresultat: []model.AttestedResultJSON{
				{Utbildningskod: "XXX1", Betygsgradskod: "A", Examinationsdatum: "2018-01-01"},
			}},
			{KursUID: "edu-1", Studentresultat: []model.AttestedResultJSON{
				{Utbildningskod: "LABP", Betygsgradskod: "P", Examinationsdatum: "2019-01-15"},
				{Utbildningskod: "TEN1", Betygsgradskod: "F", Examinationsdatum: "2019-03-13"},
				{Utbildningskod: "", Betygsgradskod: "", Examinationsdatum: "2019-02-01"},
			}},
		}}
	})
	serve("/gui/proxy/resultat/resultat/resultat/student/"+testStudentID+"/kurs/edu-1", func() interface{} {
		return model.PendingResultList{Resultat: []model.PendingResultJSON{
			{UtbildningsinstansUID: "inst-ten1", ProcessStatus: 2, Examinationsdatum: "2019-03-23",
				Betygsgradsobjekt: model.GradeObject{Kod: "E"}},
			{UtbildningsinstansUID: "inst-lab1", ProcessStatus: 1,
				Betygsgradsobjekt: model.GradeObject{Kod: "P"}},
		}}
	})
	serve("/gui/proxy/resultat/utbildningsinstans/inst-ten1", func() interface{} {
		return model.EducationInstance{Utbildningskod: "TEN1"}
	})
	serve("/gui/proxy/resultat/utbildningsinstans/inst-lab1", func() interface{} {
		return model.EducationInstance{Utbildningskod: "LAB1"}
	})
	serve("/gui/proxy/resultat/kurstillfalle/round-1/student/"+testStudentID+"/moment", func() interface{} {
		return model.MomentList{IngaendeMoment: []model.MomentJSON{
			{UtbildningsinstansUID: "inst-ten1", Utbildningskod: "TEN1", UtbildningUID: "edu-ten1"},
			{UtbildningsinstansUID: "inst-lab1", Utbildningskod: "LAB1", UtbildningUID: "edu-lab1"},
		}}
	})
	serve("/gui/proxy/resultat/studieresultat/student/"+testStudentID+"/utbildningstillfalle/round-1", func() interface{} {
		var results []model.ResultOnEducation
		if f.draft != nil {
			results = append(results, model.ResultOnEducation{Arbetsunderlag: f.draft})
		}
		return model.StudyResultJSON{Uid: "rs-1", ResultatPaUtbildningar: results}
	})

	save := func(w http.ResponseWriter, r *http.Request) {
		f.hits["save"]++
		f.saveMethod = r.Method
		f.savePath = r.URL.Path
		f.saveToken = r.Header.Get("X-XSRF-TOKEN")
		f.saveBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, f.saveStatus)
	}
	mux.HandleFunc("/gui/proxy/resultat/studieresultat/skapa", save)
	mux.HandleFunc("/gui/proxy/resultat/studieresultat/uppdatera", save)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProxy) totalHits() int {
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

// session returns a Session wired to the fake, skipping the sign-on
// handshake by activating the transport and seeding the catalog and the
// XSRF cookie directly.
func (f *fakeProxy) session(t *testing.T) *Session {
	t.Helper()
	s := NewSession(Environment{BaseURL: f.srv.URL}, 5*time.Second)
	s.transport.active = true
	s.catalog = testCatalog(t)
	u, err := url.Parse(f.srv.URL)
	require.NoError(t, err)
	s.transport.client.Jar.SetCookies(u, []*http.Cookie{{Name: "XSRF-TOKEN", Value: "test-token"}})
	return s
}

func (f *fakeProxy) savedResult(t *testing.T) model.SaveResultJSON {
	t.Helper()
	var req model.SaveResultRequest
	require.NoError(t, json.Unmarshal(f.saveBody, &req))
	require.Len(t, req.Resultat, 1)
	return req.Resultat[0]
}

func TestGetResultsMergesAttestedAndPending(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	results, err := s.GetResults(context.Background(), testPersonNr, "DD1321")
	require.NoError(t, err)

	// The pending E on TEN1 shadows the attested F.
	assert.Equal(t, model.ResultEntry{Grade: "E", Status: "pending(2)", Date: "2019-03-23"}, results["TEN1"])
	assert.Equal(t, model.ResultEntry{Grade: "P", Status: "attested", Date: "2019-01-15"}, results["LABP"])
	// Undated drafts get the "0" sentinel.
	assert.Equal(t, model.ResultEntry{Grade: "P", Status: "pending(1)", Date: "0"}, results["LAB1"])
	// The gradeless credit-transfer record is dropped.
	assert.Len(t, results, 3)
}

func TestGetResultsUnknownCourse(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	_, err := s.GetResults(context.Background(), testPersonNr, "ZZ9999")
	assert.ErrorIs(t, err, apperrors.ErrNoMatchingEnrollment)
}

func TestGetResultsBadPersonNr(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	_, err := s.GetResults(context.Background(), "not-a-person", "DD1321")
	var verr apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, f.totalHits())
}

func TestCheckGradeScale(t *testing.T) {
	cases := []struct {
		grade, scale string
		ok           bool
	}{
		{"A", "AF", true},
		{"E", "AF", true},
		{"F", "AF", true},
		{"P", "PF", true},
		{"F", "PF", true},
		{"AF", "AF", false}, // scale code where a grade belongs
		{"PF", "PF", false},
		{"P", "AF", false}, // grade from the wrong scale
		{"A", "PF", false},
		{"E", "PF", false},
		{"", "PF", false},   // substring semantics reject the empty grade
		{"AB", "PF", false}, // and letter runs
	}
	for _, tc := range cases {
		err := CheckGradeScale(tc.grade, tc.scale)
		if tc.ok {
			assert.NoError(t, err, "%s on %s", tc.grade, tc.scale)
		} else {
			assert.Error(t, err, "%s on %s", tc.grade, tc.scale)
		}
	}
}

func TestSaveResultValidationSkipsNetwork(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)
	ctx := context.Background()

	var verr apperrors.ValidationError
	assert.ErrorAs(t, s.SaveResult(ctx, testPersonNr, "DD1321", "TEN1", "190323", "PF", "PF"), &verr)
	assert.ErrorAs(t, s.SaveResult(ctx, testPersonNr, "DD1321", "TEN1", "190323", "P", "AF"), &verr)
	assert.ErrorAs(t, s.SaveResult(ctx, testPersonNr, "DD1321", "TEN1", "190323", "A", "PF"), &verr)
	assert.ErrorAs(t, s.SaveResult(ctx, testPersonNr, "DD1321", "TEN1", "bad date", "A", "AF"), &verr)

	assert.Zero(t, f.totalHits(), "rejected writes must not reach the service")
}

func TestSaveResultCreatesDraft(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	err := s.SaveResult(context.Background(), testPersonNr, "DD1321", "TEN1", "190323", "E", "AF")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, f.saveMethod)
	assert.Equal(t, "/gui/proxy/resultat/studieresultat/skapa", f.savePath)
	assert.Equal(t, "test-token", f.saveToken)

	saved := f.savedResult(t)
	assert.Equal(t, "rs-1", saved.StudieresultatUID)
	assert.Equal(t, "inst-ten1", saved.UtbildningsinstansUID)
	assert.Empty(t, saved.ResultatUID)
	assert.Equal(t, 15, saved.Betygsgrad)
	assert.Equal(t, 1, saved.BetygsskalaID)
	assert.Equal(t, "2019-03-23", saved.Examinationsdatum)
}

func TestSaveResultUpdatesExistingDraft(t *testing.T) {
	f := newFakeProxy(t)
	f.draft = &model.DraftJSON{
		Uid:                    "draft-1",
		UtbildningsinstansUID:  "inst-ten1",
		Betygsgrad:             16,
		BetygsskalaID:          1,
		Examinationsdatum:      "2019-03-13",
		SenasteResultatandring: "2019-03-18T10:30:00",
	}
	s := f.session(t)

	err := s.SaveResult(context.Background(), testPersonNr, "DD1321", "TEN1", "190323", "E", "AF")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, f.saveMethod)
	assert.Equal(t, "/gui/proxy/resultat/studieresultat/uppdatera", f.savePath)

	saved := f.savedResult(t)
	assert.Equal(t, "draft-1", saved.ResultatUID)
	assert.Empty(t, saved.StudieresultatUID)
	// The stamp from the fetched draft rides along unchanged so the service
	// can detect a concurrent edit.
	assert.Equal(t, "2019-03-18T10:30:00", saved.SenasteResultatandring)
	assert.Equal(t, 15, saved.Betygsgrad)
	assert.Equal(t, "2019-03-23", saved.Examinationsdatum)
}

func TestSaveResultWholeCourseGrade(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	err := s.SaveResult(context.Background(), testPersonNr, "DD1321", "DD1321", "190601", "B", "AF")
	require.NoError(t, err)

	saved := f.savedResult(t)
	assert.Equal(t, "inst-course", saved.UtbildningsinstansUID)
	assert.Zero(t, f.hits["/gui/proxy/resultat/kurstillfalle/round-1/student/"+testStudentID+"/moment"],
		"whole-course grades resolve without the component listing")
}

func TestSaveResultUnknownComponent(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	err := s.SaveResult(context.Background(), testPersonNr, "DD1321", "TEN9", "190323", "E", "AF")
	assert.ErrorIs(t, err, apperrors.ErrNoMatchingComponent)
	assert.Zero(t, f.hits["save"])
}

func TestSaveResultRejectedWrite(t *testing.T) {
	f := newFakeProxy(t)
	f.saveStatus = `{"Meddelande": "Resultatet kan inte sparas"}`
	s := f.session(t)

	err := s.SaveResult(context.Background(), testPersonNr, "DD1321", "TEN1", "190323", "E", "AF")
	var werr apperrors.WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, testPersonNr, werr.PersonNr)
	assert.Equal(t, "TEN1", werr.Component)
	assert.Equal(t, "E", werr.Grade)
	assert.Contains(t, werr.Body, "kan inte sparas")
}

func TestOperationsRequireSignIn(t *testing.T) {
	f := newFakeProxy(t)
	s := NewSession(Environment{BaseURL: f.srv.URL}, 5*time.Second)
	ctx := context.Background()

	_, err := s.GetResults(ctx, testPersonNr, "DD1321")
	assert.ErrorIs(t, err, apperrors.ErrNotSignedIn)

	err = s.SaveResult(ctx, testPersonNr, "DD1321", "TEN1", "190323", "E", "AF")
	assert.ErrorIs(t, err, apperrors.ErrNotSignedIn)

	_, err = s.StudentData(ctx, testPersonNr)
	assert.ErrorIs(t, err, apperrors.ErrNotSignedIn)

	_, err = s.GradingRights(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotSignedIn)

	assert.ErrorIs(t, s.Logout(ctx), apperrors.ErrNotSignedIn)
	assert.Zero(t, f.totalHits())
}

func TestStudentData(t *testing.T) {
	f := newFakeProxy(t)
	s := f.session(t)

	student, err := s.StudentData(context.Background(), "9112121212")
	require.NoError(t, err)
	assert.Equal(t, testStudentID, student.ID)
	assert.Equal(t, "Alba", student.FirstName)
	assert.True(t, student.Alive)
}
