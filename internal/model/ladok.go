package model

import "encoding/json"

// Wire types for the Ladok GUI proxy. Field names follow the service's own
// JSON vocabulary; do not rename them.

type Localized struct {
	Sv string `json:"sv"`
	En string `json:"en,omitempty"`
}

// resultat/grunddata/betygsskala

type GradeScaleList struct {
	Betygsskala []GradeScaleJSON `json:"Betygsskala"`
}

type GradeScaleJSON struct {
	ID         string      `json:"ID"`
	Kod        string      `json:"Kod"`
	Benamning  Localized   `json:"Benamning"`
	Betygsgrad []GradeJSON `json:"Betygsgrad"`
}

type GradeJSON struct {
	ID                 string `json:"ID"`
	Kod                string `json:"Kod"`
	GiltigSomSlutbetyg bool   `json:"GiltigSomSlutbetyg"`
}

// studentinformation/student/filtrera

type StudentSearchResult struct {
	Resultat []StudentJSON `json:"Resultat"`
}

type StudentJSON struct {
	Uid          string `json:"Uid"`
	Fornamn      string `json:"Fornamn"`
	Efternamn    string `json:"Efternamn"`
	Personnummer string `json:"Personnummer"`
	Avliden      bool   `json:"Avliden"`
}

// studiedeltagande/tillfallesdeltagande/kurstillfallesdeltagande/student/{uid}

type ParticipationList struct {
	Tillfallesdeltaganden []ParticipationJSON `json:"Tillfallesdeltaganden"`
}

type ParticipationJSON struct {
	Uid                    string        `json:"Uid"`
	Nuvarande              bool          `json:"Nuvarande"`
	Utbildningsinformation EducationInfo `json:"Utbildningsinformation"`
}

type EducationInfo struct {
	UtbildningstillfalleUID string    `json:"UtbildningstillfalleUID"`
	UtbildningUID           string    `json:"UtbildningUID"`
	UtbildningsinstansUID   string    `json:"UtbildningsinstansUID"`
	Utbildningskod          string    `json:"Utbildningskod"`
	Benamning               Localized `json:"Benamning"`
}

// resultat/studentresultat/attesterade/student/{uid}

type AttestedResultList struct {
	StudentresultatPerKurs []AttestedCourseJSON `json:"StudentresultatPerKurs"`
}

type AttestedCourseJSON struct {
	KursUID         string               `json:"KursUID"`
	Studentresultat []AttestedResultJSON `json:"Studentresultat"`
}

type AttestedResultJSON struct {
	Utbildningskod    string `json:"Utbildningskod"`
	Betygsgradskod    string `json:"Betygsgradskod"`
	Examinationsdatum string `json:"Examinationsdatum"`
}

// resultat/resultat/resultat/student/{uid}/kurs/{kursUID}

type PendingResultList struct {
	Resultat []PendingResultJSON `json:"Resultat"`
}

type PendingResultJSON struct {
	UtbildningsinstansUID string      `json:"UtbildningsinstansUID"`
	ProcessStatus         int         `json:"ProcessStatus"`
	Examinationsdatum     string      `json:"Examinationsdatum"`
	Betygsgradsobjekt     GradeObject `json:"Betygsgradsobjekt"`
}

type GradeObject struct {
	Kod string `json:"Kod"`
}

// resultat/utbildningsinstans/{uid}

type EducationInstance struct {
	Utbildningskod string `json:"Utbildningskod"`
}

// resultat/kurstillfalle/{round}/student/{uid}/moment

type MomentList struct {
	IngaendeMoment []MomentJSON `json:"IngaendeMoment"`
}

type MomentJSON struct {
	UtbildningsinstansUID string    `json:"UtbildningsinstansUID"`
	Utbildningskod        string    `json:"Utbildningskod"`
	UtbildningUID         string    `json:"UtbildningUID"`
	Benamning             Localized `json:"Benamning"`
}

// resultat/studieresultat/student/{uid}/utbildningstillfalle/{round}

type StudyResultJSON struct {
	Uid                    string              `json:"Uid"`
	ResultatPaUtbildningar []ResultOnEducation `json:"ResultatPaUtbildningar"`
}

type ResultOnEducation struct {
	Arbetsunderlag            *DraftJSON    `json:"Arbetsunderlag,omitempty"`
	SenastAttesteradeResultat *AttestedJSON `json:"SenastAttesteradeResultat,omitempty"`
}

type DraftJSON struct {
	Uid                    string `json:"Uid"`
	UtbildningsinstansUID  string `json:"UtbildningsinstansUID"`
	Betygsgrad             int    `json:"Betygsgrad"`
	BetygsskalaID          int    `json:"BetygsskalaID"`
	Examinationsdatum      string `json:"Examinationsdatum"`
	SenasteResultatandring string `json:"SenasteResultatandring"`
}

type AttestedJSON struct {
	Uid                   string `json:"Uid"`
	UtbildningsinstansUID string `json:"UtbildningsinstansUID"`
	Betygsgrad            int    `json:"Betygsgrad"`
	BetygsskalaID         int    `json:"BetygsskalaID"`
	Examinationsdatum     string `json:"Examinationsdatum"`
}

// resultat/studieresultat/skapa and /uppdatera

type SaveResultRequest struct {
	Resultat []SaveResultJSON `json:"Resultat"`
}

type SaveResultJSON struct {
	ResultatUID            string   `json:"ResultatUID,omitempty"`
	StudieresultatUID      string   `json:"StudieresultatUID,omitempty"`
	UtbildningsinstansUID  string   `json:"UtbildningsinstansUID,omitempty"`
	Betygsgrad             int      `json:"Betygsgrad"`
	Noteringar             []string `json:"Noteringar"`
	BetygsskalaID          int      `json:"BetygsskalaID"`
	Examinationsdatum      string   `json:"Examinationsdatum"`
	SenasteResultatandring string   `json:"SenasteResultatandring,omitempty"`
}

// A write succeeded only if the response carries a result collection; a nil
// Resultat means the body had no such key.
type SaveResultResponse struct {
	Resultat *[]json.RawMessage `json:"Resultat"`
}

// resultat/kurstillfalle/filtrera

type CourseInstanceList struct {
	Resultat []CourseInstanceJSON `json:"Resultat"`
}

type CourseInstanceJSON struct {
	Uid           string    `json:"Uid"`
	TillfallesKod string    `json:"TillfallesKod"`
	Benamning     Localized `json:"Benamning"`
}
