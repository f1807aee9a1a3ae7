package model

type SeverityLevel string

const (
	SeverityMild     SeverityLevel = "mild"
	SeverityModerate SeverityLevel = "moderate"
	SeveritySevere   SeverityLevel = "severe"
)

// SeverityLevels lists the levels in ascending order.
var SeverityLevels = []SeverityLevel{SeverityMild, SeverityModerate, SeveritySevere}

func (s SeverityLevel) Valid() bool {
	for _, level := range SeverityLevels {
		if s == level {
			return true
		}
	}
	return false
}

type SymptomCategory string

const (
	CategoryRespiratory SymptomCategory = "respiratory"
	CategoryDigestive   SymptomCategory = "digestive"
	CategoryGeneral     SymptomCategory = "general"
	CategoryOther       SymptomCategory = "other"
)

type Symptom struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category SymptomCategory `json:"category"`
	Icon     string          `json:"icon"`
}

type ReportStatus string

const (
	ReportPending       ReportStatus = "pending"
	ReportReviewed      ReportStatus = "reviewed"
	ReportResolved      ReportStatus = "resolved"
	ReportInvestigating ReportStatus = "investigating"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportInvestigating:
		return true
	default:
		return false
	}
}

type ReportLocation struct {
	Building   string `json:"building"`
	Room       string `json:"room"`
	SeatNumber string `json:"seatNumber"`
	SeatID     string `json:"seatId,omitempty"`
}

type HealthReport struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	StudentUserID    string         `json:"studentUserId,omitempty"`
	StudentHashedID  string         `json:"studentHashedId,omitempty"`
	UserGradeLevel   string         `json:"userGradeLevel"`
	GradeLevel       string         `json:"gradeLevel"`
	Symptoms         []string       `json:"symptoms"`
	Severity         SeverityLevel  `json:"severity"`
	DateOfOnset      string         `json:"dateOfOnset"`
	ConfirmedDisease bool           `json:"confirmedDisease"`
	DiseaseName      *string        `json:"diseaseName,omitempty"`
	SeatID           string         `json:"seatId,omitempty"`
	Location         ReportLocation `json:"location"`
	Timestamp        string         `json:"timestamp"`
	Status           ReportStatus   `json:"status"`
}

// CreateHealthReport is the submission payload for POST /reports.
type CreateHealthReport struct {
	StudentUserID    string         `json:"studentUserId"`
	UserGradeLevel   string         `json:"userGradeLevel"`
	GradeLevel       string         `json:"gradeLevel"`
	Location         ReportLocation `json:"location"`
	Severity         SeverityLevel  `json:"severity"`
	DateOfOnset      string         `json:"dateOfOnset"`
	ConfirmedDisease bool           `json:"confirmedDisease"`
	DiseaseName      *string        `json:"diseaseName,omitempty"`
	SeatID           string         `json:"seatId"`
	Symptoms         []string       `json:"symptoms"`
}
