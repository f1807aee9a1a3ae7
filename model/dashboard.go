package model

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type ActionPriority string

const (
	PriorityLow      ActionPriority = "low"
	PriorityMedium   ActionPriority = "medium"
	PriorityHigh     ActionPriority = "high"
	PriorityCritical ActionPriority = "critical"
)

type ActionType string

const (
	ActionDisinfection ActionType = "disinfection"
	ActionNotification ActionType = "notification"
	ActionMonitoring   ActionType = "monitoring"
	ActionClosure      ActionType = "closure"
)

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in-progress"
	ActionCompleted  ActionStatus = "completed"
)

func (s ActionStatus) Valid() bool {
	switch s {
	case ActionPending, ActionInProgress, ActionCompleted:
		return true
	default:
		return false
	}
}

type DashboardStats struct {
	TotalReportsToday int     `json:"totalReportsToday"`
	ConfirmedCases    int     `json:"confirmedCases"`
	SuspectedCases    int     `json:"suspectedCases"`
	ActiveHotspots    int     `json:"activeHotspots"`
	WeeklyGrowthRate  float64 `json:"weeklyGrowthRate"`
}

type HotspotData struct {
	Building    string    `json:"building"`
	Room        string    `json:"room"`
	ReportCount int       `json:"reportCount"`
	RiskLevel   RiskLevel `json:"riskLevel"`
	LastUpdated string    `json:"lastUpdated"`
}

type PredictionData struct {
	Date       string `json:"date"`
	Confirmed  int    `json:"confirmed"`
	Predicted  int    `json:"predicted"`
	LowerBound int    `json:"lowerBound"`
	UpperBound int    `json:"upperBound"`
}

// BayesianParameter values are computed by the backend and displayed as-is.
type BayesianParameter struct {
	PriorProbability     float64    `json:"priorProbability"`
	LikelihoodRatio      float64    `json:"likelihoodRatio"`
	PosteriorProbability float64    `json:"posteriorProbability"`
	ConfidenceInterval   [2]float64 `json:"confidenceInterval"`
}

type SuggestedAction struct {
	ID                string         `json:"id"`
	Priority          ActionPriority `json:"priority"`
	Type              ActionType     `json:"type"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	AffectedLocations []string       `json:"affectedLocations"`
	Timestamp         string         `json:"timestamp"`
	Status            ActionStatus   `json:"status"`
}

// Dashboard is the aggregate served by GET /dashboard.
type Dashboard struct {
	Stats       DashboardStats    `json:"stats"`
	Hotspots    []HotspotData     `json:"hotspots"`
	Predictions []PredictionData  `json:"predictions"`
	Actions     []SuggestedAction `json:"actions"`
	Bayesian    BayesianParameter `json:"bayesian"`
}
