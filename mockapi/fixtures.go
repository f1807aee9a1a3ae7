package mockapi

import (
	"time"

	"sicksense-cli/model"
)

// Locations is the fixed school catalog served by the mock backend.
func Locations() []model.Location {
	return []model.Location{
		{
			Building: "Main Building",
			Rooms: []model.Room{
				{Name: "101", Seats: []model.Seat{
					{Number: "A1", ID: "67fec0af-ffa7-4532-a580-b6ead9c1f193"},
					{Number: "A2", ID: "c5b1f8e9-4aee-4b2f-8d6a-123456789abc"},
					{Number: "A3", ID: "d4a5b6c7-89ef-4567-1234-abcdef123456"},
				}},
				{Name: "102", Seats: []model.Seat{
					{Number: "B1", ID: "e5f607a8-9a0b-1234-abcd-567890abcdef"},
					{Number: "B2", ID: "f1a2b3c4-d5e6-7890-abcd-ef1234567890"},
				}},
				{Name: "103", Seats: []model.Seat{
					{Number: "C1", ID: "a1b2c3d4-e5f6-7890-abcd-1234567890ef"},
					{Number: "C2", ID: "b1c2d3e4-f5a6-7890-abcd-0987654321ab"},
				}},
			},
		},
		{
			Building: "Science Building",
			Rooms: []model.Room{
				{Name: "Lab-1", Seats: []model.Seat{
					{Number: "A1", ID: "c1d2e3f4-5678-90ab-cdef-1234567890ab"},
					{Number: "A2", ID: "d1e2f3a4-5678-90ab-cdef-0987654321cd"},
				}},
				{Name: "Lab-2", Seats: []model.Seat{
					{Number: "B1", ID: "e1f2a3b4-5678-90ab-cdef-112233445566"},
				}},
			},
		},
		{
			Building: "Arts Building",
			Rooms: []model.Room{
				{Name: "401", Seats: []model.Seat{
					{Number: "E1", ID: "f1a2b3c4-5678-90ab-cdef-556677889900"},
					{Number: "E2", ID: "a1b2c3d4-5678-90ab-cdef-998877665544"},
				}},
			},
		},
	}
}

func Symptoms() []model.Symptom {
	return []model.Symptom{
		{ID: "fever", Name: "Fever", Category: model.CategoryGeneral, Icon: "Thermometer"},
		{ID: "cough", Name: "Cough", Category: model.CategoryRespiratory, Icon: "Wind"},
		{ID: "sore-throat", Name: "Sore Throat", Category: model.CategoryRespiratory, Icon: "Throat"},
		{ID: "headache", Name: "Headache", Category: model.CategoryGeneral, Icon: "Brain"},
		{ID: "fatigue", Name: "Fatigue", Category: model.CategoryGeneral, Icon: "Battery"},
		{ID: "runny-nose", Name: "Runny Nose", Category: model.CategoryRespiratory, Icon: "Droplet"},
		{ID: "nausea", Name: "Nausea", Category: model.CategoryDigestive, Icon: "CircleAlert"},
		{ID: "vomiting", Name: "Vomiting", Category: model.CategoryDigestive, Icon: "AlertCircle"},
		{ID: "diarrhea", Name: "Diarrhea", Category: model.CategoryDigestive, Icon: "Activity"},
		{ID: "body-ache", Name: "Body Ache", Category: model.CategoryGeneral, Icon: "Zap"},
		{ID: "chills", Name: "Chills", Category: model.CategoryGeneral, Icon: "Snowflake"},
		{ID: "loss-of-taste", Name: "Loss of Taste/Smell", Category: model.CategoryOther, Icon: "Nose"},
	}
}

// fixtureUsers accept any password.
func fixtureUsers() []model.User {
	return []model.User{
		{ID: "student-001", Email: "student@school.edu", Role: model.RoleStudent, FullName: "Sam Student", GradeLevel: "Grade 10"},
		{ID: "admin-001", Email: "admin@school.edu", Role: model.RoleAdmin, FullName: "Alex Admin"},
	}
}

func hotspots(now time.Time) []model.HotspotData {
	stamp := now.UTC().Format(time.RFC3339)
	return []model.HotspotData{
		{Building: "Main Building", Room: "201", ReportCount: 3, RiskLevel: model.RiskHigh, LastUpdated: stamp},
		{Building: "Science Building", Room: "Lab-1", ReportCount: 1, RiskLevel: model.RiskMedium, LastUpdated: stamp},
		{Building: "Arts Building", Room: "401", ReportCount: 1, RiskLevel: model.RiskMedium, LastUpdated: stamp},
	}
}

// predictions returns seven days of history followed by a fourteen day
// forecast. The numbers are shaped like the real backend's but fixed.
func predictions(now time.Time) []model.PredictionData {
	data := make([]model.PredictionData, 0, 21)
	for i := -7; i < 0; i++ {
		confirmed := max(0, 5+(i+7)%3+i)
		data = append(data, model.PredictionData{
			Date:       now.AddDate(0, 0, i).Format(time.DateOnly),
			Confirmed:  confirmed,
			Predicted:  confirmed,
			LowerBound: confirmed,
			UpperBound: confirmed,
		})
	}
	for i := 0; i < 14; i++ {
		predicted := 8 + i/2 + i%2
		confirmed := 0
		if i == 0 {
			confirmed = 8
		}
		data = append(data, model.PredictionData{
			Date:       now.AddDate(0, 0, i).Format(time.DateOnly),
			Confirmed:  confirmed,
			Predicted:  predicted,
			LowerBound: predicted * 7 / 10,
			UpperBound: predicted * 13 / 10,
		})
	}
	return data
}

func bayesian() model.BayesianParameter {
	return model.BayesianParameter{
		PriorProbability:     0.15,
		LikelihoodRatio:      2.8,
		PosteriorProbability: 0.35,
		ConfidenceInterval:   [2]float64{0.28, 0.42},
	}
}

func suggestedActions(now time.Time) []model.SuggestedAction {
	stamp := now.UTC().Format(time.RFC3339)
	return []model.SuggestedAction{
		{
			ID:                "act-001",
			Priority:          model.PriorityCritical,
			Type:              model.ActionDisinfection,
			Title:             "Immediate Disinfection Required",
			Description:       "High concentration of respiratory symptoms detected. Schedule immediate sanitization.",
			AffectedLocations: []string{"Main Building - Room 201"},
			Timestamp:         stamp,
			Status:            model.ActionPending,
		},
		{
			ID:                "act-002",
			Priority:          model.PriorityHigh,
			Type:              model.ActionNotification,
			Title:             "Parent Advisory Notification",
			Description:       "Send advisory to parents of students in affected rooms about increased health monitoring.",
			AffectedLocations: []string{"Main Building - Room 201", "Science Building - Lab-1"},
			Timestamp:         stamp,
			Status:            model.ActionPending,
		},
		{
			ID:                "act-003",
			Priority:          model.PriorityMedium,
			Type:              model.ActionMonitoring,
			Title:             "Enhanced Absence Monitoring",
			Description:       "Track attendance patterns for early detection of illness spread.",
			AffectedLocations: []string{"Main Building - All Rooms"},
			Timestamp:         stamp,
			Status:            model.ActionInProgress,
		},
		{
			ID:                "act-004",
			Priority:          model.PriorityMedium,
			Type:              model.ActionDisinfection,
			Title:             "Regular Sanitization Schedule",
			Description:       "Increase cleaning frequency in moderate-risk areas.",
			AffectedLocations: []string{"Science Building - Lab-1", "Arts Building - Room 401"},
			Timestamp:         now.Add(-2 * time.Hour).UTC().Format(time.RFC3339),
			Status:            model.ActionCompleted,
		},
	}
}

func baseStats() model.DashboardStats {
	return model.DashboardStats{
		TotalReportsToday: 3,
		ConfirmedCases:    1,
		SuspectedCases:    4,
		ActiveHotspots:    3,
		WeeklyGrowthRate:  12.5,
	}
}
