package models

type RiskSummary struct {
	TotalWards      int `json:"totalWards"`
	HighRiskCount   int `json:"highRiskCount"`
	MediumRiskCount int `json:"mediumRiskCount"`
}

type Prediction struct {
	Hours           int `json:"hours"`
	PredictedFloods int `json:"predictedFloods"`
}

// Overview is the admin table feed. A nil PriorityWards means the backend
// did not supply a precomputed list.
type Overview struct {
	Wards         []Ward `json:"wards"`
	PriorityWards []Ward `json:"priorityWards"`
}
