package types

type RiskLabel string

const (
	RiskLow    RiskLabel = "LOW"
	RiskMedium RiskLabel = "MEDIUM"
	RiskHigh   RiskLabel = "HIGH"
)

// Score thresholds separating the three risk bands. Applied identically
// to override and model scores.
const (
	HighRiskThreshold   = 0.75
	MediumRiskThreshold = 0.40
)

// RiskAssessment is immutable once produced.
type RiskAssessment struct {
	RiskScore float64   `json:"risk_score"`
	RiskLabel RiskLabel `json:"risk_label"`
	Details   string    `json:"details"`
}

func LabelForScore(score float64) RiskLabel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
