package domain

// RiskLevel is the credit risk tier derived from the overall score percentage.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskHigh   RiskLevel = "High Risk"
)

// Decision is the credit recommendation paired with a RiskLevel.
type Decision string

const (
	DecisionApprove Decision = "Approve Credit"
	DecisionReview  Decision = "Supplementary Review"
	DecisionReject  Decision = "Rejected"
)

const (
	lowRiskThreshold    = 80.0
	mediumRiskThreshold = 60.0
)

// ClassifyRisk maps a score percentage onto the half-open tiers [80,∞), [60,80) and (-∞,60).
func ClassifyRisk(scorePercentage float64) (RiskLevel, Decision) {
	switch {
	case scorePercentage >= lowRiskThreshold:
		return RiskLow, DecisionApprove
	case scorePercentage >= mediumRiskThreshold:
		return RiskMedium, DecisionReview
	default:
		return RiskHigh, DecisionReject
	}
}
