package app

import "colmeia-quiz-service/internal/domain"

// ComputeResult scores a submission against the bank. Unknown questions are skipped and
// unknown answers weigh zero; neither is an error.
func ComputeResult(answers []domain.UserAnswer, bank *QuestionBank) domain.FinalResult {
	pointsByCategory := make(map[domain.Category]int)
	var order []domain.Category
	total := 0

	for _, answer := range answers {
		question, ok := bank.FindQuestion(answer.QuestionText)
		if !ok {
			continue
		}
		weight, _ := weightFor(question, answer.Answer)
		if _, seen := pointsByCategory[question.Category]; !seen {
			order = append(order, question.Category)
		}
		pointsByCategory[question.Category] += weight
		total += weight
	}

	results := make([]domain.CategoryResult, 0, len(order))
	for _, category := range order {
		points := pointsByCategory[category]
		results = append(results, domain.CategoryResult{
			Category:   category,
			Points:     points,
			Percentage: percentage(points, domain.CategoryMaxPoints[category]),
		})
	}

	score := percentage(total, domain.MaxPoints)
	risk, decision := domain.ClassifyRisk(score)
	return domain.FinalResult{
		TotalPoints:         total,
		CategoryResults:     results,
		ScorePercentage:     score,
		RiskLevel:           risk,
		RecommendedDecision: decision,
	}
}

func percentage(points, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(points) / float64(max) * 100
}
