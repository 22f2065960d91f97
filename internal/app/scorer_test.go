package app_test

import (
	"math"
	"testing"

	"colmeia-quiz-service/internal/app"
	"colmeia-quiz-service/internal/domain"
	"colmeia-quiz-service/internal/seed"
)

func TestComputeResultEmptySubmission(t *testing.T) {
	result := app.ComputeResult(nil, newSeedBank(t))

	if result.TotalPoints != 0 || result.ScorePercentage != 0 {
		t.Fatalf("expected zero score, got %+v", result)
	}
	if result.CategoryResults == nil || len(result.CategoryResults) != 0 {
		t.Fatalf("expected empty non-nil category results, got %#v", result.CategoryResults)
	}
	if result.RiskLevel != domain.RiskHigh || result.RecommendedDecision != domain.DecisionReject {
		t.Fatalf("expected high risk/rejected, got %s/%s", result.RiskLevel, result.RecommendedDecision)
	}
}

func TestComputeResultTrimsAndScoresPerCategory(t *testing.T) {
	bank := newSeedBank(t)
	answers := []domain.UserAnswer{
		{QuestionText: "  Já atrasou pagamento de contas nos últimos 12 meses?", Answer: "Nunca "},
		// Bank text carries a trailing space; the submitted text does not.
		{QuestionText: "Há quantos anos mora no endereço atual?", Answer: "3-10 anos"},
		{QuestionText: "Como comprova a renda/faturamento do seu negócio?", Answer: "Recibos informais"},
	}

	result := app.ComputeResult(answers, bank)
	if result.TotalPoints != 8+3+4 {
		t.Fatalf("total = %d, want 15", result.TotalPoints)
	}
	if len(result.CategoryResults) != 2 {
		t.Fatalf("expected 2 categories, got %+v", result.CategoryResults)
	}

	financial := result.CategoryResults[0]
	if financial.Category != domain.CategoryFinancial || financial.Points != 12 {
		t.Fatalf("unexpected first category %+v", financial)
	}
	if !almostEqual(financial.Percentage, 12.0/35*100) {
		t.Fatalf("financial percentage = %v", financial.Percentage)
	}
	social := result.CategoryResults[1]
	if social.Category != domain.CategorySocial || social.Points != 3 {
		t.Fatalf("unexpected second category %+v", social)
	}
	if !almostEqual(result.ScorePercentage, 15.0/76*100) {
		t.Fatalf("score = %v", result.ScorePercentage)
	}
}

func TestComputeResultUnknownInputsContributeZero(t *testing.T) {
	bank := newSeedBank(t)
	answers := []domain.UserAnswer{
		{QuestionText: "Pergunta inexistente?", Answer: "Sim"},
		{QuestionText: "Mantém reservas financeiras?", Answer: "Talvez"},
	}

	result := app.ComputeResult(answers, bank)
	if result.TotalPoints != 0 {
		t.Fatalf("expected 0 points, got %d", result.TotalPoints)
	}
	// The known question still registers its category with zero points.
	if len(result.CategoryResults) != 1 || result.CategoryResults[0].Points != 0 {
		t.Fatalf("unexpected categories %+v", result.CategoryResults)
	}
}

func TestComputeResultPerfectScoreApproves(t *testing.T) {
	questions, err := seed.Questions()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	bank := newSeedBank(t)

	answers := make([]domain.UserAnswer, 0, len(questions))
	for _, q := range questions {
		best := q.Options[0]
		for _, opt := range q.Options {
			if opt.Weight > best.Weight {
				best = opt
			}
		}
		answers = append(answers, domain.UserAnswer{QuestionText: q.Text, Answer: best.Answer})
	}

	result := app.ComputeResult(answers, bank)
	if result.TotalPoints != domain.MaxPoints || !almostEqual(result.ScorePercentage, 100) {
		t.Fatalf("expected perfect score, got %+v", result)
	}
	if result.RiskLevel != domain.RiskLow || result.RecommendedDecision != domain.DecisionApprove {
		t.Fatalf("expected approval, got %s/%s", result.RiskLevel, result.RecommendedDecision)
	}
	for _, cr := range result.CategoryResults {
		if !almostEqual(cr.Percentage, 100) {
			t.Fatalf("category %s percentage = %v", cr.Category, cr.Percentage)
		}
	}
}

func TestComputeResultScoreIsAlwaysOverSeventySix(t *testing.T) {
	bank, err := app.NewQuestionBank([]domain.Question{
		{Text: "q", Category: domain.CategoryAnalytical, Options: []domain.Option{{Answer: "a", Weight: 15}}},
	})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	result := app.ComputeResult([]domain.UserAnswer{{QuestionText: "q", Answer: "a"}}, bank)
	if !almostEqual(result.ScorePercentage, 15.0/76*100) {
		t.Fatalf("score = %v", result.ScorePercentage)
	}
	if !almostEqual(result.CategoryResults[0].Percentage, 100) {
		t.Fatalf("category percentage = %v", result.CategoryResults[0].Percentage)
	}
}

func TestListForClientStripsWeights(t *testing.T) {
	bank := newSeedBank(t)
	listed := bank.ListForClient()
	if len(listed) != bank.Len() {
		t.Fatalf("listed %d of %d questions", len(listed), bank.Len())
	}
	if len(listed[0].Options) == 0 || listed[0].Category == "" {
		t.Fatalf("unexpected client question %+v", listed[0])
	}
}

func TestNewQuestionBankRejectsUnknownCategory(t *testing.T) {
	_, err := app.NewQuestionBank([]domain.Question{{Text: "q", Category: "Esportes"}})
	if err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func newSeedBank(t *testing.T) *app.QuestionBank {
	t.Helper()
	questions, err := seed.Questions()
	if err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	bank, err := app.NewQuestionBank(questions)
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return bank
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
