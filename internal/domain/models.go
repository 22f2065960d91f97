package domain

import "strings"

// Category identifies one of the scored questionnaire pillars.
type Category string

const (
	CategorySocial     Category = "Social"
	CategoryFinancial  Category = "Financeiro"
	CategoryAnalytical Category = "Analítico"
)

// CategoryMaxPoints is the highest attainable score per category; used as the percentage denominator.
var CategoryMaxPoints = map[Category]int{
	CategorySocial:     26,
	CategoryFinancial:  35,
	CategoryAnalytical: 15,
}

// MaxPoints is the sum of all category maxima.
const MaxPoints = 76

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{CategorySocial, CategoryFinancial, CategoryAnalytical}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := CategoryMaxPoints[c]
	return ok
}

// PilarID is the dashboard pillar id derived from the category name.
func (c Category) PilarID() string {
	return strings.ToLower(string(c))
}

// Option is one possible answer of a question together with its scoring weight.
type Option struct {
	Answer string `json:"resposta"`
	Weight int    `json:"peso"`
}

// Question is an immutable question bank entry.
type Question struct {
	Text     string   `json:"texto"`
	Category Category `json:"categoria"`
	Options  []Option `json:"opcoes"`
}

// ClientQuestion is the public view of a question; weights are never exposed.
type ClientQuestion struct {
	Text     string   `json:"texto"`
	Options  []string `json:"opcoes"`
	Category Category `json:"categoria"`
}

// UserAnswer is a single submitted answer.
type UserAnswer struct {
	QuestionText string `json:"question_text"`
	Answer       string `json:"answer"`
}

// CategoryResult is the per-category slice of a scored submission.
type CategoryResult struct {
	Category   Category `json:"category"`
	Points     int      `json:"points"`
	Percentage float64  `json:"percentage"`
}

// FinalResult is the outcome of scoring one submission.
type FinalResult struct {
	TotalPoints         int              `json:"total_points"`
	CategoryResults     []CategoryResult `json:"category_results"`
	ScorePercentage     float64          `json:"score_percentage"`
	RiskLevel           RiskLevel        `json:"risk_level"`
	RecommendedDecision Decision         `json:"recommended_decision"`
}

// HistoryEntry is a FinalResult stamped with its submission time.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	FinalResult
}

// Goal is a pillar-scoped milestone.
type Goal struct {
	ID           string `json:"id"`
	Description  string `json:"descricao"`
	Levels       int    `json:"niveis"`
	CurrentLevel int    `json:"nivel_atual"`
	Completed    bool   `json:"concluido"`
	Criterion    string `json:"criterio"`
}

// Pilar is the dashboard projection of one category.
type Pilar struct {
	ID       string  `json:"id"`
	Name     string  `json:"nome"`
	Progress float64 `json:"progresso"`
	Goals    []Goal  `json:"objetivos"`
}

// Badge is a global, multi-level achievement.
type Badge struct {
	ID           string `json:"id"`
	Name         string `json:"nome"`
	Levels       int    `json:"niveis"`
	CurrentLevel int    `json:"nivel_atual"`
	Description  string `json:"descricao"`
}

// DashboardState is the single shared gamification record.
type DashboardState struct {
	GeneralScore        float64 `json:"score_geral"`
	RecommendedDecision string  `json:"recommended_decision"`
	Pilars              []Pilar `json:"pilares"`
	Badges              []Badge `json:"badges"`
}

// Clone returns a deep copy so callers can mutate it without aliasing the source.
func (d DashboardState) Clone() DashboardState {
	out := DashboardState{
		GeneralScore:        d.GeneralScore,
		RecommendedDecision: d.RecommendedDecision,
	}
	if d.Pilars != nil {
		out.Pilars = make([]Pilar, len(d.Pilars))
		for i, p := range d.Pilars {
			out.Pilars[i] = p
			if p.Goals != nil {
				out.Pilars[i].Goals = make([]Goal, len(p.Goals))
				copy(out.Pilars[i].Goals, p.Goals)
			}
		}
	}
	if d.Badges != nil {
		out.Badges = make([]Badge, len(d.Badges))
		copy(out.Badges, d.Badges)
	}
	return out
}
