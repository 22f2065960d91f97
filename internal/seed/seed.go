// Package seed ships the default question bank and the initial dashboard snapshot
// used by reset. Both documents are embedded so a fresh deployment works without
// any files on disk.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"colmeia-quiz-service/internal/domain"
)

//go:embed data/questions.json
var questionsJSON []byte

//go:embed data/dashboard_initial.json
var dashboardInitialJSON []byte

// QuestionsJSON returns the raw embedded question bank document.
func QuestionsJSON() []byte {
	return append([]byte(nil), questionsJSON...)
}

// DashboardInitialJSON returns the raw embedded initial dashboard document.
func DashboardInitialJSON() []byte {
	return append([]byte(nil), dashboardInitialJSON...)
}

// Questions decodes the embedded question bank.
func Questions() ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(questionsJSON, &questions); err != nil {
		return nil, fmt.Errorf("decode embedded questions: %w", err)
	}
	return questions, nil
}

// InitialDashboard decodes the embedded initial dashboard snapshot.
func InitialDashboard() (domain.DashboardState, error) {
	var state domain.DashboardState
	if err := json.Unmarshal(dashboardInitialJSON, &state); err != nil {
		return domain.DashboardState{}, fmt.Errorf("decode embedded dashboard: %w", err)
	}
	return state, nil
}
