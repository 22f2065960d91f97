package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"colmeia-quiz-service/internal/domain"
)

// QuestionLoader reads the question bank from a JSON document.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("question bank %s: %w", l.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parsing question bank %s: %w: %v", l.path, domain.ErrMalformedData, err)
	}
	return questions, nil
}

// LoadSnapshot reads a dashboard snapshot document, such as the initial state used by reset.
func LoadSnapshot(path string) (domain.DashboardState, error) {
	return NewDashboardStore(path).Load(context.Background())
}

// WriteQuestions stores a question bank document atomically.
func WriteQuestions(path string, questions []domain.Question) error {
	if err := writeJSONAtomic(path, questions); err != nil {
		return fmt.Errorf("writing question bank %s: %w", path, err)
	}
	return nil
}
