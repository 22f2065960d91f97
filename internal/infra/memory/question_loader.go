package memory

import (
	"context"

	"colmeia-quiz-service/internal/domain"
)

// StaticQuestionLoader is a loader backed by an in-memory slice (embedded seed, tests, demos).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Question, len(l.questions))
	copy(out, l.questions)
	return out, nil
}
