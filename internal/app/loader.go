package app

import (
	"context"
	"fmt"

	"colmeia-quiz-service/internal/domain"
)

// QuestionLoader fetches the question bank document from a backing store (file, Postgres, embedded seed).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// LoadQuestionBank loads and indexes the bank; any failure is fatal for startup.
func LoadQuestionBank(ctx context.Context, loader QuestionLoader) (*QuestionBank, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("load question bank: empty bank: %w", domain.ErrMalformedData)
	}
	return NewQuestionBank(questions)
}
