package app

import (
	"fmt"
	"strings"

	"colmeia-quiz-service/internal/domain"
)

// QuestionBank is the read-only catalog of scored questions, indexed by trimmed text.
type QuestionBank struct {
	questions []domain.Question
	byText    map[string]int
}

// NewQuestionBank validates and indexes questions. Duplicate texts keep the first entry.
func NewQuestionBank(questions []domain.Question) (*QuestionBank, error) {
	bank := &QuestionBank{
		questions: make([]domain.Question, 0, len(questions)),
		byText:    make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		key := normalize(q.Text)
		if key == "" {
			return nil, fmt.Errorf("question %d has empty text: %w", i, domain.ErrMalformedData)
		}
		if !q.Category.Valid() {
			return nil, fmt.Errorf("question %q has unknown category %q: %w", key, q.Category, domain.ErrMalformedData)
		}
		if _, dup := bank.byText[key]; dup {
			continue
		}
		bank.byText[key] = len(bank.questions)
		bank.questions = append(bank.questions, q)
	}
	return bank, nil
}

// FindQuestion looks a question up by trimmed text.
func (b *QuestionBank) FindQuestion(text string) (domain.Question, bool) {
	idx, ok := b.byText[normalize(text)]
	if !ok {
		return domain.Question{}, false
	}
	return b.questions[idx], true
}

// ListForClient returns the questions with weights stripped, in bank order.
func (b *QuestionBank) ListForClient() []domain.ClientQuestion {
	out := make([]domain.ClientQuestion, 0, len(b.questions))
	for _, q := range b.questions {
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, opt.Answer)
		}
		out = append(out, domain.ClientQuestion{
			Text:     q.Text,
			Options:  options,
			Category: q.Category,
		})
	}
	return out
}

// Len reports the number of distinct questions.
func (b *QuestionBank) Len() int {
	return len(b.questions)
}

func weightFor(q domain.Question, answer string) (int, bool) {
	key := normalize(answer)
	for _, opt := range q.Options {
		if normalize(opt.Answer) == key {
			return opt.Weight, true
		}
	}
	return 0, false
}

func normalize(s string) string {
	return strings.TrimSpace(s)
}
