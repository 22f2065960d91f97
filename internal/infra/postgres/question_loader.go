package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"colmeia-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefaultBankID names the question bank row used when none is configured.
const DefaultBankID = "default"

// QuestionLoader loads a question bank document stored as JSONB.
type QuestionLoader struct {
	pool   *pgxpool.Pool
	bankID string
}

func NewQuestionLoader(pool *pgxpool.Pool, bankID string) *QuestionLoader {
	if bankID == "" {
		bankID = DefaultBankID
	}
	return &QuestionLoader{pool: pool, bankID: bankID}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, l.bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load question bank %q: %w", l.bankID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question bank %q: %w", l.bankID, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question bank %q: %w: %v", l.bankID, domain.ErrMalformedData, err)
	}
	return questions, nil
}

// SaveQuestions replaces the stored bank document.
func (l *QuestionLoader) SaveQuestions(ctx context.Context, questions []domain.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal question bank: %w", err)
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO question_banks (id, data, updated_at) VALUES ($1, $2::jsonb, now())
ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`, l.bankID, string(data))
	if err != nil {
		return fmt.Errorf("save question bank %q: %w", l.bankID, err)
	}
	return nil
}
