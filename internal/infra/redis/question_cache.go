package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"colmeia-quiz-service/internal/app"
	"colmeia-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches the question bank document in Redis and falls back to a loader on miss.
// Stored as: SET {prefix}:questions <[]Question JSON> EX ttl
type QuestionCache struct {
	client *redis.Client
	loader app.QuestionLoader
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader app.QuestionLoader, prefix string, ttl time.Duration) *QuestionCache {
	if prefix == "" {
		prefix = "colmeia"
	}
	return &QuestionCache{
		client: client,
		loader: loader,
		prefix: prefix,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(c.key(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, c.key(), data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, c.key()).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) key() string {
	return c.prefix + ":questions"
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
