package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so the service can run with more than
// one replica. Expiry rides on native key TTLs, refreshed on every write,
// and compare-and-swap is a WATCH transaction on the session key: a
// concurrent write between read and commit aborts the transaction.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

type storedSession struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Topic          string      `json:"topic"`
	Questions      []Question  `json:"questions"`
	CurrentIndex   int         `json:"current_index"`
	Answers        map[int]int `json:"answers"`
	Score          int         `json:"score"`
	Status         Status      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	LastActivityAt time.Time   `json:"last_activity_at"`
}

func sessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}

func encodeSession(session *Session) ([]byte, error) {
	return json.Marshal(storedSession{
		ID:             session.ID,
		UserID:         session.UserID,
		Topic:          session.Topic,
		Questions:      session.Questions,
		CurrentIndex:   session.CurrentIndex,
		Answers:        session.Answers,
		Score:          session.Score,
		Status:         session.Status,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
	})
}

func decodeSession(payload []byte) (*Session, error) {
	var stored storedSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	answers := stored.Answers
	if answers == nil {
		answers = make(map[int]int)
	}
	return &Session{
		ID:             stored.ID,
		UserID:         stored.UserID,
		Topic:          stored.Topic,
		Questions:      stored.Questions,
		CurrentIndex:   stored.CurrentIndex,
		Answers:        answers,
		Score:          stored.Score,
		Status:         stored.Status,
		CreatedAt:      stored.CreatedAt,
		LastActivityAt: stored.LastActivityAt,
	}, nil
}

func (r *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, sessionKey(session.ID), payload, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("session id already in use")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(payload)
}

func (r *RedisStore) CompareAndSwap(ctx context.Context, expectedIndex int, session *Session) error {
	if session == nil {
		return errors.New("session is required")
	}
	key := sessionKey(session.ID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		current, err := decodeSession(payload)
		if err != nil {
			return err
		}
		if current.CurrentIndex != expectedIndex {
			return ErrVersionConflict
		}

		encoded, err := encodeSession(session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, r.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	return err
}

// EvictExpired is a no-op: Redis drops idle sessions itself once their key
// TTL lapses.
func (r *RedisStore) EvictExpired(context.Context) (int, error) {
	return 0, nil
}
