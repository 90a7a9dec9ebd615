package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// record is what the store keeps per idempotency key. A pending record is a
// reservation held while the handler runs.
type record struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	Digest      string    `json:"digest"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

type store struct{ rdb *redis.Client }

// storeKey scopes a request id to the caller and the matched route, so
// the same id may be reused across accounts and operations.
func storeKey(method, route, accountID, requestID string) string {
	return "loanledger:idemp:" + strings.ToLower(method) + ":" + route + ":" + accountID + ":" + requestID
}

// reserve claims key for reservationTTL; false means someone holds it already.
func (s store) reserve(ctx context.Context, key string, r record) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, reservationTTL).Result()
}

func (s store) load(ctx context.Context, key string) (record, error) {
	var r record
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	err = json.Unmarshal(v, &r)
	return r, err
}

func (s store) commit(ctx context.Context, key string, r record, ttl time.Duration) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

func (s store) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
