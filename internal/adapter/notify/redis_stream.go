package notify

import (
	"context"
	"encoding/json"
	"strconv"

	"loanledger/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

// RedisStream appends each notification to a Redis stream for off-process
// consumers (indexers, audit).
type RedisStream struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisStream(rdb *redis.Client, stream string, maxLen int64) *RedisStream {
	return &RedisStream{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *RedisStream) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id": e.EventID,
			"kind":     string(e.Kind),
			"loan_id":  strconv.FormatUint(e.LoanID, 10),
			"payload":  string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return p.rdb.XAdd(ctx, args).Err()
}
