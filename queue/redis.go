package queue

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

const (
	DefaultKey    = "update_incoming"
	DefaultExpire = 24 * time.Hour
)

var log = logrus.WithField("prefix", "queue")

// RedisQueue keeps queue items as JSON strings in a redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
	expire time.Duration
}

func NewRedisQueue(client *redis.Client, key string, expire time.Duration) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{
		client: client,
		key:    key,
		expire: expire,
	}
}

// Key returns the name of the redis list.
func (q *RedisQueue) Key() string {
	return q.key
}

// Enqueue pushes all reports of a batch in one transaction, so either the
// whole batch lands on the list or none of it.
func (q *RedisQueue) Enqueue(ctx context.Context, metadata schema.SubmissionMetadata, reports []schema.Report) error {
	if len(reports) == 0 {
		return nil
	}

	values, err := encodeItems(schema.NewQueueItems(metadata, reports))
	if err != nil {
		return err
	}

	if _, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, q.key, values...)
		if q.expire > 0 {
			pipe.Expire(ctx, q.key, q.expire)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("push to %s: %w", q.key, err)
	}

	log.WithField("key", q.key).Debugf("enqueued %d items", len(values))
	return nil
}

// Size returns the number of items waiting on the list.
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func encodeItems(items []schema.QueueItem) ([]interface{}, error) {
	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode queue item: %w", err)
		}
		values = append(values, string(b))
	}
	return values, nil
}
