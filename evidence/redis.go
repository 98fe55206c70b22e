package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Each package is stored under its own key with a
// retention TTL; the index list lets a downstream pipeline drain
// evidence in arrival order.
const (
	redisKeyPrefix = "chaossec:evidence:"
	redisIndexKey  = "chaossec:evidence:index"
)

// DefaultRetention is how long evidence keys live in Redis.
const DefaultRetention = 90 * 24 * time.Hour

// RedisOptions configures the Redis evidence sink.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// Retention is the TTL applied to evidence keys.
	Retention time.Duration
}

// RedisSink stores evidence packages in Redis for a downstream
// compliance pipeline to consume.
type RedisSink struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(opts RedisOptions) (*RedisSink, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.Retention == 0 {
		opts.Retention = DefaultRetention
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSink{client: client, retention: opts.Retention}, nil
}

// Upload implements Sink. Each package is stored independently; a failed
// package is reported in its status without aborting the batch.
func (s *RedisSink) Upload(ctx context.Context, packages []Package) ([]UploadStatus, error) {
	statuses := make([]UploadStatus, 0, len(packages))
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}
		statuses = append(statuses, s.uploadOne(ctx, pkg))
	}
	return statuses, nil
}

func (s *RedisSink) uploadOne(ctx context.Context, pkg Package) UploadStatus {
	status := UploadStatus{TestID: pkg.TestID, State: Uploaded}

	data, err := json.Marshal(pkg)
	if err != nil {
		status.State = Failed
		status.Error = err.Error()
		return status
	}

	key := redisKeyPrefix + pkg.TestID
	if err := s.client.Set(ctx, key, data, s.retention).Err(); err != nil {
		status.State = Failed
		status.Error = err.Error()
		return status
	}
	if err := s.client.LPush(ctx, redisIndexKey, pkg.TestID).Err(); err != nil {
		status.State = Failed
		status.Error = err.Error()
	}
	return status
}

// Get fetches a stored package by test id.
func (s *RedisSink) Get(ctx context.Context, testID string) (*Package, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+testID).Bytes()
	if err != nil {
		return nil, fmt.Errorf("get evidence %s: %w", testID, err)
	}
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decode evidence %s: %w", testID, err)
	}
	return &pkg, nil
}

// Close closes the Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

var _ Sink = (*RedisSink)(nil)
