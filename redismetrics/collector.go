package redismetrics

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/respool"
)

// Collector ships per-task counters and latency sums to Redis hashes. It
// implements respool.MetricsCollector.
//
// Counters land in a cumulative total hash and, by default, in per-minute
// bucket hashes that expire after a TTL, so a dashboard can show both
// lifetime totals and a recent-rate window.
type Collector struct {
	rdb *redis.Client

	prefix string
	// ttl applies only to time-bucketed keys; the total hash is cumulative
	// and never expires.
	ttl     time.Duration
	bucket  string // "minute" (default) or "none"
	timeout time.Duration

	dropped atomic.Int64
}

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the key prefix for all hashes. Default "respool:stats".
func WithPrefix(prefix string) Option {
	return func(c *Collector) { c.prefix = strings.Trim(prefix, ":") }
}

// WithTTL sets the expiry for time-bucketed hashes. Default 24h;
// zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(c *Collector) { c.ttl = d }
}

// WithBucket selects the time bucketing: "minute" (default) or "none".
func WithBucket(bucket string) Option {
	return func(c *Collector) { c.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

// WithTimeout bounds each record's round trip to Redis. Default 1s.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) { c.timeout = d }
}

// New creates a Collector writing through rdb.
func New(rdb *redis.Client, opts ...Option) *Collector {
	c := &Collector{
		rdb:     rdb,
		prefix:  "respool:stats",
		ttl:     24 * time.Hour,
		bucket:  "minute",
		timeout: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecordTask implements respool.MetricsCollector. Redis failures are
// swallowed after bumping the Dropped counter; a metrics outage must never
// fail a task.
func (c *Collector) RecordTask(m respool.TaskMetrics) {
	if c == nil || c.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	field := fieldFor(m)
	totalKey := c.prefix + ":total"

	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field+":count", 1)
	pipe.HIncrBy(ctx, totalKey, field+":queue_ns", m.QueueTime.Nanoseconds())
	pipe.HIncrBy(ctx, totalKey, field+":exec_ns", m.ExecutionTime.Nanoseconds())
	if m.Err != nil {
		pipe.HIncrBy(ctx, totalKey, field+":errors", 1)
	}

	if c.bucket == "minute" {
		bucketKey := bucketKeyFor(c.prefix, time.Now())
		pipe.HIncrBy(ctx, bucketKey, field+":count", 1)
		if m.Err != nil {
			pipe.HIncrBy(ctx, bucketKey, field+":errors", 1)
		}
		if c.ttl > 0 {
			pipe.Expire(ctx, bucketKey, c.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.dropped.Add(1)
	}
}

// Dropped reports how many records failed to reach Redis.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

func fieldFor(m respool.TaskMetrics) string {
	op := strings.TrimSpace(m.Operation)
	if op == "" {
		op = "unknown"
	}
	return strings.ToLower(string(m.Resource)) + ":" + op
}

func bucketKeyFor(prefix string, at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", prefix, at.UTC().Format("200601021504"))
}
