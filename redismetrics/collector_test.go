package redismetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/respool"
)

func TestFieldFor(t *testing.T) {
	assert.Equal(t, "cpu:transcode", fieldFor(respool.TaskMetrics{
		Resource:  respool.ResourceCPU,
		Operation: "transcode",
	}))
	assert.Equal(t, "io:read", fieldFor(respool.TaskMetrics{
		Resource:  respool.ResourceIO,
		Operation: " read ",
	}))
	assert.Equal(t, "io:unknown", fieldFor(respool.TaskMetrics{
		Resource: respool.ResourceIO,
	}))
}

func TestBucketKeyFor(t *testing.T) {
	at := time.Date(2026, 8, 23, 14, 57, 30, 0, time.UTC)
	assert.Equal(t, "respool:stats:minute:202608231457", bucketKeyFor("respool:stats", at))
}

func TestNew_Options(t *testing.T) {
	c := New(nil,
		WithPrefix(":custom:"),
		WithTTL(time.Minute),
		WithBucket("NONE"),
		WithTimeout(100*time.Millisecond),
	)

	assert.Equal(t, "custom", c.prefix)
	assert.Equal(t, time.Minute, c.ttl)
	assert.Equal(t, "none", c.bucket)
	assert.Equal(t, 100*time.Millisecond, c.timeout)
}

func TestRecordTask_NilSafe(t *testing.T) {
	var c *Collector
	c.RecordTask(respool.TaskMetrics{Resource: respool.ResourceCPU, Operation: "noop"})

	New(nil).RecordTask(respool.TaskMetrics{Resource: respool.ResourceCPU, Operation: "noop"})
}

func TestRecordTask_UnreachableServerIsSwallowed(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	c := New(rdb, WithTimeout(250*time.Millisecond))

	start := time.Now()
	c.RecordTask(respool.TaskMetrics{
		Resource:      respool.ResourceIO,
		Operation:     "read",
		QueueTime:     time.Millisecond,
		ExecutionTime: 2 * time.Millisecond,
		Err:           errors.New("task error"),
	})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int64(1), c.Dropped())
}
