// Package redismetrics provides a Redis-backed metrics sink for respool.
//
// Each completed task increments counters in a cumulative total hash and in
// a per-minute bucket hash under a configurable prefix:
//
//	respool:stats:total               cpu:transcode:count -> 42
//	                                  cpu:transcode:exec_ns -> 918273645
//	                                  io:read:errors -> 1
//	respool:stats:minute:202608231457 io:read:count -> 7
//
// Bucket hashes expire after a TTL so the keyspace stays bounded. Recording
// is fire-and-forget: failures bump an internal counter and are otherwise
// dropped.
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	m, err := respool.New(cfg, respool.WithMetricsCollector(redismetrics.New(rdb)))
package redismetrics
