// Package worker implements the classifier worker lifecycle and Redis Streams integration.
//
// The worker reads classification requests from a Redis stream through a consumer
// group, walks the requested decision tree and publishes the decision to a result
// stream. Failed requests are published to "<result stream>.errors". Every message
// is acknowledged, whether or not it could be classified. Each message runs under
// its own REQUEST_TIMEOUT deadline, so Stop lets the message in flight finish, and
// Start first handles messages an earlier run left pending.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	c, _ := classifier.New(registry, responder, logger)
//	results := store.NewRedisStore(redisClient, cfg.ResultTTL, logger)
//
//	w := worker.NewWorker(cfg, redisClient, c, results, logger)
//	if err := w.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// Requests are JSON documents in the "data" field of a stream entry:
//
//	{"request_id": "r-1", "text": "I love it", "tree": "sentiment"}
//
// A request may carry an "inline_tree" instead of a tree name.
//
// Health checks and metrics are provided via a separate HTTP server. /ready
// reports Redis, the loaded trees and whether the worker is consuming:
//
//	healthServer := worker.NewHealthServer(8082, w, collector.Handler(), logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
