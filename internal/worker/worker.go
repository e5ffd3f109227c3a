package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aescanero/dago-node-classifier/internal/classifier"
	"github.com/aescanero/dago-node-classifier/internal/config"
	"github.com/aescanero/dago-node-classifier/internal/store"
	"github.com/aescanero/dago-node-classifier/internal/tree"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrEmptyText is reported for requests without text to classify.
var ErrEmptyText = errors.New("no text provided")

const (
	defaultRequestTimeout = 2 * time.Minute
	// settleTimeout bounds publishing and acknowledging a handled message.
	settleTimeout = 5 * time.Second
	reclaimBatch  = 100
)

// Worker represents the classifier worker
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	classifier    *classifier.Classifier
	results       *store.RedisStore
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	running       atomic.Bool
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	classifierInstance *classifier.Classifier,
	results *store.RedisStore,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		classifier:    classifierInstance,
		results:       results,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting classifier worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	w.running.Store(true)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.running.Store(false)
		w.reclaimPending()
		w.processWork()
	}()

	w.logger.Info("classifier worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops reading new messages and waits for the in-flight message to be
// published and acknowledged. That message keeps its own request deadline.
func (w *Worker) Stop() error {
	w.logger.Info("stopping classifier worker", zap.String("worker_id", w.id))

	w.cancel()
	w.wg.Wait()

	w.logger.Info("classifier worker stopped", zap.String("worker_id", w.id))
	return nil
}

// Running reports whether the worker is consuming its stream.
func (w *Worker) Running() bool {
	return w.running.Load()
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP error means the group already exists, which is fine
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// reclaimPending handles messages delivered to this consumer by an earlier run
// and never acknowledged.
func (w *Worker) reclaimPending() {
	lastID := "0"
	for w.ctx.Err() == nil {
		streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
			Group:    w.consumerGroup,
			Consumer: w.id,
			Streams:  []string{w.streamKey, lastID},
			Count:    reclaimBatch,
			Block:    -1,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && w.ctx.Err() == nil {
				w.logger.Error("failed to read pending messages", zap.Error(err))
			}
			return
		}

		handled := 0
		for _, stream := range streams {
			for _, message := range stream.Messages {
				w.logger.Info("reclaiming pending message", zap.String("message_id", message.ID))
				w.handleMessage(message)
				lastID = message.ID
				handled++
			}
		}
		if handled == 0 {
			return
		}
	}
}

// processWork processes work from the Redis stream
func (w *Worker) processWork() {
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) || w.ctx.Err() != nil {
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// WorkRequest represents a classification work request
type WorkRequest struct {
	RequestID  string         `json:"request_id"`
	Text       string         `json:"text"`
	Tree       string         `json:"tree,omitempty"`
	InlineTree map[string]any `json:"inline_tree,omitempty"`
}

// handleMessage handles a single classification request message
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing classification request",
		zap.String("message_id", messageID),
	)

	// Requests run to completion or their own deadline; Stop only ends the read loop.
	ctx, cancel := context.WithTimeout(context.Background(), w.requestTimeout())
	defer cancel()

	request, err := w.parseWorkRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse work request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.publishError(ctx, &WorkRequest{RequestID: messageID}, err)
		w.acknowledgeMessage(ctx, messageID)
		return
	}

	if err := w.processClassificationRequest(ctx, request); err != nil {
		w.logger.Error("failed to process classification request",
			zap.String("message_id", messageID),
			zap.String("request_id", request.RequestID),
			zap.Error(err),
		)
		w.publishError(ctx, request, err)
	}

	w.acknowledgeMessage(ctx, messageID)
}

func (w *Worker) requestTimeout() time.Duration {
	if w.config.RequestTimeout > 0 {
		return w.config.RequestTimeout
	}
	return defaultRequestTimeout
}

// settleContext returns a context for recording the outcome of a request. It
// outlives the request deadline so timed out requests are still reported.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// parseWorkRequest parses a work request from Redis message
func (w *Worker) parseWorkRequest(values map[string]interface{}) (*WorkRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request WorkRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal work request: %w", err)
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	return &request, nil
}

// processClassificationRequest classifies the request text and publishes the decision
func (w *Worker) processClassificationRequest(ctx context.Context, request *WorkRequest) error {
	if strings.TrimSpace(request.Text) == "" {
		return ErrEmptyText
	}

	var (
		result *tree.Result
		err    error
	)

	if request.InlineTree != nil {
		t, buildErr := buildInlineTree(request.InlineTree)
		if buildErr != nil {
			return buildErr
		}
		result, err = w.classifier.ClassifyTree(ctx, t, request.Text)
	} else {
		result, err = w.classifier.Classify(ctx, request.Text, request.Tree)
	}
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	rec := store.NewRecord(request.RequestID, result, time.Now())

	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	if w.results != nil {
		if err := w.results.Save(settleCtx, rec); err != nil {
			// The decision is still published; the store is a convenience copy.
			w.logger.Warn("failed to store result",
				zap.String("request_id", request.RequestID),
				zap.Error(err),
			)
		}
	}

	if err := w.publishDecision(settleCtx, rec); err != nil {
		return fmt.Errorf("failed to publish decision: %w", err)
	}

	return nil
}

func buildInlineTree(raw map[string]any) (*tree.Tree, error) {
	configs, err := tree.DecodeTrees([]any{raw})
	if err != nil {
		return nil, err
	}
	return tree.NewTree(configs[0])
}

// publishDecision publishes the classification decision
func (w *Worker) publishDecision(ctx context.Context, rec *store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	_, err = w.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: w.resultStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Info("published classification decision",
		zap.String("request_id", rec.RequestID),
		zap.String("tree", rec.Tree),
		zap.String("label", rec.Label),
	)

	return nil
}

// publishError publishes an error event
func (w *Worker) publishError(ctx context.Context, request *WorkRequest, err error) {
	errorEvent := map[string]interface{}{
		"request_id": request.RequestID,
		"tree":       request.Tree,
		"error":      err.Error(),
		"reason":     classifier.FailureReason(err),
		"timestamp":  time.Now().UTC(),
	}

	data, marshalErr := json.Marshal(errorEvent)
	if marshalErr != nil {
		w.logger.Error("failed to marshal error event", zap.Error(marshalErr))
		return
	}

	ctx, cancel := settleContext(ctx)
	defer cancel()

	_, publishErr := w.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: w.resultStream + ".errors",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if publishErr != nil {
		w.logger.Error("failed to publish error event", zap.Error(publishErr))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(ctx context.Context, messageID string) {
	ctx, cancel := settleContext(ctx)
	defer cancel()

	err := w.redisClient.XAck(ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
