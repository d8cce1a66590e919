package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// ErrAlreadyRunning is returned when Start is called on a running consumer.
var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// UnresolvedHandler processes one unresolved-name event. Returning an error
// triggers a bounded retry; an exhausted event is committed and dropped so a
// poison message cannot wedge the partition.
type UnresolvedHandler func(ctx context.Context, event UnresolvedNameEvent) error

// ConsumerStats is a point-in-time snapshot of consumer counters.
type ConsumerStats struct {
	Consumed  int64
	Processed int64
	Failed    int64
}

// Consumer reads unresolved-name events in a consumer group and hands them to
// the curation handler.
type Consumer struct {
	reader  ReaderInterface
	logger  logging.Logger
	handler UnresolvedHandler

	maxRetries int
	backoff    time.Duration

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	consumed  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// ConsumerOption customizes the consumer at construction time.
type ConsumerOption func(*consumerOptions)

type consumerOptions struct {
	reader     ReaderInterface
	maxRetries int
	backoff    time.Duration
}

// WithReader substitutes the kafka reader. Tests use it to feed messages.
func WithReader(r ReaderInterface) ConsumerOption {
	return func(o *consumerOptions) { o.reader = r }
}

// WithHandlerRetries overrides retry count and backoff for failing handlers.
func WithHandlerRetries(n int, backoff time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		o.maxRetries = n
		o.backoff = backoff
	}
}

// NewConsumer builds a consumer for the unresolved-names topic.
func NewConsumer(cfg Config, handler UnresolvedHandler, log logging.Logger, opts ...ConsumerOption) (*Consumer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka group_id required")
	}
	if handler == nil {
		return nil, errors.New(errors.ErrCodeValidation, "handler required")
	}
	applyDefaults(&cfg)

	o := consumerOptions{maxRetries: 3, backoff: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	reader := o.reader
	if reader == nil {
		startOffset := kafka.FirstOffset
		if cfg.AutoOffsetReset == "latest" {
			startOffset = kafka.LastOffset
		}
		reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			GroupID:     cfg.GroupID,
			Topic:       cfg.UnresolvedTopic,
			MinBytes:    1,
			MaxBytes:    10 * 1024 * 1024,
			MaxWait:     500 * time.Millisecond,
			StartOffset: startOffset,
		})
	}

	return &Consumer{
		reader:     reader,
		logger:     log,
		handler:    handler,
		maxRetries: o.maxRetries,
		backoff:    o.backoff,
	}, nil
}

// Start launches the consume loop. It returns immediately.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("Unresolved-names consumer started")
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("Fetch failed", logging.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.consumed.Add(1)
		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("Commit failed", logging.Err(err),
				logging.Int64("offset", msg.Offset))
		}
	}
}

// process decodes and handles one message. Malformed payloads and events
// that exhaust their retries are logged and dropped; the commit in the loop
// above moves past them either way.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var event UnresolvedNameEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.failed.Add(1)
		c.logger.Warn("Dropping undecodable event",
			logging.Int64("offset", msg.Offset), logging.Err(err))
		return
	}

	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
		}
		if err = c.handler(ctx, event); err == nil {
			c.processed.Add(1)
			return
		}
	}

	c.failed.Add(1)
	c.logger.Error("Dropping event after retries",
		logging.String("domain", event.Domain),
		logging.String("normalized_name", event.NormalizedName),
		logging.Int("retries", c.maxRetries),
		logging.Err(err),
	)
}

// Stats returns a snapshot of consumer counters.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{
		Consumed:  c.consumed.Load(),
		Processed: c.processed.Load(),
		Failed:    c.failed.Load(),
	}
}

// Stop cancels the loop, waits for it to finish, and closes the reader.
func (c *Consumer) Stop() error {
	if !c.running.Swap(false) {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("Unresolved-names consumer stopped",
		logging.Int64("consumed", c.consumed.Load()),
		logging.Int64("processed", c.processed.Load()),
	)
	return err
}

//Personal.AI order the ending
