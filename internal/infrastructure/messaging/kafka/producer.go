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

// ErrProducerClosed is returned by synchronous publishes after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerStats is a point-in-time snapshot of producer counters.
type ProducerStats struct {
	Published int64
	Failed    int64
	Dropped   int64
}

// Producer publishes resolution events. Enqueue methods are fire-and-forget:
// they never block the caller and never surface broker errors, because audit
// publishing must not affect request latency or success. A bounded queue
// feeds a single writer goroutine; when the queue is full, events are dropped
// and counted.
type Producer struct {
	writer          WriterInterface
	logger          logging.Logger
	auditTopic      string
	unresolvedTopic string
	writeTimeout    time.Duration
	observer        func(topic string)

	mu     sync.RWMutex
	queue  chan kafka.Message
	closed bool
	wg     sync.WaitGroup

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// ProducerOption customizes the producer at construction time.
type ProducerOption func(*producerOptions)

type producerOptions struct {
	queueSize int
	writer    WriterInterface
}

// WithQueueSize overrides the async queue capacity (default 1024).
func WithQueueSize(n int) ProducerOption {
	return func(o *producerOptions) { o.queueSize = n }
}

// WithWriter substitutes the kafka writer. Tests use it to capture messages.
func WithWriter(w WriterInterface) ProducerOption {
	return func(o *producerOptions) { o.writer = w }
}

// NewProducer builds a producer and starts its drain goroutine.
func NewProducer(cfg Config, log logging.Logger, opts ...ProducerOption) (*Producer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	o := producerOptions{queueSize: 1024}
	for _, opt := range opts {
		opt(&o)
	}

	writer := o.writer
	if writer == nil {
		writer = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			MaxAttempts:            cfg.ProducerRetries + 1,
			BatchSize:              cfg.BatchSize,
			BatchTimeout:           time.Second,
			WriteTimeout:           time.Duration(cfg.TimeoutMS) * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
	}

	p := &Producer{
		writer:          writer,
		logger:          log,
		auditTopic:      cfg.AuditTopic,
		unresolvedTopic: cfg.UnresolvedTopic,
		writeTimeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		queue:           make(chan kafka.Message, o.queueSize),
	}

	p.wg.Add(1)
	go p.drain()
	return p, nil
}

// OnPublish registers fn to be invoked with the topic of every message that
// reaches the broker. Set it during wiring, before the first enqueue; it runs
// on the drain goroutine and must not block.
func (p *Producer) OnPublish(fn func(topic string)) {
	p.observer = fn
}

// drain writes queued messages until Close closes the queue.
func (p *Producer) drain() {
	defer p.wg.Done()
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			p.failed.Add(1)
			p.logger.Warn("Failed to publish event",
				logging.String("topic", msg.Topic), logging.Err(err))
			continue
		}
		p.published.Add(1)
		if p.observer != nil {
			p.observer(msg.Topic)
		}
	}
}

// EnqueueAudit queues a resolution audit event. Key affinity keeps every
// event for the same normalized name on one partition.
func (p *Producer) EnqueueAudit(event ResolutionAuditEvent) {
	p.enqueue(p.auditTopic, event.Domain+":"+event.NormalizedName, event)
}

// EnqueueUnresolved queues an unresolved-name event for the curation worker.
func (p *Producer) EnqueueUnresolved(event UnresolvedNameEvent) {
	p.enqueue(p.unresolvedTopic, event.Domain+":"+event.NormalizedName, event)
}

func (p *Producer) enqueue(topic, key string, event interface{}) {
	value, err := json.Marshal(event)
	if err != nil {
		p.failed.Add(1)
		p.logger.Warn("Failed to encode event", logging.String("topic", topic), logging.Err(err))
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		return
	}

	select {
	case p.queue <- msg:
	default:
		p.dropped.Add(1)
		p.logger.Warn("Event queue full, dropping event", logging.String("topic", topic))
	}
}

// Publish writes one event synchronously. The curation worker and CLI use it
// where delivery matters more than latency.
func (p *Producer) Publish(ctx context.Context, topic, key string, event interface{}) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrProducerClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encoding event")
	}

	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: value, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeInternal, "publishing event to "+topic)
	}
	p.published.Add(1)
	if p.observer != nil {
		p.observer(topic)
	}
	return nil
}

// Stats returns a snapshot of producer counters.
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		Published: p.published.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// Close drains the queue and releases the writer. Safe to call twice.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed",
		logging.Int64("published", p.published.Load()),
		logging.Int64("failed", p.failed.Load()),
		logging.Int64("dropped", p.dropped.Load()),
	)
	return err
}

//Personal.AI order the ending
