package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]kafka.Message, len(w.msgs))
	copy(out, w.msgs)
	return out
}

// blockingWriter parks WriteMessages until released, so tests can fill the
// queue deterministically.
type blockingWriter struct {
	fakeWriter
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.once.Do(func() { close(w.started) })
	<-w.release
	return w.fakeWriter.WriteMessages(ctx, msgs...)
}

func testConfig() Config {
	return Config{Brokers: []string{"broker-1:9092"}, GroupID: "rxgene-worker"}
}

func newTestProducer(t *testing.T, w WriterInterface, opts ...ProducerOption) *Producer {
	t.Helper()
	opts = append(opts, WithWriter(w))
	p, err := NewProducer(testConfig(), logging.NewNopLogger(), opts...)
	require.NoError(t, err)
	return p
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(Config{}, logging.NewNopLogger())
	assert.ErrorContains(t, err, "brokers required")
}

func TestProducer_EnqueueAudit(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := newTestProducer(t, fw)

	event := ResolutionAuditEvent{
		RequestID:      uuid.New(),
		Domain:         "drug",
		RawName:        "Imatinib Mesylate",
		NormalizedName: "imatinib mesylate",
		ResolvedName:   "Imatinib",
		Score:          0.86,
		Threshold:      0.7,
		Matched:        true,
		OccurredAt:     time.Now().UTC(),
	}
	p.EnqueueAudit(event)
	require.NoError(t, p.Close())

	msgs := fw.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultAuditTopic, msgs[0].Topic)
	assert.Equal(t, "drug:imatinib mesylate", string(msgs[0].Key))

	var decoded ResolutionAuditEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	assert.Equal(t, event.RequestID, decoded.RequestID)
	assert.Equal(t, "Imatinib", decoded.ResolvedName)
	assert.True(t, decoded.Matched)
	assert.InDelta(t, 0.86, decoded.Score, 1e-9)

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Published)
	assert.Zero(t, stats.Failed)
	assert.True(t, fw.closed)
}

func TestProducer_EnqueueUnresolved(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := newTestProducer(t, fw)

	p.EnqueueUnresolved(UnresolvedNameEvent{
		RequestID:      uuid.New(),
		Domain:         "gene",
		RawName:        "BTKK",
		NormalizedName: "btkk",
		BestScore:      0.41,
		OccurredAt:     time.Now().UTC(),
	})
	require.NoError(t, p.Close())

	msgs := fw.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultUnresolvedTopic, msgs[0].Topic)
	assert.Equal(t, "gene:btkk", string(msgs[0].Key))
}

func TestProducer_OnPublishObserver(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := newTestProducer(t, fw)

	var mu sync.Mutex
	var topics []string
	p.OnPublish(func(topic string) {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, topic)
	})

	p.EnqueueAudit(ResolutionAuditEvent{Domain: "drug", NormalizedName: "imatinib"})
	p.EnqueueUnresolved(UnresolvedNameEvent{Domain: "gene", NormalizedName: "btkk"})
	require.NoError(t, p.Close())

	// Close waits for the drain goroutine, so the observer calls are done.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{DefaultAuditTopic, DefaultUnresolvedTopic}, topics)
}

func TestProducer_OnPublishSkipsFailedWrites(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{err: assert.AnError}
	p := newTestProducer(t, fw)

	var fired atomic.Int32
	p.OnPublish(func(string) { fired.Add(1) })

	p.EnqueueAudit(ResolutionAuditEvent{Domain: "drug", NormalizedName: "imatinib"})
	require.NoError(t, p.Close())

	assert.Zero(t, fired.Load(), "observer must only see delivered messages")
}

func TestProducer_QueueOverflowDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()

	bw := &blockingWriter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := newTestProducer(t, bw, WithQueueSize(1))

	event := UnresolvedNameEvent{Domain: "drug", NormalizedName: "one"}
	p.EnqueueUnresolved(event)
	<-bw.started // drain goroutine is now parked inside WriteMessages

	p.EnqueueUnresolved(UnresolvedNameEvent{Domain: "drug", NormalizedName: "two"})
	p.EnqueueUnresolved(UnresolvedNameEvent{Domain: "drug", NormalizedName: "three"})

	assert.EqualValues(t, 1, p.Stats().Dropped)

	close(bw.release)
	require.NoError(t, p.Close())
	assert.EqualValues(t, 2, p.Stats().Published)
}

func TestProducer_WriterErrorsAreCountedNotSurfaced(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{err: assert.AnError}
	p := newTestProducer(t, fw)

	p.EnqueueAudit(ResolutionAuditEvent{Domain: "drug", NormalizedName: "imatinib"})
	require.NoError(t, p.Close())

	stats := p.Stats()
	assert.EqualValues(t, 1, stats.Failed)
	assert.Zero(t, stats.Published)
}

func TestProducer_PublishSync(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := newTestProducer(t, fw)

	err := p.Publish(context.Background(), "rxgene.test", "k", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.Len(t, fw.messages(), 1)

	require.NoError(t, p.Close())

	err = p.Publish(context.Background(), "rxgene.test", "k", map[string]string{"a": "b"})
	assert.Equal(t, ErrProducerClosed, err)
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestProducer(t, &fakeWriter{})
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestProducer_EnqueueAfterCloseIsDropped(t *testing.T) {
	t.Parallel()

	p := newTestProducer(t, &fakeWriter{})
	require.NoError(t, p.Close())

	assert.NotPanics(t, func() {
		p.EnqueueAudit(ResolutionAuditEvent{Domain: "drug", NormalizedName: "late"})
	})
	assert.EqualValues(t, 1, p.Stats().Dropped)
}

//Personal.AI order the ending
