package kafka

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Default topic names. Overridable through Config for shared clusters.
const (
	DefaultAuditTopic      = "rxgene.resolution.audit"
	DefaultUnresolvedTopic = "rxgene.resolution.unresolved"
)

// Config holds broker and topic settings shared by producer and consumer.
type Config struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"`
	TimeoutMS       int      `mapstructure:"timeout_ms"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	AuditTopic      string   `mapstructure:"audit_topic"`
	UnresolvedTopic string   `mapstructure:"unresolved_topic"`
}

func applyDefaults(cfg *Config) {
	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = "earliest"
	}
	if cfg.TimeoutMS == 0 {
		cfg.TimeoutMS = 10000
	}
	if cfg.ProducerRetries == 0 {
		cfg.ProducerRetries = 3
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.AuditTopic == "" {
		cfg.AuditTopic = DefaultAuditTopic
	}
	if cfg.UnresolvedTopic == "" {
		cfg.UnresolvedTopic = DefaultUnresolvedTopic
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic administration
// ─────────────────────────────────────────────────────────────────────────────

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	Controller() (kafka.Broker, error)
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

type dialFunc func(network, addr string) (ConnInterface, error)

// TopicManager creates and inspects the rxgene topics on startup.
type TopicManager struct {
	brokers []string
	dial    dialFunc
	logger  logging.Logger
}

// NewTopicManager builds a manager for the given brokers.
func NewTopicManager(brokers []string, log logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}
	return &TopicManager{
		brokers: brokers,
		dial: func(network, addr string) (ConnInterface, error) {
			return kafka.Dial(network, addr)
		},
		logger: log,
	}, nil
}

// EnsureTopics creates the audit and unresolved topics if missing. Creation
// requests go to the cluster controller; an already-existing topic is fine.
func (m *TopicManager) EnsureTopics(ctx context.Context, cfg Config) error {
	applyDefaults(&cfg)

	conn, err := m.dial("tcp", m.brokers[0])
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "dialing kafka broker "+m.brokers[0])
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "resolving kafka controller")
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	cconn, err := m.dial("tcp", controllerAddr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "dialing kafka controller "+controllerAddr)
	}
	defer cconn.Close()

	topics := []kafka.TopicConfig{
		{
			Topic:             cfg.AuditTopic,
			NumPartitions:     3,
			ReplicationFactor: 1,
			ConfigEntries: []kafka.ConfigEntry{
				{ConfigName: "retention.ms", ConfigValue: strconv.FormatInt((7 * 24 * time.Hour).Milliseconds(), 10)},
			},
		},
		{
			Topic:             cfg.UnresolvedTopic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	if err := cconn.CreateTopics(topics...); err != nil && err != kafka.TopicAlreadyExists {
		return errors.Wrap(err, errors.ErrCodeInternal, "creating kafka topics")
	}

	m.logger.Info("Kafka topics ensured",
		logging.String("audit_topic", cfg.AuditTopic),
		logging.String("unresolved_topic", cfg.UnresolvedTopic),
	)
	return nil
}

// TopicExists reports whether the topic has at least one partition.
func (m *TopicManager) TopicExists(topic string) (bool, error) {
	conn, err := m.dial("tcp", m.brokers[0])
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "dialing kafka broker "+m.brokers[0])
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

//Personal.AI order the ending
