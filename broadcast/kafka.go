package broadcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// ErrNoBrokers is returned when a Kafka broadcaster is built without seeds.
var ErrNoBrokers = errors.New("no brokers configured")

// Kafka publishes messages as JSON records keyed by message kind.
type Kafka struct {
	client *kgo.Client
	admin  *kadm.Client
	topic  string
	log    *slog.Logger

	partitions int32
	replicas   int16
}

// KafkaOption configures a Kafka broadcaster.
type KafkaOption func(*Kafka)

// WithLog sets the logger.
var WithLog = func(log *slog.Logger) KafkaOption {
	return func(k *Kafka) {
		k.log = log
	}
}

// WithTopicLayout sets the partition count and replication factor used
// when the topic has to be created.
var WithTopicLayout = func(partitions int32, replicas int16) KafkaOption {
	return func(k *Kafka) {
		k.partitions = partitions
		k.replicas = replicas
	}
}

// NewKafka connects to brokers and makes sure topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string, opts ...KafkaOption) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	k := &Kafka{
		topic:      topic,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		partitions: 1,
		replicas:   1,
	}
	for _, opt := range opts {
		opt(k)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	k.client = client
	k.admin = kadm.NewClient(client)

	if err := k.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	if err := k.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return k, nil
}

// Ping asks a broker for its supported API versions.
func (k *Kafka) Ping(ctx context.Context) error {
	req := kmsg.NewPtrApiVersionsRequest()
	req.ClientSoftwareName = "sigchain"
	req.ClientSoftwareVersion = "1.0.0"
	resp, err := req.RequestWith(ctx, k.client)
	if err != nil {
		return fmt.Errorf("ping brokers: %w", err)
	}
	if err := kerr.ErrorForCode(resp.ErrorCode); err != nil {
		return fmt.Errorf("ping brokers: %w", err)
	}
	k.log.Debug("Broker reachable", "apiKeys", len(resp.ApiKeys))
	return nil
}

func (k *Kafka) ensureTopic(ctx context.Context) error {
	resps, err := k.admin.CreateTopics(ctx, k.partitions, k.replicas, nil, k.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", k.topic, err)
	}
	for _, r := range resps {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (k *Kafka) Publish(ctx context.Context, msg Message) error {
	key, value, err := EncodeRecord(msg)
	if err != nil {
		return fmt.Errorf("publish %s message: %w", msg.Kind, err)
	}
	rec := &kgo.Record{Topic: k.topic, Key: key, Value: value}
	if err := k.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish %s message: %w", msg.Kind, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}

var _ Broadcaster = (*Kafka)(nil)
