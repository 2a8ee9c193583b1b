package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaSink publishes every notification to a topic so other systems can
// follow booking activity. Messages are keyed by booking id, which keeps
// the events of one booking on one partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	log      logrus.FieldLogger
}

// NewKafkaProducerConfig returns the producer settings used for the
// booking event stream.
func NewKafkaProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.Idempotent = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

func NewKafkaSink(brokers []string, topic string, log logrus.FieldLogger) (*KafkaSink, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(producer, topic, log), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string, log logrus.FieldLogger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, log: log}
}

func (k *KafkaSink) SinkName() string { return "kafka" }

func (k *KafkaSink) Deliver(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(n.Booking.ID), 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_kind"), Value: []byte(n.Kind)},
			{Key: []byte("booking_id"), Value: []byte(strconv.FormatUint(uint64(n.Booking.ID), 10))},
		},
		Timestamp: n.CreatedAt,
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s to Kafka: %w", n.Kind, err)
	}
	k.log.WithFields(logrus.Fields{
		"topic":     k.topic,
		"partition": partition,
		"offset":    offset,
		"kind":      n.Kind,
	}).Debug("notification published")
	return nil
}

func (k *KafkaSink) Close() error {
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}
