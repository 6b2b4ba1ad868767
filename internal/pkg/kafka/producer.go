package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// UploadRegistered announces a freshly registered upload to the pricing
// worker.
type UploadRegistered struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer interface {
	SendMessage(ctx context.Context, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logrus.Infof("Kafka producer configured for topic %q at %v", topic, brokers)
	return &kafkaProducer{writer: writer}
}

func (p *kafkaProducer) SendMessage(ctx context.Context, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte("cake-genie"),
		Value: messageBytes,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.Errorf("Failed to write message to Kafka: %v", err)
		return err
	}

	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
