package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// Writer is the subset of kafka.Writer the forwarder uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader is the subset of kafka.Reader the listener uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaForwarder struct {
	writer Writer
}

func NewKafkaForwarder(broker, topic string) *KafkaForwarder {
	return &KafkaForwarder{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func NewKafkaForwarderWithWriter(w Writer) *KafkaForwarder {
	return &KafkaForwarder{writer: w}
}

// Forward keys messages by team so one team's events stay ordered.
func (f *KafkaForwarder) Forward(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	return f.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.TeamID), Value: b})
}

func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

type KafkaListener struct {
	reader Reader
}

// NewKafkaListener uses a consumer group per instance so every instance
// sees every event.
func NewKafkaListener(broker, topic, origin string) *KafkaListener {
	return &KafkaListener{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{broker},
			Topic:       topic,
			GroupID:     "club-portal-" + origin,
			StartOffset: kafka.LastOffset,
			MaxBytes:    10e6,
		}),
	}
}

func NewKafkaListenerWithReader(r Reader) *KafkaListener {
	return &KafkaListener{reader: r}
}

// Run feeds remote events into hub until ctx is cancelled.
func (k *KafkaListener) Run(ctx context.Context, hub *Hub) {
	l := logger.FromContext(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		m, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.Warn("failed to fetch event", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var e Event
		if err = json.Unmarshal(m.Value, &e); err != nil {
			l.Warn("dropping malformed event", zap.Int64("offset", m.Offset), zap.Error(err))
		} else {
			hub.Receive(ctx, e)
		}

		if err = k.reader.CommitMessages(ctx, m); err != nil {
			l.Warn("failed to commit event offset", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

func (k *KafkaListener) Close() error {
	return k.reader.Close()
}
