//go:build integration

package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	const topic = "booking.events"
	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
	require.NoError(t, conn.Close())

	publisher := NewKafkaPublisher(brokers, topic, zap.NewNop())
	t.Cleanup(func() { _ = publisher.Close() })

	e, err := New(BookingConfirmed, "booking-1", map[string]string{"state": "CONFIRMED"}, time.Now())
	require.NoError(t, err)
	e.Version = 2

	require.Eventually(t, func() bool {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return publisher.Publish(pubCtx, e) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, MinBytes: 1, MaxBytes: 1 << 20})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	assert.Equal(t, "booking-1", string(msg.Key))
	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, BookingConfirmed, got.Type)
	assert.Equal(t, int64(2), got.Version)
	assert.JSONEq(t, `{"state":"CONFIRMED"}`, string(got.Payload))
}
