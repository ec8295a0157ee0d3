package mq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	TransactionID string `json:"transaction_id"`
	UserID        uint   `json:"user_id"`
}

func TestEncode(t *testing.T) {
	msg, err := encode(testEvent{TransactionID: "abc", UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.JSONEq(t, `{"transaction_id":"abc","user_id":7}`, string(msg.Body))
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := encode(make(chan int))
	assert.Error(t, err)
}

// TestPublisher_RoundTrip 需要真实RabbitMQ,设置LITSHOP_TEST_AMQP_URL后运行
func TestPublisher_RoundTrip(t *testing.T) {
	url := os.Getenv("LITSHOP_TEST_AMQP_URL")
	if url == "" {
		t.Skip("LITSHOP_TEST_AMQP_URL未设置,跳过RabbitMQ测试")
	}
	const exchange = "litshop.test.events"

	publisher, err := NewPublisher(url, exchange, "topic")
	require.NoError(t, err)
	defer publisher.Close()

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "transaction.*", exchange, false, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, publisher.Publish(ctx, "transaction.created", testEvent{TransactionID: "abc", UserID: 7}))

	var got testEvent
	require.Eventually(t, func() bool {
		msg, ok, err := ch.Get(q.Name, true)
		if err != nil || !ok {
			return false
		}
		return json.Unmarshal(msg.Body, &got) == nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "abc", got.TransactionID)
}
