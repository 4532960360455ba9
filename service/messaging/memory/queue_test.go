package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string
	Count int
}

func TestQueue_publishConsumeAck(t *testing.T) {
	config := DefaultConfig()
	config.RedeliveryDelay = 5 * time.Millisecond
	queue := NewQueue[payload](config)
	ctx := context.Background()

	require.Nil(t, queue.Publish(ctx, &payload{ID: "m-1", Count: 1}))
	assert.Equal(t, 1, queue.Size())

	msg, err := queue.Consume(ctx)
	require.Nil(t, err)
	assert.Equal(t, "m-1", msg.T().ID)
	assert.Nil(t, msg.Ack())
	assert.NotNil(t, msg.Ack(), "double settle is rejected")
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_nackRedeliversThenDeadLetters(t *testing.T) {
	config := Config{MaxRedeliveries: 1, RedeliveryDelay: time.Millisecond, Buffer: 8}
	queue := NewQueue[payload](config)
	ctx := context.Background()

	require.Nil(t, queue.Publish(ctx, &payload{ID: "m-2"}))

	msg, err := queue.Consume(ctx)
	require.Nil(t, err)
	require.Nil(t, msg.Nack(errors.New("boom")))

	// redelivered copy arrives after the delay
	redelivered, err := queue.Consume(ctx)
	require.Nil(t, err)
	assert.Equal(t, "m-2", redelivered.T().ID)

	// second failure exhausts the budget
	require.Nil(t, redelivered.Nack(errors.New("boom again")))
	assert.Equal(t, 1, queue.DLQSize())
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_consumeHonoursContext(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := queue.Consume(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
