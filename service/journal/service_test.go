package journal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/tarmac/model/traffic"
	"github.com/viant/tarmac/service/event"
)

func TestService_Record(t *testing.T) {
	var buffer bytes.Buffer
	srv := New(WithConfig(Config{Level: "info"}), WithWriter(&buffer))

	srv.Record(traffic.Event{
		Tick:     3,
		Kind:     traffic.EventAssigned,
		FlightID: "IB100",
		RunwayID: "R1",
		Extra:    map[string]string{"kind": "ARRIVAL"},
	})
	srv.Record(traffic.Event{Tick: 5, Kind: traffic.EventCompleted, FlightID: "IB100"})

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if assert.Equal(t, 2, len(lines)) {
		assert.Contains(t, lines[0], "msg=ASSIGNED")
		assert.Contains(t, lines[0], "tick=3")
		assert.Contains(t, lines[0], "flight=IB100")
		assert.Contains(t, lines[0], "runway=R1")
		assert.Contains(t, lines[0], "kind=ARRIVAL")
		assert.Contains(t, lines[1], "msg=COMPLETED")
		assert.NotContains(t, lines[1], "runway=")
	}
}

type syncBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

func TestService_Attach(t *testing.T) {
	buffer := &syncBuffer{}
	srv := New(WithConfig(Config{Level: "info"}), WithWriter(buffer))

	events := event.New()
	srv.Attach(events)
	defer events.Shutdown()

	publisher := event.PublisherOf[traffic.Event](events)
	err := publisher.Publish(context.Background(), event.NewEvent(traffic.Event{Tick: 0, Kind: traffic.EventInitialLoad}))
	assert.Nil(t, err)

	deadline := time.Now().Add(time.Second)
	for buffer.String() == "" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Contains(t, buffer.String(), "msg=INITIAL_LOAD")
}

func TestService_levelFilter(t *testing.T) {
	var buffer bytes.Buffer
	srv := New(WithConfig(Config{Level: "error"}), WithWriter(&buffer))
	srv.Record(traffic.Event{Tick: 1, Kind: traffic.EventEnqueued, FlightID: "IB1"})
	assert.Equal(t, 0, buffer.Len())
}

// The configured level applies regardless of the order options were supplied
// in.
func TestService_levelFilterOptionOrder(t *testing.T) {
	var buffer bytes.Buffer
	srv := New(WithWriter(&buffer), WithConfig(Config{Level: "error"}))
	srv.Record(traffic.Event{Tick: 1, Kind: traffic.EventEnqueued, FlightID: "IB1"})
	assert.Equal(t, 0, buffer.Len())
}
