package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	events := bus.Subscribe("consumer", 8)

	bus.Publish(ValidationProgress{InfoCode: "1003"})
	bus.Publish(ValidationProgress{InfoCode: "1004"})
	bus.Publish(ExtractionProgress{})

	assert.Equal(t, ValidationProgress{InfoCode: "1003"}, <-events)
	assert.Equal(t, ValidationProgress{InfoCode: "1004"}, <-events)
	assert.Equal(t, ExtractionProgress{}, <-events)
}

func TestBus_BroadcastsToAllSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	first := bus.Subscribe("first", 4)
	second := bus.Subscribe("second", 4)

	bus.Publish(ValidationProgress{InfoCode: "1000"})

	assert.Equal(t, ValidationProgress{InfoCode: "1000"}, <-first)
	assert.Equal(t, ValidationProgress{InfoCode: "1000"}, <-second)
}

func TestBus_SlowSubscriberDropsNewWithoutBlocking(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	events := bus.Subscribe("slow", 1)

	// Second publish overflows the buffer; it must return immediately and
	// drop the event for this subscriber only.
	bus.Publish(ValidationProgress{InfoCode: "first"})
	bus.Publish(ValidationProgress{InfoCode: "dropped"})

	assert.Equal(t, ValidationProgress{InfoCode: "first"}, <-events)
	assert.Equal(t, uint64(1), bus.Dropped("slow"))
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	bus.Publish(ExtractionProgress{})
}

func TestBus_CloseTerminatesSubscribers(t *testing.T) {
	bus := NewBus()
	events := bus.Subscribe("consumer", 1)
	bus.Close()

	_, open := <-events
	assert.False(t, open)

	// Publish and a second Close after teardown are safe.
	bus.Publish(ExtractionProgress{})
	bus.Close()
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()
	events := bus.Subscribe("consumer", 1)
	bus.Unsubscribe("consumer")

	_, open := <-events
	require.False(t, open)
	bus.Publish(ExtractionProgress{})
}
