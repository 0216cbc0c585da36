package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishInvokesHandlersInRegistrationOrder(t *testing.T) {
	bus := New()

	var order []string
	bus.Subscribe("location_update", func(payload interface{}) {
		order = append(order, "first")
	})
	bus.Subscribe("location_update", func(payload interface{}) {
		order = append(order, "second")
	})
	bus.Subscribe("location_update", func(payload interface{}) {
		order = append(order, "third")
	})

	bus.Publish("location_update", nil)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBus_HandlerNeverInvokedAfterUnsubscribe(t *testing.T) {
	bus := New()

	calls := 0
	sub := bus.Subscribe("connected", func(payload interface{}) {
		calls++
	})

	bus.Publish("connected", nil)
	bus.Unsubscribe(sub)
	bus.Publish("connected", nil)
	bus.Publish("connected", nil)

	assert.Equal(t, 1, calls)
}

func TestBus_UnsubscribeRemovesOnlyTheMatchingHandler(t *testing.T) {
	bus := New()

	firstCalls := 0
	secondCalls := 0
	first := bus.Subscribe("nearby_users", func(payload interface{}) {
		firstCalls++
	})
	bus.Subscribe("nearby_users", func(payload interface{}) {
		secondCalls++
	})

	bus.Unsubscribe(first)
	bus.Publish("nearby_users", nil)

	assert.Equal(t, 0, firstCalls)
	assert.Equal(t, 1, secondCalls)
}

func TestBus_UnsubscribeUnknownHandleIsNoOp(t *testing.T) {
	bus := New()

	calls := 0
	bus.Subscribe("disconnected", func(payload interface{}) {
		calls++
	})

	// Never-issued and already-removed handles must both be ignored.
	bus.Unsubscribe(Subscription{event: "disconnected", id: 999})
	sub := bus.Subscribe("other", func(payload interface{}) {})
	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)

	bus.Publish("disconnected", nil)
	assert.Equal(t, 1, calls)
}

func TestBus_PanickingHandlerDoesNotBlockDelivery(t *testing.T) {
	bus := New()

	var delivered []string
	bus.Subscribe("booking_status_changed", func(payload interface{}) {
		delivered = append(delivered, "before")
	})
	bus.Subscribe("booking_status_changed", func(payload interface{}) {
		panic("handler blew up")
	})
	bus.Subscribe("booking_status_changed", func(payload interface{}) {
		delivered = append(delivered, "after")
	})

	assert.NotPanics(t, func() {
		bus.Publish("booking_status_changed", nil)
	})
	assert.Equal(t, []string{"before", "after"}, delivered)
}

func TestBus_PublishDeliversPayloadToSubscribedTypeOnly(t *testing.T) {
	bus := New()

	var got interface{}
	bus.Subscribe("location_update", func(payload interface{}) {
		got = payload
	})
	other := 0
	bus.Subscribe("connected", func(payload interface{}) {
		other++
	})

	bus.Publish("location_update", "payload-1")

	assert.Equal(t, "payload-1", got)
	assert.Equal(t, 0, other)
}

func TestBus_ConcurrentSubscribePublish(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	calls := 0
	bus.Subscribe("location_update", func(payload interface{}) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Publish("location_update", nil)
		}()
		go func() {
			defer wg.Done()
			sub := bus.Subscribe("location_update", func(payload interface{}) {})
			bus.Unsubscribe(sub)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 20, calls)
}
