package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	q.Enqueue(&Event{AppName: "first"})
	q.Enqueue(&Event{AppName: "second"})
	q.Enqueue(&Event{AppName: "third"})

	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"first", "second", "third"} {
		e, ok := q.Dequeue(10 * time.Millisecond)
		assert.True(t, ok)
		assert.Equal(t, want, e.AppName)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueDequeueTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	e, ok := q.Dequeue(20 * time.Millisecond)

	assert.False(t, ok)
	assert.Nil(t, e)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueueEnqueueNeverBlocks(t *testing.T) {
	q := NewQueue()

	// No consumer attached; a bounded queue would stall here.
	for i := 0; i < 10000; i++ {
		q.Enqueue(&Event{})
	}
	assert.Equal(t, 10000, q.Len())
}

func TestQueueWakesBlockedConsumer(t *testing.T) {
	q := NewQueue()

	done := make(chan *Event, 1)
	go func() {
		e, _ := q.Dequeue(time.Second)
		done <- e
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(&Event{AppName: "late"})

	select {
	case e := <-done:
		assert.NotNil(t, e)
		assert.Equal(t, "late", e.AppName)
	case <-time.After(time.Second):
		t.Fatal("consumer was not woken by enqueue")
	}
}
