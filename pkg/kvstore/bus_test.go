package kvstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusFiltersByKey(t *testing.T) {
	bus := NewBus(4)
	photos := bus.Subscribe("student_photos")
	all := bus.Subscribe()
	defer photos.Close()
	defer all.Close()

	delivered := bus.Publish(Change{Key: "students_database", At: time.Now()})
	assert.Equal(t, 1, delivered)

	delivered = bus.Publish(Change{Key: "student_photos", At: time.Now()})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "student_photos", (<-photos.C).Key)
	assert.Equal(t, "students_database", (<-all.C).Key)
	assert.Equal(t, "student_photos", (<-all.C).Key)
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus(1)
	sub := bus.Subscribe()
	defer sub.Close()

	assert.Equal(t, 1, bus.Publish(Change{Key: "a"}))
	assert.Equal(t, 0, bus.Publish(Change{Key: "b"}))
	assert.Equal(t, "a", (<-sub.C).Key)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	bus := NewBus(1)
	sub := bus.Subscribe()
	assert.Equal(t, 1, bus.Len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, bus.Len())

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, bus.Publish(Change{Key: "a"}))
}
