package keylock

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SerializesSameKey(t *testing.T) {
	table := New()
	key := uuid.New()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := table.Lock(key)
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, table.Len())
}

func TestTable_DifferentKeysDoNotBlock(t *testing.T) {
	table := New()
	unlockA := table.Lock(uuid.New())
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := table.Lock(uuid.New())
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "lock on a second key blocked behind the first")
	}
}

func TestTable_UnlockIsIdempotent(t *testing.T) {
	table := New()
	key := uuid.New()

	unlock := table.Lock(key)
	unlock()
	unlock()

	assert.Equal(t, 0, table.Len())

	relock := table.Lock(key)
	assert.Equal(t, 1, table.Len())
	relock()
}
