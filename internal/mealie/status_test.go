package mealie

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusRoundTrip(t *testing.T) {
	s := NewStatus()
	assert.True(t, s.Connected(), "a fresh status starts connected")

	s.SetDisconnected()
	assert.False(t, s.Connected())
	firstChange := s.LastChange()
	assert.False(t, firstChange.IsZero())

	s.SetConnected()
	assert.True(t, s.Connected())
	assert.False(t, s.LastChange().Before(firstChange))
}

func TestStatusRedundantSetKeepsTimestamp(t *testing.T) {
	s := NewStatus()
	s.SetDisconnected()
	stamp := s.LastChange()

	s.SetDisconnected()
	assert.Equal(t, stamp, s.LastChange(), "a no-op transition must not bump the timestamp")
}

func TestStatusConcurrentAccess(t *testing.T) {
	s := NewStatus()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if (i+j)%2 == 0 {
					s.SetConnected()
				} else {
					s.SetDisconnected()
				}
				s.Connected()
			}
		}(i)
	}
	wg.Wait()
}
