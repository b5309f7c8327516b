package cancel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateTokenReplacesPrevious(t *testing.T) {
	r := NewRegistry()

	first := r.CreateToken("session-a")
	second := r.CreateToken("session-a")

	live, found := r.GetToken("session-a")
	assert.True(t, found)
	assert.Same(t, second, live)
	assert.False(t, live.Cancelled())
	assert.Equal(t, 1, r.Len())

	// The superseded token was dropped, not signalled.
	assert.False(t, first.Cancelled())
}

func TestSignal(t *testing.T) {
	r := NewRegistry()

	t.Run("unknown session returns false", func(t *testing.T) {
		assert.False(t, r.Signal("nobody"))
	})

	t.Run("live token is cancelled once", func(t *testing.T) {
		tok := r.CreateToken("session-b")
		assert.True(t, r.Signal("session-b"))
		assert.True(t, tok.Cancelled())

		// Idempotent: the second signal observes the cancelled state.
		assert.False(t, r.Signal("session-b"))
	})

	t.Run("released token is unreachable", func(t *testing.T) {
		tok := r.CreateToken("session-c")
		r.Release("session-c")
		assert.False(t, r.Signal("session-c"))
		assert.False(t, tok.Cancelled())
	})
}

func TestReleaseKeepsCapturedReferenceValid(t *testing.T) {
	r := NewRegistry()

	tok := r.CreateToken("session-d")
	assert.True(t, r.Signal("session-d"))
	r.Release("session-d")

	// A pipeline run holding its own reference still observes the state.
	assert.True(t, tok.Cancelled())
	select {
	case <-tok.Done():
	default:
		t.Fatal("done channel should be closed")
	}

	r.Release("session-d") // already absent, must not panic
}

func TestConcurrentReplaceSignalRelease(t *testing.T) {
	r := NewRegistry()
	const workers = 32

	var wg sync.WaitGroup
	wg.Add(workers * 3)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			r.CreateToken("shared")
		}()
		go func() {
			defer wg.Done()
			r.Signal("shared")
		}()
		go func() {
			defer wg.Done()
			r.Release("shared")
		}()
	}
	wg.Wait()

	// At most one entry can survive the churn.
	assert.LessOrEqual(t, r.Len(), 1)
}
