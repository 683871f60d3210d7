package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseStackReverseOrder(t *testing.T) {
	var order []string
	s := &releaseStack{}
	s.push(func() error { order = append(order, "first"); return nil })
	s.push(func() error { order = append(order, "second"); return nil })
	s.push(func() error { order = append(order, "third"); return nil })

	ran, err := s.release()
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestReleaseStackExactlyOnce(t *testing.T) {
	count := 0
	s := &releaseStack{}
	s.push(func() error { count++; return nil })

	ran, _ := s.release()
	assert.True(t, ran)
	ran, _ = s.release()
	assert.False(t, ran, "second release must be a no-op")
	assert.Equal(t, 1, count)
}

func TestReleaseStackFirstErrorWins(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	ranLast := false

	s := &releaseStack{}
	s.push(func() error { ranLast = true; return nil })
	s.push(func() error { return errA })
	s.push(func() error { return errB })

	// Reverse order runs errB first; it is the first error observed.
	_, err := s.release()
	assert.Equal(t, errB, err)
	assert.True(t, ranLast, "later failures must not stop earlier releases")
}

func TestReleaseStackPushAfterRelease(t *testing.T) {
	s := &releaseStack{}
	_, err := s.release()
	require.NoError(t, err)

	// A resource acquired after teardown still gets released, immediately.
	ran := false
	s.push(func() error { ran = true; return nil })
	assert.True(t, ran)
}
