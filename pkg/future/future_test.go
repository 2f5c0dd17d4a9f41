package future

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	t.Run("ok carries the value", func(t *testing.T) {
		v, err := Ok(42).Get()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("err carries the error", func(t *testing.T) {
		sentinel := errors.New("boom")
		v, err := Err[string](sentinel).Get()
		assert.ErrorIs(t, err, sentinel)
		assert.Zero(t, v)
	})
}

func TestGetBlocksUntilComplete(t *testing.T) {
	promise, fut := New[int]()

	assert.False(t, fut.Ready())

	go func() {
		time.Sleep(10 * time.Millisecond)
		promise.Complete(7, nil)
	}()

	v, err := fut.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, fut.Ready())
}

func TestGetIsRepeatableFromManyGoroutines(t *testing.T) {
	promise, fut := New[string]()
	promise.Complete("done", nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := fut.Get()
			assert.NoError(t, err)
			assert.Equal(t, "done", v)
		}()
	}
	wg.Wait()
}

func TestCompleteTwicePanics(t *testing.T) {
	promise, _ := New[int]()
	promise.Complete(1, nil)
	assert.Panics(t, func() {
		promise.Complete(2, nil)
	})
}

func TestDoneChannelSelectsOnCompletion(t *testing.T) {
	promise, fut := New[int]()

	select {
	case <-fut.Done():
		t.Fatal("done channel fired before completion")
	default:
	}

	promise.Complete(1, nil)

	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel never fired")
	}
}
