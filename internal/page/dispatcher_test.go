package page

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsOperationsOneAtATime(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.Execute(context.Background(), func() error {
				current := counter
				time.Sleep(time.Microsecond)
				counter = current + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total, err := Run(context.Background(), d, func() (int, error) {
		return counter, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, total)
}

func TestDispatcher_PropagatesErrors(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	boom := errors.New("boom")
	err := d.Execute(context.Background(), func() error { return boom })

	assert.ErrorIs(t, err, boom)
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	err := d.Execute(context.Background(), func() error {
		panic("bad page")
	})
	assert.ErrorContains(t, err, "bad page")

	value, err := Run(context.Background(), d, func() (string, error) {
		return "still running", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "still running", value)
}

func TestDispatcher_StoppedRejectsWork(t *testing.T) {
	d := NewDispatcher()
	d.Stop()
	d.Stop()

	err := d.Execute(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDispatcher_CancelledContext(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	block := make(chan struct{})
	go d.Execute(context.Background(), func() error {
		<-block
		return nil
	})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	time.Sleep(5 * time.Millisecond)
	_, err := Run(ctx, d, func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
