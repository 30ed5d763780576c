package page

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
)

var (
	ErrStopped = errors.New("dispatcher stopped")
)

// operation is a unit of page work queued on the dispatcher
type operation struct {
	Execute func() (interface{}, error)
	Result  chan operationResult
}

type operationResult struct {
	Data  interface{}
	Error error
}

// Dispatcher runs page operations one at a time on a single worker goroutine,
// so page state needs no locks of its own.
type Dispatcher struct {
	opQueue  chan operation
	stopping chan struct{}
	stopOnce sync.Once
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		opQueue:  make(chan operation, 100),
		stopping: make(chan struct{}),
	}

	go d.worker()
	log.Println("Page dispatcher started")

	return d
}

// worker processes operations one at a time
func (d *Dispatcher) worker() {
	for {
		select {
		case op := <-d.opQueue:
			data, err := d.run(op.Execute)
			op.Result <- operationResult{Data: data, Error: err}
		case <-d.stopping:
			return
		}
	}
}

func (d *Dispatcher) run(execute func() (interface{}, error)) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Page operation panic recovered: %v", r)
			log.Printf("Page operation stack trace: %s", debug.Stack())
			err = fmt.Errorf("page operation panicked: %v", r)
		}
	}()
	return execute()
}

// Execute queues an operation and waits for its result.
func (d *Dispatcher) Execute(ctx context.Context, execute func() error) error {
	_, err := d.ExecuteWithResult(ctx, func() (interface{}, error) {
		return nil, execute()
	})
	return err
}

// ExecuteWithResult queues an operation that returns a value and waits for it.
func (d *Dispatcher) ExecuteWithResult(ctx context.Context, execute func() (interface{}, error)) (interface{}, error) {
	resultChan := make(chan operationResult, 1)

	select {
	case d.opQueue <- operation{Execute: execute, Result: resultChan}:
	case <-d.stopping:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.Data, result.Error
	case <-d.stopping:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop stops the worker. Operations queued afterwards fail with ErrStopped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopping)
		log.Println("Page dispatcher stopped")
	})
}

// Run is the typed form of ExecuteWithResult.
func Run[T any](ctx context.Context, d *Dispatcher, execute func() (T, error)) (T, error) {
	result, err := d.ExecuteWithResult(ctx, func() (interface{}, error) {
		return execute()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}
