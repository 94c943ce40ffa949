package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/blueprint/oerror"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}
		run(f)
	}
}

// run executes f, reporting a panic to sentry instead of taking the worker down with it.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f on the pool. To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Result is the outcome of a function run with Do.
type Result[T any] struct {
	Value T
	Err   error
}

// Do runs f on the pool and returns a channel that receives its result. A panic in f is reported to sentry
// and received as an error.
func Do[T any](f func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				sentry.CurrentHub().Recover(r)
				ch <- Result[T]{Err: oerror.New("worker task panicked: %v", r)}
			}
		}()
		v, err := f()
		ch <- Result[T]{Value: v, Err: err}
	})
	return ch
}

// Wait receives every result from the channels passed, in order.
func Wait[T any](chans []<-chan Result[T]) []Result[T] {
	out := make([]Result[T], len(chans))
	for i, ch := range chans {
		out[i] = <-ch
	}
	return out
}

