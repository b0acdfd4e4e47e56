package taxjar

import "context"

// Strategy selects how a call is executed. Every operation runs the same
// code path under either strategy.
type Strategy int

const (
	// Blocking runs the call on the caller's goroutine.
	Blocking Strategy = iota
	// Suspending runs the call on its own goroutine and hands back a Future.
	Suspending
)

// String returns the name of the strategy
func (s Strategy) String() string {
	switch s {
	case Blocking:
		return "blocking"
	case Suspending:
		return "suspending"
	default:
		return "unknown"
	}
}

// Future holds the pending result of a call started with an *Async method.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the result. If ctx ends first, Await returns ctx.Err()
// and the call keeps running under its own context.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// run executes fn under the given strategy.
func run[T any](ctx context.Context, s Strategy, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	if s == Suspending {
		go func() {
			f.resolve(fn(ctx))
		}()
		return f
	}
	f.resolve(fn(ctx))
	return f
}
