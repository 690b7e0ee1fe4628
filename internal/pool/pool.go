// Package pool runs chunk producers in parallel on a bounded worker pool
// while delivering their outputs to a single sink in strict ordinal order.
package pool

import (
	"context"

	"github.com/pingcap/errors"
	"golang.org/x/sync/errgroup"
)

// Output is a producer's ordinal-tagged result.
type Output struct {
	Ordinal int
	Value   any
}

// Producer yields one ordinal-tagged output. Producers do no I/O; they
// are pure compute (row generation plus format encoding).
type Producer func(ctx context.Context) (Output, error)

// Sink accepts outputs strictly in ascending ordinal order and is
// finalized exactly once after the last Accept. The pool serializes all
// calls from a single goroutine, so Sink implementations need no locking
// of their own.
type Sink interface {
	Accept(ctx context.Context, out Output) error
	Finalize(ctx context.Context) error
}

// admissionFactor bounds the number of chunks that may be in flight
// (computing, or completed but stuck behind an earlier ordinal in the
// reorder buffer) at admissionFactor * numThreads. A producer must
// acquire an admission slot before it starts computing and releases it
// only once its chunk has actually been emitted to the sink, so a
// reorder buffer stuck waiting on a slow/missing ordinal stalls new
// producers instead of growing without bound.
const admissionFactor = 2

// Run executes producers with at most numThreads running concurrently
// and delivers their outputs to sink in ascending ordinal order. On the
// first error from any producer or from the sink, Run stops scheduling
// new producers, drains in-flight work, and returns that first error.
func Run(ctx context.Context, producers []Producer, sink Sink, numThreads int) error {
	if numThreads < 1 {
		numThreads = 1
	}
	if len(producers) == 0 {
		return sink.Finalize(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	admission := make(chan struct{}, numThreads*admissionFactor)
	results := make(chan Output, numThreads*admissionFactor)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numThreads)

	var (
		nextToEmit int
		buffered   = make(map[int]Output)
		sinkErr    error
	)

	// The emitter starts before any producer is dispatched, since only
	// emission frees admission slots. It watches ctx, not gctx: gctx is
	// also cancelled when g.Wait returns, before the last results may
	// have been drained.
	emitDone := make(chan struct{})
	go func() {
		defer close(emitDone)
		for nextToEmit < len(producers) {
			var out Output
			select {
			case out = <-results:
			case <-ctx.Done():
				return
			}

			buffered[out.Ordinal] = out

			for {
				next, ok := buffered[nextToEmit]
				if !ok {
					break
				}
				delete(buffered, nextToEmit)

				if err := sink.Accept(ctx, next); err != nil {
					sinkErr = errors.Trace(err)
					cancel()
					return
				}
				nextToEmit++
				<-admission
			}
		}
	}()

	// Admission slots are taken here, in ordinal order, so a later chunk
	// never holds the slot an earlier chunk is still waiting for.
dispatch:
	for ordinal, producer := range producers {
		ordinal, producer := ordinal, producer
		select {
		case admission <- struct{}{}:
		case <-gctx.Done():
			break dispatch
		}
		g.Go(func() error {
			out, err := producer(gctx)
			if err != nil {
				return errors.Annotatef(err, "chunk %d", ordinal)
			}
			out.Ordinal = ordinal
			select {
			case results <- out:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	producerErr := g.Wait()
	if producerErr != nil {
		cancel()
	}
	<-emitDone

	if sinkErr != nil {
		return sinkErr
	}
	if producerErr != nil {
		return producerErr
	}
	if nextToEmit < len(producers) {
		return errors.New("pool: cancelled before all chunks were emitted")
	}

	return sink.Finalize(ctx)
}
