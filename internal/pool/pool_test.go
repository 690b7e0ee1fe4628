package pool

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingSink struct {
	mu       sync.Mutex
	accepted []int
	final    bool
}

func (s *recordingSink) Accept(_ context.Context, out Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.accepted) != out.Ordinal {
		return fmt.Errorf("out-of-order accept: expected ordinal %d, got %d", len(s.accepted), out.Ordinal)
	}
	s.accepted = append(s.accepted, out.Value.(int))
	return nil
}

func (s *recordingSink) Finalize(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.final = true
	return nil
}

func jitteryProducer(i int) Producer {
	return func(ctx context.Context) (Output, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return Output{Value: i * i}, nil
	}
}

func TestOrderingUnderParallelism(t *testing.T) {
	const n = 200
	producers := make([]Producer, n)
	for i := range producers {
		producers[i] = jitteryProducer(i)
	}

	for _, threads := range []int{1, 4, 16} {
		sink := &recordingSink{}
		if err := Run(context.Background(), producers, sink, threads); err != nil {
			t.Fatalf("threads=%d: Run failed: %v", threads, err)
		}
		if !sink.final {
			t.Fatalf("threads=%d: Finalize was not called", threads)
		}
		if len(sink.accepted) != n {
			t.Fatalf("threads=%d: accepted %d outputs, want %d", threads, len(sink.accepted), n)
		}
		for i, v := range sink.accepted {
			if v != i*i {
				t.Fatalf("threads=%d: accepted[%d] = %d, want %d", threads, i, v, i*i)
			}
		}
	}
}

func TestCancellationOnFirstProducerError(t *testing.T) {
	const n = 50
	var ran int32
	producers := make([]Producer, n)
	for i := range producers {
		i := i
		producers[i] = func(ctx context.Context) (Output, error) {
			if i == 10 {
				return Output{}, fmt.Errorf("boom at %d", i)
			}
			time.Sleep(time.Millisecond)
			return Output{Value: i}, nil
		}
	}
	_ = ran

	sink := &recordingSink{}
	err := Run(context.Background(), producers, sink, 4)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if sink.final {
		t.Fatal("Finalize must not be called when a producer fails")
	}
}

func TestCancellationOnSinkError(t *testing.T) {
	const n = 20
	producers := make([]Producer, n)
	for i := range producers {
		i := i
		producers[i] = func(ctx context.Context) (Output, error) {
			return Output{Value: i}, nil
		}
	}

	sink := &failingSink{failAt: 5}
	err := Run(context.Background(), producers, sink, 4)
	if err == nil {
		t.Fatal("expected an error from the sink")
	}
}

type failingSink struct {
	mu     sync.Mutex
	count  int
	failAt int
}

func (s *failingSink) Accept(context.Context, Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	if s.count == s.failAt {
		return fmt.Errorf("sink failure at chunk %d", s.count)
	}
	return nil
}

func (s *failingSink) Finalize(context.Context) error { return nil }

func TestSingleThreadIsSequential(t *testing.T) {
	const n = 30
	producers := make([]Producer, n)
	for i := range producers {
		i := i
		producers[i] = func(ctx context.Context) (Output, error) {
			return Output{Value: i}, nil
		}
	}
	sink := &recordingSink{}
	if err := Run(context.Background(), producers, sink, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, v := range sink.accepted {
		if v != i {
			t.Fatalf("accepted[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestReorderBufferStaysBounded(t *testing.T) {
	const n = 100
	const numThreads = 2
	const admissionCap = admissionFactor * numThreads

	var completed int32
	var maxCompletedBeforeOrdinalZero int32
	ordinalZeroDone := make(chan struct{})

	producers := make([]Producer, n)
	for i := range producers {
		i := i
		producers[i] = func(ctx context.Context) (Output, error) {
			if i == 0 {
				// Let every other producer that can possibly start
				// (bounded by the admission cap) race ahead first.
				time.Sleep(30 * time.Millisecond)
				close(ordinalZeroDone)
				return Output{Value: i}, nil
			}

			select {
			case <-ordinalZeroDone:
			default:
				c := atomic.AddInt32(&completed, 1)
				if c > maxCompletedBeforeOrdinalZero {
					atomic.StoreInt32(&maxCompletedBeforeOrdinalZero, c)
				}
				return Output{Value: i}, nil
			}
			atomic.AddInt32(&completed, 1)
			return Output{Value: i}, nil
		}
	}

	sink := &recordingSink{}
	if err := Run(context.Background(), producers, sink, numThreads); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// With ordinal 0 stalled, nothing downstream of it can ever be
	// emitted, so the reorder buffer's admission cap must stop more
	// than cap-1 other chunks from even completing while ordinal 0 is
	// still the unemitted head.
	if maxCompletedBeforeOrdinalZero > int32(admissionCap) {
		t.Fatalf("completed %d chunks before ordinal 0 finished, want <= %d (admission cap)", maxCompletedBeforeOrdinalZero, admissionCap)
	}
}

func TestEmptyProducerListFinalizes(t *testing.T) {
	sink := &recordingSink{}
	if err := Run(context.Background(), nil, sink, 4); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sink.final {
		t.Fatal("Finalize was not called for an empty producer list")
	}
}
