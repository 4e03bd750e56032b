package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubSampler serves a fixed sample and can be told to start failing
type stubSampler struct {
	mu     sync.Mutex
	sample Sample
	err    error
	reads  int
}

func (s *stubSampler) Static() StaticData {
	return StaticData{CPUModel: "test-cpu", TotalMemoryGB: 16}
}

func (s *stubSampler) Sample() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return Sample{}, s.err
	}
	return s.sample, nil
}

func (s *stubSampler) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func TestPollerPublishesOnEachTick(t *testing.T) {
	sampler := &stubSampler{sample: Sample{CPUUsage: 0.5, RAMUsage: 0.25}}

	published := make(chan Sample, 10)
	poller := NewPoller(sampler, 5*time.Millisecond, func(s Sample) {
		published <- s
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	for i := 0; i < 3; i++ {
		select {
		case sample := <-published:
			if sample.CPUUsage != 0.5 {
				t.Errorf("CPUUsage = %f, want 0.5", sample.CPUUsage)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a published sample")
		}
	}
}

func TestPollerSkipsFailedSamples(t *testing.T) {
	sampler := &stubSampler{sample: Sample{CPUUsage: 0.1}}
	sampler.setErr(errors.New("sensor unavailable"))

	published := make(chan Sample, 10)
	poller := NewPoller(sampler, 5*time.Millisecond, func(s Sample) {
		published <- s
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	// Let a few failing ticks pass, then recover
	time.Sleep(30 * time.Millisecond)
	if len(published) != 0 {
		t.Fatal("failed samples must not be published")
	}

	sampler.setErr(nil)
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never recovered after sampler errors cleared")
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	sampler := &stubSampler{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	poller := NewPoller(sampler, time.Millisecond, func(Sample) {})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
