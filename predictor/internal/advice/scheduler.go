package advice

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is how long the assistant pretends to think.
const DefaultDelay = 1500 * time.Millisecond

// Scheduler runs one-shot delayed callbacks that can be cancelled before
// they fire.
type Scheduler struct {
	delay time.Duration
}

func NewScheduler(delay time.Duration) *Scheduler {
	if delay < 0 {
		delay = 0
	}
	return &Scheduler{delay: delay}
}

func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Pending is a scheduled callback.
type Pending struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	fired bool
}

// Cancel stops the callback if it has not started yet. It reports whether
// the callback was prevented.
func (p *Pending) Cancel() bool {
	p.cancel()
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.fired
}

// Done is closed once the callback ran or was cancelled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Fired reports whether the callback ran.
func (p *Pending) Fired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fired
}

// After calls fn once the scheduler delay elapses unless ctx is done or the
// returned Pending is cancelled first.
func (s *Scheduler) After(ctx context.Context, fn func()) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer cancel()

		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		p.fired = true
		p.mu.Unlock()

		fn()
	}()

	return p
}
