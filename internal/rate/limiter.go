package rate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter paces outbound Gmail calls.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Unlimited never blocks.
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rate wait canceled: %w", err)
	}
	return nil
}

// TokenBucket releases rps tokens per second with a burst of rps.
type TokenBucket struct {
	ticker   *time.Ticker
	tokens   chan struct{}
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewTokenBucket returns a running limiter; callers must Stop it.
func NewTokenBucket(rps int) *TokenBucket {
	if rps <= 0 {
		rps = 1
	}
	tb := &TokenBucket{
		ticker:  time.NewTicker(time.Second / time.Duration(rps)),
		tokens:  make(chan struct{}, rps),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	// first call proceeds immediately
	tb.tokens <- struct{}{}
	go tb.run()
	return tb
}

// New picks a limiter for the configured rate. rps <= 0 disables pacing.
// The returned stop func is always safe to call.
func New(rps int) (Limiter, func()) {
	if rps <= 0 {
		return Unlimited{}, func() {}
	}
	tb := NewTokenBucket(rps)
	return tb, tb.Stop
}

func (t *TokenBucket) run() {
	defer close(t.stopped)
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case t.tokens <- struct{}{}:
			default:
			}
		}
	}
}

// Wait blocks until a token is available or the context is canceled.
func (t *TokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate wait canceled: %w", ctx.Err())
	case <-t.tokens:
		return nil
	}
}

// Stop halts the refill goroutine. Safe to call more than once.
func (t *TokenBucket) Stop() {
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
	<-t.stopped
}

var (
	_ Limiter = (*TokenBucket)(nil)
	_ Limiter = Unlimited{}
)
