// Package sink delivers completed question/answer records to external
// logging destinations. Delivery runs after the chat response has been
// sent; every failure is logged and swallowed, never surfaced to the
// end user.
package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/domain"
	"go.uber.org/zap"
)

// Sink is one logging destination. Deliver is called with an
// already-bounded context; implementations own their own retry policy.
type Sink interface {
	Name() string
	Enabled() bool
	Deliver(ctx context.Context, rec *domain.LogRecord) error
}

// Fanout dispatches a LogRecord to every enabled sink independently.
// One sink failing or panicking must not stop the others.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger

	wg sync.WaitGroup
}

// NewFanout creates a fan-out dispatcher over the given sinks.
func NewFanout(sinks []Sink, timeout time.Duration, logger *zap.Logger) *Fanout {
	return &Fanout{
		sinks:   sinks,
		timeout: timeout,
		logger:  logger,
	}
}

// Record starts delivery to every enabled sink and returns immediately.
// The caller has already responded to the end user by the time this
// runs, so nothing here can affect the HTTP response.
func (f *Fanout) Record(rec *domain.LogRecord) {
	for _, s := range f.sinks {
		if !s.Enabled() {
			continue
		}
		f.wg.Add(1)
		go func(s Sink) {
			defer f.wg.Done()
			f.deliver(s, rec)
		}(s)
	}
}

// Wait blocks until in-flight deliveries finish. Used by tests and by
// graceful shutdown; normal request handling never calls it.
func (f *Fanout) Wait() {
	f.wg.Wait()
}

func (f *Fanout) deliver(s Sink, rec *domain.LogRecord) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("sink panicked",
				zap.String("sink", s.Name()),
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	if err := s.Deliver(ctx, rec); err != nil {
		f.logger.Error("sink delivery failed",
			zap.String("sink", s.Name()),
			zap.Error(err),
		)
		return
	}
	f.logger.Info("sink delivery ok", zap.String("sink", s.Name()))
}

// statusError reports a non-success HTTP status from a sink endpoint.
func statusError(name string, status int, body string) error {
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Errorf("%s returned status %d: %s", name, status, body)
}
