// Package poller drives one brief generation request from submission to a
// terminal status.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/brief"
)

// ErrJobFailed is returned when the server reports a terminal failed status.
var ErrJobFailed = errors.New("brief generation failed, check logs for details")

// ErrNoReport is returned when the server reports completion without
// attaching a report.
var ErrNoReport = errors.New("generation completed but no report was returned")

// ErrTimedOut is returned when the configured maximum wait elapses before a
// terminal status.
var ErrTimedOut = errors.New("timed out waiting for brief generation")

// StatusClient is the slice of the API client the poller needs.
type StatusClient interface {
	Status(ctx context.Context, requestID string) (*api.StatusSnapshot, error)
}

// Options tunes the poll loop. The zero value polls every 5 seconds forever
// with no backoff, matching the original dashboard behavior; MaxWait and
// Backoff exist because unbounded polling is a policy gap, not a feature.
type Options struct {
	Interval time.Duration
	MaxWait  time.Duration
	Backoff  bool
}

const (
	defaultInterval = 5 * time.Second
	maxBackoffSteps = 3
)

// Poller polls one generation run until it terminates. A Poller is built per
// submission; cancelling its context abandons the loop, which is how a
// resubmission retires the previous run.
type Poller struct {
	client      StatusClient
	opts        Options
	logger      *zap.Logger
	onSnapshot  func(*api.StatusSnapshot)
	onPollError func(error)
}

// New builds a poller. Both callbacks are optional: onSnapshot fires after
// every successful status fetch, onPollError after every failed one.
func New(client StatusClient, opts Options, logger *zap.Logger) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{client: client, opts: opts, logger: logger}
}

// OnSnapshot registers the per-tick snapshot callback.
func (p *Poller) OnSnapshot(fn func(*api.StatusSnapshot)) *Poller {
	p.onSnapshot = fn
	return p
}

// OnPollError registers the per-tick failure callback. Poll failures do not
// stop the loop; the next tick retries.
func (p *Poller) OnPollError(fn func(error)) *Poller {
	p.onPollError = fn
	return p
}

// Run polls until a terminal status, the context is cancelled, or MaxWait
// elapses. On completed-with-report it returns the report; queued and
// in_progress keep the loop going. Ticks are strictly sequential: the next
// one is scheduled only after the previous response is processed.
func (p *Poller) Run(ctx context.Context, requestID string) (*brief.Report, error) {
	if p.opts.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.MaxWait)
		defer cancel()
	}

	interval := p.opts.Interval
	failures := 0
	for {
		snap, err := p.client.Status(ctx, requestID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, p.ctxErr(ctx)
			}
			p.logger.Warn("status check failed", zap.String("request_id", requestID), zap.Error(err))
			if p.onPollError != nil {
				p.onPollError(err)
			}
			if p.opts.Backoff && failures < maxBackoffSteps {
				failures++
				interval = p.opts.Interval << failures
			}
		default:
			failures = 0
			interval = p.opts.Interval
			if p.onSnapshot != nil {
				p.onSnapshot(snap)
			}
			if api.IsTerminal(snap.Status) {
				return p.finish(requestID, snap)
			}
		}

		select {
		case <-ctx.Done():
			return nil, p.ctxErr(ctx)
		case <-time.After(interval):
		}
	}
}

func (p *Poller) finish(requestID string, snap *api.StatusSnapshot) (*brief.Report, error) {
	if snap.Status == api.StatusFailed {
		p.logger.Info("generation failed", zap.String("request_id", requestID))
		return nil, ErrJobFailed
	}
	if snap.Report == nil {
		return nil, ErrNoReport
	}
	p.logger.Info("generation completed",
		zap.String("request_id", requestID),
		zap.Int("entities", len(snap.Report.EntityReports)))
	return snap.Report, nil
}

func (p *Poller) ctxErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && p.opts.MaxWait > 0 {
		return fmt.Errorf("%w after %s", ErrTimedOut, p.opts.MaxWait)
	}
	return ctx.Err()
}
