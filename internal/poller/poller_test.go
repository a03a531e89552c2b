package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/brief"
)

// scriptedClient replays a fixed sequence of snapshots and errors.
type scriptedClient struct {
	steps []step
	calls int
}

type step struct {
	snap *api.StatusSnapshot
	err  error
}

func (c *scriptedClient) Status(ctx context.Context, requestID string) (*api.StatusSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := c.calls
	if idx >= len(c.steps) {
		idx = len(c.steps) - 1
	}
	c.calls++
	s := c.steps[idx]
	return s.snap, s.err
}

func fastOpts() Options {
	return Options{Interval: time.Millisecond}
}

func TestRunCompletesAndReturnsReport(t *testing.T) {
	report := &brief.Report{ReportTitle: "done"}
	client := &scriptedClient{steps: []step{
		{snap: &api.StatusSnapshot{Status: api.StatusInProgress, Logs: []string{"info: starting"}}},
		{snap: &api.StatusSnapshot{Status: api.StatusCompleted, Report: report}},
	}}

	var snapshots []string
	p := New(client, fastOpts(), nil).OnSnapshot(func(s *api.StatusSnapshot) {
		snapshots = append(snapshots, s.Status)
	})

	got, err := p.Run(context.Background(), "r1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != report {
		t.Fatalf("report = %v", got)
	}
	if len(snapshots) != 2 || snapshots[0] != api.StatusInProgress || snapshots[1] != api.StatusCompleted {
		t.Fatalf("snapshots = %v", snapshots)
	}
}

func TestRunFailedStatus(t *testing.T) {
	client := &scriptedClient{steps: []step{
		{snap: &api.StatusSnapshot{Status: api.StatusFailed, Logs: []string{"error: boom"}}},
	}}
	_, err := New(client, fastOpts(), nil).Run(context.Background(), "r1")
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCompletedWithoutReport(t *testing.T) {
	client := &scriptedClient{steps: []step{
		{snap: &api.StatusSnapshot{Status: api.StatusCompleted}},
	}}
	_, err := New(client, fastOpts(), nil).Run(context.Background(), "r1")
	if !errors.Is(err, ErrNoReport) {
		t.Fatalf("err = %v", err)
	}
}

func TestPollErrorDoesNotStopLoop(t *testing.T) {
	client := &scriptedClient{steps: []step{
		{err: &api.PollError{RequestID: "r1", Message: "HTTP error 500"}},
		{err: &api.PollError{RequestID: "r1", Message: "HTTP error 500"}},
		{snap: &api.StatusSnapshot{Status: api.StatusCompleted, Report: &brief.Report{}}},
	}}

	var pollErrs int
	p := New(client, fastOpts(), nil).OnPollError(func(error) { pollErrs++ })
	if _, err := p.Run(context.Background(), "r1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if pollErrs != 2 {
		t.Fatalf("poll errors = %d, want 2", pollErrs)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	client := &scriptedClient{steps: []step{
		{snap: &api.StatusSnapshot{Status: api.StatusQueued}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := New(client, Options{Interval: 10 * time.Millisecond}, nil).Run(ctx, "r1")
		done <- err
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestRunMaxWait(t *testing.T) {
	client := &scriptedClient{steps: []step{
		{snap: &api.StatusSnapshot{Status: api.StatusInProgress}},
	}}
	opts := Options{Interval: time.Millisecond, MaxWait: 20 * time.Millisecond}
	_, err := New(client, opts, nil).Run(context.Background(), "r1")
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("err = %v", err)
	}
}
