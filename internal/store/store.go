// Package store holds the single currently-loaded report. It is constructed
// once and handed to whatever needs it; there is no package-level instance.
package store

import (
	"sync"

	"github.com/example/briefctl/internal/brief"
)

// Event announces that a new report replaced the previous one.
type Event struct {
	RequestID string
	Report    *brief.Report
}

// Listener consumes report replacement events. Listeners run synchronously
// on the goroutine calling Set, in registration order, so view renderers get
// a deterministic Overview, Companies, Audit sequence.
type Listener func(Event)

// Store keeps the current report and the request id that produced it.
// Replacement is atomic: report and id change together under one lock.
type Store struct {
	mu        sync.Mutex
	report    *brief.Report
	requestID string
	listeners []Listener
}

func New() *Store {
	return &Store{}
}

// Subscribe registers a listener for future Set calls.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Set replaces the current report wholesale and notifies listeners. The
// stored report is shared read-only; listeners must not mutate it.
func (s *Store) Set(report *brief.Report, requestID string) {
	s.mu.Lock()
	s.report = report
	s.requestID = requestID
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	ev := Event{RequestID: requestID, Report: report}
	for _, fn := range listeners {
		fn(ev)
	}
}

// Current returns the loaded report and its request id; the report is nil
// until the first successful load.
func (s *Store) Current() (*brief.Report, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report, s.requestID
}
