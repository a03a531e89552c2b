package store

import (
	"testing"

	"github.com/example/briefctl/internal/brief"
)

func TestSetNotifiesInRegistrationOrder(t *testing.T) {
	s := New()
	var order []string
	s.Subscribe(func(Event) { order = append(order, "overview") })
	s.Subscribe(func(Event) { order = append(order, "companies") })
	s.Subscribe(func(Event) { order = append(order, "audit") })

	s.Set(&brief.Report{ReportTitle: "t"}, "r1")

	if len(order) != 3 || order[0] != "overview" || order[1] != "companies" || order[2] != "audit" {
		t.Fatalf("order = %v", order)
	}
}

func TestSetReplacesWholesale(t *testing.T) {
	s := New()
	first := &brief.Report{ReportTitle: "first"}
	second := &brief.Report{ReportTitle: "second"}

	s.Set(first, "r1")
	s.Set(second, "r2")

	report, requestID := s.Current()
	if report != second || requestID != "r2" {
		t.Fatalf("current = %v %q", report, requestID)
	}
}

func TestCurrentBeforeAnyLoad(t *testing.T) {
	report, requestID := New().Current()
	if report != nil || requestID != "" {
		t.Fatalf("expected empty store, got %v %q", report, requestID)
	}
}

func TestListenerSeesEventPayload(t *testing.T) {
	s := New()
	var got Event
	s.Subscribe(func(ev Event) { got = ev })
	r := &brief.Report{ReportTitle: "t"}
	s.Set(r, "req-9")
	if got.RequestID != "req-9" || got.Report != r {
		t.Fatalf("event = %+v", got)
	}
}
