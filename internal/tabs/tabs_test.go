package tabs

import "testing"

func TestActivateSwitchesAndNotifies(t *testing.T) {
	c := NewController()
	if c.Current() != Overview {
		t.Fatalf("initial tab = %q", c.Current())
	}
	var seen []string
	c.Subscribe(func(tab string) { seen = append(seen, tab) })

	if err := c.Activate(Audit); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if c.Current() != Audit {
		t.Fatalf("current = %q", c.Current())
	}
	if len(seen) != 1 || seen[0] != Audit {
		t.Fatalf("notifications = %v", seen)
	}
}

func TestActivateUnknownTab(t *testing.T) {
	c := NewController()
	if err := c.Activate("nope"); err == nil {
		t.Fatal("expected error for unknown tab")
	}
	if c.Current() != Overview {
		t.Fatalf("current changed to %q", c.Current())
	}
}

func TestReactivatingCurrentTabStillNotifies(t *testing.T) {
	c := NewController()
	count := 0
	c.Subscribe(func(string) { count++ })
	_ = c.Activate(Overview)
	_ = c.Activate(Overview)
	if count != 2 {
		t.Fatalf("notifications = %d, want 2", count)
	}
}

func TestCustomTabSet(t *testing.T) {
	c := NewController("a", "b")
	if got := c.Names(); len(got) != 2 || got[0] != "a" {
		t.Fatalf("names = %v", got)
	}
	if err := c.Activate("b"); err != nil {
		t.Fatalf("activate: %v", err)
	}
}
