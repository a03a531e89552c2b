// Package tabs tracks which dashboard view is active.
package tabs

import "fmt"

// The fixed dashboard views, in display order.
const (
	Overview  = "overview"
	Companies = "companies"
	Audit     = "audit"
	Debug     = "debug"
)

// Listener is notified after the active tab changes.
type Listener func(tab string)

// Controller is a single-selection switch over a fixed set of named views.
// Exactly one tab is active at a time; activating a tab notifies listeners,
// which is how a renderer that skipped its first render (its tab was not
// visible yet) gets a second chance.
type Controller struct {
	names     []string
	current   string
	listeners []Listener
}

// NewController starts with the first name active. With no names it falls
// back to the standard four dashboard tabs.
func NewController(names ...string) *Controller {
	if len(names) == 0 {
		names = []string{Overview, Companies, Audit, Debug}
	}
	return &Controller{names: names, current: names[0]}
}

// Names returns the tab names in display order.
func (c *Controller) Names() []string {
	return append([]string(nil), c.names...)
}

// Current returns the active tab name.
func (c *Controller) Current() string {
	return c.current
}

// Subscribe registers a change listener. Listeners run synchronously from
// Activate, in registration order.
func (c *Controller) Subscribe(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Activate switches the active tab and notifies listeners. Activating the
// already-active tab still notifies, matching the retry contract for
// renderers that deferred their first paint.
func (c *Controller) Activate(name string) error {
	valid := false
	for _, n := range c.names {
		if n == name {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown tab %q", name)
	}
	c.current = name
	for _, fn := range c.listeners {
		fn(name)
	}
	return nil
}
