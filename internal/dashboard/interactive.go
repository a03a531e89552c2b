package dashboard

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/example/briefctl/internal/tabs"
)

// RunInteractive drives the dashboard with single-key input until the user
// quits or the context ends. It runs poll (the submission's polling loop)
// alongside the key loop; either finishing cancels the other.
//
// Keys: 1-4 switch tabs, j/k move the selection, x expands or collapses,
// / starts a filter (Enter applies, Esc clears), q or Ctrl-C quits.
func (d *Dashboard) RunInteractive(ctx context.Context, in *os.File, poll func(context.Context) error) error {
	if in == nil {
		in = os.Stdin
	}
	if term.IsTerminal(int(in.Fd())) {
		oldState, err := term.MakeRaw(int(in.Fd()))
		if err == nil {
			defer term.Restore(int(in.Fd()), oldState)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Poll completing successfully must NOT cancel the context: the whole
	// point of interactive mode is browsing the report after it loads. A
	// poll failure cancels via the errgroup's own error propagation.
	if poll != nil {
		g.Go(func() error {
			return poll(ctx)
		})
	}
	g.Go(func() error {
		defer cancel()
		return d.keyLoop(ctx, in)
	})

	err := g.Wait()
	d.Done()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

var errQuit = errors.New("quit")

func (d *Dashboard) keyLoop(ctx context.Context, in *os.File) error {
	names := d.tabs.Names()
	var filter strings.Builder
	filtering := false

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			return err
		}
		key := buf[0]

		if filtering {
			switch key {
			case '\r', '\n':
				filtering = false
				d.SetFilter(filter.String())
			case 27: // Esc
				filtering = false
				filter.Reset()
				d.SetFilter("")
			case 127, 8: // Backspace
				s := filter.String()
				if len(s) > 0 {
					filter.Reset()
					filter.WriteString(s[:len(s)-1])
				}
				d.SetFilter(filter.String())
			default:
				if key >= 32 && key < 127 {
					filter.WriteByte(key)
					d.SetFilter(filter.String())
				}
			}
			continue
		}

		switch key {
		case 'q', 3: // q or Ctrl+C
			return errQuit
		case 'j':
			d.MoveCursor(1)
		case 'k':
			d.MoveCursor(-1)
		case 'x', '\r', '\n':
			d.ToggleCurrent()
		case '/':
			if d.tabs.Current() == tabs.Companies {
				filtering = true
				filter.Reset()
			}
		default:
			if key >= '1' && key <= '9' {
				idx := int(key - '1')
				if idx < len(names) {
					_ = d.Activate(names[idx])
				}
			}
		}
	}
}
