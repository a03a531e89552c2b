// Package config defines the flag plumbing and runtime options shared by
// briefctl's commands, translating Cobra/Viper flag values into a strongly
// typed struct the client and polling pipelines consume.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options holds the CLI configuration shared across all commands.
type Options struct {
	BaseURL      string
	Token        string
	PollInterval time.Duration
	MaxWait      time.Duration
	Backoff      bool
	ColorMode    string
	Markdown     bool
	Width        int
}

const defaultBaseURL = "http://localhost:8000"
const defaultPollInterval = 5 * time.Second

// NewOptions returns Options with defaults applied.
func NewOptions() *Options {
	return &Options{
		BaseURL:      defaultBaseURL,
		PollInterval: defaultPollInterval,
		ColorMode:    "auto",
		Markdown:     true,
	}
}

// AddFlags binds configuration flags to the provided Cobra command.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.BindFlags(cmd.PersistentFlags())
}

// BindFlags attaches the shared flags to an arbitrary FlagSet and returns
// the flag names for further customization.
func (o *Options) BindFlags(fs *pflag.FlagSet) []string {
	var names []string
	fs.StringVar(&o.BaseURL, "server", o.BaseURL, "Base URL of the brief generation backend")
	names = append(names, "server")
	fs.StringVar(&o.Token, "token", o.Token, "Access token appended to every request")
	names = append(names, "token")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "Delay between status polls while a brief is generating")
	names = append(names, "poll-interval")
	fs.DurationVar(&o.MaxWait, "max-wait", o.MaxWait, "Abort polling after this long (0 waits indefinitely)")
	names = append(names, "max-wait")
	fs.BoolVar(&o.Backoff, "backoff", o.Backoff, "Grow the poll interval after consecutive poll failures")
	names = append(names, "backoff")
	fs.StringVar(&o.ColorMode, "color", o.ColorMode, "Color output mode (auto, always, never)")
	names = append(names, "color")
	fs.BoolVar(&o.Markdown, "markdown", o.Markdown, "Render the brief summary as markdown when the terminal supports it")
	names = append(names, "markdown")
	fs.IntVar(&o.Width, "width", o.Width, "Override the detected terminal width")
	names = append(names, "width")
	return names
}

// Validate normalizes the options and applies the color mode. It runs once
// per invocation, after flag and environment resolution.
func (o *Options) Validate() error {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		return fmt.Errorf("--server must not be empty")
	}
	u, err := url.Parse(o.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid --server value %q (expected scheme://host)", o.BaseURL)
	}
	if o.PollInterval <= 0 {
		return fmt.Errorf("--poll-interval must be positive")
	}
	if o.MaxWait < 0 {
		return fmt.Errorf("--max-wait cannot be negative")
	}
	switch o.ColorMode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "auto", "":
	default:
		return fmt.Errorf("invalid --color value %q (allowed: auto, always, never)", o.ColorMode)
	}
	return nil
}
