// Package recorder wraps the external hardware-recording process. The
// recorder owns capture start/stop, duration limits, and interruption
// handling; this package only launches it with a sidecar and output path.
package recorder

import (
	"context"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"amznas/internal/services"
)

var commandContext = exec.CommandContext

// Request describes one acquisition run.
type Request struct {
	SidecarPath string
	OutputPath  string
	// Seconds limits the acquisition duration; 0 records until interrupted.
	Seconds int
}

// Client defines recorder behaviour.
type Client interface {
	Record(ctx context.Context, req Request) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default recorder executable.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProgressWriter directs the timed-acquisition progress bar to w.
func WithProgressWriter(w io.Writer) Option {
	return func(c *CLI) {
		if w != nil {
			c.progress = w
		}
	}
}

// CLI wraps the recorder command-line executable.
type CLI struct {
	binary   string
	progress io.Writer
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "Recorder.exe", progress: io.Discard}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Record launches the recorder and waits for it to finish. Cancelling ctx
// stops the acquisition and is not an error: the operator ending an untimed
// recording is the normal workflow, and whatever the recorder wrote stays on
// disk.
func (c *CLI) Record(ctx context.Context, req Request) error {
	if req.SidecarPath == "" {
		return services.Wrap(services.ErrConfiguration, "recorder", "record", "sidecar path required", nil)
	}
	if req.OutputPath == "" {
		return services.Wrap(services.ErrConfiguration, "recorder", "record", "output path required", nil)
	}

	args := []string{"-ini", req.SidecarPath, "-of", req.OutputPath}
	if req.Seconds > 0 {
		args = append(args, "-tm", strconv.Itoa(req.Seconds))
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return services.Wrap(services.ErrExternalTool, "recorder", "record", "start recorder", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	if req.Seconds > 0 && c.progress != io.Discard {
		err = c.waitWithProgress(req.Seconds, done)
	} else {
		err = <-done
	}

	if ctx.Err() != nil {
		// Operator stopped the acquisition; the partial file is kept.
		return nil
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "recorder", "record", "recorder failed", err)
	}
	return nil
}

func (c *CLI) waitWithProgress(seconds int, done <-chan error) error {
	bar := progressbar.NewOptions(seconds,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription("acquiring"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
	)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

var _ Client = (*CLI)(nil)
