package main

import (
	"os"

	"amznas/internal/acquire"
	"amznas/internal/services/display"
	"amznas/internal/services/recorder"
	"amznas/internal/session"
)

// buildOrchestrator wires the acquisition flows from configuration: the
// external recorder binary and either the configured viewer or the terminal
// summary fallback.
func (c *commandContext) buildOrchestrator() (*acquire.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	rec := recorder.NewCLI(
		recorder.WithBinary(cfg.Recorder.Binary),
		recorder.WithProgressWriter(os.Stderr),
	)

	var renderer display.Renderer
	if cfg.Display.Command != "" {
		renderer = display.NewCommand(cfg.Display.Command)
	} else {
		renderer = display.NewSummary(os.Stdout)
	}

	return acquire.New(cfg, logger, rec, renderer), nil
}

// autozeroMode maps the --autozero flag: a negative value disables baseline
// subtraction, anything else names the _zero_ token to subtract.
func autozeroMode(flag int) acquire.AutozeroMode {
	if flag < 0 {
		return acquire.Skip()
	}
	return acquire.Zero(flag)
}

// tokenRef maps the --token flag: a non-negative value addresses that token
// directly, -1 the most recent recording, -2 the one before it.
func tokenRef(flag int) session.TokenRef {
	if flag < 0 {
		return session.FromEnd(-flag)
	}
	return session.Exact(flag)
}
