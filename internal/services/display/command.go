package display

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"amznas/internal/baseline"
	"amznas/internal/services"
	"amznas/internal/wavio"
)

var commandContext = exec.CommandContext

// Command launches an external waveform viewer. The normalized clip is
// written to a temporary WAV so the viewer sees the adjusted data, not the
// original acquisition file.
type Command struct {
	binary string
}

// NewCommand returns a renderer invoking the given viewer executable.
func NewCommand(binary string) *Command {
	return &Command{binary: binary}
}

func (c *Command) Render(ctx context.Context, title string, clip *wavio.Clip, roles []baseline.Role, params Params) error {
	tmpDir, err := os.MkdirTemp("", "amznas-disp")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "display", "render", "create temp directory", err)
	}
	defer os.RemoveAll(tmpDir)

	tmpWav := filepath.Join(tmpDir, filepath.Base(title))
	if filepath.Ext(tmpWav) != ".wav" {
		tmpWav += ".wav"
	}
	if err := wavio.WriteFile(tmpWav, clip); err != nil {
		return services.Wrap(services.ErrExternalTool, "display", "render", "stage adjusted recording", err)
	}

	args := []string{
		"-cutoff", strconv.Itoa(params.Cutoff),
		"-order", strconv.Itoa(params.Order),
	}
	for i, role := range roles {
		args = append(args, "-chan", strconv.Itoa(i)+":"+string(role))
	}
	args = append(args, tmpWav)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return services.Wrap(services.ErrExternalTool, "display", "render", "viewer failed", err)
	}
	return nil
}

var _ Renderer = (*Command)(nil)
