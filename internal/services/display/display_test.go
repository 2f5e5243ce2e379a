package display

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"amznas/internal/baseline"
	"amznas/internal/wavio"
)

func testClip() *wavio.Clip {
	return &wavio.Clip{
		Rate:     120000,
		Channels: 2,
		BitDepth: 16,
		Samples:  [][]float64{{10, -4}, {20, 4}, {30, 0}},
	}
}

func TestSummaryRenderContainsStats(t *testing.T) {
	var buf bytes.Buffer
	s := NewSummary(&buf)

	roles := []baseline.Role{baseline.RoleAudio, baseline.RoleOral}
	err := s.Render(context.Background(), "shp_spk_res_20240101T090000_stim1_0.wav", testClip(), roles, Params{Cutoff: 50, Order: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, fragment := range []string{"stim1", "120000 Hz", "3 frames", "audio", "orfl", "20.00", "lowpass 50 Hz order 3"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("summary missing %q:\n%s", fragment, out)
		}
	}
}

func TestSummaryRenderNilClip(t *testing.T) {
	s := NewSummary(&bytes.Buffer{})
	if err := s.Render(context.Background(), "x", nil, nil, Params{}); err == nil {
		t.Fatal("expected error for nil clip")
	}
}

func TestCommandRenderInvokesViewer(t *testing.T) {
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestDisplayHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	c := NewCommand("eggdisp")
	roles := []baseline.Role{baseline.RoleAudio, baseline.RoleOral}
	err := c.Render(context.Background(), "stim1_0.wav", testClip(), roles, Params{Cutoff: 40, Order: 2})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	joined := strings.Join(captured, " ")
	for _, fragment := range []string{"-cutoff 40", "-order 2", "-chan 0:audio", "-chan 1:orfl", "stim1_0.wav"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("viewer args missing %q: %v", fragment, captured)
		}
	}
}

func TestDisplayHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}
