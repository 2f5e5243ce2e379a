package recorder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"amznas/internal/services"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/eggd800/Recorder.exe"))
	if cli.binary != "/opt/eggd800/Recorder.exe" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestRecordRequiresSidecar(t *testing.T) {
	cli := NewCLI()
	err := cli.Record(context.Background(), Request{OutputPath: "/tmp/out.wav"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestRecordRequiresOutput(t *testing.T) {
	cli := NewCLI()
	err := cli.Record(context.Background(), Request{SidecarPath: "/tmp/acq.ini"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func stubCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RECORDER_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestRecordBuildsArguments(t *testing.T) {
	var captured []string
	stubCommand(t, "success", &captured)

	cli := NewCLI()
	req := Request{SidecarPath: "/session/acq.ini", OutputPath: "/session/acq.wav", Seconds: 5}
	if err := cli.Record(context.Background(), req); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	want := []string{"-ini", "/session/acq.ini", "-of", "/session/acq.wav", "-tm", "5"}
	if len(captured) != len(want) {
		t.Fatalf("args = %v, want %v", captured, want)
	}
	for i := range want {
		if captured[i] != want[i] {
			t.Fatalf("args = %v, want %v", captured, want)
		}
	}
}

func TestRecordOmitsDurationWhenUnlimited(t *testing.T) {
	var captured []string
	stubCommand(t, "success", &captured)

	cli := NewCLI()
	req := Request{SidecarPath: "/session/acq.ini", OutputPath: "/session/acq.wav"}
	if err := cli.Record(context.Background(), req); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	for _, arg := range captured {
		if arg == "-tm" {
			t.Fatalf("unexpected -tm in args %v", captured)
		}
	}
}

func TestRecordWrapsFailure(t *testing.T) {
	stubCommand(t, "fail", nil)

	cli := NewCLI()
	err := cli.Record(context.Background(), Request{SidecarPath: "a.ini", OutputPath: "a.wav"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
}

func TestRecordCancelledContextIsClean(t *testing.T) {
	stubCommand(t, "hang", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := NewCLI()
	if err := cli.Record(ctx, Request{SidecarPath: "a.ini", OutputPath: "a.wav"}); err != nil {
		t.Fatalf("cancelled recording should not error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("RECORDER_HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "device not connected")
		os.Exit(1)
	case "hang":
		select {}
	default:
		os.Exit(0)
	}
}
