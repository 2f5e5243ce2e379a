package services_test

import (
	"errors"
	"strings"
	"testing"

	"amznas/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "recorder", "record", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"recorder", "record", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "display", "render", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestRecoverableClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"baseline missing", services.Wrap(services.ErrBaselineNotFound, "baseline", "lookup", "no entry", nil), true},
		{"channel mismatch", services.Wrap(services.ErrChannelMismatch, "baseline", "normalize", "", nil), true},
		{"token missing", services.Wrap(services.ErrTokenNotFound, "session", "resolve", "", nil), false},
		{"invalid entry", services.Wrap(services.ErrInvalidEntry, "session", "append", "", nil), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := services.Recoverable(tc.err); got != tc.want {
			t.Errorf("%s: Recoverable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
