// Package display hands normalized recordings to the operator. Waveform
// plotting itself belongs to an external viewer; the built-in fallback prints
// a per-channel summary table so a field session can proceed without one.
package display

import (
	"context"

	"amznas/internal/baseline"
	"amznas/internal/wavio"
)

// Params carries the lowpass-filter settings forwarded to the viewer.
type Params struct {
	Cutoff int
	Order  int
}

// Renderer shows a decoded acquisition to the operator.
type Renderer interface {
	Render(ctx context.Context, title string, clip *wavio.Clip, roles []baseline.Role, params Params) error
}

// Nop discards the display request; used with --no-disp.
type Nop struct{}

func (Nop) Render(context.Context, string, *wavio.Clip, []baseline.Role, Params) error {
	return nil
}

var _ Renderer = Nop{}
