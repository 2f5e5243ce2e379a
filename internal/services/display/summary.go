package display

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"amznas/internal/baseline"
	"amznas/internal/wavio"
)

// Summary renders a per-channel statistics table to a writer instead of a
// waveform plot.
type Summary struct {
	Out io.Writer
}

// NewSummary returns a Summary writing to out, defaulting to stdout.
func NewSummary(out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{Out: out}
}

func (s *Summary) Render(_ context.Context, title string, clip *wavio.Clip, roles []baseline.Role, params Params) error {
	if clip == nil {
		return fmt.Errorf("display: no clip to render")
	}

	duration := time.Duration(0)
	if clip.Rate > 0 {
		duration = time.Duration(float64(clip.Frames()) / float64(clip.Rate) * float64(time.Second))
	}
	fmt.Fprintf(s.Out, "%s  (%d Hz, %d frames, %s; lowpass %d Hz order %d)\n",
		title, clip.Rate, clip.Frames(), duration.Round(time.Millisecond), params.Cutoff, params.Order)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"chan", "role", "min", "max", "mean"})

	for c := 0; c < clip.Channels; c++ {
		role := baseline.RoleNone
		if c < len(roles) && roles[c] != "" {
			role = roles[c]
		}
		minV, maxV, mean := channelStats(clip, c)
		tw.AppendRow(table.Row{c, string(role),
			fmt.Sprintf("%.1f", minV), fmt.Sprintf("%.1f", maxV), fmt.Sprintf("%.2f", mean)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	fmt.Fprintln(s.Out, tw.Render())
	return nil
}

func channelStats(clip *wavio.Clip, c int) (minV, maxV, mean float64) {
	if clip.Frames() == 0 {
		return 0, 0, 0
	}
	minV = math.Inf(1)
	maxV = math.Inf(-1)
	sum := 0.0
	for _, frame := range clip.Samples {
		v := frame[c]
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
		sum += v
	}
	return minV, maxV, sum / float64(clip.Frames())
}

var _ Renderer = (*Summary)(nil)
