package baseline

import (
	"fmt"

	"amznas/internal/services"
	"amznas/internal/wavio"
)

// Normalize subtracts the per-channel means from every frame of the clip and
// returns the shifted copy. The input clip is never modified. When the mean
// vector's length disagrees with the clip's channel count, no partial
// correction is attempted: the original clip is returned together with the
// channel-mismatch marker, and the caller proceeds unadjusted.
func Normalize(clip *wavio.Clip, means []float64) (*wavio.Clip, error) {
	if clip == nil {
		return nil, services.Wrap(services.ErrChannelMismatch, "baseline", "normalize", "no clip to adjust", nil)
	}
	if len(means) != clip.Channels {
		return clip, services.Wrap(services.ErrChannelMismatch, "baseline", "normalize",
			fmt.Sprintf("baseline has %d channels, recording has %d", len(means), clip.Channels), nil)
	}

	shifted := make([][]float64, len(clip.Samples))
	for i, frame := range clip.Samples {
		row := make([]float64, len(frame))
		for c, v := range frame {
			row[c] = v - means[c]
		}
		shifted[i] = row
	}

	return &wavio.Clip{
		Rate:     clip.Rate,
		Channels: clip.Channels,
		BitDepth: clip.BitDepth,
		Samples:  shifted,
	}, nil
}
