// Package baseline computes and applies per-channel "zero" measurements.
//
// A baseline acquisition records the transducers at rest; the mean of each
// airflow channel over that recording is the DC offset to subtract from
// later stimulus recordings before display. Means are kept in the session
// document under the reserved _zero_ item and looked up by token.
package baseline

import (
	"fmt"

	"amznas/internal/services"
	"amznas/internal/session"
	"amznas/internal/wavio"
)

// Role labels one recorded channel.
type Role string

const (
	RoleAudio Role = "audio"
	RoleOral  Role = "orfl"
	RoleNasal Role = "nsfl"
	RoleEGG   Role = "lx"
	// RoleNone marks a channel without a semantic assignment. The label is
	// recorded in the session document but never corrected.
	RoleNone Role = "no_label"
)

// Correctable reports whether the role is subject to baseline subtraction.
// Only the airflow channels carry an offset worth removing; audio and EGG
// pass through untouched.
func (r Role) Correctable() bool {
	return r == RoleOral || r == RoleNasal
}

// DefaultLayout returns the channel roles of an EGG-D800 acquisition.
// Slot 2 carries the EGG signal when the Lx channel is enabled and is
// otherwise unlabeled.
func DefaultLayout(lx bool) []Role {
	roles := []Role{RoleAudio, RoleOral, RoleNone, RoleNasal}
	if lx {
		roles[2] = RoleEGG
	}
	return roles
}

// Compute derives one ChannelMean per channel of the baseline clip: the
// arithmetic mean over the full duration, labeled with the channel's role.
// Channels beyond the role layout are tagged RoleNone. Means are emitted as
// plain float64 values so no decoder-specific numeric type reaches the
// persisted document.
func Compute(clip *wavio.Clip, roles []Role) []session.ChannelMean {
	if clip == nil || clip.Channels == 0 {
		return nil
	}

	sums := make([]float64, clip.Channels)
	for _, frame := range clip.Samples {
		for c, v := range frame {
			sums[c] += v
		}
	}
	frames := float64(clip.Frames())

	means := make([]session.ChannelMean, 0, clip.Channels)
	for c := 0; c < clip.Channels; c++ {
		role := RoleNone
		if c < len(roles) && roles[c] != "" {
			role = roles[c]
		}
		mean := 0.0
		if frames > 0 {
			mean = sums[c] / frames
		}
		means = append(means, session.ChannelMean{
			Idx:    c,
			Type:   string(role),
			Mean:   mean,
			Status: "automean",
		})
	}
	return means
}

// Lookup returns the per-channel adjustment vector stored for the _zero_
// entry with the given token. The vector always spans the recorded channel
// count; entries whose role is not correctable contribute zero. The record
// is only read, never mutated, so repeated lookups return identical results.
func Lookup(record *session.Record, token int) ([]float64, error) {
	entry, ok := record.Find(session.ZeroItem, token)
	if !ok {
		return nil, services.Wrap(services.ErrBaselineNotFound, "baseline", "lookup",
			fmt.Sprintf("no %s entry with token %d in session document", session.ZeroItem, token), nil)
	}

	means := make([]float64, len(entry.Channels))
	for _, ch := range entry.Channels {
		if !Role(ch.Type).Correctable() {
			continue
		}
		if ch.Idx < 0 || ch.Idx >= len(means) {
			continue
		}
		means[ch.Idx] = ch.Mean
	}
	return means, nil
}
