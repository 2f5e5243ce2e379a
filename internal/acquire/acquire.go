// Package acquire orchestrates the two operator workflows: recording a new
// acquisition into the session tree, and pulling an existing acquisition back
// up for display. All bookkeeping decisions live here; the recorder and the
// display renderer are injected so the flows stay testable without hardware.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"amznas/internal/baseline"
	"amznas/internal/config"
	"amznas/internal/device"
	"amznas/internal/ident"
	"amznas/internal/logging"
	"amznas/internal/services"
	"amznas/internal/services/display"
	"amznas/internal/services/recorder"
	"amznas/internal/session"
	"amznas/internal/textutil"
	"amznas/internal/wavio"
)

const timestampLayout = "20060102T150405"

// AutozeroMode selects which baseline measurement adjusts a recording before
// display.
type AutozeroMode struct {
	skip  bool
	token int
}

// Skip disables baseline subtraction for this display.
func Skip() AutozeroMode { return AutozeroMode{skip: true} }

// Zero adjusts with the _zero_ entry recorded under the given token.
func Zero(token int) AutozeroMode { return AutozeroMode{token: token} }

// DefaultAutozero is the first baseline of the session.
func DefaultAutozero() AutozeroMode { return Zero(0) }

// Orchestrator runs the acquisition and display flows.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder recorder.Client
	renderer display.Renderer
	now      func() time.Time
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New constructs an orchestrator over the given collaborators.
func New(cfg *config.Config, logger *slog.Logger, rec recorder.Client, renderer display.Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "acquire"),
		recorder: rec,
		renderer: renderer,
		now:      time.Now,
	}
	if o.renderer == nil {
		o.renderer = display.Nop{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AcquireRequest describes one recording run.
type AcquireRequest struct {
	Lang       ident.Code
	Spkr       ident.Code
	Researcher ident.Code
	// Item is the stimulus label; it is sanitized into filename-safe form
	// before any path is built. session.ZeroItem marks a baseline run.
	Item string
	// Utterance is the free-form prompt text written to the device sidecar.
	Utterance string
	// Seconds limits the recording; 0 records until interrupted.
	Seconds int
	// Lx enables the EGG channel.
	Lx bool
	// Display shows the recording after acquisition.
	Display  bool
	Autozero AutozeroMode
}

// AcquireResult reports what one run produced.
type AcquireResult struct {
	Session session.Session
	Token   int
	WavPath string
	IniPath string
	// Means holds the baseline measurement computed for a _zero_ run.
	Means []session.ChannelMean
}

// Acquire runs one recording: allocate a token, write the device sidecar,
// drive the recorder, and append the run to the session document. The whole
// sequence holds the session lock so a concurrent invocation cannot allocate
// the same token. For a _zero_ item the per-channel means are computed and
// stored with the entry before the document is persisted.
func (o *Orchestrator) Acquire(ctx context.Context, req AcquireRequest) (*AcquireResult, error) {
	item := req.Item
	if item != session.ZeroItem {
		item = textutil.SanitizeItem(item)
	}
	if strings.TrimSpace(item) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acquire", "acquire", "stimulus label is required", nil)
	}

	timestamp := o.now().Format(timestampLayout)
	date, _, _ := strings.Cut(timestamp, "T")
	sess := session.New(o.cfg.Paths.DataDir, req.Lang, req.Spkr, date)
	if err := sess.Ensure(); err != nil {
		return nil, err
	}

	lock, err := sess.AcquireLock()
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	key := session.Key{
		Lang:       req.Lang,
		Spkr:       req.Spkr,
		Researcher: req.Researcher,
		Timestamp:  timestamp,
		Item:       item,
	}
	token, err := session.NextToken(sess.Dir(), key)
	if err != nil {
		return nil, err
	}
	wavPath, iniPath := session.BuildPaths(sess.Dir(), key, token)

	o.logger.Info("starting acquisition",
		logging.String(logging.FieldSession, sess.Name()),
		logging.String(logging.FieldItem, item),
		logging.Int(logging.FieldToken, token),
		logging.Int("seconds", req.Seconds))

	settings := device.DefaultSettings(o.cfg.Recorder.DeviceVersion, req.Lx, o.cfg.Recorder.SampleRate)
	if err := device.WriteSidecar(iniPath, settings, req.Spkr, item, token, req.Utterance); err != nil {
		return nil, err
	}

	if err := o.recorder.Record(ctx, recorder.Request{
		SidecarPath: iniPath,
		OutputPath:  wavPath,
		Seconds:     req.Seconds,
	}); err != nil {
		return nil, err
	}

	result := &AcquireResult{Session: sess, Token: token, WavPath: wavPath, IniPath: iniPath}
	roles := baseline.DefaultLayout(req.Lx)

	var clip *wavio.Clip
	if req.Item == session.ZeroItem || req.Display {
		clip, err = wavio.ReadFile(wavPath)
		if err != nil {
			return nil, fmt.Errorf("decode acquisition: %w", err)
		}
	}

	store := session.NewStore(sess, o.logger)
	record, err := store.Load()
	if err != nil {
		return nil, err
	}
	entry := session.Entry{
		Item:       item,
		Token:      token,
		Researcher: string(req.Researcher),
		Fname:      filepath.Base(wavPath),
	}
	if req.Item == session.ZeroItem {
		entry.Channels = baseline.Compute(clip, roles)
		result.Means = entry.Channels
	}
	if err := record.Append(entry); err != nil {
		return nil, err
	}
	if err := store.Persist(record); err != nil {
		return nil, err
	}

	if req.Display {
		mode := req.Autozero
		if req.Item == session.ZeroItem {
			// A baseline run is previewed against its own fresh measurement.
			mode = Zero(token)
		}
		if err := o.show(ctx, filepath.Base(wavPath), clip, record, roles, mode); err != nil {
			return nil, err
		}
	}

	o.logger.Info("acquisition complete",
		logging.String(logging.FieldSession, sess.Name()),
		logging.String(logging.FieldItem, item),
		logging.Int(logging.FieldToken, token))
	return result, nil
}

// DisplayRequest addresses an existing acquisition for display.
type DisplayRequest struct {
	Lang       ident.Code
	Spkr       ident.Code
	Researcher ident.Code
	// Date is the session date, YYYYMMDD; empty means today.
	Date string
	Item string
	// WavFile, when set, bypasses the session lookup and displays the named
	// file directly.
	WavFile  string
	Token    session.TokenRef
	Lx       bool
	Autozero AutozeroMode
}

// Display locates an acquisition, applies the requested baseline adjustment,
// and hands the result to the renderer. A missing baseline or a channel-count
// mismatch downgrades to a warning; the recording is shown unadjusted.
func (o *Orchestrator) Display(ctx context.Context, req DisplayRequest) error {
	date := req.Date
	if date == "" {
		date = o.now().Format("20060102")
	}
	sess := session.New(o.cfg.Paths.DataDir, req.Lang, req.Spkr, date)

	wavPath := req.WavFile
	if wavPath == "" {
		item := textutil.SanitizeItem(req.Item)
		if req.Item == session.ZeroItem {
			item = session.ZeroItem
		}
		key := session.Key{
			Lang:       req.Lang,
			Spkr:       req.Spkr,
			Researcher: req.Researcher,
			Timestamp:  date,
			Item:       item,
		}
		token, err := req.Token.Resolve(sess.Dir(), key)
		if err != nil {
			return err
		}
		matches, err := session.FindWavs(sess.Dir(), key, token)
		if err != nil {
			return err
		}
		switch len(matches) {
		case 0:
			return services.Wrap(services.ErrTokenNotFound, "acquire", "display",
				fmt.Sprintf("no acquisition file for item %q token %d", item, token), nil)
		case 1:
			wavPath = matches[0]
		default:
			return fmt.Errorf("item %q token %d matches %d files, refusing to pick one: %s",
				item, token, len(matches), strings.Join(matches, ", "))
		}
	}

	clip, err := wavio.ReadFile(wavPath)
	if err != nil {
		return fmt.Errorf("decode acquisition: %w", err)
	}

	record, err := session.NewStore(sess, o.logger).Load()
	if err != nil {
		return err
	}
	// A four-channel file was recorded with the EGG channel populated.
	roles := baseline.DefaultLayout(req.Lx || clip.Channels == 4)
	return o.show(ctx, filepath.Base(wavPath), clip, record, roles, req.Autozero)
}

// show applies the autozero adjustment and renders. Recoverable baseline
// problems are logged and the raw clip shown; everything else aborts.
func (o *Orchestrator) show(ctx context.Context, title string, clip *wavio.Clip, record *session.Record, roles []baseline.Role, mode AutozeroMode) error {
	shown := clip
	if !mode.skip {
		means, err := baseline.Lookup(record, mode.token)
		if err == nil {
			shown, err = baseline.Normalize(clip, means)
		}
		if err != nil {
			if !services.Recoverable(err) {
				return err
			}
			o.logger.Warn("showing unadjusted recording", logging.Error(err))
			shown = clip
		}
	}
	params := display.Params{Cutoff: o.cfg.Display.Cutoff, Order: o.cfg.Display.Order}
	return o.renderer.Render(ctx, title, shown, roles, params)
}
