package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"amznas/internal/baseline"
	"amznas/internal/config"
	"amznas/internal/ident"
	"amznas/internal/logging"
	"amznas/internal/services"
	"amznas/internal/services/display"
	"amznas/internal/services/recorder"
	"amznas/internal/session"
	"amznas/internal/testsupport"
	"amznas/internal/wavio"
)

// fakeRecorder stands in for the hardware process: it writes a fixed clip to
// the requested output path.
type fakeRecorder struct {
	clip     *wavio.Clip
	requests []recorder.Request
	err      error
}

func (f *fakeRecorder) Record(_ context.Context, req recorder.Request) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	return wavio.WriteFile(req.OutputPath, f.clip)
}

// captureRenderer remembers what was handed to it.
type captureRenderer struct {
	title string
	clip  *wavio.Clip
	roles []baseline.Role
	calls int
}

func (c *captureRenderer) Render(_ context.Context, title string, clip *wavio.Clip, roles []baseline.Role, _ display.Params) error {
	c.title = title
	c.clip = clip
	c.roles = roles
	c.calls++
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t, testsupport.WithDefaults("shp", "res"))
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	}
}

func fourChannelClip(frames int) *wavio.Clip {
	samples := make([][]float64, frames)
	for i := range samples {
		samples[i] = []float64{100, 10, 0, 20}
	}
	return &wavio.Clip{Rate: 120000, Channels: 4, BitDepth: 16, Samples: samples}
}

func baseRequest() AcquireRequest {
	return AcquireRequest{
		Lang:       ident.MustParse("shp"),
		Spkr:       ident.MustParse("spk"),
		Researcher: ident.MustParse("res"),
		Item:       "stim1",
	}
}

func TestAcquireAllocatesTokenAndRecordsEntry(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(4)}
	o := New(cfg, logging.NewNop(), rec, display.Nop{}, WithClock(fixedClock()))

	res, err := o.Acquire(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if res.Token != 0 {
		t.Errorf("first token = %d, want 0", res.Token)
	}
	wantStem := "shp_spk_res_20240315T093000_stim1_0"
	if filepath.Base(res.WavPath) != wantStem+".wav" {
		t.Errorf("wav path = %s, want %s.wav", filepath.Base(res.WavPath), wantStem)
	}
	if _, err := os.Stat(res.WavPath); err != nil {
		t.Errorf("recording not written: %v", err)
	}
	if _, err := os.Stat(res.IniPath); err != nil {
		t.Errorf("sidecar not written: %v", err)
	}

	record, err := session.NewStore(res.Session, logging.NewNop()).Load()
	if err != nil {
		t.Fatalf("load session document: %v", err)
	}
	if len(record.Acq) != 1 {
		t.Fatalf("document has %d entries, want 1", len(record.Acq))
	}
	entry := record.Acq[0]
	if entry.Item != "stim1" || entry.Token != 0 || entry.Researcher != "res" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fname != wantStem+".wav" {
		t.Errorf("entry fname = %s, want %s.wav", entry.Fname, wantStem)
	}
	if len(entry.Channels) != 0 {
		t.Errorf("stimulus entry carries channel means: %+v", entry.Channels)
	}
}

func TestAcquireTokensIncrementPerItem(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(2)}
	o := New(cfg, logging.NewNop(), rec, display.Nop{}, WithClock(fixedClock()))

	for want := 0; want < 3; want++ {
		res, err := o.Acquire(context.Background(), baseRequest())
		if err != nil {
			t.Fatalf("run %d failed: %v", want, err)
		}
		if res.Token != want {
			t.Errorf("run %d allocated token %d", want, res.Token)
		}
	}

	other := baseRequest()
	other.Item = "stim2"
	res, err := o.Acquire(context.Background(), other)
	if err != nil {
		t.Fatalf("other item failed: %v", err)
	}
	if res.Token != 0 {
		t.Errorf("independent item started at token %d, want 0", res.Token)
	}
}

func TestAcquireSanitizesItemLabel(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(2)}
	o := New(cfg, logging.NewNop(), rec, display.Nop{}, WithClock(fixedClock()))

	req := baseRequest()
	req.Item = "pan de yuca/2"
	res, err := o.Acquire(context.Background(), req)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	base := filepath.Base(res.WavPath)
	if strings.ContainsAny(base, "/ ") {
		t.Errorf("unsanitized filename %q", base)
	}
}

func TestAcquireZeroStoresChannelMeans(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(8)}
	o := New(cfg, logging.NewNop(), rec, display.Nop{}, WithClock(fixedClock()))

	req := baseRequest()
	req.Item = session.ZeroItem
	req.Lx = true
	res, err := o.Acquire(context.Background(), req)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if len(res.Means) != 4 {
		t.Fatalf("got %d channel means, want 4", len(res.Means))
	}
	wantMeans := []float64{100, 10, 0, 20}
	wantTypes := []string{"audio", "orfl", "lx", "nsfl"}
	for i, m := range res.Means {
		if m.Idx != i || m.Mean != wantMeans[i] || m.Type != wantTypes[i] {
			t.Errorf("mean %d = %+v, want idx %d type %s mean %v", i, m, i, wantTypes[i], wantMeans[i])
		}
		if m.Status != "automean" {
			t.Errorf("mean %d status = %s", i, m.Status)
		}
	}

	record, err := session.NewStore(res.Session, logging.NewNop()).Load()
	if err != nil {
		t.Fatalf("load session document: %v", err)
	}
	entry, ok := record.Find(session.ZeroItem, 0)
	if !ok {
		t.Fatal("zero entry missing from document")
	}
	if len(entry.Channels) != 4 {
		t.Errorf("persisted entry has %d channels, want 4", len(entry.Channels))
	}
}

func TestAcquireDisplayAppliesFreshBaseline(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(4)}
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), rec, rend, WithClock(fixedClock()))

	req := baseRequest()
	req.Item = session.ZeroItem
	req.Display = true
	if _, err := o.Acquire(context.Background(), req); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if rend.calls != 1 {
		t.Fatalf("renderer called %d times, want 1", rend.calls)
	}
	// Airflow channels are shifted to zero mean; audio passes through.
	frame := rend.clip.Samples[0]
	if frame[0] != 100 || frame[1] != 0 || frame[3] != 0 {
		t.Errorf("adjusted frame = %v, want [100 0 0 0]", frame)
	}
}

func TestAcquireRecorderFailurePropagates(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(2), err: errors.New("boom")}
	o := New(cfg, logging.NewNop(), rec, display.Nop{}, WithClock(fixedClock()))

	if _, err := o.Acquire(context.Background(), baseRequest()); err == nil {
		t.Fatal("expected recorder error")
	}

	sess := session.New(cfg.Paths.DataDir, "shp", "spk", "20240315")
	if _, err := os.Stat(sess.DocumentPath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed run must not be appended to the session document")
	}
}

func TestDisplayNormalizesWithStoredBaseline(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(4)}
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), rec, rend, WithClock(fixedClock()))

	zero := baseRequest()
	zero.Item = session.ZeroItem
	if _, err := o.Acquire(context.Background(), zero); err != nil {
		t.Fatalf("zero run failed: %v", err)
	}
	if _, err := o.Acquire(context.Background(), baseRequest()); err != nil {
		t.Fatalf("stimulus run failed: %v", err)
	}

	err := o.Display(context.Background(), DisplayRequest{
		Lang:       "shp",
		Spkr:       "spk",
		Researcher: "res",
		Item:       "stim1",
		Token:      session.FromEnd(1),
		Autozero:   DefaultAutozero(),
	})
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	frame := rend.clip.Samples[0]
	if frame[1] != 0 || frame[3] != 0 {
		t.Errorf("airflow channels not adjusted: %v", frame)
	}
	if frame[0] != 100 {
		t.Errorf("audio channel changed: %v", frame)
	}
	if !strings.HasSuffix(rend.title, "_stim1_0.wav") {
		t.Errorf("title = %q", rend.title)
	}
}

func TestDisplayMissingBaselineShowsRawClip(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(4)}
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), rec, rend, WithClock(fixedClock()))

	if _, err := o.Acquire(context.Background(), baseRequest()); err != nil {
		t.Fatalf("stimulus run failed: %v", err)
	}

	err := o.Display(context.Background(), DisplayRequest{
		Lang:       "shp",
		Spkr:       "spk",
		Researcher: "res",
		Item:       "stim1",
		Token:      session.Exact(0),
		Autozero:   DefaultAutozero(),
	})
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if rend.clip.Samples[0][1] != 10 {
		t.Errorf("clip was adjusted without a baseline: %v", rend.clip.Samples[0])
	}
}

func TestDisplaySkipLeavesClipUntouched(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{clip: fourChannelClip(4)}
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), rec, rend, WithClock(fixedClock()))

	zero := baseRequest()
	zero.Item = session.ZeroItem
	if _, err := o.Acquire(context.Background(), zero); err != nil {
		t.Fatalf("zero run failed: %v", err)
	}
	if _, err := o.Acquire(context.Background(), baseRequest()); err != nil {
		t.Fatalf("stimulus run failed: %v", err)
	}

	err := o.Display(context.Background(), DisplayRequest{
		Lang:       "shp",
		Spkr:       "spk",
		Researcher: "res",
		Item:       "stim1",
		Token:      session.Exact(0),
		Autozero:   Skip(),
	})
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if rend.clip.Samples[0][1] != 10 {
		t.Errorf("skip mode still adjusted the clip: %v", rend.clip.Samples[0])
	}
}

func TestDisplayReadsSeededSessionDocument(t *testing.T) {
	cfg := testConfig(t)
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), &fakeRecorder{}, rend, WithClock(fixedClock()))

	sess := session.New(cfg.Paths.DataDir, "shp", "spk", "20240315")
	zeroName := "shp_spk_res_20240315_" + session.ZeroItem + "_0.wav"
	testsupport.SeedDocument(t, sess,
		testsupport.BaselineEntry(0, zeroName, 0, 5, 0, 7))
	testsupport.TouchWav(t, sess.Dir(), zeroName)
	testsupport.WriteClip(t, filepath.Join(sess.Dir(), "shp_spk_res_20240315_stim1_0.wav"),
		120000, 4, 100, 5, 0, 7)

	err := o.Display(context.Background(), DisplayRequest{
		Lang:       "shp",
		Spkr:       "spk",
		Researcher: "res",
		Date:       "20240315",
		Item:       "stim1",
		Token:      session.Exact(0),
		Autozero:   DefaultAutozero(),
	})
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	frame := rend.clip.Samples[0]
	if frame[1] != 0 || frame[3] != 0 {
		t.Errorf("airflow channels not adjusted from seeded baseline: %v", frame)
	}
}

func TestDisplayUnknownTokenFails(t *testing.T) {
	cfg := testConfig(t)
	o := New(cfg, logging.NewNop(), &fakeRecorder{clip: fourChannelClip(2)}, display.Nop{}, WithClock(fixedClock()))

	err := o.Display(context.Background(), DisplayRequest{
		Lang:       "shp",
		Spkr:       "spk",
		Researcher: "res",
		Item:       "stim1",
		Token:      session.Exact(5),
		Autozero:   Skip(),
	})
	if !errors.Is(err, services.ErrTokenNotFound) {
		t.Fatalf("err = %v, want token-not-found", err)
	}
}

func TestDisplayExplicitFileBypassesLookup(t *testing.T) {
	cfg := testConfig(t)
	rend := &captureRenderer{}
	o := New(cfg, logging.NewNop(), &fakeRecorder{}, rend, WithClock(fixedClock()))

	path := filepath.Join(t.TempDir(), "loose.wav")
	if err := wavio.WriteFile(path, fourChannelClip(3)); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	err := o.Display(context.Background(), DisplayRequest{
		Lang:     "shp",
		Spkr:     "spk",
		WavFile:  path,
		Autozero: Skip(),
	})
	if err != nil {
		t.Fatalf("Display failed: %v", err)
	}
	if rend.title != "loose.wav" {
		t.Errorf("title = %q, want loose.wav", rend.title)
	}
	if rend.clip.Frames() != 3 {
		t.Errorf("frames = %d, want 3", rend.clip.Frames())
	}
}
