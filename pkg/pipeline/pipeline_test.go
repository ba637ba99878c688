package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/globecover/pkg/cache"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/globe"
	"github.com/matzehuels/globecover/pkg/observability"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// writeTexture writes a 16x8 texture: white polar rows, green west, blue east.
func writeTexture(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			c := color.NRGBA{R: 0, G: 102, B: 204, A: 255}
			switch {
			case y == 0 || y == 7:
				c = color.NRGBA{R: 254, G: 254, B: 254, A: 255}
			case x < 8:
				c = color.NRGBA{R: 34, G: 139, B: 34, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "texture.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Texture: "texture.png"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.EquatorialCount != DefaultEquatorialCount {
		t.Errorf("EquatorialCount should be %d, got %d", DefaultEquatorialCount, opts.EquatorialCount)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative count", Options{EquatorialCount: -3, Texture: "t.png"}, errors.ErrCodeInvalidParameter},
		{"missing texture", Options{EquatorialCount: 8}, errors.ErrCodeInvalidInput},
		{"bad texture path", Options{EquatorialCount: 8, Texture: "a\x00b"}, errors.ErrCodeInvalidPath},
		{"classifier without hash", Options{EquatorialCount: 8, Classifier: &terrain.Classifier{}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerateCover(t *testing.T) {
	out, err := GenerateCover(Options{EquatorialCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Points) != 6 {
		t.Fatalf("points = %d, want 6", len(out.Points))
	}
	want := "0.0,0.0\n0.0,90.0\n0.0,180.0\n0.0,-90.0\n90.0,0.0\n-90.0,0.0\n"
	if string(out.CSV) != want {
		t.Errorf("csv = %q, want %q", out.CSV, want)
	}
	if out.Points[3].Lon != -90 || out.Points[4].Lat != 90 {
		t.Errorf("points = %+v", out.Points)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := newFileRunner(t)
	defer r.Close()

	opts := Options{EquatorialCount: 20, Texture: writeTexture(t, dir)}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.CoverHit || first.CacheInfo.ClassifyHit || first.CacheInfo.BuildHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Points != first.Stats.Samples {
		t.Errorf("samples %d != points %d", first.Stats.Samples, first.Stats.Points)
	}
	if want := globe.PointCount(first.Stats.Samples); first.Stats.GlobePoints != want {
		t.Errorf("globe points = %d, want %d", first.Stats.GlobePoints, want)
	}
	if first.RunID == "" {
		t.Error("RunID should be set")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.CoverHit || !second.CacheInfo.ClassifyHit || !second.CacheInfo.BuildHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Cover.CSV, second.Cover.CSV) ||
		!bytes.Equal(first.Terrain.CSV, second.Terrain.CSV) ||
		!bytes.Equal(first.Globe.Payload, second.Globe.Payload) {
		t.Error("cached artifacts differ from computed ones")
	}
	if second.Stats.GlobePoints != first.Stats.GlobePoints {
		t.Errorf("cached globe points = %d, want %d", second.Stats.GlobePoints, first.Stats.GlobePoints)
	}
	if first.RunID == second.RunID {
		t.Error("RunID should be unique per execution")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.CoverHit || third.CacheInfo.ClassifyHit || third.CacheInfo.BuildHit {
		t.Errorf("refresh should bypass cache reads: %+v", third.CacheInfo)
	}
}

func TestClassifyColours(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	opts := Options{EquatorialCount: 12, Texture: writeTexture(t, t.TempDir())}

	cov, err := r.Cover(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	ter, err := r.Classify(ctx, cov, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(ter.CSV), "lat,lon,color\n") {
		t.Errorf("terrain csv header missing: %.30q", ter.CSV)
	}
	for _, s := range ter.Samples {
		var want string
		switch {
		case s.Lat > 67.5 || s.Lat < -67.5:
			want = terrain.White
		case s.Lat >= 90-180.0/8 || s.Lat <= -90+180.0/8:
			continue // polar row boundary
		case s.Lon == 180 || s.Lon == -180 || s.Lon == 0:
			continue // column boundary
		case s.Lon < 0:
			want = terrain.Green
		default:
			want = terrain.Blue
		}
		if s.Color != want {
			t.Errorf("sample (%v, %v) = %s, want %s", s.Lat, s.Lon, s.Color, want)
		}
	}
}

func TestPreloadedClassifier(t *testing.T) {
	ctx := context.Background()
	path := writeTexture(t, t.TempDir())
	c, err := terrain.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := cache.HashFile(path)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, Options{EquatorialCount: 8, Classifier: c, TextureHash: hash})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Samples != 36 {
		t.Errorf("samples = %d, want 36", res.Stats.Samples)
	}
}

func TestExecuteWithSpots(t *testing.T) {
	dir := t.TempDir()
	spots := filepath.Join(dir, "places.csv")
	data := "\ufeffPlace Name,Latitude,Longitude,Note\nLima,-12.05,-77.04,capital\nOslo,59.91,10.75,\n"
	if err := os.WriteFile(spots, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r := newFileRunner(t)
	opts := Options{EquatorialCount: 8, Texture: writeTexture(t, dir), Spots: spots}
	for i := 0; i < 2; i++ {
		res, err := r.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if res.Stats.Spots != 2 {
			t.Errorf("run %d: spots = %d, want 2", i, res.Stats.Spots)
		}
		if !bytes.Contains(res.Globe.Spots, []byte(`"place": "Oslo"`)) {
			t.Errorf("run %d: spots json = %s", i, res.Globe.Spots)
		}
	}
}

func TestExecuteMissingTexture(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{EquatorialCount: 8, Texture: filepath.Join(t.TempDir(), "none.png")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCorruptCachedCover(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	key := r.Keyer.CoverKey(4)
	if err := r.Cache.Set(ctx, key, []byte("not,a,cover\n"), time.Hour); err != nil {
		t.Fatal(err)
	}
	out, hit, err := r.CoverWithCacheInfo(ctx, Options{EquatorialCount: 4})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("unreadable entry should be treated as a miss")
	}
	if len(out.Points) != 6 {
		t.Errorf("points = %d, want 6", len(out.Points))
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnCoverStart(context.Context, int) { h.record("cover") }
func (h *recordingHooks) OnCoverComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.record("cover done")
}
func (h *recordingHooks) OnClassifyStart(context.Context, string, int) { h.record("classify") }
func (h *recordingHooks) OnBuildComplete(_ context.Context, _ int, _ time.Duration, err error) {
	h.record("build done")
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{EquatorialCount: 6, Texture: writeTexture(t, t.TempDir())}); err != nil {
		t.Fatal(err)
	}
	want := []string{"cover", "cover done", "classify", "build done"}
	if strings.Join(hooks.events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

type ttlCache struct {
	cache.Cache
	mu   sync.Mutex
	ttls []time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls = append(c.ttls, ttl)
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestRunnerTTLOverride(t *testing.T) {
	ctx := context.Background()

	rec := &ttlCache{Cache: cache.NewNullCache()}
	r := NewRunner(rec, nil, nil)
	if _, err := r.Cover(ctx, Options{EquatorialCount: 4}); err != nil {
		t.Fatal(err)
	}
	r.TTL = time.Minute
	if _, err := r.Cover(ctx, Options{EquatorialCount: 4}); err != nil {
		t.Fatal(err)
	}

	if len(rec.ttls) != 2 {
		t.Fatalf("sets = %d, want 2", len(rec.ttls))
	}
	if rec.ttls[0] != cache.TTLCover {
		t.Errorf("default ttl = %v, want %v", rec.ttls[0], cache.TTLCover)
	}
	if rec.ttls[1] != time.Minute {
		t.Errorf("override ttl = %v, want 1m", rec.ttls[1])
	}
}
