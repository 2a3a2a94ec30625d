package font

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fontServer fakes the provider: /css serves a stylesheet pointing at
// /font.ttf, which serves the raw bytes.
type fontServer struct {
	*httptest.Server
	cssHits  atomic.Int64
	fileHits atomic.Int64
	data     []byte
	lastCSS  atomic.Value // string, raw family query value
	block    chan struct{}
}

func newFontServer(t *testing.T) *fontServer {
	t.Helper()

	fs := &fontServer{data: []byte("\x00\x01\x00\x00fake-ttf-bytes")}

	mux := http.NewServeMux()
	mux.HandleFunc("/css", func(w http.ResponseWriter, r *http.Request) {
		fs.cssHits.Add(1)
		fs.lastCSS.Store(r.URL.Query().Get("family"))
		if fs.block != nil {
			<-fs.block
		}
		fmt.Fprintf(w, "@font-face {\n  font-style: normal;\n  src: url(%s/font.ttf) format('truetype');\n}\n", fs.URL)
	})
	mux.HandleFunc("/font.ttf", func(w http.ResponseWriter, r *http.Request) {
		fs.fileHits.Add(1)
		_, _ = w.Write(fs.data)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)

	return fs
}

func newTestResolver(t *testing.T, fs *fontServer, cfg Config) *Resolver {
	t.Helper()

	cfg.BaseURL = fs.URL + "/css"
	if cfg.Client == nil {
		cfg.Client = fs.Client()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return NewResolver(cfg)
}

func TestKey(t *testing.T) {
	if got, want := Key("Inter", 700, StyleNormal), "Inter:700:normal"; got != want {
		t.Fatalf("Key mismatch: got=%q want=%q", got, want)
	}
	if got, want := Key("Open Sans", 400, StyleItalic), "Open Sans:400:italic"; got != want {
		t.Fatalf("Key mismatch: got=%q want=%q", got, want)
	}
}

func TestResolveMissThenHit(t *testing.T) {
	fs := newFontServer(t)
	r := newTestResolver(t, fs, Config{})

	want := Descriptor{Family: "Inter", Weight: 700, Style: StyleNormal, Data: fs.data}

	got, err := r.Resolve(context.Background(), "Inter", 700, StyleNormal)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
	if n := r.CacheLen(); n != 1 {
		t.Fatalf("CacheLen after miss: got=%d want=1", n)
	}

	// A hit returns the exact stored descriptor with zero network I/O.
	again, err := r.Resolve(context.Background(), "Inter", 700, StyleNormal)
	if err != nil {
		t.Fatalf("Resolve error on hit: %v", err)
	}
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("hit descriptor mismatch (-first +second):\n%s", diff)
	}
	if n := fs.cssHits.Load(); n != 1 {
		t.Fatalf("stylesheet fetches: got=%d want=1", n)
	}
	if n := fs.fileHits.Load(); n != 1 {
		t.Fatalf("font downloads: got=%d want=1", n)
	}
}

func TestResolveDefaults(t *testing.T) {
	fs := newFontServer(t)
	r := newTestResolver(t, fs, Config{})

	got, err := r.Resolve(context.Background(), "Inter", 0, "")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Weight != 400 || got.Style != StyleNormal {
		t.Fatalf("default face mismatch: got weight=%d style=%q want 400 normal", got.Weight, got.Style)
	}
}

func TestResolveEmptyFamily(t *testing.T) {
	fs := newFontServer(t)
	r := newTestResolver(t, fs, Config{})

	_, err := r.Resolve(context.Background(), "", 400, StyleNormal)
	if !errors.Is(err, ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}
	if n := fs.cssHits.Load(); n != 0 {
		t.Fatalf("expected no stylesheet fetch, got %d", n)
	}
}

func TestResolveAxisQuery(t *testing.T) {
	fs := newFontServer(t)
	r := newTestResolver(t, fs, Config{})

	if _, err := r.Resolve(context.Background(), "Open Sans", 700, StyleItalic); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got, want := fs.lastCSS.Load().(string), "Open Sans:ital,wght@1,700"; got != want {
		t.Fatalf("family query mismatch: got=%q want=%q", got, want)
	}
}

func TestResolveNoFontSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "/* stylesheet without any src */")
	}))
	t.Cleanup(srv.Close)

	r := NewResolver(Config{
		BaseURL: srv.URL,
		Client:  srv.Client(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal)
	if !errors.Is(err, ErrNoFontSource) {
		t.Fatalf("expected ErrNoFontSource, got %v", err)
	}
	if n := r.CacheLen(); n != 0 {
		t.Fatalf("failed fetch must not populate the cache, CacheLen=%d", n)
	}
}

func TestResolveStylesheetError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewResolver(Config{
		BaseURL: srv.URL,
		Client:  srv.Client(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal)
	if err == nil {
		t.Fatalf("expected error for status 500")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Fatalf("error should name the status, got %v", err)
	}
}

func TestResolveRefetchesAfterTTL(t *testing.T) {
	fs := newFontServer(t)
	clock := struct {
		now time.Time
	}{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	r := newTestResolver(t, fs, Config{Now: func() time.Time { return clock.now }})

	if _, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	clock.now = clock.now.Add(DefaultCacheTTL + time.Minute)

	if _, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal); err != nil {
		t.Fatalf("Resolve error after expiry: %v", err)
	}
	if n := fs.cssHits.Load(); n != 2 {
		t.Fatalf("stylesheet fetches after TTL: got=%d want=2", n)
	}
}

func TestResolveCoalescesConcurrentMisses(t *testing.T) {
	fs := newFontServer(t)
	fs.block = make(chan struct{})
	r := newTestResolver(t, fs, Config{})

	const N = 5
	results := make([]Descriptor, N)
	errs := make([]error, N)

	var wg sync.WaitGroup
	wg.Add(N)
	for i := 0; i < N; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(context.Background(), "Inter", 400, StyleNormal)
		}()
	}

	// Let the flights pile up behind the blocked stylesheet fetch.
	time.Sleep(50 * time.Millisecond)
	close(fs.block)
	wg.Wait()

	for i := 0; i < N; i++ {
		if errs[i] != nil {
			t.Fatalf("Resolve %d error: %v", i, errs[i])
		}
		if diff := cmp.Diff(results[0], results[i]); diff != "" {
			t.Fatalf("result %d diverged (-first +this):\n%s", i, diff)
		}
	}
	if n := fs.cssHits.Load(); n != 1 {
		t.Fatalf("coalesced misses must fetch once, got %d stylesheet fetches", n)
	}
	if n := fs.fileHits.Load(); n != 1 {
		t.Fatalf("coalesced misses must download once, got %d downloads", n)
	}
}

func TestFollowerHonorsCancellation(t *testing.T) {
	fs := newFontServer(t)
	fs.block = make(chan struct{})
	r := newTestResolver(t, fs, Config{})

	go func() {
		_, _ = r.Resolve(context.Background(), "Inter", 400, StyleNormal)
	}()

	// Wait until the leader's fetch is underway.
	for fs.cssHits.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "Inter", 400, StyleNormal)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	close(fs.block)
}

func TestResolveMetrics(t *testing.T) {
	fs := newFontServer(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	r := newTestResolver(t, fs, Config{Metrics: metrics})

	if _, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if _, err := r.Resolve(context.Background(), "Inter", 400, StyleNormal); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got := testutil.ToFloat64(metrics.cacheMisses); got != 1 {
		t.Fatalf("cache misses: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(metrics.cacheHits); got != 1 {
		t.Fatalf("cache hits: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(metrics.fetches); got != 1 {
		t.Fatalf("fetches: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(metrics.fetchErrors); got != 0 {
		t.Fatalf("fetch errors: got=%v want=0", got)
	}
}

func TestDefaultResolver(t *testing.T) {
	fs := newFontServer(t)

	old := Default
	Default = newTestResolver(t, fs, Config{})
	t.Cleanup(func() { Default = old })

	if _, err := Resolve(context.Background(), "Inter", 400, StyleNormal); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if n := Default.CacheLen(); n != 1 {
		t.Fatalf("CacheLen: got=%d want=1", n)
	}

	ResetCache()
	if n := Default.CacheLen(); n != 0 {
		t.Fatalf("CacheLen after ResetCache: got=%d want=0", n)
	}
}
