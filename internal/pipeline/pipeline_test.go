package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/winnow/internal/config"
	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/output"

	_ "github.com/crimson-sun/winnow/internal/connector/classifierapi"
)

// classifierServer serves a four-block universe and scores blocks 1-2
// positive, 3-4 negative.
func classifierServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/blocks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"blocks": []map[string]any{
				{"block_id": 1}, {"block_id": 2}, {"block_id": 3}, {"block_id": 4},
			},
			"metric_columns": []string{"loc"},
			"total_blocks":   4,
		})
	})
	mux.HandleFunc("/api/blocks/2/code", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"block_id": 2, "code": "x = 1", "language": "python"})
	})
	mux.HandleFunc("/api/cold-start/representative", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"suggestion_ids": []int{3, 1}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type recorder struct{ events []model.SessionEvent }

func (r *recorder) Write(_ context.Context, e model.SessionEvent) error {
	r.events = append(r.events, e)
	return nil
}
func (r *recorder) Close() error { return nil }

func TestPipelineEndToEnd(t *testing.T) {
	srv := classifierServer(t)
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Backend.Endpoint = srv.URL
	cfg.Cache = config.CacheConfig{Backend: "sqlite", Path: filepath.Join(dir, "cache.db")}
	cfg.Output.File = filepath.Join(dir, "events.jsonl")

	rec := &recorder{}
	reg := prometheus.NewRegistry()
	p, err := New(cfg, WithOutput(rec), WithRegisterer(reg))
	require.NoError(t, err)

	store := p.Store()
	require.NoError(t, store.Initialize(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, []int{1, 2, 3, 4}, snap.IDs)
	assert.Equal(t, 3, snap.Focus)

	c, err := store.Content(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", c.Code)

	require.NoError(t, p.Close())

	require.Len(t, rec.events, 1)
	assert.Equal(t, model.EventInitialized, rec.events[0].Kind)

	data, err := os.ReadFile(cfg.Output.File)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestBackendUnknownProvider(t *testing.T) {
	_, err := Backend(config.BackendConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNewRejectsBadCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = "redis"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestOutputsNoneConfigured(t *testing.T) {
	out, err := Outputs(config.OutputConfig{Verbosity: "standard"})
	require.NoError(t, err)
	assert.IsType(t, output.Discard{}, out)
}

func TestOutputsAsyncFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	out, err := Outputs(config.OutputConfig{Async: true}, a, b)
	require.NoError(t, err)

	require.NoError(t, out.Write(context.Background(), model.SessionEvent{Kind: model.EventCommit}))
	require.NoError(t, out.Close())
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestOutputsBadFile(t *testing.T) {
	_, err := Outputs(config.OutputConfig{File: filepath.Join(t.TempDir(), "no", "such", "dir.jsonl")})
	assert.Error(t, err)
}
