package classifierapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(connector.ConnectorConfig{Endpoint: srv.URL})
}

func TestFetchUniverse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, pathBlocks, r.URL.Path)
		w.Write([]byte(`{
			"blocks": [
				{"block_id": 7, "file_id": 1, "file_path": "src/go/module_1.go", "block_type": "function",
				 "block_name": "function_7", "language": "go", "start_line": 3, "end_line": 9}
			],
			"metric_columns": ["avg_line_length", "nesting_depth"],
			"total_blocks": 1
		}`))
	})

	u, err := c.FetchUniverse(context.Background())
	require.NoError(t, err)
	require.Len(t, u.Items, 1)
	assert.Equal(t, 7, u.Items[0].ID)
	assert.Equal(t, "go", u.Items[0].Language)
	assert.Equal(t, []string{"avg_line_length", "nesting_depth"}, u.MetricColumns)
	assert.Equal(t, []int{7}, u.IDs())
}

func TestFetchContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/blocks/12/code", r.URL.Path)
		w.Write([]byte(`{"block_id": 12, "code": "func f() {}", "language": "go"}`))
	})

	got, err := c.FetchContent(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, model.Content{ID: 12, Code: "func f() {}", Language: "go"}, got)
}

func TestFetchDiverse(t *testing.T) {
	var req coldStartRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, pathColdStart, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(`{"suggestion_ids": [4, 2]}`))
	})

	ids, err := c.FetchDiverse(context.Background(), []int{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, ids)
	assert.Equal(t, coldStartRequest{BlockIDs: []int{1, 2, 3, 4}, NumSuggestions: 2}, req)
}

func TestFetchScores(t *testing.T) {
	var req histogramRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, pathHistogram, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Write([]byte(`{
			"scores": {"1": 0.9, "2": -0.4},
			"histogram": {"bins": [-0.25, 0.5], "counts": [1, 1], "bin_edges": [-0.4, 0.1, 0.9]},
			"statistics": {"min": -0.4, "max": 0.9, "mean": 0.25, "median": 0.25},
			"total_items": 2,
			"committee_votes": {"1": {"svm_prediction": 1, "rf_prediction": 1, "mlp_prediction": 0, "vote_entropy": 0.918}}
		}`))
	})

	res, err := c.FetchScores(context.Background(), model.TrainingRequest{
		Selected: []model.WeightedItem{{ID: 1, Source: model.SourceClick}},
		Rejected: []model.WeightedItem{{ID: 2, Source: model.SourceThreshold}},
		AllIDs:   []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []weightedBlockID{{ID: 1, Source: "click"}}, req.SelectedItems)
	assert.Equal(t, []weightedBlockID{{ID: 2, Source: "threshold"}}, req.RejectedItems)
	assert.Equal(t, []int{1, 2}, req.BlockIDs)

	assert.Equal(t, model.Scores{1: 0.9, 2: -0.4}, res.Scores)
	assert.Equal(t, []float64{-0.4, 0.1, 0.9}, res.Histogram.BinEdges)
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, 0.9, res.Statistics.Max)
	require.Contains(t, res.CommitteeVotes, 1)
	assert.False(t, res.CommitteeVotes[1].Unanimous())
}

func TestFetchScoresWithoutVotes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scores": {}, "histogram": {"bins": [], "counts": [], "bin_edges": []},
			"statistics": {"min": 0, "max": 0, "mean": 0, "median": 0}, "total_items": 0}`))
	})

	res, err := c.FetchScores(context.Background(), model.TrainingRequest{})
	require.NoError(t, err)
	assert.Nil(t, res.CommitteeVotes)
	assert.Empty(t, res.Scores)
}

func TestFetchScoresRejectsMalformedHistogram(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scores": {"1": 1}, "histogram": {"counts": [1, 2], "bin_edges": [0, 1]}}`))
	})

	_, err := c.FetchScores(context.Background(), model.TrainingRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed histogram")
}

func TestFetchScoresRejectsBadKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scores": {"abc": 1}}`))
	})

	_, err := c.FetchScores(context.Background(), model.TrainingRequest{})
	require.Error(t, err)
}

func TestServiceNotReadySurfacesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Service not ready"}`))
	})

	_, err := c.FetchUniverse(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestHealth(t *testing.T) {
	healthy := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			w.Write([]byte(`{"status":"healthy","data_service":"connected"}`))
			return
		}
		w.Write([]byte(`{"status":"healthy","data_service":"disconnected"}`))
	})

	require.NoError(t, c.Health(context.Background()))
	healthy = false
	assert.Error(t, c.Health(context.Background()))
}

func TestRegisteredAsHTTPProvider(t *testing.T) {
	ctor, err := connector.Get("http")
	require.NoError(t, err)
	b, err := ctor(connector.ConnectorConfig{Endpoint: "http://example.invalid"})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, b)
}
