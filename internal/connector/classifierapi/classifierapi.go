// Package classifierapi talks to the code-authorship classification backend
// over its JSON HTTP API.
package classifierapi

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/connector/httpclient"
	"github.com/crimson-sun/winnow/internal/model"
)

const defaultEndpoint = "http://localhost:8004"

const (
	pathBlocks    = "/api/blocks"
	pathColdStart = "/api/cold-start/representative"
	pathHistogram = "/api/similarity-score-histogram"
	pathHealth    = "/health"
)

var tracer = otel.Tracer("winnow.connector.classifierapi")

func init() {
	connector.Register("http", func(cfg connector.ConnectorConfig) (connector.Backend, error) {
		return New(cfg), nil
	})
}

// Client implements connector.Backend against the classification API.
type Client struct {
	http *httpclient.Client
}

// New creates a Client. An empty endpoint falls back to the local default.
func New(cfg connector.ConnectorConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	var opts []httpclient.Option
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, httpclient.WithRateLimit(cfg.RateLimit, 1))
	}
	return &Client{http: httpclient.New(endpoint, cfg.APIKey, opts...)}
}

// FetchUniverse implements connector.Catalog.
func (c *Client) FetchUniverse(ctx context.Context) (model.Universe, error) {
	ctx, span := tracer.Start(ctx, "classifierapi.FetchUniverse")
	defer span.End()

	var resp blockListResponse
	if err := c.http.GetJSON(ctx, pathBlocks, nil, &resp); err != nil {
		return model.Universe{}, fail(span, fmt.Errorf("classifierapi: fetch blocks: %w", err))
	}
	span.SetAttributes(attribute.Int("blocks", len(resp.Blocks)))
	return model.Universe{Items: resp.Blocks, MetricColumns: resp.MetricColumns}, nil
}

// FetchContent implements connector.Catalog.
func (c *Client) FetchContent(ctx context.Context, id int) (model.Content, error) {
	ctx, span := tracer.Start(ctx, "classifierapi.FetchContent",
		trace.WithAttributes(attribute.Int("block_id", id)))
	defer span.End()

	var resp blockCodeResponse
	path := pathBlocks + "/" + strconv.Itoa(id) + "/code"
	if err := c.http.GetJSON(ctx, path, nil, &resp); err != nil {
		return model.Content{}, fail(span, fmt.Errorf("classifierapi: fetch code %d: %w", id, err))
	}
	return model.Content{ID: resp.BlockID, Code: resp.Code, Language: resp.Language}, nil
}

// FetchDiverse implements connector.Sampler.
func (c *Client) FetchDiverse(ctx context.Context, ids []int, n int) ([]int, error) {
	ctx, span := tracer.Start(ctx, "classifierapi.FetchDiverse",
		trace.WithAttributes(attribute.Int("universe", len(ids)), attribute.Int("requested", n)))
	defer span.End()

	var resp coldStartResponse
	req := coldStartRequest{BlockIDs: ids, NumSuggestions: n}
	if err := c.http.PostJSON(ctx, pathColdStart, req, &resp); err != nil {
		return nil, fail(span, fmt.Errorf("classifierapi: cold start: %w", err))
	}
	return resp.SuggestionIDs, nil
}

// FetchScores implements connector.Trainer.
func (c *Client) FetchScores(ctx context.Context, req model.TrainingRequest) (model.TrainingResult, error) {
	ctx, span := tracer.Start(ctx, "classifierapi.FetchScores",
		trace.WithAttributes(
			attribute.Int("selected", len(req.Selected)),
			attribute.Int("rejected", len(req.Rejected)),
			attribute.Int("universe", len(req.AllIDs)),
		))
	defer span.End()

	body := histogramRequest{
		SelectedItems: toWeighted(req.Selected),
		RejectedItems: toWeighted(req.Rejected),
		BlockIDs:      req.AllIDs,
	}
	var resp histogramResponse
	if err := c.http.PostJSON(ctx, pathHistogram, body, &resp); err != nil {
		return model.TrainingResult{}, fail(span, fmt.Errorf("classifierapi: score: %w", err))
	}
	res, err := toResult(resp)
	if err != nil {
		return model.TrainingResult{}, fail(span, fmt.Errorf("classifierapi: score: %w", err))
	}
	span.SetAttributes(attribute.Int("scored", len(res.Scores)), attribute.Int("bins", res.Histogram.Bins()))
	return res, nil
}

// Health reports whether the backend and its data service are up.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.http.GetJSON(ctx, pathHealth, nil, &resp); err != nil {
		return fmt.Errorf("classifierapi: health: %w", err)
	}
	if resp.Status != "healthy" || resp.DataService != "connected" {
		return fmt.Errorf("classifierapi: unhealthy: status=%s data_service=%s", resp.Status, resp.DataService)
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
