package connector

import (
	"context"
	"time"

	"github.com/crimson-sun/winnow/internal/model"
)

// Catalog serves the item universe and per-item display content.
type Catalog interface {
	// FetchUniverse returns every item of the session and the metric columns.
	FetchUniverse(ctx context.Context) (model.Universe, error)

	// FetchContent returns the display text of one item.
	FetchContent(ctx context.Context, id int) (model.Content, error)
}

// Sampler picks a representative starting subset before any classifier exists.
type Sampler interface {
	// FetchDiverse returns up to n representative ids drawn from ids.
	FetchDiverse(ctx context.Context, ids []int, n int) ([]int, error)
}

// Trainer trains the remote classifier on the weighted labels and scores
// the full universe.
type Trainer interface {
	FetchScores(ctx context.Context, req model.TrainingRequest) (model.TrainingResult, error)
}

// Backend is a complete remote classification service.
type Backend interface {
	Catalog
	Sampler
	Trainer
}

// ConnectorConfig holds provider-specific connection settings.
type ConnectorConfig struct {
	Provider  string
	APIKey    string
	Endpoint  string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	Extra     map[string]string
}
