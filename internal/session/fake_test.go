package session

import (
	"context"
	"sync"

	"github.com/crimson-sun/winnow/internal/model"
)

type trainReply struct {
	res model.TrainingResult
	err error
}

type trainCall struct {
	req   model.TrainingRequest
	reply chan trainReply
}

// fakeBackend serves a fixed universe. FetchScores returns results in order,
// repeating the last one, unless calls is set, in which case every call is
// handed to the test to answer.
type fakeBackend struct {
	mu          sync.Mutex
	universe    model.Universe
	diverse     []int
	universeErr error
	diverseErr  error
	scoreErr    error
	results     []model.TrainingResult
	requests    []model.TrainingRequest
	contentHits int
	calls       chan trainCall
}

func newFake(n int) *fakeBackend {
	return &fakeBackend{universe: universeOf(n)}
}

func universeOf(n int) model.Universe {
	u := model.Universe{MetricColumns: []string{"loc", "complexity"}}
	for id := 1; id <= n; id++ {
		u.Items = append(u.Items, model.Item{ID: id, BlockType: "function"})
	}
	return u
}

func (f *fakeBackend) FetchUniverse(context.Context) (model.Universe, error) {
	return f.universe, f.universeErr
}

func (f *fakeBackend) FetchDiverse(_ context.Context, ids []int, n int) ([]int, error) {
	if f.diverseErr != nil {
		return nil, f.diverseErr
	}
	if f.diverse != nil {
		return f.diverse, nil
	}
	return ids[:min(n, len(ids))], nil
}

func (f *fakeBackend) FetchContent(_ context.Context, id int) (model.Content, error) {
	f.mu.Lock()
	f.contentHits++
	f.mu.Unlock()
	return model.Content{ID: id, Code: "def f(): pass", Language: "python"}, nil
}

func (f *fakeBackend) FetchScores(ctx context.Context, req model.TrainingRequest) (model.TrainingResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	calls := f.calls
	f.mu.Unlock()

	if calls != nil {
		reply := make(chan trainReply, 1)
		calls <- trainCall{req: req, reply: reply}
		select {
		case r := <-reply:
			return r.res, r.err
		case <-ctx.Done():
			return model.TrainingResult{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scoreErr != nil {
		return model.TrainingResult{}, f.scoreErr
	}
	if len(f.results) == 0 {
		return model.TrainingResult{}, nil
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

func (f *fakeBackend) lastRequest() model.TrainingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// resultOf wraps scores in a two-bin histogram over [-1, 1].
func resultOf(scores map[int]float64) model.TrainingResult {
	h := model.Histogram{BinEdges: []float64{-1, 0, 1}, Counts: []int{0, 0}, Centers: []float64{-0.5, 0.5}}
	var sum float64
	for _, v := range scores {
		if v < 0 {
			h.Counts[0]++
		} else {
			h.Counts[1]++
		}
		sum += v
	}
	res := model.TrainingResult{Scores: model.Scores(scores), Histogram: h, TotalItems: len(scores)}
	if lo, hi, ok := res.Scores.Range(); ok {
		res.Statistics = model.Statistics{Min: lo, Max: hi, Mean: sum / float64(len(scores))}
	}
	return res
}

type recordingOutput struct {
	mu     sync.Mutex
	events []model.SessionEvent
}

func (r *recordingOutput) Write(_ context.Context, e model.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingOutput) Close() error { return nil }

func (r *recordingOutput) kinds() []model.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}
