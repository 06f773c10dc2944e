package classifierapi

import (
	"fmt"
	"strconv"

	"github.com/crimson-sun/winnow/internal/model"
)

type blockListResponse struct {
	Blocks        []model.Item `json:"blocks"`
	MetricColumns []string     `json:"metric_columns"`
	TotalBlocks   int          `json:"total_blocks"`
}

type blockCodeResponse struct {
	BlockID  int    `json:"block_id"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type coldStartRequest struct {
	BlockIDs       []int `json:"block_ids"`
	NumSuggestions int   `json:"num_suggestions"`
}

type coldStartResponse struct {
	SuggestionIDs []int `json:"suggestion_ids"`
}

type weightedBlockID struct {
	ID     int    `json:"id"`
	Source string `json:"source"`
}

type histogramRequest struct {
	SelectedItems []weightedBlockID `json:"selected_items"`
	RejectedItems []weightedBlockID `json:"rejected_items"`
	BlockIDs      []int             `json:"block_ids"`
}

type histogramData struct {
	Bins     []float64 `json:"bins"`
	Counts   []int     `json:"counts"`
	BinEdges []float64 `json:"bin_edges"`
}

type committeeVoteInfo struct {
	SVMPrediction int     `json:"svm_prediction"`
	RFPrediction  int     `json:"rf_prediction"`
	MLPPrediction int     `json:"mlp_prediction"`
	VoteEntropy   float64 `json:"vote_entropy"`
}

type histogramResponse struct {
	Scores         map[string]float64           `json:"scores"`
	Histogram      histogramData                `json:"histogram"`
	Statistics     model.Statistics             `json:"statistics"`
	TotalItems     int                          `json:"total_items"`
	CommitteeVotes map[string]committeeVoteInfo `json:"committee_votes"`
}

type healthResponse struct {
	Status      string `json:"status"`
	DataService string `json:"data_service"`
}

func toWeighted(items []model.WeightedItem) []weightedBlockID {
	out := make([]weightedBlockID, len(items))
	for i, it := range items {
		out[i] = weightedBlockID{ID: it.ID, Source: string(it.Source)}
	}
	return out
}

// toResult converts the wire response. Score and vote maps are keyed by the
// decimal block id.
func toResult(resp histogramResponse) (model.TrainingResult, error) {
	h := resp.Histogram
	if len(h.Counts) > 0 && len(h.BinEdges) != len(h.Counts)+1 {
		return model.TrainingResult{}, fmt.Errorf("malformed histogram: %d edges for %d bins", len(h.BinEdges), len(h.Counts))
	}

	scores := make(model.Scores, len(resp.Scores))
	for k, v := range resp.Scores {
		id, err := strconv.Atoi(k)
		if err != nil {
			return model.TrainingResult{}, fmt.Errorf("score key %q: %w", k, err)
		}
		scores[id] = v
	}

	var votes map[int]model.CommitteeVote
	if resp.CommitteeVotes != nil {
		votes = make(map[int]model.CommitteeVote, len(resp.CommitteeVotes))
		for k, v := range resp.CommitteeVotes {
			id, err := strconv.Atoi(k)
			if err != nil {
				return model.TrainingResult{}, fmt.Errorf("vote key %q: %w", k, err)
			}
			votes[id] = model.CommitteeVote{
				SVM:         v.SVMPrediction,
				RF:          v.RFPrediction,
				MLP:         v.MLPPrediction,
				VoteEntropy: v.VoteEntropy,
			}
		}
	}

	return model.TrainingResult{
		Scores: scores,
		Histogram: model.Histogram{
			BinEdges: h.BinEdges,
			Counts:   h.Counts,
			Centers:  h.Bins,
		},
		Statistics:     resp.Statistics,
		TotalItems:     resp.TotalItems,
		CommitteeVotes: votes,
	}, nil
}
