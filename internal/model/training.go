package model

// Scores maps item id to the signed decision margin of the latest classifier
// run. Positive favours Selected, negative favours Rejected.
type Scores map[int]float64

// Range returns the minimum and maximum score. ok is false for an empty map.
func (s Scores) Range() (lo, hi float64, ok bool) {
	for _, v := range s {
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// Histogram is the score distribution returned by the trainer. BinEdges has
// len(Counts)+1 entries.
type Histogram struct {
	BinEdges []float64
	Counts   []int
	Centers  []float64
}

// Bins returns the number of bins.
func (h Histogram) Bins() int { return len(h.Counts) }

// Statistics summarises the score distribution.
type Statistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// CommitteeVote is the per-item vote of each committee member (1 = selected
// side) plus the vote entropy, 0 when unanimous.
type CommitteeVote struct {
	SVM         int
	RF          int
	MLP         int
	VoteEntropy float64
}

// Unanimous reports whether all members agree.
func (v CommitteeVote) Unanimous() bool {
	return v.SVM == v.RF && v.RF == v.MLP
}

// WeightedItem is one training example with the source that determines its
// weight.
type WeightedItem struct {
	ID     int
	Source SelectionSource
}

// TrainingRequest is sent to the trainer. AllIDs is the full universe to score.
type TrainingRequest struct {
	Selected []WeightedItem
	Rejected []WeightedItem
	AllIDs   []int
}

// TrainingResult is a complete trainer response. CommitteeVotes may be nil.
type TrainingResult struct {
	Scores         Scores
	Histogram      Histogram
	Statistics     Statistics
	TotalItems     int
	CommitteeVotes map[int]CommitteeVote
}
