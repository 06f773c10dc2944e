package model

// Stage is the advisory workflow marker. It never gates operations.
type Stage string

const (
	StageBootstrap Stage = "bootstrap"
	StageLearn     Stage = "learn"
	StageApply     Stage = "apply"
)

// Thresholds are the auto-tagging cutoffs. Reject <= Select.
type Thresholds struct {
	Select float64 `json:"select"`
	Reject float64 `json:"reject"`
}

// PredictionCounts tallies predicted classes of one training iteration.
type PredictionCounts struct {
	Selected int `json:"selected"`
	Rejected int `json:"rejected"`
}

// FlipEntry records how many predictions changed between two consecutive
// training iterations.
type FlipEntry struct {
	Iteration   int              `json:"iteration"`
	FlipRate    float64          `json:"flip_rate"`
	Flips       int              `json:"flips"`
	Overlap     int              `json:"overlap"`
	Predictions PredictionCounts `json:"predictions"`
}
