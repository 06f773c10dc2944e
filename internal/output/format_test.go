package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/winnow/internal/model"
)

func baseEvent() model.SessionEvent {
	return model.SessionEvent{
		Kind:       model.EventCommit,
		SessionID:  "8d7c0f3e",
		Timestamp:  time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC),
		Stage:      model.StageApply,
		CommitID:   2,
		CommitType: model.CommitThreshold,
		Counts:     &model.Counts{Selected: 3, SelectedAuto: 4, Rejected: 3, Unsure: 10},
		Thresholds: &model.Thresholds{Select: 0.5, Reject: -0.5},
	}
}

func TestFormatEventMinimal(t *testing.T) {
	e := FormatEvent(baseEvent(), Minimal)

	assert.Nil(t, e.Counts)
	assert.Nil(t, e.Thresholds)
	assert.Equal(t, model.EventCommit, e.Kind)
	assert.Equal(t, 2, e.CommitID)
}

func TestFormatEventStandardAndFull(t *testing.T) {
	for _, v := range []Verbosity{Standard, Full} {
		e := FormatEvent(baseEvent(), v)
		require.NotNil(t, e.Counts)
		assert.Equal(t, 4, e.Counts.SelectedAuto)
		require.NotNil(t, e.Thresholds)
	}
}

func TestFormatEventDoesNotMutateInput(t *testing.T) {
	in := baseEvent()
	_ = FormatEvent(in, Minimal)
	assert.NotNil(t, in.Counts)
}

func TestParseVerbosity(t *testing.T) {
	assert.Equal(t, Minimal, ParseVerbosity("MINIMAL"))
	assert.Equal(t, Full, ParseVerbosity("full"))
	assert.Equal(t, Standard, ParseVerbosity("loud"))
}

func TestJSONTagNames(t *testing.T) {
	data, err := json.Marshal(baseEvent())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"kind", "session_id", "timestamp", "stage", "commit_id", "commit_type", "counts", "thresholds"} {
		assert.Contains(t, m, key)
	}
	counts, ok := m["counts"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), counts["selected_auto"])
}

func TestIterationFieldsOmittedWhenZero(t *testing.T) {
	data, err := json.Marshal(FormatEvent(baseEvent(), Minimal))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "iteration")
	assert.NotContains(t, m, "flip_rate")
	assert.NotContains(t, m, "counts")
}
