package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/winnow/internal/model"
	"github.com/crimson-sun/winnow/internal/output"
)

func commitEvent(id int) model.SessionEvent {
	return model.SessionEvent{
		Kind:       model.EventCommit,
		SessionID:  "s-1",
		CommitID:   id,
		CommitType: model.CommitManual,
		Counts:     &model.Counts{Selected: 3, Rejected: 3, Unsure: 14},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := strings.TrimSpace(string(data))
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestWritesNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	out, err := New(path, output.Standard)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, out.Write(context.Background(), commitEvent(i)))
	}
	require.NoError(t, out.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	for i, line := range lines {
		var ev model.SessionEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		assert.Equal(t, i+1, ev.CommitID)
		require.NotNil(t, ev.Counts)
		assert.Equal(t, 14, ev.Counts.Unsure)
	}
}

func TestAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	out, err := New(path, output.Standard)
	require.NoError(t, err)
	out.Write(context.Background(), commitEvent(1))
	out.Close()

	assert.Len(t, readLines(t, path), 2)
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	out, err := New(path, output.Standard, WithMaxSize(150), WithMaxBackups(2))
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		require.NoError(t, out.Write(context.Background(), commitEvent(i)))
	}
	require.NoError(t, out.Close())

	for _, p := range []string{path, path + ".1", path + ".2"} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	_, err = os.Stat(fmt.Sprintf("%s.%d", path, 3))
	assert.True(t, os.IsNotExist(err), "backups beyond the limit are removed")
	assert.NotEmpty(t, readLines(t, path))
}

func TestFlushWithoutClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	out, err := New(path, output.Standard)
	require.NoError(t, err)
	defer out.Close()

	out.Write(context.Background(), commitEvent(1))
	require.NoError(t, out.Flush())
	assert.Len(t, readLines(t, path), 1)
}

func TestMinimalStripsCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	out, err := New(path, output.Minimal)
	require.NoError(t, err)

	out.Write(context.Background(), commitEvent(1))
	out.Close()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(readLines(t, path)[0]), &m))
	assert.NotContains(t, m, "counts")
	assert.Equal(t, float64(1), m["commit_id"])
}

func TestConcurrentWritesSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	out, err := New(path, output.Standard)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out.Write(context.Background(), commitEvent(i))
		}(i)
	}
	wg.Wait()
	out.Close()

	assert.Len(t, readLines(t, path), 50)
}

func TestOpenFailure(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "events.jsonl"), output.Standard)
	assert.Error(t, err)
}
