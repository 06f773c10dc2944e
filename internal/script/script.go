// Package script drives a labeling session from a YAML file or REPL lines.
package script

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ops understood by the executor.
const (
	OpInit       = "init"
	OpSelect     = "select"
	OpReject     = "reject"
	OpClear      = "clear"
	OpTrain      = "train"
	OpThresholds = "thresholds"
	OpDrag       = "drag"
	OpApply      = "apply"
	OpCommit     = "commit"
	OpRestore    = "restore"
	OpStatus     = "status"
	OpBoundary   = "boundary"
	OpShow       = "show"
	OpFocus      = "focus"
)

// ErrUnknownOp is returned for an op name the executor does not know.
var ErrUnknownOp = errors.New("unknown op")

// Step is one session operation.
type Step struct {
	Op     string   `yaml:"op"`
	IDs    []int    `yaml:"ids,omitempty"`
	Source string   `yaml:"source,omitempty"` // click (default), threshold, predicted
	Select *float64 `yaml:"select,omitempty"`
	Reject *float64 `yaml:"reject,omitempty"`
	Commit *int     `yaml:"commit,omitempty"`
	Handle string   `yaml:"handle,omitempty"` // drag: select or reject
	To     *float64 `yaml:"to,omitempty"`     // drag target score
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load reads and validates a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("script: parse: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.Validate(); err != nil {
			return Script{}, fmt.Errorf("script: step %d: %w", i+1, err)
		}
	}
	return s, nil
}

// Validate checks that the step carries the arguments its op needs.
func (s Step) Validate() error {
	switch s.Op {
	case OpInit, OpTrain, OpApply, OpCommit, OpStatus, OpBoundary:
		return nil
	case OpSelect, OpReject, OpClear:
		if len(s.IDs) == 0 {
			return fmt.Errorf("%s: ids required", s.Op)
		}
		switch s.Source {
		case "", "click", "threshold", "predicted":
		default:
			return fmt.Errorf("%s: unknown source %q", s.Op, s.Source)
		}
		return nil
	case OpThresholds:
		if s.Select == nil || s.Reject == nil {
			return fmt.Errorf("thresholds: select and reject required")
		}
		if *s.Reject > *s.Select {
			return fmt.Errorf("thresholds: reject %v above select %v", *s.Reject, *s.Select)
		}
		return nil
	case OpDrag:
		if s.Handle != "select" && s.Handle != "reject" {
			return fmt.Errorf("drag: handle must be select or reject, got %q", s.Handle)
		}
		if s.To == nil {
			return fmt.Errorf("drag: target required")
		}
		return nil
	case OpRestore:
		if s.Commit == nil {
			return fmt.Errorf("restore: commit id required")
		}
		return nil
	case OpShow, OpFocus:
		if len(s.IDs) != 1 {
			return fmt.Errorf("%s: exactly one id required", s.Op)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, s.Op)
}

// ParseLine turns a REPL line into a Step:
//
//	select 1 2 3 [click|threshold|predicted]
//	thresholds 0.5 -0.5
//	drag select 0.62
//	restore 2
//	show 7
func ParseLine(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, errors.New("empty command")
	}
	st := Step{Op: strings.ToLower(fields[0])}
	args := fields[1:]

	switch st.Op {
	case OpSelect, OpReject, OpClear, OpShow, OpFocus:
		for _, a := range args {
			if n, err := strconv.Atoi(a); err == nil {
				st.IDs = append(st.IDs, n)
				continue
			}
			if st.Source != "" {
				return Step{}, fmt.Errorf("%s: unexpected argument %q", st.Op, a)
			}
			st.Source = strings.ToLower(a)
		}
	case OpThresholds:
		if len(args) != 2 {
			return Step{}, errors.New("usage: thresholds <select> <reject>")
		}
		sel, err := parseFloat(args[0])
		if err != nil {
			return Step{}, err
		}
		rej, err := parseFloat(args[1])
		if err != nil {
			return Step{}, err
		}
		st.Select, st.Reject = &sel, &rej
	case OpDrag:
		if len(args) != 2 {
			return Step{}, errors.New("usage: drag <select|reject> <score>")
		}
		to, err := parseFloat(args[1])
		if err != nil {
			return Step{}, err
		}
		st.Handle, st.To = strings.ToLower(args[0]), &to
	case OpRestore:
		if len(args) != 1 {
			return Step{}, errors.New("usage: restore <commit>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return Step{}, fmt.Errorf("restore: %w", err)
		}
		st.Commit = &id
	default:
		if len(args) > 0 {
			return Step{}, fmt.Errorf("%s takes no arguments", st.Op)
		}
	}
	return st, st.Validate()
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
