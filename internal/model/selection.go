package model

// SelectionState is the class an item has been tagged with. Items without a
// state are unsure.
type SelectionState string

const (
	Selected SelectionState = "selected"
	Rejected SelectionState = "rejected"
)

// Valid reports whether s is one of the known states.
func (s SelectionState) Valid() bool {
	return s == Selected || s == Rejected
}

// SelectionSource records how a state was assigned.
type SelectionSource string

const (
	SourceClick     SelectionSource = "click"
	SourceThreshold SelectionSource = "threshold"
	SourcePredicted SelectionSource = "predicted"
)

// Training weights per source.
const (
	ClickWeight     = 1.0
	ThresholdWeight = 0.2
)

// Valid reports whether s is one of the known sources.
func (s SelectionSource) Valid() bool {
	switch s {
	case SourceClick, SourceThreshold, SourcePredicted:
		return true
	}
	return false
}

// Weight returns the training weight of the source. Predicted tags carry no
// weight because they never reach the trainer.
func (s SelectionSource) Weight() float64 {
	switch s {
	case SourceClick:
		return ClickWeight
	case SourceThreshold:
		return ThresholdWeight
	default:
		return 0
	}
}

// Trainable reports whether items with this source are sent to the trainer.
func (s SelectionSource) Trainable() bool {
	return s == SourceClick || s == SourceThreshold
}

// Tag is the state/source pair stored for a tagged item.
type Tag struct {
	State  SelectionState
	Source SelectionSource
}

// Selection holds the per-item state and source maps. The two maps always
// share the same key set. A Selection is treated as immutable: With and
// Without return modified copies and leave the receiver untouched.
type Selection struct {
	states  map[int]SelectionState
	sources map[int]SelectionSource
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		states:  map[int]SelectionState{},
		sources: map[int]SelectionSource{},
	}
}

// Len returns the number of tagged items.
func (s Selection) Len() int { return len(s.states) }

// Get returns the tag for id and whether one exists.
func (s Selection) Get(id int) (Tag, bool) {
	st, ok := s.states[id]
	if !ok {
		return Tag{}, false
	}
	return Tag{State: st, Source: s.sources[id]}, true
}

// State returns the state for id, or "" when the item is unsure.
func (s Selection) State(id int) SelectionState { return s.states[id] }

// Source returns the source for id, or "" when the item is unsure.
func (s Selection) Source(id int) SelectionSource { return s.sources[id] }

// With returns a copy of s with id tagged.
func (s Selection) With(id int, state SelectionState, source SelectionSource) Selection {
	out := s.Clone()
	out.states[id] = state
	out.sources[id] = source
	return out
}

// Without returns a copy of s with id untagged.
func (s Selection) Without(id int) Selection {
	if _, ok := s.states[id]; !ok {
		return s
	}
	out := s.Clone()
	delete(out.states, id)
	delete(out.sources, id)
	return out
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := Selection{
		states:  make(map[int]SelectionState, len(s.states)),
		sources: make(map[int]SelectionSource, len(s.sources)),
	}
	for id, st := range s.states {
		out.states[id] = st
		out.sources[id] = s.sources[id]
	}
	return out
}

// Equal reports value equality.
func (s Selection) Equal(o Selection) bool {
	if len(s.states) != len(o.states) {
		return false
	}
	for id, st := range s.states {
		if o.states[id] != st || o.sources[id] != s.sources[id] {
			return false
		}
	}
	return true
}

// Each calls fn for every tagged item in unspecified order.
func (s Selection) Each(fn func(id int, tag Tag)) {
	for id, st := range s.states {
		fn(id, Tag{State: st, Source: s.sources[id]})
	}
}

// States returns a copy of the state map.
func (s Selection) States() map[int]SelectionState {
	out := make(map[int]SelectionState, len(s.states))
	for id, st := range s.states {
		out[id] = st
	}
	return out
}

// Sources returns a copy of the source map.
func (s Selection) Sources() map[int]SelectionSource {
	out := make(map[int]SelectionSource, len(s.sources))
	for id, src := range s.sources {
		out[id] = src
	}
	return out
}

// Builder accumulates many edits on a private copy and produces a Selection
// in one step. Used by bulk transitions such as threshold application.
type Builder struct {
	sel Selection
}

// NewBuilder starts a builder from a copy of base.
func NewBuilder(base Selection) *Builder {
	return &Builder{sel: base.Clone()}
}

// Set tags id.
func (b *Builder) Set(id int, state SelectionState, source SelectionSource) {
	b.sel.states[id] = state
	b.sel.sources[id] = source
}

// Delete untags id.
func (b *Builder) Delete(id int) {
	delete(b.sel.states, id)
	delete(b.sel.sources, id)
}

// Selection returns the built selection. The builder must not be used after.
func (b *Builder) Selection() Selection {
	out := b.sel
	b.sel = Selection{}
	return out
}
