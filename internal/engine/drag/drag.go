// Package drag implements the threshold handle interaction: live values are
// updated on every pointer sample and committed once on release.
package drag

import (
	"github.com/crimson-sun/winnow/internal/engine/histogram"
	"github.com/crimson-sun/winnow/internal/model"
)

// DefaultGap is the minimum distance kept between the two handles.
const DefaultGap = 0.01

// Handle identifies which threshold is being dragged.
type Handle int

const (
	None Handle = iota
	Reject
	Select
)

func (h Handle) String() string {
	switch h {
	case Reject:
		return "reject"
	case Select:
		return "select"
	default:
		return "none"
	}
}

// Drag is the live state of a threshold drag.
type Drag struct {
	scale  histogram.Scale
	gap    float64
	live   model.Thresholds
	active Handle
}

// New starts from the committed thresholds t. scale bounds the handles and
// converts pointer positions.
func New(t model.Thresholds, scale histogram.Scale, gap float64) *Drag {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Drag{scale: scale, gap: gap, live: t}
}

// Begin grabs a handle.
func (d *Drag) Begin(h Handle) { d.active = h }

// Active returns the grabbed handle.
func (d *Drag) Active() Handle { return d.active }

// Live returns the current uncommitted thresholds.
func (d *Drag) Live() model.Thresholds { return d.live }

// Move sets the active handle to v, clamped to the scale domain and kept
// gap away from the other handle. It returns the live thresholds.
func (d *Drag) Move(v float64) model.Thresholds {
	switch d.active {
	case Reject:
		d.live.Reject = Clamp(Reject, v, d.live.Select, d.scale, d.gap)
	case Select:
		d.live.Select = Clamp(Select, v, d.live.Reject, d.scale, d.gap)
	}
	return d.live
}

// MovePixel converts a pointer x position to a score and moves the handle.
func (d *Drag) MovePixel(px float64) model.Thresholds {
	return d.Move(d.scale.Invert(px))
}

// End releases the handle and returns the thresholds to commit.
func (d *Drag) End() model.Thresholds {
	d.active = None
	return d.live
}

// Clamp bounds v for handle h given the other handle's value. The lower
// handle stays at or below other-gap, the upper at or above other+gap.
func Clamp(h Handle, v, other float64, scale histogram.Scale, gap float64) float64 {
	v = scale.Clamp(v)
	switch h {
	case Reject:
		if v > other-gap {
			v = other - gap
		}
	case Select:
		if v < other+gap {
			v = other + gap
		}
	}
	return v
}
