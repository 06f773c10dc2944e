package model

// Category is one of the five mutually exclusive buckets an item falls into.
type Category string

const (
	CategoryConfirmed    Category = "confirmed"     // selected by click
	CategoryAutoSelected Category = "auto_selected" // selected by threshold or prediction
	CategoryRejected     Category = "rejected"      // rejected by click
	CategoryAutoRejected Category = "auto_rejected" // rejected by threshold or prediction
	CategoryUnsure       Category = "unsure"
)

// StackOrder is the bottom-to-top stacking order of histogram segments.
var StackOrder = []Category{
	CategoryRejected,
	CategoryAutoRejected,
	CategoryUnsure,
	CategoryAutoSelected,
	CategoryConfirmed,
}

// Categorize maps a tag to its category. ok=false means unsure.
func Categorize(tag Tag, ok bool) Category {
	if !ok {
		return CategoryUnsure
	}
	switch tag.State {
	case Selected:
		if tag.Source == SourceClick {
			return CategoryConfirmed
		}
		return CategoryAutoSelected
	case Rejected:
		if tag.Source == SourceClick {
			return CategoryRejected
		}
		return CategoryAutoRejected
	}
	return CategoryUnsure
}

// Counts is the five-way category split of the item universe.
type Counts struct {
	Selected     int `json:"selected"`
	SelectedAuto int `json:"selected_auto"`
	Rejected     int `json:"rejected"`
	RejectedAuto int `json:"rejected_auto"`
	Unsure       int `json:"unsure"`
}

// Add increments the bucket for c.
func (c *Counts) Add(cat Category) {
	switch cat {
	case CategoryConfirmed:
		c.Selected++
	case CategoryAutoSelected:
		c.SelectedAuto++
	case CategoryRejected:
		c.Rejected++
	case CategoryAutoRejected:
		c.RejectedAuto++
	default:
		c.Unsure++
	}
}

// Get returns the bucket for c.
func (c Counts) Get(cat Category) int {
	switch cat {
	case CategoryConfirmed:
		return c.Selected
	case CategoryAutoSelected:
		return c.SelectedAuto
	case CategoryRejected:
		return c.Rejected
	case CategoryAutoRejected:
		return c.RejectedAuto
	default:
		return c.Unsure
	}
}

// Total sums all buckets.
func (c Counts) Total() int {
	return c.Selected + c.SelectedAuto + c.Rejected + c.RejectedAuto + c.Unsure
}
