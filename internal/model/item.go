package model

// Item is a code block in the fixed session universe.
type Item struct {
	ID        int    `json:"block_id"`
	FileID    int    `json:"file_id"`
	FilePath  string `json:"file_path"`
	BlockType string `json:"block_type"` // function, class, method, module
	BlockName string `json:"block_name"`
	Language  string `json:"language"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Universe is the full item set of a session plus the metric columns the
// backend trains on.
type Universe struct {
	Items         []Item
	MetricColumns []string
}

// IDs returns the item ids in universe order.
func (u Universe) IDs() []int {
	ids := make([]int, len(u.Items))
	for i, it := range u.Items {
		ids[i] = it.ID
	}
	return ids
}

// Content is the display text of a single item.
type Content struct {
	ID       int
	Code     string
	Language string
}

// Contains reports whether id is part of the universe.
func (u Universe) Contains(id int) bool {
	for _, it := range u.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
