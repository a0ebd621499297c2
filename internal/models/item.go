package models

// MinItemNameLen is the minimum length of a wishlist item name after
// trimming surrounding whitespace.
const MinItemNameLen = 3

// Item represents a single wishlist entry.
//
// Items belong to exactly one username and are addressed by their position
// in that user's list. The positional index is not a stable identifier:
// removing an item shifts every later index down by one, and callers must
// tolerate that.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
