// Package segment implements donor segmentation: five fixed built-in
// groups, free-text criteria for custom groups, and the filter engine
// that resolves a group to its matching donors.
package segment

import (
	"time"
)

// MaxBuiltinID is the highest reserved group identifier. Groups with an
// ID at or below this value are built in and cannot be edited or deleted.
const MaxBuiltinID = 5

// Group is a donor segment. Built-in groups (ID 1-5) carry hardcoded
// matching logic; custom groups (ID > 5) match via their Criteria strings.
type Group struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Criteria    []string  `json:"criteria"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	// DonorCount is derived by running the filter engine over the current
	// donor list. It is recomputed on read and never persisted as truth.
	DonorCount int `json:"donor_count"`
}

// Builtin reports whether the group's identifier is reserved.
func (g Group) Builtin() bool {
	return g.ID <= MaxBuiltinID
}
