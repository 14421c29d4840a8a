package store

import (
	"fmt"

	"github.com/matzehuels/gridboard/pkg/layout"
)

// Issue names one widget at one breakpoint.
type Issue struct {
	Breakpoint layout.Breakpoint `json:"breakpoint"`
	ID         string            `json:"id"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s/%s", i.Breakpoint, i.ID)
}

// UpdateReport describes how a geometry update was reconciled with the
// stored widget set.
type UpdateReport struct {
	Tab string `json:"tab"`
	// Applied counts placements taken from the update.
	Applied int `json:"applied"`
	// Dropped lists placements for widgets the tab does not have, and
	// repeated placements of one widget within a tier.
	Dropped []Issue `json:"dropped,omitempty"`
	// Kept lists stored placements retained because the update omitted them.
	Kept []Issue `json:"kept,omitempty"`
	// MissingTiers lists breakpoints absent from the update; they keep their
	// stored placements.
	MissingTiers []layout.Breakpoint `json:"missingTiers,omitempty"`
	// IgnoredTiers lists unrecognised breakpoint names in the update.
	IgnoredTiers []string `json:"ignoredTiers,omitempty"`
	// Fallbacks lists widgets that had no chart type and were given the
	// default one.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Clean reports whether the update matched the stored widget set exactly.
func (r *UpdateReport) Clean() bool {
	return len(r.Dropped) == 0 && len(r.Kept) == 0 && len(r.MissingTiers) == 0 &&
		len(r.IgnoredTiers) == 0 && len(r.Fallbacks) == 0
}

// Snapshot is a read-only view of one tab, with chart types stamped onto
// every placement.
type Snapshot struct {
	Tab     string            `json:"tab"`
	Layouts layout.Layouts    `json:"layouts"`
	Keys    []int             `json:"layoutKeys"`
	Types   map[string]string `json:"types"`
}
