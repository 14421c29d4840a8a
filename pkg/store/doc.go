// Package store holds the authoritative dashboard layout state.
//
// A [Store] owns one [Tab] per dashboard tab, each with its per-breakpoint
// layouts, its ordered widget keys and a chart type per widget. Exactly one
// tab is active and all mutations target it. The four mutations are:
//
//   - [Store.SetActiveTab] switches the active tab
//   - [Store.UpdateLayouts] applies geometry reported by the grid library
//   - [Store.AddChart] appends a new widget
//   - [Store.DeleteChart] removes a widget from every tier
//
// Mutations are serialised, built on a copy of the current state, saved
// through the [Persister] and only then swapped in. A failed save leaves the
// store unchanged.
//
// Chart types are stored once per widget in [Tab.Types]. Placements returned
// by [Store.Snapshot] have the type stamped on for the view layer; types sent
// back in geometry updates are ignored.
//
// # Persistence
//
// [RecordPersister] writes the state as a single JSON record under the key
// "layout-storage":
//
//	{"state":{"activeTab":"1","tabLayouts":{"1":{"layouts":{...},"layoutKeys":[0]}}},"version":0}
package store
