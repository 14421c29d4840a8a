// Package pkg provides the core libraries of gridboard, the layout store behind
// a tabbed chart dashboard.
//
// # Overview
//
// A dashboard has tabs; a tab has widgets; a widget has a chart type and one
// placement at each of six responsive breakpoints. The libraries are split by
// concern:
//
//  1. [layout] - Breakpoints, placements and the row-major placement policy
//  2. [charts] - Chart-type registry and rendering options
//  3. [store] - The authoritative layout state and its mutations
//  4. [storage] - Durable backends (file, sqlite, redis, mongo)
//  5. [errors] - Coded errors shared by the CLI and the HTTP API
//  6. [observability] - Hooks for mutation, storage and request events
//
// # Data flow
//
//	HTTP API / CLI
//	      ↓
//	 [store] (validate, merge, assign ids)
//	      ↓
//	 [store.RecordPersister] (one JSON record per dashboard)
//	      ↓
//	 [storage] backend
//
// # Quick Start
//
//	b, _ := storage.Open(ctx, storage.Config{Backend: storage.BackendSQLite})
//	st, _ := store.New(ctx, store.Options{Persister: store.NewRecordPersister(b, "")})
//	id, _ := st.AddChart(ctx, "pie", nil)
//	snap := st.Snapshot() // active tab, chart types stamped on every placement
//
// [layout]: github.com/matzehuels/gridboard/pkg/layout
// [charts]: github.com/matzehuels/gridboard/pkg/charts
// [store]: github.com/matzehuels/gridboard/pkg/store
// [store.RecordPersister]: github.com/matzehuels/gridboard/pkg/store#RecordPersister
// [storage]: github.com/matzehuels/gridboard/pkg/storage
// [errors]: github.com/matzehuels/gridboard/pkg/errors
// [observability]: github.com/matzehuels/gridboard/pkg/observability
package pkg
