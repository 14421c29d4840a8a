package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/storage"
)

// Persister loads and saves the whole store state.
type Persister interface {
	// Load returns the last saved state, or nil, nil on first run.
	Load(ctx context.Context) (*State, error)

	// Save replaces the saved state.
	Save(ctx context.Context, s *State) error
}

// RecordKey is the storage key the state is saved under.
const RecordKey = "layout-storage"

// recordVersion is written into every record. Readers accept any version.
const recordVersion = 0

// RecordPersister saves the state as one JSON record in a storage backend.
type RecordPersister struct {
	backend storage.Backend
	key     string
	// fallback is stamped onto widgets without a type when encoding.
	fallback string
}

// NewRecordPersister creates a persister writing to b under key. An empty key
// selects [RecordKey].
func NewRecordPersister(b storage.Backend, key string) *RecordPersister {
	if key == "" {
		key = RecordKey
	}
	return &RecordPersister{backend: b, key: key, fallback: "bar"}
}

// Key returns the storage key of the record.
func (p *RecordPersister) Key() string { return p.key }

func (p *RecordPersister) Load(ctx context.Context) (*State, error) {
	data, ok, err := p.backend.Get(ctx, p.key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", p.key)
	}
	if !ok {
		return nil, nil
	}
	s, err := DecodeRecord(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", p.key)
	}
	return s, nil
}

func (p *RecordPersister) Save(ctx context.Context, s *State) error {
	data, err := EncodeRecord(s, p.fallback)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", p.key)
	}
	if err := p.backend.Set(ctx, p.key, data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", p.key)
	}
	return nil
}

var _ Persister = (*RecordPersister)(nil)

// =============================================================================
// Record format
// =============================================================================

type record struct {
	State   recordState `json:"state"`
	Version int         `json:"version"`
}

type recordState struct {
	ActiveTab  string               `json:"activeTab"`
	TabLayouts map[string]recordTab `json:"tabLayouts"`

	// Records written before tabs existed hold a single dashboard here.
	Layouts    layout.Layouts `json:"layouts,omitempty"`
	LayoutKeys []int          `json:"layoutKeys,omitempty"`
}

type recordTab struct {
	Layouts    layout.Layouts `json:"layouts"`
	LayoutKeys []int          `json:"layoutKeys"`
}

// EncodeRecord renders s in the persisted record format. Every placement
// carries its widget's chart type; widgets without one get fallback.
func EncodeRecord(s *State, fallback string) ([]byte, error) {
	rec := record{
		State: recordState{
			ActiveTab:  s.ActiveTab,
			TabLayouts: make(map[string]recordTab, len(s.Tabs)),
		},
		Version: recordVersion,
	}
	for id, t := range s.Tabs {
		keys := t.Keys
		if keys == nil {
			keys = []int{}
		}
		rec.State.TabLayouts[id] = recordTab{
			Layouts:    t.Layouts.StampTypes(t.Types, fallback),
			LayoutKeys: keys,
		}
	}
	return json.Marshal(rec)
}

// DecodeRecord parses a persisted record. Chart types are collected from the
// placements, largest tier first, and removed from the geometry.
func DecodeRecord(data []byte) (*State, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	tabs := rec.State.TabLayouts
	if len(tabs) == 0 && rec.State.Layouts != nil {
		tabs = map[string]recordTab{
			DefaultTabs[0].ID: {Layouts: rec.State.Layouts, LayoutKeys: rec.State.LayoutKeys},
		}
		if rec.State.ActiveTab == "" {
			rec.State.ActiveTab = DefaultTabs[0].ID
		}
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("record holds no tabs")
	}

	s := &State{ActiveTab: rec.State.ActiveTab, Tabs: make(map[string]*Tab, len(tabs))}
	for id, rt := range tabs {
		l := rt.Layouts
		if l == nil {
			l = layout.Empty()
		}
		keys := rt.LayoutKeys
		if keys == nil {
			keys = []int{}
		}
		s.Tabs[id] = &Tab{
			Layouts: l.StripTypes(),
			Types:   l.Types(),
			Keys:    keys,
		}
	}
	return s, nil
}

// =============================================================================
// In-memory persister
// =============================================================================

// MemoryPersister keeps the last saved state in memory. Err, when set, is
// returned by every Save.
type MemoryPersister struct {
	mu    sync.Mutex
	state *State
	saves int
	Err   error
}

// NewMemoryPersister creates a persister holding s (nil for first run).
func NewMemoryPersister(s *State) *MemoryPersister {
	return &MemoryPersister{state: s.Clone()}
}

func (m *MemoryPersister) Load(ctx context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *MemoryPersister) Save(ctx context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.state = s.Clone()
	m.saves++
	return nil
}

// Saves returns the number of successful saves.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var _ Persister = (*MemoryPersister)(nil)
