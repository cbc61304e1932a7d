// Package kgstore loads and indexes the component knowledge graph: per-
// part-id category, pin-role mapping, generic constraints, and isolation
// metadata. A single RWMutex guards the two underlying maps even though
// the Store is effectively read-only
// after Load — defensive safety for concurrent Verify calls sharing one
// *Store, per SPEC_FULL.md §5.
package kgstore

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one part's knowledge-graph record.
type Entry struct {
	PartID            string
	Category          string
	PinRoles          map[string]string // pin id or pin name -> role
	Constraints       []GenericConstraint
	IsolationBoundary bool
	PrimaryPins       []string
	SecondaryPins     []string
}

// Store indexes two overlapping tables (a base component table and a KG
// overlay) by part_id. KG entries take precedence over base entries.
type Store struct {
	mu   sync.RWMutex
	base map[string]*Entry
	kg   map[string]*Entry
}

// Option configures a Store at construction time.
type Option func(*Store)

// NewStore builds an empty Store ready to receive LoadBase/LoadKG calls.
func NewStore(opts ...Option) *Store {
	s := &Store{
		base: make(map[string]*Entry),
		kg:   make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadBase installs the base component table. Later calls replace earlier
// ones wholesale (no merge).
func (s *Store) LoadBase(entries []*Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		m[e.PartID] = e
	}
	s.base = m
}

// LoadKG installs the knowledge-graph overlay table.
func (s *Store) LoadKG(entries []*Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		m[e.PartID] = e
	}
	s.kg = m
}

// entry returns the KG entry for partID if present, else the base entry,
// else nil. Caller must hold s.mu (read or write).
func (s *Store) entry(partID string) *Entry {
	if e, ok := s.kg[partID]; ok {
		return e
	}
	if e, ok := s.base[partID]; ok {
		return e
	}
	return nil
}

// GetComponent returns the KG-preferred entry for partID, or false.
func (s *Store) GetComponent(partID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entry(partID)
	return e, e != nil
}

// HasComponent reports whether any entry exists for partID.
func (s *Store) HasComponent(partID string) bool {
	_, ok := s.GetComponent(partID)
	return ok
}

var onePassives = map[string]bool{"R": true, "C": true, "L": true, "D": true}

// Category resolves a component's category following SPEC_FULL.md §4.1's
// fallback order: KG category; reference-designator prefix (R/C/L -> passive,
// D -> passive, Q -> MOSFET); literal part_id match for the one-letter
// passives; a part_id containing "MOSFET" -> MOSFET; otherwise "unknown".
func (s *Store) Category(partID, ref string) string {
	if e, ok := s.GetComponent(partID); ok && e.Category != "" {
		return e.Category
	}
	prefix := refPrefix(ref)
	switch prefix {
	case "R", "C", "L", "D":
		return "passive"
	case "Q":
		return "MOSFET"
	}
	if onePassives[partID] {
		return "passive"
	}
	if strings.Contains(strings.ToUpper(partID), "MOSFET") {
		return "MOSFET"
	}
	return "unknown"
}

func refPrefix(ref string) string {
	for i, r := range ref {
		if r < '0' || r > '9' {
			continue
		}
		return ref[:i]
	}
	return ref
}

// PinRole resolves a pin's role, searching first by pin id then by pin name.
func (s *Store) PinRole(partID, pinID, pinName string) (string, bool) {
	e, ok := s.GetComponent(partID)
	if !ok || e.PinRoles == nil {
		return "", false
	}
	if r, ok := e.PinRoles[pinID]; ok && r != "" {
		return r, true
	}
	if r, ok := e.PinRoles[pinName]; ok && r != "" {
		return r, true
	}
	return "", false
}

// Constraints returns the generic constraints declared for partID, if any.
func (s *Store) Constraints(partID string) []GenericConstraint {
	e, ok := s.GetComponent(partID)
	if !ok {
		return nil
	}
	return e.Constraints
}

// IsolationInfo reports whether partID is an isolation-boundary component
// and, if so, its primary/secondary pin sets.
func (s *Store) IsolationInfo(partID string) (boundary bool, primary, secondary []string) {
	e, ok := s.GetComponent(partID)
	if !ok {
		return false, nil, nil
	}
	return e.IsolationBoundary, e.PrimaryPins, e.SecondaryPins
}

// String implements fmt.Stringer for debugging.
func (e *Entry) String() string {
	return fmt.Sprintf("kgstore.Entry{PartID: %q, Category: %q}", e.PartID, e.Category)
}
