package ir

import (
	"encoding/json"
	"slices"
	"strings"
)

// SourceKind classifies where a citation comes from.
type SourceKind string

const (
	SourceStatute         SourceKind = "STATUTE"
	SourceOfficialWebsite SourceKind = "OFFICIAL_WEBSITE"
	SourceEconomicSeries  SourceKind = "ECONOMIC_SERIES"
	SourceDataFile        SourceKind = "DATA_FILE"
	SourceCalculation     SourceKind = "CALCULATION"
	SourceManualOverride  SourceKind = "MANUAL_OVERRIDE"
)

// ValidSourceKinds defines allowed source kinds.
var ValidSourceKinds = map[SourceKind]bool{
	SourceStatute:         true,
	SourceOfficialWebsite: true,
	SourceEconomicSeries:  true,
	SourceDataFile:        true,
	SourceCalculation:     true,
	SourceManualOverride:  true,
}

// SourceRef is an immutable citation. Identity is ID.
type SourceRef struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Kind    SourceKind `json:"kind"`
	URL     string     `json:"url,omitempty"`
	Details []string   `json:"details,omitempty"`
}

// SourceSet is a set of citations keyed by ID.
//
// The zero value is an empty set. A SourceSet is never mutated after
// construction; Union returns a new set.
type SourceSet struct {
	refs []SourceRef // sorted by ID, unique
}

// NewSourceSet builds a set from refs. When two refs share an ID the first
// one wins.
func NewSourceSet(refs ...SourceRef) SourceSet {
	if len(refs) == 0 {
		return SourceSet{}
	}
	out := make([]SourceRef, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b SourceRef) int {
		return strings.Compare(a.ID, b.ID)
	})
	return SourceSet{refs: out}
}

// Union returns a set holding every citation of s and others.
func (s SourceSet) Union(others ...SourceSet) SourceSet {
	total := len(s.refs)
	for _, o := range others {
		total += len(o.refs)
	}
	if total == len(s.refs) {
		return s
	}
	all := make([]SourceRef, 0, total)
	all = append(all, s.refs...)
	for _, o := range others {
		all = append(all, o.refs...)
	}
	return NewSourceSet(all...)
}

// With returns s plus refs.
func (s SourceSet) With(refs ...SourceRef) SourceSet {
	return s.Union(NewSourceSet(refs...))
}

// Len returns the number of distinct citations.
func (s SourceSet) Len() int {
	return len(s.refs)
}

// Contains reports whether a citation with the given ID is present.
func (s SourceSet) Contains(id string) bool {
	_, found := slices.BinarySearchFunc(s.refs, id, func(r SourceRef, id string) int {
		return strings.Compare(r.ID, id)
	})
	return found
}

// IDs returns the citation IDs in ascending order.
func (s SourceSet) IDs() []string {
	ids := make([]string, len(s.refs))
	for i, r := range s.refs {
		ids[i] = r.ID
	}
	return ids
}

// Refs returns a copy of the citations in ascending ID order.
func (s SourceSet) Refs() []SourceRef {
	return slices.Clone(s.refs)
}

// Equal reports whether both sets hold the same citation IDs.
func (s SourceSet) Equal(o SourceSet) bool {
	return slices.Equal(s.IDs(), o.IDs())
}

// MarshalJSON emits the citations as an array ordered by ID.
func (s SourceSet) MarshalJSON() ([]byte, error) {
	if s.refs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.refs)
}

// UnmarshalJSON reads an array of citations, deduplicating by ID.
func (s *SourceSet) UnmarshalJSON(data []byte) error {
	var refs []SourceRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	*s = NewSourceSet(refs...)
	return nil
}

// toIRValue renders the set for canonical hashing.
func (s SourceSet) toIRValue() IRArray {
	arr := make(IRArray, len(s.refs))
	for i, r := range s.refs {
		obj := IRObject{
			"id":    IRString(r.ID),
			"label": IRString(r.Label),
			"kind":  IRString(string(r.Kind)),
		}
		if r.URL != "" {
			obj["url"] = IRString(r.URL)
		}
		if len(r.Details) > 0 {
			details := make(IRArray, len(r.Details))
			for j, d := range r.Details {
				details[j] = IRString(d)
			}
			obj["details"] = details
		}
		arr[i] = obj
	}
	return arr
}
