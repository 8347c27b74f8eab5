// Package catalog holds the read-only role, tier, citation and chamber-rule
// tables that every computation is priced against.
//
// A Catalog is built once from a compiled ir.CatalogSpec and never mutated,
// so it may be shared by any number of goroutines.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/audit"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Catalog is an immutable lookup table.
type Catalog struct {
	roles        map[string]ir.RoleDefinition
	tiers        map[string]ir.StipendTier
	sources      map[string]ir.SourceRef
	rules        map[ir.Chamber]ir.ChamberRules
	defaultRules ir.ChamberRules
}

// InvalidError is returned by New when the spec has error-level audit
// issues.
type InvalidError struct {
	Issues []audit.Issue
}

func (e *InvalidError) Error() string {
	errs := audit.Errors(e.Issues)
	lines := make([]string, len(errs))
	for i, issue := range errs {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("invalid catalog (%d errors):\n  %s", len(errs), strings.Join(lines, "\n  "))
}

// New validates spec and builds a Catalog. A spec with any error-level
// issue is refused, so no lookup can reach a dangling tier or citation.
func New(spec *ir.CatalogSpec) (*Catalog, error) {
	issues := audit.ValidateCatalog(spec)
	if audit.HasErrors(issues) {
		return nil, &InvalidError{Issues: issues}
	}

	c := &Catalog{
		roles:   make(map[string]ir.RoleDefinition, len(spec.Roles)),
		tiers:   make(map[string]ir.StipendTier, len(spec.Tiers)),
		sources: make(map[string]ir.SourceRef, len(spec.Sources)),
		rules:   make(map[ir.Chamber]ir.ChamberRules, len(spec.ChamberRules)),
	}
	for _, s := range spec.Sources {
		c.sources[s.ID] = s
	}
	for _, t := range spec.Tiers {
		c.tiers[t.ID] = t
	}
	for _, r := range spec.Roles {
		c.roles[r.Code] = r
	}
	for _, r := range spec.ChamberRules {
		rules := ir.ChamberRules{
			MaxChairs:    r.MaxChairs,
			MaxPositions: r.MaxPositions,
			Source:       c.sources[r.SourceID],
		}
		if r.Chamber == ir.DefaultRulesKey {
			c.defaultRules = rules
			continue
		}
		rules.Chamber = ir.Chamber(r.Chamber)
		c.rules[rules.Chamber] = rules
	}
	return c, nil
}

// Role returns the definition for code.
func (c *Catalog) Role(code string) (ir.RoleDefinition, error) {
	r, ok := c.roles[code]
	if !ok {
		return ir.RoleDefinition{}, &LookupError{Code: ErrCodeUnknownRole, Key: code}
	}
	return r, nil
}

// Tier returns a tier's base amount cited to the tier's source.
func (c *Catalog) Tier(id string) (ir.AmountWithProvenance, error) {
	t, ok := c.tiers[id]
	if !ok {
		return ir.AmountWithProvenance{}, &LookupError{Code: ErrCodeUnknownTier, Key: id}
	}
	return ir.From(t.BaseAmount, c.sources[t.SourceID]), nil
}

// TierDefinition returns the raw tier entry.
func (c *Catalog) TierDefinition(id string) (ir.StipendTier, error) {
	t, ok := c.tiers[id]
	if !ok {
		return ir.StipendTier{}, &LookupError{Code: ErrCodeUnknownTier, Key: id}
	}
	return t, nil
}

// Source returns the citation registered under id.
func (c *Catalog) Source(id string) (ir.SourceRef, error) {
	s, ok := c.sources[id]
	if !ok {
		return ir.SourceRef{}, &LookupError{Code: ErrCodeUnknownSource, Key: id}
	}
	return s, nil
}

// ChamberRules returns the caps for chamber. It never fails: a chamber
// without its own entry gets the default rules.
func (c *Catalog) ChamberRules(chamber ir.Chamber) ir.ChamberRules {
	if r, ok := c.rules[chamber]; ok {
		return r
	}
	r := c.defaultRules
	r.Chamber = chamber
	return r
}

// Sources returns every registered citation in ID order.
func (c *Catalog) Sources() ir.SourceSet {
	refs := make([]ir.SourceRef, 0, len(c.sources))
	for _, s := range c.sources {
		refs = append(refs, s)
	}
	return ir.NewSourceSet(refs...)
}

// Roles returns every role definition ordered by code.
func (c *Catalog) Roles() []ir.RoleDefinition {
	out := make([]ir.RoleDefinition, 0, len(c.roles))
	for _, r := range c.roles {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b ir.RoleDefinition) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}

// Tiers returns every tier, highest base amount first, then by id.
func (c *Catalog) Tiers() []ir.StipendTier {
	out := make([]ir.StipendTier, 0, len(c.tiers))
	for _, t := range c.tiers {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b ir.StipendTier) int {
		if n := cmp.Compare(b.BaseAmount, a.BaseAmount); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
