package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// CompileCatalog parses a CUE value into a CatalogSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the root of a catalog, e.g.:
//
//	source: MGL_3_9B: { label: "...", kind: "STATUTE" }
//	tier: T30K: { base_amount: 30000, source: "MGL_3_9B" }
//	role: HOUSE_RULES_CHAIR: { title: "...", domain: "COMMITTEE", chamber: "house", stipend_tier: "T30K" }
//	chamber_rules: house: { max_chairs: 1, max_positions: 1, source: "MGL_3_9B" }
//
// Cross references (tier and source ids) are not resolved here; see
// audit.ValidateCatalog.
func CompileCatalog(v cue.Value) (*ir.CatalogSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.CatalogSpec{}
	var err error

	if spec.Sources, err = compileBlock(v, "source", compileSource); err != nil {
		return nil, err
	}
	if spec.Tiers, err = compileBlock(v, "tier", compileTier); err != nil {
		return nil, err
	}
	if spec.Roles, err = compileBlock(v, "role", compileRole); err != nil {
		return nil, err
	}
	if spec.ChamberRules, err = compileBlock(v, "chamber_rules", compileChamberRules); err != nil {
		return nil, err
	}

	if len(spec.Roles) == 0 {
		return nil, &CompileError{
			Field:   "role",
			Message: "at least one role is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// compileBlock walks the fields of an optional top-level struct in
// declaration order.
func compileBlock[T any](v cue.Value, name string, fn func(label string, v cue.Value) (T, error)) ([]T, error) {
	blockVal := v.LookupPath(cue.ParsePath(name))
	if !blockVal.Exists() {
		return nil, nil
	}

	iter, err := blockVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []T
	for iter.Next() {
		item, err := fn(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func compileSource(id string, v cue.Value) (ir.SourceRef, error) {
	ref := ir.SourceRef{ID: id}
	var err error

	if ref.Label, err = requiredString(v, "label"); err != nil {
		return ref, err
	}
	kind, err := requiredString(v, "kind")
	if err != nil {
		return ref, err
	}
	ref.Kind = ir.SourceKind(kind)
	if !ir.ValidSourceKinds[ref.Kind] {
		return ref, &CompileError{
			Field:   "source." + id + ".kind",
			Message: fmt.Sprintf("unknown source kind %q", kind),
			Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
		}
	}
	if ref.URL, err = optionalString(v, "url"); err != nil {
		return ref, err
	}

	detailsVal := v.LookupPath(cue.ParsePath("details"))
	if detailsVal.Exists() {
		iter, err := detailsVal.List()
		if err != nil {
			return ref, formatCUEError(err)
		}
		for iter.Next() {
			d, err := iter.Value().String()
			if err != nil {
				return ref, formatCUEError(err)
			}
			ref.Details = append(ref.Details, d)
		}
	}

	return ref, nil
}

func compileTier(id string, v cue.Value) (ir.StipendTier, error) {
	tier := ir.StipendTier{ID: id}

	amountVal := v.LookupPath(cue.ParsePath("base_amount"))
	if !amountVal.Exists() {
		return tier, &CompileError{
			Field:   "tier." + id + ".base_amount",
			Message: "base_amount is required",
			Pos:     v.Pos(),
		}
	}
	if amountVal.IncompleteKind() != cue.IntKind {
		return tier, &CompileError{
			Field:   "tier." + id + ".base_amount",
			Message: "base_amount must be a whole-dollar int",
			Pos:     amountVal.Pos(),
		}
	}
	amount, err := amountVal.Int64()
	if err != nil {
		return tier, formatCUEError(err)
	}
	tier.BaseAmount = amount

	if tier.SourceID, err = requiredString(v, "source"); err != nil {
		return tier, err
	}
	return tier, nil
}

func compileRole(code string, v cue.Value) (ir.RoleDefinition, error) {
	role := ir.RoleDefinition{Code: code}
	var err error

	if role.Title, err = requiredString(v, "title"); err != nil {
		return role, err
	}

	domain, err := requiredString(v, "domain")
	if err != nil {
		return role, err
	}
	role.Domain = ir.RoleDomain(domain)
	if !ir.ValidRoleDomains[role.Domain] {
		return role, &CompileError{
			Field:   "role." + code + ".domain",
			Message: fmt.Sprintf("unknown role domain %q", domain),
			Pos:     v.LookupPath(cue.ParsePath("domain")).Pos(),
		}
	}

	chamber, err := optionalString(v, "chamber")
	if err != nil {
		return role, err
	}
	if chamber != "" {
		if role.Chamber, err = ir.ParseChamber(chamber); err != nil {
			return role, &CompileError{
				Field:   "role." + code + ".chamber",
				Message: err.Error(),
				Pos:     v.LookupPath(cue.ParsePath("chamber")).Pos(),
			}
		}
	}

	if role.CommitteeCode, err = optionalString(v, "committee"); err != nil {
		return role, err
	}

	crt, err := optionalString(v, "committee_role")
	if err != nil {
		return role, err
	}
	if crt != "" {
		role.CommitteeRoleType = ir.CommitteeRoleType(crt)
		if !ir.ValidCommitteeRoleTypes[role.CommitteeRoleType] {
			return role, &CompileError{
				Field:   "role." + code + ".committee_role",
				Message: fmt.Sprintf("unknown committee role type %q", crt),
				Pos:     v.LookupPath(cue.ParsePath("committee_role")).Pos(),
			}
		}
	}

	if role.StipendTierID, err = optionalString(v, "stipend_tier"); err != nil {
		return role, err
	}
	return role, nil
}

func compileChamberRules(chamber string, v cue.Value) (ir.ChamberRuleSpec, error) {
	rules := ir.ChamberRuleSpec{Chamber: chamber}

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"max_chairs", &rules.MaxChairs},
		{"max_positions", &rules.MaxPositions},
	} {
		fv := v.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			return rules, &CompileError{
				Field:   "chamber_rules." + chamber + "." + f.name,
				Message: f.name + " is required",
				Pos:     v.Pos(),
			}
		}
		n, err := fv.Int64()
		if err != nil {
			return rules, formatCUEError(err)
		}
		*f.dst = int(n)
	}

	var err error
	if rules.SourceID, err = requiredString(v, "source"); err != nil {
		return rules, err
	}
	return rules, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   pathString(v) + field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func pathString(v cue.Value) string {
	p := v.Path().String()
	if p == "" {
		return ""
	}
	return p + "."
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
