package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// ValidateCatalog checks a compiled catalog for dangling references and
// malformed entries. Returns all issues found (does not fail-fast).
func ValidateCatalog(spec *ir.CatalogSpec) []Issue {
	var issues []Issue

	sources := make(map[string]bool, len(spec.Sources))
	for _, s := range spec.Sources {
		if sources[s.ID] {
			issues = append(issues, Error(CodeDuplicateSourceID,
				fmt.Sprintf("source %s is declared more than once", s.ID),
				"source_id", s.ID))
		}
		sources[s.ID] = true
	}

	tiers := make(map[string]bool, len(spec.Tiers))
	for _, t := range spec.Tiers {
		if tiers[t.ID] {
			issues = append(issues, Error(CodeDuplicateTierID,
				fmt.Sprintf("tier %s is declared more than once", t.ID),
				"stipend_tier_id", t.ID))
		}
		tiers[t.ID] = true
		if t.BaseAmount < 0 {
			issues = append(issues, Error(CodeNegativeTierAmount,
				fmt.Sprintf("tier %s has negative base amount %d", t.ID, t.BaseAmount),
				"stipend_tier_id", t.ID))
		}
		if !sources[t.SourceID] {
			issues = append(issues, Error(CodeUnknownSource,
				fmt.Sprintf("tier %s cites unknown source %s", t.ID, t.SourceID),
				"stipend_tier_id", t.ID, "source_id", t.SourceID))
		}
	}

	codes := make(map[string]bool, len(spec.Roles))
	var titles []string
	titleCodes := make(map[string][]string)
	for _, r := range spec.Roles {
		if codes[r.Code] {
			issues = append(issues, Error(CodeDuplicateRoleCode,
				fmt.Sprintf("role %s is declared more than once", r.Code),
				"role_code", r.Code))
		}
		codes[r.Code] = true

		if r.StipendTierID != "" && !tiers[r.StipendTierID] {
			issues = append(issues, Error(CodeUnknownStipendTier,
				fmt.Sprintf("role %s references unknown stipend_tier_id %s", r.Code, r.StipendTierID),
				"role_code", r.Code, "stipend_tier_id", r.StipendTierID))
		}

		if _, seen := titleCodes[r.Title]; !seen {
			titles = append(titles, r.Title)
		}
		titleCodes[r.Title] = append(titleCodes[r.Title], r.Code)
	}
	for _, title := range titles {
		if dup := titleCodes[title]; len(dup) > 1 {
			issues = append(issues, Warning(CodeDuplicateRoleTitle,
				fmt.Sprintf("title %q used for multiple role codes %v", title, dup),
				"title", title, "role_codes", strings.Join(dup, ",")))
		}
	}

	issues = append(issues, validateChamberRules(spec.ChamberRules, sources)...)
	return issues
}

func validateChamberRules(rules []ir.ChamberRuleSpec, sources map[string]bool) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		invalid := func(msg string) {
			issues = append(issues, Error(CodeInvalidChamberRules, msg,
				"chamber", r.Chamber,
				"max_chairs", strconv.Itoa(r.MaxChairs),
				"max_positions", strconv.Itoa(r.MaxPositions)))
		}

		if r.Chamber != ir.DefaultRulesKey {
			if _, err := ir.ParseChamber(r.Chamber); err != nil {
				invalid(fmt.Sprintf("chamber rules for unknown chamber %q", r.Chamber))
			}
		}
		if seen[r.Chamber] {
			invalid(fmt.Sprintf("chamber rules for %s declared more than once", r.Chamber))
		}
		seen[r.Chamber] = true

		if r.MaxPositions < 1 {
			invalid(fmt.Sprintf("%s: max_positions must be at least 1", r.Chamber))
		}
		if r.MaxChairs < 0 || r.MaxChairs > r.MaxPositions {
			invalid(fmt.Sprintf("%s: max_chairs must be between 0 and max_positions", r.Chamber))
		}
		if !sources[r.SourceID] {
			issues = append(issues, Error(CodeUnknownSource,
				fmt.Sprintf("chamber rules for %s cite unknown source %s", r.Chamber, r.SourceID),
				"chamber", r.Chamber, "source_id", r.SourceID))
		}
	}
	if !seen[ir.DefaultRulesKey] {
		issues = append(issues, Error(CodeInvalidChamberRules,
			"no default chamber rules declared", "chamber", ir.DefaultRulesKey))
	}
	return issues
}
