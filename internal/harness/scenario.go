package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Scenario defines a compensation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is the session id every member is priced in.
	Session string `yaml:"session"`

	// Catalog is optional CUE unified with the built-in catalog, for
	// scenarios that need extra tiers or roles.
	Catalog string `yaml:"catalog,omitempty"`

	// Adjustments are the session's economic factors.
	Adjustments []AdjustmentStep `yaml:"adjustments,omitempty"`

	// Members is the roster, priced in order.
	Members []MemberStep `yaml:"members"`

	// Expect holds per-member checks.
	Expect []Expectation `yaml:"expect"`
}

// AdjustmentStep is one adjustment factor for the scenario's session.
type AdjustmentStep struct {
	// Kind is stipend, base_salary or travel.
	Kind string `yaml:"kind"`

	// Factor is a decimal string such as "1.0646".
	Factor string `yaml:"factor"`

	// Source overrides the registry citation for the adjustment.
	Source string `yaml:"source,omitempty"`
}

// MemberStep is one roster entry. Roles are assigned in Session.
type MemberStep struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name,omitempty"`
	Chamber  string   `yaml:"chamber"`
	Party    string   `yaml:"party,omitempty"`
	Distance *float64 `yaml:"distance,omitempty"`
	Roles    []string `yaml:"roles,omitempty"`
}

// Expectation checks one member's outcome. Unset fields are not checked.
type Expectation struct {
	Member    string            `yaml:"member"`
	Paid      []string          `yaml:"paid,omitempty"`
	Stipends  *int64            `yaml:"stipends,omitempty"`
	Total     *int64            `yaml:"total,omitempty"`
	Citations []string          `yaml:"citations,omitempty"`
	Reasons   map[string]string `yaml:"reasons,omitempty"`
	Error     string            `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

var validAdjustmentKinds = map[ir.AdjustmentKind]bool{
	ir.AdjustStipend:    true,
	ir.AdjustBaseSalary: true,
	ir.AdjustTravel:     true,
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := ir.ParseSessionID(s.Session); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if len(s.Members) == 0 {
		return fmt.Errorf("at least one member is required")
	}

	seenKinds := make(map[string]bool, len(s.Adjustments))
	for i, a := range s.Adjustments {
		if !validAdjustmentKinds[ir.AdjustmentKind(a.Kind)] {
			return fmt.Errorf("adjustments[%d]: unknown kind %q", i, a.Kind)
		}
		if seenKinds[a.Kind] {
			return fmt.Errorf("adjustments[%d]: duplicate kind %q", i, a.Kind)
		}
		seenKinds[a.Kind] = true
		if _, err := ir.ParseFactor(a.Factor); err != nil {
			return fmt.Errorf("adjustments[%d]: %w", i, err)
		}
	}

	ids := make(map[string]bool, len(s.Members))
	for i, m := range s.Members {
		if m.ID == "" {
			return fmt.Errorf("members[%d]: id is required", i)
		}
		if ids[m.ID] {
			return fmt.Errorf("members[%d]: duplicate id %q", i, m.ID)
		}
		ids[m.ID] = true
		if _, err := ir.ParseChamber(m.Chamber); err != nil {
			return fmt.Errorf("members[%d]: %w", i, err)
		}
		if _, err := ir.ParseParty(m.Party); err != nil {
			return fmt.Errorf("members[%d]: %w", i, err)
		}
	}

	for i, e := range s.Expect {
		if !ids[e.Member] {
			return fmt.Errorf("expect[%d]: unknown member %q", i, e.Member)
		}
		for code, reason := range e.Reasons {
			if !validReasons[ir.SelectionReason(reason)] {
				return fmt.Errorf("expect[%d]: role %s: unknown reason %q", i, code, reason)
			}
		}
	}
	return nil
}

var validReasons = map[ir.SelectionReason]bool{
	ir.ReasonSelectedMaxValue:     true,
	ir.ReasonDiscardedChairCap:    true,
	ir.ReasonDiscardedPositionCap: true,
	ir.ReasonDiscardedLowerValue:  true,
}

// member builds the roster entry as an ir.Member. The scenario has already
// been validated.
func (m MemberStep) member(sessionID string) ir.Member {
	chamber, _ := ir.ParseChamber(m.Chamber)
	party, _ := ir.ParseParty(m.Party)
	name := m.Name
	if name == "" {
		name = m.ID
	}
	out := ir.Member{
		MemberID:      m.ID,
		Name:          name,
		Chamber:       chamber,
		Party:         party,
		DistanceMiles: m.Distance,
	}
	for _, code := range m.Roles {
		out.Roles = append(out.Roles, ir.RoleAssignment{MemberID: m.ID, RoleCode: code, SessionID: sessionID})
	}
	return out
}
