package ir

// DefaultRulesKey names the chamber-rules entry used for any chamber without
// its own entry.
const DefaultRulesKey = "default"

// ChamberRuleSpec is a compiled chamber_rules block. Chamber is a chamber
// name or DefaultRulesKey.
type ChamberRuleSpec struct {
	Chamber      string `json:"chamber"`
	MaxChairs    int    `json:"max_chairs"`
	MaxPositions int    `json:"max_positions"`
	SourceID     string `json:"source_id"`
}

// CatalogSpec is the compiled, unvalidated form of a catalog. Entries keep
// their declaration order.
type CatalogSpec struct {
	Sources      []SourceRef       `json:"sources"`
	Tiers        []StipendTier     `json:"tiers"`
	Roles        []RoleDefinition  `json:"roles"`
	ChamberRules []ChamberRuleSpec `json:"chamber_rules"`
}
