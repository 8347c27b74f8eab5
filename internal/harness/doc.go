// Package harness runs compensation scenarios as executable contract tests.
//
// A scenario names a session, an optional catalog extension, the session's
// adjustment factors and a roster. Run prices every member through the
// engine and checks the expectations; RunWithGolden additionally compares
// a canonical snapshot of the outcomes against testdata/golden.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: house_position_cap
//	description: "A House member with three stipended roles is paid for one"
//	session: "2025-2026"
//	catalog: |
//	  tier: T75K: { base_amount: 75000, source: "MGL_3_9B" }
//	adjustments:
//	  - kind: stipend
//	    factor: "1.0646"
//	    source: STIPEND_AMOUNT_ADJUSTMENT
//	members:
//	  - id: H200
//	    chamber: house
//	    distance: 72
//	    roles: [HOUSE_EDUCATION_CHAIR, HOUSE_ASSISTANT_MAJORITY_LEADER]
//	expect:
//	  - member: H200
//	    paid: [HOUSE_ASSISTANT_MAJORITY_LEADER]
//	    stipends: 35000
//	    total: 117548
//	    citations: [MGL_3_9B_MULTIPLE_POSITIONS]
//	    reasons:
//	      HOUSE_EDUCATION_CHAIR: DISCARDED_POSITION_CAP
//
// # Expectations
//
// Every field of an expectation is optional; only the fields present are
// checked.
//
//   - paid: role codes of the paid roles, in selection order
//   - stipends: the stipends component value
//   - total: the grand total value
//   - citations: source ids that must appear on the grand total
//   - reasons: selection reason per role code
//   - error: the error code the member's computation must fail with
package harness
