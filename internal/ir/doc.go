// Package ir provides the canonical types for legislator compensation.
//
// This package contains type definitions and the provenance amount algebra
// only. All other internal packages import ir; ir imports nothing internal.
// This keeps ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Money is whole dollars in int64. Floats never hold an amount.
//   - Multipliers are exact decimals (Factor), rounded half-to-even on Scale.
//   - Every amount carries the set of citations that justify it, and a set
//     never holds two citations with the same ID.
//   - All JSON tags use snake_case.
//   - Sets and maps are always emitted in a fixed order so that two runs over
//     the same inputs produce byte-identical output.
package ir
