// Package engine prices legislator roles, selects which of them are paid,
// and aggregates the result into total compensation.
//
// ARCHITECTURE:
//
// Three operations, each built on the one before:
//
//  1. Price turns one role assignment into a RoleStipend (tier base amount
//     times the session's stipend adjustment factor).
//  2. Select prices every assignment a member holds in a session and picks
//     the subset actually paid under the chamber's caps on paid positions
//     and paid chairs. Every candidate gets a provenance record explaining
//     the decision.
//  3. Aggregate combines base salary, the selected stipends and travel into
//     a TotalCompResult whose citation set is the union of its parts.
//
// The engine is synchronous and holds no mutable state. The Catalog,
// AdjustmentSource and providers it is built with are read-only, so one
// Engine may serve any number of goroutines.
//
// DETERMINISM:
//
// Identical inputs always produce identical outputs, down to the order of
// paid roles, provenance records and citations. Ties between equally
// valuable role subsets go to the lexicographically smallest sorted tuple
// of role codes.
package engine
