// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Session is the session id used throughout the fixtures.
const Session = "2025-2026"

// Catalog returns the built-in catalog, failing the test if it does not
// compile.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

// CatalogWith returns the built-in catalog extended with extra tiers and
// roles.
func CatalogWith(t testing.TB, tiers []ir.StipendTier, roles []ir.RoleDefinition) *catalog.Catalog {
	t.Helper()
	spec, err := catalog.DefaultSpec()
	require.NoError(t, err)
	spec.Tiers = append(spec.Tiers, tiers...)
	spec.Roles = append(spec.Roles, roles...)
	c, err := catalog.New(spec)
	require.NoError(t, err)
	return c
}

// Miles returns a pointer to v, for Member.DistanceMiles.
func Miles(v float64) *float64 {
	return &v
}

// Member builds a member of chamber who is 10 miles from the State House
// and holds roles in Session.
func Member(id string, chamber ir.Chamber, roles ...string) ir.Member {
	m := ir.Member{
		MemberID:      id,
		Name:          "Member " + id,
		Chamber:       chamber,
		Party:         ir.PartyDemocrat,
		DistanceMiles: Miles(10),
	}
	for _, code := range roles {
		m.Roles = append(m.Roles, ir.RoleAssignment{MemberID: id, RoleCode: code, SessionID: Session})
	}
	return m
}

// Adjustment builds a session adjustment from a decimal string.
func Adjustment(kind ir.AdjustmentKind, factor string) ir.Adjustment {
	return ir.Adjustment{Kind: kind, SessionID: Session, Factor: ir.MustParseFactor(factor)}
}
