package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionID(t *testing.T) {
	s, err := ParseSessionID("2025-2026")
	require.NoError(t, err)
	assert.Equal(t, 2025, s.StartYear)
	assert.Equal(t, 2026, s.EndYear)

	for _, bad := range []string{"2025", "2025-x", "x-2026", "2026-2025", ""} {
		_, err := ParseSessionID(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseChamberAndParty(t *testing.T) {
	c, err := ParseChamber(" House ")
	require.NoError(t, err)
	assert.Equal(t, ChamberHouse, c)
	_, err = ParseChamber("assembly")
	assert.Error(t, err)

	p, err := ParseParty("")
	require.NoError(t, err)
	assert.Equal(t, PartyOther, p)
	p, err = ParseParty("d")
	require.NoError(t, err)
	assert.Equal(t, PartyDemocrat, p)
	_, err = ParseParty("whig")
	assert.Error(t, err)
}

func TestRoleDefinitionPredicates(t *testing.T) {
	chair := RoleDefinition{Code: "HOUSE_RULES_CHAIR", CommitteeRoleType: CommitteeChair, StipendTierID: "T30K"}
	member := RoleDefinition{Code: "HOUSE_RULES_MEMBER", CommitteeRoleType: CommitteeMember}

	assert.True(t, chair.IsChair())
	assert.True(t, chair.HasStipend())
	assert.False(t, member.IsChair())
	assert.False(t, member.HasStipend())
}
