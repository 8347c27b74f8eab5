package store

import (
	"path/filepath"
	"testing"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/session"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func miles(v float64) *float64 { return &v }

// createTestSession builds a two-member session with three assignments.
func createTestSession(id string) *session.Loaded {
	sess, err := ir.ParseSessionID(id)
	if err != nil {
		panic(err)
	}
	assignments := []ir.RoleAssignment{
		{MemberID: "H002", RoleCode: "HOUSE_EDUCATION_CHAIR", SessionID: id},
		{MemberID: "S001", RoleCode: "SENATE_PRESIDENT", SessionID: id},
		{MemberID: "H002", RoleCode: "HOUSE_ASSISTANT_MAJORITY_LEADER", SessionID: id},
	}
	return &session.Loaded{
		Session: sess,
		Members: []ir.Member{
			{
				MemberID:      "H002",
				Name:          "Pat Rivera",
				Chamber:       ir.ChamberHouse,
				Party:         ir.PartyDemocrat,
				District:      "3rd Suffolk",
				DistanceMiles: miles(1.2),
				Roles:         []ir.RoleAssignment{assignments[0], assignments[2]},
			},
			{
				MemberID: "S001",
				Name:     "Casey Morgan",
				Chamber:  ir.ChamberSenate,
				Party:    ir.PartyOther,
				Roles:    []ir.RoleAssignment{assignments[1]},
			},
		},
		Assignments: assignments,
	}
}
