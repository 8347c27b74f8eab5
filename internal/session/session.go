// Package session loads a session's roster and role assignments from the
// JSON files published per session:
//
//	<root>/<session-id>/members.json
//	<root>/<session-id>/roles.json
//
// Both files carry a top-level session_id that must match the directory.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// File names inside a session directory.
const (
	MembersFile = "members.json"
	RolesFile   = "roles.json"
)

// Loaded is a parsed session: its members with their assignments attached.
type Loaded struct {
	Session ir.Session

	// Members is ordered by member id.
	Members []ir.Member

	// Assignments holds every assignment in file order.
	Assignments []ir.RoleAssignment
}

// Member returns the member with the given id.
func (l *Loaded) Member(id string) (ir.Member, bool) {
	i, found := slices.BinarySearchFunc(l.Members, id, func(m ir.Member, id string) int {
		return strings.Compare(m.MemberID, id)
	})
	if !found {
		return ir.Member{}, false
	}
	return l.Members[i], true
}

// LoadError reports a malformed session file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

type membersDoc struct {
	SessionID string      `json:"session_id"`
	Members   []memberRow `json:"members"`
}

type memberRow struct {
	MemberID      string   `json:"member_id"`
	Name          string   `json:"name"`
	Chamber       string   `json:"chamber"`
	Party         *string  `json:"party"`
	District      string   `json:"district"`
	DistanceMiles *float64 `json:"distance_miles_from_state_house"`
}

type rolesDoc struct {
	SessionID string    `json:"session_id"`
	Roles     []roleRow `json:"roles"`
}

type roleRow struct {
	MemberID string `json:"member_id"`
	RoleCode string `json:"role_code"`
}

// Load reads the session directory root/sessionID.
func Load(root, sessionID string) (*Loaded, error) {
	dir := filepath.Join(root, sessionID)

	mf, err := os.Open(filepath.Join(dir, MembersFile))
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", sessionID, err)
	}
	defer mf.Close()

	rf, err := os.Open(filepath.Join(dir, RolesFile))
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", sessionID, err)
	}
	defer rf.Close()

	loaded, err := Decode(sessionID, mf, rf)
	if err != nil {
		return nil, err
	}
	slog.Debug("session loaded",
		"session", sessionID,
		"dir", dir,
		"members", len(loaded.Members),
		"assignments", len(loaded.Assignments),
	)
	return loaded, nil
}

// Decode parses members and roles documents for sessionID.
func Decode(sessionID string, members, roles io.Reader) (*Loaded, error) {
	sess, err := ir.ParseSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	var mdoc membersDoc
	if err := decodeJSON(members, &mdoc); err != nil {
		return nil, &LoadError{File: MembersFile, Message: err.Error()}
	}
	if mdoc.SessionID != sessionID {
		return nil, &LoadError{File: MembersFile, Message: fmt.Sprintf("session_id mismatch (expected %s, got %s)", sessionID, mdoc.SessionID)}
	}

	byID := make(map[string]*ir.Member, len(mdoc.Members))
	order := make([]string, 0, len(mdoc.Members))
	for i, row := range mdoc.Members {
		m, err := row.member()
		if err != nil {
			return nil, &LoadError{File: MembersFile, Message: fmt.Sprintf("members[%d]: %v", i, err)}
		}
		if _, dup := byID[m.MemberID]; dup {
			return nil, &LoadError{File: MembersFile, Message: fmt.Sprintf("duplicate member_id %s", m.MemberID)}
		}
		byID[m.MemberID] = &m
		order = append(order, m.MemberID)
	}

	var rdoc rolesDoc
	if err := decodeJSON(roles, &rdoc); err != nil {
		return nil, &LoadError{File: RolesFile, Message: err.Error()}
	}
	if rdoc.SessionID != sessionID {
		return nil, &LoadError{File: RolesFile, Message: fmt.Sprintf("session_id mismatch (expected %s, got %s)", sessionID, rdoc.SessionID)}
	}

	assignments := make([]ir.RoleAssignment, 0, len(rdoc.Roles))
	for _, row := range rdoc.Roles {
		m, ok := byID[row.MemberID]
		if !ok {
			return nil, &LoadError{File: RolesFile, Message: fmt.Sprintf("role assignment for unknown member_id %s", row.MemberID)}
		}
		ra := ir.RoleAssignment{MemberID: row.MemberID, RoleCode: row.RoleCode, SessionID: sessionID}
		m.Roles = append(m.Roles, ra)
		assignments = append(assignments, ra)
	}

	slices.Sort(order)
	out := &Loaded{
		Session:     sess,
		Members:     make([]ir.Member, len(order)),
		Assignments: assignments,
	}
	for i, id := range order {
		out.Members[i] = *byID[id]
	}
	return out, nil
}

func (r memberRow) member() (ir.Member, error) {
	if r.MemberID == "" {
		return ir.Member{}, fmt.Errorf("member_id is required")
	}
	chamber, err := ir.ParseChamber(r.Chamber)
	if err != nil {
		return ir.Member{}, err
	}
	var party ir.Party = ir.PartyOther
	if r.Party != nil {
		party, err = ir.ParseParty(*r.Party)
		if err != nil {
			return ir.Member{}, err
		}
	}
	return ir.Member{
		MemberID:      r.MemberID,
		Name:          r.Name,
		Chamber:       chamber,
		Party:         party,
		District:      r.District,
		DistanceMiles: r.DistanceMiles,
	}, nil
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
