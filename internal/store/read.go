package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/session"
)

// ErrSessionNotFound is returned when a session was never imported.
var ErrSessionNotFound = errors.New("session not found")

// Sessions returns every imported session ordered by id.
//
// Returns an empty slice (not nil) if nothing was imported.
func (s *Store) Sessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_year, end_year, label
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		var sess ir.Session
		if err := rows.Scan(&sess.ID, &sess.StartYear, &sess.EndYear, &sess.Label); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LoadSession reads an imported session back in the shape session.Load
// produces.
func (s *Store) LoadSession(ctx context.Context, id string) (*session.Loaded, error) {
	var sess ir.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_year, end_year, label FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.StartYear, &sess.EndYear, &sess.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	members, err := s.readMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	assignments, err := s.readAssignments(ctx, id)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(members))
	for i, m := range members {
		index[m.MemberID] = i
	}
	for _, ra := range assignments {
		i := index[ra.MemberID]
		members[i].Roles = append(members[i].Roles, ra)
	}

	return &session.Loaded{
		Session:     sess,
		Members:     members,
		Assignments: assignments,
	}, nil
}

// readMembers returns a session's members ordered by member id.
func (s *Store) readMembers(ctx context.Context, sessionID string) ([]ir.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, name, chamber, party, district, distance_miles
		FROM members
		WHERE session_id = ?
		ORDER BY member_id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []ir.Member{}
	for rows.Next() {
		var (
			m        ir.Member
			chamber  string
			party    string
			distance sql.NullFloat64
		)
		if err := rows.Scan(&m.MemberID, &m.Name, &chamber, &party, &m.District, &distance); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.Chamber = ir.Chamber(chamber)
		m.Party = ir.Party(party)
		if distance.Valid {
			d := distance.Float64
			m.DistanceMiles = &d
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// readAssignments returns a session's assignments in import order.
func (s *Store) readAssignments(ctx context.Context, sessionID string) ([]ir.RoleAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, role_code
		FROM role_assignments
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query role assignments: %w", err)
	}
	defer rows.Close()

	assignments := []ir.RoleAssignment{}
	for rows.Next() {
		ra := ir.RoleAssignment{SessionID: sessionID}
		if err := rows.Scan(&ra.MemberID, &ra.RoleCode); err != nil {
			return nil, fmt.Errorf("scan role assignment: %w", err)
		}
		assignments = append(assignments, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role assignments: %w", err)
	}
	return assignments, nil
}
