package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/arbowl/ma-legislature-stipends/internal/session"
)

// ImportSession replaces everything stored for the loaded session in one
// transaction. Importing the same files twice leaves the store unchanged.
func (s *Store) ImportSession(ctx context.Context, loaded *session.Loaded) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import session: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	sess := loaded.Session
	// Cascades to members and role_assignments.
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sess.ID); err != nil {
		return fmt.Errorf("import session: clear %s: %w", sess.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, start_year, end_year, label)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.StartYear, sess.EndYear, sess.Label)
	if err != nil {
		return fmt.Errorf("import session: %w", err)
	}

	for _, m := range loaded.Members {
		var distance sql.NullFloat64
		if m.DistanceMiles != nil {
			distance = sql.NullFloat64{Float64: *m.DistanceMiles, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO members
			(session_id, member_id, name, chamber, party, district, distance_miles)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			sess.ID,
			m.MemberID,
			m.Name,
			string(m.Chamber),
			string(m.Party),
			m.District,
			distance,
		)
		if err != nil {
			return fmt.Errorf("import member %s: %w", m.MemberID, err)
		}
	}

	for seq, ra := range loaded.Assignments {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO role_assignments (session_id, seq, member_id, role_code)
			VALUES (?, ?, ?, ?)
		`, sess.ID, seq, ra.MemberID, ra.RoleCode)
		if err != nil {
			return fmt.Errorf("import assignment %s/%s: %w", ra.MemberID, ra.RoleCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("import session: commit: %w", err)
	}

	slog.Debug("session imported",
		"session", sess.ID,
		"members", len(loaded.Members),
		"assignments", len(loaded.Assignments),
	)
	return nil
}
