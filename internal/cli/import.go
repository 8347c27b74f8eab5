package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arbowl/ma-legislature-stipends/internal/session"
	"github.com/arbowl/ma-legislature-stipends/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	DataRoot string
	Database string
}

// ImportResult is the import command's JSON payload.
type ImportResult struct {
	SessionID   string `json:"session_id"`
	Database    string `json:"database"`
	Members     int    `json:"members"`
	Assignments int    `json:"assignments"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <session-id>",
		Short: "Import a session's JSON files into the SQLite database",
		Long: `Read <data-root>/<session-id>/members.json and roles.json and store them in
the SQLite database, replacing any earlier import of the same session.

Examples:
  legcomp import 2025-2026
  legcomp import 2025-2026 --data-root ./data --db ./legcomp.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DataRoot, "data-root", "", "directory holding <session-id>/ (default from config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runImport(opts *ImportOptions, sessionID string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	root := opts.DataRoot
	if root == "" {
		root = cfg.DataRoot
	}
	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.DB
	}

	loaded, err := session.Load(root, sessionID)
	if err != nil {
		return commandError(&LoadError{Code: ErrCodeSession, Message: fmt.Sprintf("failed to load session %s from %s", sessionID, root), Err: err})
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return commandError(&LoadError{Code: ErrCodeStore, Message: "failed to open database", Err: err})
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := st.ImportSession(cmd.Context(), loaded); err != nil {
		return commandError(&LoadError{Code: ErrCodeStore, Message: "import failed", Err: err})
	}

	result := ImportResult{
		SessionID:   sessionID,
		Database:    dbPath,
		Members:     len(loaded.Members),
		Assignments: len(loaded.Assignments),
	}
	slog.Info("session imported",
		"session", sessionID,
		"db", dbPath,
		"members", result.Members,
		"assignments", result.Assignments,
	)

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(result)
	}
	fmt.Fprintf(f.Writer, "Imported session %s into %s: %d members, %d role assignments\n",
		result.SessionID, result.Database, result.Members, result.Assignments)
	return nil
}
