package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
	"github.com/arbowl/ma-legislature-stipends/internal/config"
	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/session"
	"github.com/arbowl/ma-legislature-stipends/internal/store"
)

// Error codes for loader failures.
const (
	ErrCodeCatalog = "E_CATALOG"
	ErrCodeSession = "E_SESSION"
	ErrCodeMember  = "E_MEMBER"
	ErrCodeStore   = "E_STORE"
	ErrCodeEngine  = "E_ENGINE"
	ErrCodeAudit   = "E_AUDIT"
	ErrCodeGeneric = "E_GENERIC"
)

// LoadError represents a failure to assemble a command's inputs.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadCatalogSpec compiles the configured catalog directory, or the built-in
// catalog when none is configured. The spec is not yet validated.
func loadCatalogSpec(cfg *config.Config) (*ir.CatalogSpec, string, error) {
	if cfg.CatalogDir == "" {
		spec, err := catalog.DefaultSpec()
		if err != nil {
			return nil, "", &LoadError{Code: ErrCodeCatalog, Message: "built-in catalog does not compile", Err: err}
		}
		return spec, "built-in", nil
	}
	spec, err := catalog.LoadDirSpec(cfg.CatalogDir)
	if err != nil {
		return nil, "", &LoadError{Code: ErrCodeCatalog, Message: fmt.Sprintf("failed to compile catalog %s", cfg.CatalogDir), Err: err}
	}
	return spec, cfg.CatalogDir, nil
}

// loadCatalog compiles and validates the configured catalog.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	spec, origin, err := loadCatalogSpec(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(spec)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCatalog, Message: fmt.Sprintf("catalog %s is invalid", origin), Err: err}
	}
	slog.Debug("catalog loaded", "origin", origin, "roles", len(cat.Roles()), "tiers", len(cat.Tiers()))
	return cat, nil
}

// newEngine builds an engine over cat with the configured collaborators.
func newEngine(cfg *config.Config, cat *catalog.Catalog) (*engine.Engine, error) {
	opts, err := cfg.EngineOptions(cat)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeEngine, Message: "invalid engine configuration", Err: err}
	}
	return engine.New(cat, opts...), nil
}

// sessionFlags selects where session data is read from.
type sessionFlags struct {
	DataRoot string
	Database string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.DataRoot, "data-root", "", "directory holding <session-id>/members.json and roles.json (default from config)")
	cmd.Flags().StringVar(&f.Database, "db", "", "read the session from this SQLite database instead of JSON files")
}

// loadSession reads sessionID from the database when --db is given and from
// the JSON data root otherwise.
func (f *sessionFlags) loadSession(ctx context.Context, cfg *config.Config, sessionID string) (*session.Loaded, error) {
	if f.Database != "" {
		st, err := store.Open(f.Database)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: "failed to open database", Err: err}
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		loaded, err := st.LoadSession(ctx, sessionID)
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, &LoadError{Code: ErrCodeSession, Message: fmt.Sprintf("session %s not found in %s (run import first)", sessionID, f.Database)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: "failed to read session", Err: err}
		}
		return loaded, nil
	}

	root := f.DataRoot
	if root == "" {
		root = cfg.DataRoot
	}
	loaded, err := session.Load(root, sessionID)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSession, Message: fmt.Sprintf("failed to load session %s from %s", sessionID, root), Err: err}
	}
	return loaded, nil
}

// commandError wraps a loader failure with the command-error exit code.
func commandError(err error) error {
	return WrapExitError(ExitCommandError, "command failed", err)
}

// memberOf finds memberID in loaded.
func memberOf(loaded *session.Loaded, memberID string) (ir.Member, error) {
	m, ok := loaded.Member(memberID)
	if !ok {
		return ir.Member{}, &LoadError{Code: ErrCodeMember, Message: fmt.Sprintf("member %s not found in session %s", memberID, loaded.Session.ID)}
	}
	return m, nil
}
