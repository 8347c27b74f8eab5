package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbowl/ma-legislature-stipends/internal/audit"
	"github.com/arbowl/ma-legislature-stipends/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool          `json:"valid"`
	Catalog   string        `json:"catalog"`
	SessionID string        `json:"session_id,omitempty"`
	Issues    []audit.Issue `json:"issues"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MemberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [session-id]",
		Short: "Audit the catalog and, optionally, a session's data",
		Long: `Audit the role catalog for dangling tier and source references, duplicate
codes and invalid chamber rules. With a session id, also audit the
session's members and role assignments against the catalog.

Warnings are reported but only errors fail the command.

Exit codes:
  0 - No errors
  1 - One or more errors
  2 - Command error (catalog does not compile, session not found)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			return runValidate(opts, sessionID, cmd)
		},
	}

	opts.sessionFlags.register(cmd)
	return cmd
}

func runValidate(opts *MemberOptions, sessionID string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	spec, origin, err := loadCatalogSpec(cfg)
	if err != nil {
		return commandError(err)
	}
	f.VerboseLog("Auditing %s catalog: %d roles, %d tiers, %d sources", origin, len(spec.Roles), len(spec.Tiers), len(spec.Sources))

	result := ValidationResult{Catalog: origin, SessionID: sessionID}
	result.Issues = append(result.Issues, audit.ValidateCatalog(spec)...)

	// Session checks need a usable catalog.
	if sessionID != "" && !audit.HasErrors(result.Issues) {
		cat, err := catalog.New(spec)
		if err != nil {
			return commandError(err)
		}
		loaded, err := opts.loadSession(cmd.Context(), cfg, sessionID)
		if err != nil {
			return commandError(err)
		}
		f.VerboseLog("Auditing session %s: %d members", sessionID, len(loaded.Members))
		result.Issues = append(result.Issues, audit.ValidateSession(sessionID, loaded.Members, cat)...)
	}

	if result.Issues == nil {
		result.Issues = []audit.Issue{}
	}
	result.Valid = !audit.HasErrors(result.Issues)

	if err := outputValidation(f, result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d error(s) found", len(audit.Errors(result.Issues))))
	}
	return nil
}

func outputValidation(f *OutputFormatter, result ValidationResult) error {
	if f.IsJSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeAudit,
				Message: fmt.Sprintf("%d error(s) found", len(audit.Errors(result.Issues))),
			}
		}
		return f.JSON(resp)
	}

	w := f.Writer
	for _, issue := range result.Issues {
		fmt.Fprintln(w, issue.String())
	}
	if result.Valid {
		if len(result.Issues) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "✓ %s catalog is valid", result.Catalog)
		if result.SessionID != "" {
			fmt.Fprintf(w, ", session %s is valid", result.SessionID)
		}
		fmt.Fprintln(w)
		return nil
	}
	fmt.Fprintf(w, "\n✗ %d error(s) found\n", len(audit.Errors(result.Issues)))
	return nil
}
