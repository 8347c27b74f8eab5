package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/report"
)

// MemberOptions holds flags for commands that look at one member.
type MemberOptions struct {
	*RootOptions
	sessionFlags
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MemberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <session-id> <member-id>",
		Short: "Explain one member's compensation line by line",
		Long: `Print a member's profile: every role held with its tier, adjusted amount
and whether it was paid, the three compensation components with their
citations, audit findings and the result digest.

Example:
  legcomp explain 2025-2026 H002`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], args[1], cmd)
		},
	}

	opts.sessionFlags.register(cmd)
	return cmd
}

// loadMember assembles an engine and the member for sessionID.
func (opts *MemberOptions) loadMember(cmd *cobra.Command, sessionID, memberID string) (*engine.Engine, ir.Member, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, ir.Member{}, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, ir.Member{}, commandError(err)
	}
	eng, err := newEngine(cfg, cat)
	if err != nil {
		return nil, ir.Member{}, commandError(err)
	}
	loaded, err := opts.loadSession(cmd.Context(), cfg, sessionID)
	if err != nil {
		return nil, ir.Member{}, commandError(err)
	}
	m, err := memberOf(loaded, memberID)
	if err != nil {
		return nil, ir.Member{}, commandError(err)
	}
	return eng, m, nil
}

func runExplain(opts *MemberOptions, sessionID, memberID string, cmd *cobra.Command) error {
	eng, m, err := opts.loadMember(cmd, sessionID, memberID)
	if err != nil {
		return err
	}

	profile, err := report.BuildProfile(eng, m, sessionID)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("cannot price member %s", memberID), err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(profile)
	}
	return report.WriteProfile(f.Writer, profile)
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MemberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select <session-id> <member-id>",
		Short: "Show the paid-role decision trail for one member",
		Long: `Show which of a member's roles are paid and why each other role was not,
with the chamber rule and citations behind every decision.

Example:
  legcomp select 2025-2026 S001 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(opts, args[0], args[1], cmd)
		},
	}

	opts.sessionFlags.register(cmd)
	return cmd
}

func runSelect(opts *MemberOptions, sessionID, memberID string, cmd *cobra.Command) error {
	eng, m, err := opts.loadMember(cmd, sessionID, memberID)
	if err != nil {
		return err
	}

	sel, err := eng.Select(m, sessionID)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("cannot select roles for member %s", memberID), err)
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(sel)
	}

	w := f.Writer
	fmt.Fprintf(w, "Member %s, session %s\n", sel.MemberID, sel.SessionID)
	if len(sel.Provenance) == 0 {
		fmt.Fprintln(w, "  no stipended roles")
	}
	for _, p := range sel.Provenance {
		mark := "✗"
		if p.Selected {
			mark = "✓"
		}
		amount, _ := p.Notes.Int("amount")
		fmt.Fprintf(w, "  %s %-34s %10s  %-22s %v\n", mark, p.RoleCode, report.Dollars(amount), p.Reason, p.Sources.IDs())
		if overridden, _ := p.Notes.Bool("cap_overridden"); overridden {
			fmt.Fprintln(w, "    chair cap overridden: no combination of roles satisfies the chamber rules")
		}
	}
	fmt.Fprintf(w, "Paid total: %s\n", report.Dollars(sel.Total))
	fmt.Fprintf(w, "Selection digest: %s\n", ir.MustSelectionDigest(sel))
	return nil
}
