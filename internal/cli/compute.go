package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arbowl/ma-legislature-stipends/internal/engine"
	"github.com/arbowl/ma-legislature-stipends/internal/report"
	"github.com/arbowl/ma-legislature-stipends/internal/session"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	sessionFlags

	Workers   int
	KeepGoing bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to report.UUIDv7Generator.
	RunIDs report.RunIDGenerator
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute <session-id>",
		Short: "Compute total compensation for every member of a session",
		Long: `Compute base salary, stipends and travel for every member of a session
and print a summary with per-chamber statistics.

Members are priced in parallel; the output is always ordered by member id.

Examples:
  legcomp compute 2025-2026
  legcomp compute 2025-2026 --data-root ./data --workers 4
  legcomp compute 2025-2026 --db ./legcomp.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, args[0], cmd)
		},
	}

	opts.sessionFlags.register(cmd)
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "members priced in parallel (default from config)")
	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "skip members that cannot be priced instead of failing")

	return cmd
}

func runCompute(opts *ComputeOptions, sessionID string, cmd *cobra.Command) error {
	summary, skipped, err := computeSummary(cmd.Context(), opts, sessionID)
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.JSON(CLIResponse{Status: "ok", Data: summary, RunID: summary.RunID})
	}
	if err := report.WriteSummary(f.Writer, summary); err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(f.Writer, "\nSkipped %d member(s) that could not be priced\n", skipped)
	}
	return nil
}

// computeSummary loads the session, prices every member and summarizes the
// results. It is shared by compute and gini.
func computeSummary(ctx context.Context, opts *ComputeOptions, sessionID string) (report.Summary, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return report.Summary{}, 0, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return report.Summary{}, 0, commandError(err)
	}
	eng, err := newEngine(cfg, cat)
	if err != nil {
		return report.Summary{}, 0, commandError(err)
	}
	loaded, err := opts.loadSession(ctx, cfg, sessionID)
	if err != nil {
		return report.Summary{}, 0, commandError(err)
	}

	workers := cfg.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	gen := opts.RunIDs
	if gen == nil {
		gen = report.UUIDv7Generator{}
	}
	runID := gen.Generate()

	slog.Info("compute started",
		"run", runID,
		"session", sessionID,
		"members", len(loaded.Members),
		"workers", workers,
	)

	rows, skipped, err := computeAll(ctx, eng, loaded, workers, opts.KeepGoing)
	if err != nil {
		return report.Summary{}, 0, WrapExitError(ExitFailure, "compute failed", err)
	}

	summary := report.Summarize(sessionID, rows)
	summary.RunID = runID
	slog.Info("compute finished",
		"run", runID,
		"session", sessionID,
		"members", len(rows),
		"skipped", skipped,
		"total", summary.Overall.Total,
	)
	return summary, skipped, nil
}

// computeAll aggregates every member of loaded with at most workers in
// flight. Rows come back in the loaded member order. Without keepGoing the
// first failure cancels the remaining work.
func computeAll(ctx context.Context, eng *engine.Engine, loaded *session.Loaded, workers int, keepGoing bool) ([]report.MemberTotal, int, error) {
	results := make([]*report.MemberTotal, len(loaded.Members))
	var skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, m := range loaded.Members {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := eng.Aggregate(m, loaded.Session.ID)
			if err != nil {
				if keepGoing {
					slog.Warn("member skipped", "member", m.MemberID, "session", loaded.Session.ID, "error", err)
					skipped.Add(1)
					return nil
				}
				return fmt.Errorf("member %s: %w", m.MemberID, err)
			}
			row := report.Row(m, res)
			results[i] = &row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	rows := make([]report.MemberTotal, 0, len(results))
	for _, r := range results {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	return rows, int(skipped.Load()), nil
}

// NewGiniCommand creates the gini command.
func NewGiniCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gini <session-id>",
		Short: "Report how unevenly stipends are distributed in a session",
		Long: `Compute every member's stipends and report the Gini coefficient of the
distribution (0 is perfectly even, values near 1 mean a few members hold
almost all stipend money).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGini(opts, args[0], cmd)
		},
	}

	opts.sessionFlags.register(cmd)
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "members priced in parallel (default from config)")
	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "skip members that cannot be priced instead of failing")

	return cmd
}

// GiniResult is the gini command's JSON payload.
type GiniResult struct {
	SessionID      string  `json:"session_id"`
	Members        int     `json:"members"`
	WithStipend    int     `json:"with_stipend"`
	WithoutStipend int     `json:"without_stipend"`
	StipendGini    float64 `json:"stipend_gini"`
}

func runGini(opts *ComputeOptions, sessionID string, cmd *cobra.Command) error {
	summary, _, err := computeSummary(cmd.Context(), opts, sessionID)
	if err != nil {
		return err
	}

	result := GiniResult{
		SessionID:      summary.SessionID,
		Members:        len(summary.Members),
		WithStipend:    summary.WithStipend,
		WithoutStipend: summary.WithoutStipend,
		StipendGini:    summary.StipendGini,
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.JSON(CLIResponse{Status: "ok", Data: result, RunID: summary.RunID})
	}
	fmt.Fprintf(f.Writer, "Session %s: %d members, %d with a stipend, %d without\n",
		result.SessionID, result.Members, result.WithStipend, result.WithoutStipend)
	fmt.Fprintf(f.Writer, "Gini coefficient for stipends: %.4f\n", result.StipendGini)
	return nil
}
