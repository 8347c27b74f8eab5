package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
	"github.com/arbowl/ma-legislature-stipends/internal/report"
)

// CatalogListing is the catalog command's JSON payload.
type CatalogListing struct {
	Tiers        []ir.StipendTier    `json:"tiers"`
	Roles        []ir.RoleDefinition `json:"roles"`
	ChamberRules []ir.ChamberRules   `json:"chamber_rules"`
	Sources      []ir.SourceRef      `json:"sources"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List stipend tiers, roles and chamber rules",
		Long: `List the stipend tiers, the roles priced against them and the chamber
rules of the configured catalog (the built-in Massachusetts catalog unless
catalog_dir is set).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, cmd)
		},
	}
	return cmd
}

func runCatalog(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return commandError(err)
	}

	listing := CatalogListing{
		Tiers: cat.Tiers(),
		Roles: cat.Roles(),
		ChamberRules: []ir.ChamberRules{
			cat.ChamberRules(ir.ChamberHouse),
			cat.ChamberRules(ir.ChamberSenate),
			cat.ChamberRules(ir.ChamberJoint),
		},
		Sources: cat.Sources().Refs(),
	}

	f := opts.formatter(cmd)
	if f.IsJSON() {
		return f.Success(listing)
	}

	w := f.Writer
	fmt.Fprintln(w, "Stipend tiers:")
	for _, t := range listing.Tiers {
		fmt.Fprintf(w, "  %-8s %10s  %s\n", t.ID, report.Dollars(t.BaseAmount), t.SourceID)
	}

	fmt.Fprintln(w, "\nRoles:")
	for _, r := range listing.Roles {
		tier := r.StipendTierID
		if tier == "" {
			tier = "-"
		}
		chair := ""
		if r.IsChair() {
			chair = " (chair)"
		}
		fmt.Fprintf(w, "  %-34s %-8s %s%s\n", r.Code, tier, r.Title, chair)
	}

	fmt.Fprintln(w, "\nChamber rules:")
	for _, cr := range listing.ChamberRules {
		fmt.Fprintf(w, "  %-7s max_positions=%d max_chairs=%d  %s\n", cr.Chamber, cr.MaxPositions, cr.MaxChairs, cr.Source.ID)
	}
	return nil
}
