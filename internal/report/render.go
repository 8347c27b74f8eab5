package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Dollars renders a whole-dollar amount with grouping, e.g. "$80,000".
func Dollars(v int64) string {
	if v < 0 {
		return printer.Sprintf("-$%d", -v)
	}
	return printer.Sprintf("$%d", v)
}

// WriteProfile renders p as human-readable text.
func WriteProfile(w io.Writer, p *Profile) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Member %s %s (%s, %s)\n", p.MemberID, p.Name, p.Chamber, p.Party)
	fmt.Fprintf(&b, "Session %s\n", p.SessionID)
	if p.District != "" {
		fmt.Fprintf(&b, "District: %s\n", p.District)
	}
	if p.DistanceMiles != nil {
		fmt.Fprintf(&b, "Distance from State House: %g miles\n", *p.DistanceMiles)
	}

	b.WriteString("\nRoles:\n")
	if len(p.Roles) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range p.Roles {
		mark := "    "
		if r.Paid {
			mark = "paid"
		}
		fmt.Fprintf(&b, "  %s %-34s %10s", mark, r.RoleCode, Dollars(r.AdjustedAmount))
		if r.TierID == "" {
			b.WriteString("  no stipend\n")
			continue
		}
		fmt.Fprintf(&b, "  tier %s base %s factor %s", r.TierID, Dollars(r.BaseAmount), r.Factor)
		if r.Selection != "" {
			fmt.Fprintf(&b, "  %s", r.Selection)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "        %s; sources: %s\n", r.Title, strings.Join(r.Sources, ", "))
	}

	b.WriteString("\nComponents:\n")
	for _, c := range p.Components {
		fmt.Fprintf(&b, "  %-30s %10s  %s\n", c.Label, Dollars(c.Amount.Value), strings.Join(c.Amount.Sources.IDs(), ", "))
	}
	fmt.Fprintf(&b, "  %-30s %10s  %s\n", "Total", Dollars(p.Total.Value), strings.Join(p.Total.Sources.IDs(), ", "))
	if p.TravelRule != "" {
		fmt.Fprintf(&b, "\nTravel: %s\n", p.TravelRule)
	}

	if len(p.Issues) > 0 {
		b.WriteString("\nIssues:\n")
		for _, i := range p.Issues {
			fmt.Fprintf(&b, "  %s\n", i)
		}
	}

	fmt.Fprintf(&b, "\nSelection digest: %s\n", p.SelectionDigest)
	fmt.Fprintf(&b, "Result digest:    %s\n", p.ResultDigest)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary renders s as a member table followed by statistics.
func WriteSummary(w io.Writer, s Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s", s.SessionID)
	if s.RunID != "" {
		fmt.Fprintf(&b, " (run %s)", s.RunID)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%-10s  %-25s  %-6s  %12s  %12s  %12s  %12s\n",
		"Member ID", "Name", "Ch.", "Base", "Stipends", "Travel", "Total")
	for _, r := range s.Members {
		fmt.Fprintf(&b, "%-10s  %-25s  %-6s  %12s  %12s  %12s  %12s\n",
			r.MemberID, truncate(r.Name, 25), r.Chamber,
			Dollars(r.BaseSalary), Dollars(r.Stipends), Dollars(r.Travel), Dollars(r.Total))
	}

	b.WriteString("\n")
	writeStats(&b, "All members", s.Overall)
	chambers := make([]string, 0, len(s.ByChamber))
	for c := range s.ByChamber {
		chambers = append(chambers, string(c))
	}
	slices.Sort(chambers)
	for _, c := range chambers {
		writeStats(&b, "Chamber "+c, s.ByChamber[ir.Chamber(c)])
	}

	fmt.Fprintf(&b, "\nMembers with a stipend: %d, without: %d\n", s.WithStipend, s.WithoutStipend)
	fmt.Fprintf(&b, "Gini coefficient for stipends: %.4f\n", s.StipendGini)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeStats(b *strings.Builder, label string, st Stats) {
	fmt.Fprintf(b, "%-16s n=%d total=%s mean=%s median=%s min=%s max=%s\n",
		label, st.Count, Dollars(st.Total),
		Dollars(int64(st.Mean+0.5)), Dollars(int64(st.Median+0.5)),
		Dollars(st.Min), Dollars(st.Max))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
