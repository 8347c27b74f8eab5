package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// MemberTotal is one row of a session summary.
type MemberTotal struct {
	MemberID   string     `json:"member_id"`
	Name       string     `json:"name"`
	Chamber    ir.Chamber `json:"chamber"`
	Party      ir.Party   `json:"party"`
	BaseSalary int64      `json:"base_salary"`
	Stipends   int64      `json:"stipends"`
	Travel     int64      `json:"travel"`
	Total      int64      `json:"total"`
}

// Stats summarizes a group of totals.
type Stats struct {
	Count  int     `json:"count"`
	Total  int64   `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
}

// Summary aggregates a whole session's results.
type Summary struct {
	SessionID string `json:"session_id"`
	RunID     string `json:"run_id,omitempty"`

	// Members is ordered by member id.
	Members []MemberTotal `json:"members"`

	Overall   Stats                `json:"overall"`
	ByChamber map[ir.Chamber]Stats `json:"by_chamber"`
	ByParty   map[ir.Party]Stats   `json:"by_party"`

	WithStipend    int `json:"with_stipend"`
	WithoutStipend int `json:"without_stipend"`

	// StipendGini is the Gini coefficient of §9B stipends across members.
	StipendGini float64 `json:"stipend_gini"`

	// TopEarners holds up to ten members by total, highest first.
	TopEarners []MemberTotal `json:"top_earners"`
}

// topEarners is the length of Summary.TopEarners.
const topEarners = 10

// Row flattens a result into a summary row.
func Row(m ir.Member, res ir.TotalCompResult) MemberTotal {
	row := MemberTotal{
		MemberID: m.MemberID,
		Name:     m.Name,
		Chamber:  m.Chamber,
		Party:    m.Party,
		Total:    res.Total.Value,
	}
	if c, ok := res.Component(ir.LabelBaseSalary); ok {
		row.BaseSalary = c.Amount.Value
	}
	if c, ok := res.Component(ir.LabelStipends); ok {
		row.Stipends = c.Amount.Value
	}
	if c, ok := res.Component(ir.LabelTravel); ok {
		row.Travel = c.Amount.Value
	}
	return row
}

// Summarize computes statistics over rows. The input order does not
// matter.
func Summarize(sessionID string, rows []MemberTotal) Summary {
	members := slices.Clone(rows)
	slices.SortFunc(members, func(a, b MemberTotal) int {
		return strings.Compare(a.MemberID, b.MemberID)
	})

	s := Summary{
		SessionID: sessionID,
		Members:   members,
		ByChamber: map[ir.Chamber]Stats{},
		ByParty:   map[ir.Party]Stats{},
	}
	if s.Members == nil {
		s.Members = []MemberTotal{}
	}

	var totals, stipends []int64
	chamberTotals := map[ir.Chamber][]int64{}
	partyTotals := map[ir.Party][]int64{}
	for _, r := range members {
		totals = append(totals, r.Total)
		stipends = append(stipends, r.Stipends)
		chamberTotals[r.Chamber] = append(chamberTotals[r.Chamber], r.Total)
		partyTotals[r.Party] = append(partyTotals[r.Party], r.Total)
		if r.Stipends > 0 {
			s.WithStipend++
		} else {
			s.WithoutStipend++
		}
	}

	s.Overall = ComputeStats(totals)
	for c, v := range chamberTotals {
		s.ByChamber[c] = ComputeStats(v)
	}
	for p, v := range partyTotals {
		s.ByParty[p] = ComputeStats(v)
	}
	s.StipendGini = Gini(stipends)

	top := slices.Clone(members)
	slices.SortStableFunc(top, func(a, b MemberTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	s.TopEarners = top[:min(topEarners, len(top))]
	return s
}

// ComputeStats returns count, sum, mean, median, min and max of values.
// All fields are zero for no values.
func ComputeStats(values []int64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum int64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
	}

	return Stats{
		Count:  n,
		Total:  sum,
		Mean:   float64(sum) / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Gini computes the Gini coefficient of values:
//
//	G = (n + 1 - 2 * Σ cumsum / cumsum[n-1]) / n
//
// over values sorted ascending. It is 0 for perfect equality and
// approaches 1 as one member holds everything. An empty or all-zero input
// returns 0.
func Gini(values []int64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var running, sumOfCumsum float64
	for _, v := range sorted {
		running += float64(v)
		sumOfCumsum += running
	}
	if running == 0 {
		return 0
	}
	return (float64(n) + 1 - 2*(sumOfCumsum/running)) / float64(n)
}
