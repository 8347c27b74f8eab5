package harness

import (
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

// Outcome is one member's computation.
type Outcome struct {
	MemberID  string
	Selection ir.PaidRoleSelection
	Result    ir.TotalCompResult

	// Err is set when the member could not be priced; Selection and
	// Result are then empty.
	Err error
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations match.
	Pass bool `json:"pass"`

	// Errors contains expectation failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Outcomes holds one entry per roster member, in roster order.
	Outcomes []Outcome `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the outcome for memberID.
func (r *Result) Outcome(memberID string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.MemberID == memberID {
			return o, true
		}
	}
	return Outcome{}, false
}
