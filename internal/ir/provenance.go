package ir

import "fmt"

// AmountWithProvenance is a whole-dollar amount and the citations that
// justify it.
type AmountWithProvenance struct {
	Value   int64     `json:"value"`
	Sources SourceSet `json:"sources"`
}

// Zero returns 0 with no citations.
func Zero() AmountWithProvenance {
	return AmountWithProvenance{}
}

// From wraps value with the given citations.
func From(value int64, sources ...SourceRef) AmountWithProvenance {
	return AmountWithProvenance{Value: value, Sources: NewSourceSet(sources...)}
}

// Add sums values and unions citations. Add is commutative and associative.
func Add(a, b AmountWithProvenance) AmountWithProvenance {
	return AmountWithProvenance{
		Value:   a.Value + b.Value,
		Sources: a.Sources.Union(b.Sources),
	}
}

// Sum folds Add over amounts starting at Zero.
func Sum(amounts ...AmountWithProvenance) AmountWithProvenance {
	total := Zero()
	for _, a := range amounts {
		total = Add(total, a)
	}
	return total
}

// Scale multiplies a by factor, rounding half-to-even, and adds extra
// citations. Scaling by exactly one returns a unchanged, without extra.
func Scale(a AmountWithProvenance, factor Factor, extra ...SourceRef) (AmountWithProvenance, error) {
	if factor.IsOne() {
		return a, nil
	}
	v, err := factor.Apply(a.Value)
	if err != nil {
		return AmountWithProvenance{}, err
	}
	return AmountWithProvenance{
		Value:   v,
		Sources: a.Sources.With(extra...),
	}, nil
}

// MustScale is like Scale but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustScale(a AmountWithProvenance, factor Factor, extra ...SourceRef) AmountWithProvenance {
	out, err := Scale(a, factor, extra...)
	if err != nil {
		panic(err)
	}
	return out
}

// WithSources returns a copy of a with more citations.
func (a AmountWithProvenance) WithSources(sources ...SourceSet) AmountWithProvenance {
	return AmountWithProvenance{Value: a.Value, Sources: a.Sources.Union(sources...)}
}

// String renders the amount as "$80000 [MGL_3_9B]".
func (a AmountWithProvenance) String() string {
	return fmt.Sprintf("$%d %v", a.Value, a.Sources.IDs())
}

func (a AmountWithProvenance) toIRValue() IRObject {
	return IRObject{
		"value":   IRInt(a.Value),
		"sources": a.Sources.toIRValue(),
	}
}
