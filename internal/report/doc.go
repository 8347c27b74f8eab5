// Package report turns engine results into member profiles and session
// summaries.
//
// A Profile explains one member: every role with its tier, base and
// adjusted amounts and selection outcome, the three compensation
// components with their citations, audit findings and the canonical
// digests of the selection and the result. Two runs over the same inputs
// print the same digests.
//
// A Summary aggregates a session: per-member rows, statistics overall and
// by chamber and party, and the Gini coefficient of stipends.
//
// Amounts render with US grouping ("$80,000") through golang.org/x/text.
package report
