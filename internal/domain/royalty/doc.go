// Package royalty contains the royalty calculation domain: publishing
// contracts with tiered rate schedules, unit sale and return records, the
// net-sales aggregation and tiered royalty calculation that turn them into a
// per-period statement, and the Statement aggregate itself.
//
// All monetary arithmetic uses fixed-point decimals. Rounding to the currency
// minor unit happens exactly twice: when a tier's royalty is produced and when
// the statement's net payable is produced. Intermediate ratios are never
// rounded, so recomputing a calculation from the same inputs is bit-identical.
package royalty
