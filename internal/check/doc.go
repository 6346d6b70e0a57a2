// Package check reports contract violations.
//
// A contract violation is a programmer error: a nil receiver, a nil move
// source, an index outside the live range, or a required allocation that the
// memory budget refused. Violations are not recoverable runtime conditions,
// so they panic with a *Violation that records where the contract was broken.
//
// Expected conditions (popping an empty container, a refused optional
// reservation) are reported with ordinary error returns instead.
package check
