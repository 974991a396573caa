// Package testutil provides shared test helpers:
//   - Miniredis helpers for store and queue tests (miniredis.go)
//   - Canned scenario definitions exercising the standard constraint
//     families end to end (fixtures.go)
//
// None of the helpers require Docker; everything runs in-process.
package testutil
