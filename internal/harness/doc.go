// Package harness runs contact-book conformance scenarios.
//
// A scenario is a YAML file listing user actions (create, edit fields,
// save, select, delete, refresh) with optional per-step expectations and
// an expected final table. The harness executes every step through a real
// controller.Controller backed by a fresh in-memory store, records a trace of
// store calls and navigation moves, and evaluates the expectations.
//
// Tokens are generated by testutil.SequentialTokens, so the same scenario
// always produces a byte-identical trace. Traces are compared against
// golden files with RunWithGolden:
//
//	go test ./internal/harness -update
//
// regenerates testdata/golden/*.golden.
//
// Store failures can be injected per step (field "fail"), which is how the
// "stay on the edit view after a failed save" behaviour is exercised.
package harness
