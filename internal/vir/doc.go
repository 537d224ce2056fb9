// Package vir provides the verification intermediate representation (VIR):
// the tree of statements and expressions that the encoder translates into
// the Viper backend's AST.
//
// This package contains type definitions and pure queries only. All other
// internal packages import vir; vir imports nothing internal. This keeps the
// IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All values are immutable once built. The encoder never mutates a VIR
//     node; translation always produces new backend-side nodes.
//   - Expr and Stmt are sealed interfaces using the marker method pattern.
//     Only types in this package implement them, which enables exhaustive
//     type switches in the footprint calculator and the encoder.
//   - Type equality is by variant tag only (see Type.EqualShape). Two
//     TypedRef types with different predicate names compare equal. This is
//     load-bearing: deduplication in callers is keyed on shape, not name.
//   - Permission arithmetic (PermAmount.Add/Sub) is VIR-level bookkeeping.
//     The encoder renders each amount independently and never combines them.
//
// Malformed trees (a default Position on an Exhale, a non-place argument to
// Fold, an applied magic wand without a borrow) are contract violations of
// the upstream producer. Validate reports them as errors for tooling; the
// encoder treats them as fatal.
package vir
