// Package encoder translates VIR programs into the verification backend's
// abstract syntax.
//
// The translation is a pure, single-threaded, total structural walk: one
// case per statement and expression shape, no I/O and no shared mutable
// state. Every backend node is built through the viper.AstFactory handle
// injected at construction, and the two configuration switches are an
// explicit Config value, so independent encodings may run in parallel as
// long as each Encoder has its own handle.
//
// Failure comes in exactly one flavor here: a contract violation in the
// input tree (default position on an exhale, a non-place fold argument
// inside a wand package, an applied wand without a borrow) panics
// immediately. Such trees mean an upstream invariant was already broken
// and any output would be unsound, so there is no partial-result path.
// The Permission Algebra's typed errors never arise during encoding
// because permission amounts are rendered independently, never combined.
//
// Two conventions bridge ownership reasoning and separation logic:
//
//   - Dead-borrow tokens. A nominal resource DeadBorrowToken$(id)
//     represents "borrow id has expired". Applying a wand first assumes
//     the token; packaging (and wand value expressions) conjoin it into
//     the wand's left-hand side so the wand is only usable once the
//     borrow is known dead.
//
//   - The symbolic read amount. Read permission encodes as a call to the
//     nullary function read$, which the program encoding declares once,
//     globally, bounded by 0 < read$ < write.
package encoder
