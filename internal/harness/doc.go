// Package harness runs encoding conformance scenarios.
//
// A scenario is a YAML document naming a program file and encoding flags,
// plus assertions over the encoded text. Golden files pin the exact
// backend output so that encoder changes surface as reviewable diffs.
package harness
