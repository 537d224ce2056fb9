// Package fingerprint computes content-addressed identities for
// verification programs.
//
// A program's fingerprint is the domain-separated SHA-256 hash of its
// RFC 8785 canonical JSON form. The same program always yields the same
// fingerprint across processes and platforms, so fingerprints are safe
// cache keys for encoded output.
package fingerprint
