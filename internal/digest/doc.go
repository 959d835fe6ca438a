// Package digest computes content-addressed identities for circuits and
// answers.
//
// Identities are SHA-256 over RFC 8785 canonical JSON, prefixed with a
// versioned domain string and a NUL separator so that digests from
// different domains never collide. Two descriptions that resolve to the
// same network (same names, kinds and edges, in the same order) share a
// circuit digest regardless of whitespace or the spelling of undefined
// destinations.
package digest
