// Package circuit defines the pulse network: modules, edges, and the
// textual description they are built from.
//
// A Network is built once by Parse and is read-only afterward. Every
// module has a stable integer id (its index in the module list) and an
// ordered list of output edges. Each edge carries the input slot it
// occupies on its target, assigned as "the Nth edge observed pointing at
// this target" during construction.
//
// # Description Format
//
// One module per line:
//
//	broadcaster -> a, b, c
//	%a -> b
//	&inv -> a
//
// The % prefix declares a flip-flop, the & prefix a conjunction, and the
// bare name broadcaster the broadcast module. Destination names that are
// never defined resolve to nothing, except the configured sink name
// (default "rx") which becomes an implicit Output module.
//
// Conjunctions with exactly one input are normalized to KindInverter.
package circuit
