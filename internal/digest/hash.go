package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/pulsenet/internal/circuit"
)

// Domain prefixes for content-addressed identity.
const (
	DomainCircuit = "pulsenet/circuit/" + DigestVersion
	DomainAnswer  = "pulsenet/answer/" + DigestVersion
)

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CircuitDocument is the canonical form of a resolved graph: the start
// module's name and, per module in id order, its name, kind and output
// target names. Unresolved edges appear as "".
func CircuitDocument(g circuit.Graph) Object {
	modules := make(Array, g.Len())
	for id := 0; id < g.Len(); id++ {
		outs := g.Outputs(id)
		targets := make([]string, len(outs))
		for j, e := range outs {
			if e.Resolved() {
				targets[j] = g.Name(e.Target)
			}
		}
		modules[id] = Object{
			"name":    g.Name(id),
			"kind":    g.Kind(id).String(),
			"outputs": targets,
		}
	}
	return Object{
		"start":   g.Name(g.Start()),
		"modules": modules,
	}
}

// Circuit returns the digest of g's canonical document.
func Circuit(g circuit.Graph) (string, error) {
	data, err := MarshalCanonical(CircuitDocument(g))
	if err != nil {
		return "", fmt.Errorf("circuit digest: %w", err)
	}
	return hashWithDomain(DomainCircuit, data), nil
}

// MustCircuit is like Circuit but panics on error.
func MustCircuit(g circuit.Graph) string {
	d, err := Circuit(g)
	if err != nil {
		panic(err)
	}
	return d
}

// AnswerID identifies the answer to one part for one circuit under the
// settings that affect it. sink names the watched module; presses is
// the part 1 press count and is ignored for part 2.
func AnswerID(circuitDigest string, part int, sink string, presses int) (string, error) {
	if part != 1 && part != 2 {
		return "", fmt.Errorf("answer id: part must be 1 or 2, got %d", part)
	}
	obj := Object{
		"circuit": circuitDigest,
		"part":    part,
	}
	if part == 1 {
		obj["presses"] = presses
	} else {
		obj["sink"] = sink
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("answer id: %w", err)
	}
	return hashWithDomain(DomainAnswer, data), nil
}
