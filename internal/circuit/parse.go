package circuit

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed line. Line is 1-based; zero means the
// error concerns the description as a whole.
type ParseError struct {
	Line    int
	Text    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "parse circuit: " + e.Message
	}
	return fmt.Sprintf("parse circuit: line %d: %s: %q", e.Line, e.Message, e.Text)
}

type parseConfig struct {
	sinkName    string
	broadcaster string
}

// ParseOption adjusts how a description is resolved.
type ParseOption func(*parseConfig)

// WithSinkName sets the name that becomes an implicit Output module when
// it is referenced but never defined. Default: "rx".
func WithSinkName(name string) ParseOption {
	return func(c *parseConfig) {
		c.sinkName = name
	}
}

// WithBroadcasterName sets the unprefixed name that declares the
// broadcast module. Default: "broadcaster".
func WithBroadcasterName(name string) ParseOption {
	return func(c *parseConfig) {
		c.broadcaster = name
	}
}

// declaration is one source line after the first pass.
type declaration struct {
	line    int
	text    string
	name    string
	kind    Kind
	targets []string
}

// Parse builds a Network from its textual description. It never returns
// a partially constructed network: any malformed line fails the whole
// parse with a *ParseError.
func Parse(text string, opts ...ParseOption) (*Network, error) {
	cfg := parseConfig{sinkName: DefaultSinkName, broadcaster: BroadcasterName}
	for _, opt := range opts {
		opt(&cfg)
	}

	decls, err := declare(text, cfg.broadcaster)
	if err != nil {
		return nil, err
	}

	// First pass: every source name gets its id in line order.
	index := make(map[string]int, len(decls)+1)
	for i, d := range decls {
		if _, dup := index[d.name]; dup {
			return nil, &ParseError{Line: d.line, Text: d.text, Message: fmt.Sprintf("module %q defined twice", d.name)}
		}
		index[d.name] = i
	}

	broadcaster, ok := index[cfg.broadcaster]
	if !ok {
		return nil, &ParseError{Message: "no broadcaster defined"}
	}

	modules := make([]Module, len(decls), len(decls)+1)
	for i, d := range decls {
		modules[i] = Module{Name: d.name, Kind: d.kind}
	}

	if _, defined := index[cfg.sinkName]; !defined && referenced(decls, cfg.sinkName) {
		index[cfg.sinkName] = len(modules)
		modules = append(modules, Module{Name: cfg.sinkName, Kind: KindOutput})
	}

	// Second pass: resolve names and hand out input slots.
	for i, d := range decls {
		outputs := make([]Edge, len(d.targets))
		for j, name := range d.targets {
			target, ok := index[name]
			if !ok {
				outputs[j] = Edge{Target: NoTarget}
				continue
			}
			outputs[j] = Edge{Target: target, Slot: modules[target].InputCount}
			modules[target].InputCount++
		}
		modules[i].Outputs = outputs
	}

	for i := range modules {
		if modules[i].Kind == KindConjunction && modules[i].InputCount == 1 {
			modules[i].Kind = KindInverter
		}
	}

	return &Network{modules: modules, broadcaster: broadcaster, index: index}, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or with descriptions known to be valid.
func MustParse(text string, opts ...ParseOption) *Network {
	n, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func declare(text, broadcaster string) ([]declaration, error) {
	var decls []declaration
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		d, err := declareLine(i+1, line, broadcaster)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if len(decls) == 0 {
		return nil, &ParseError{Message: "empty description"}
	}
	return decls, nil
}

func declareLine(lineNo int, line, broadcaster string) (declaration, error) {
	fail := func(msg string) (declaration, error) {
		return declaration{}, &ParseError{Line: lineNo, Text: line, Message: msg}
	}

	head, tail, found := strings.Cut(line, "->")
	if !found {
		return fail("missing \"->\"")
	}
	head = strings.TrimSpace(head)

	d := declaration{line: lineNo, text: line}
	switch {
	case strings.HasPrefix(head, "%"):
		d.kind, d.name = KindFlipFlop, head[1:]
	case strings.HasPrefix(head, "&"):
		d.kind, d.name = KindConjunction, head[1:]
	case head == broadcaster:
		d.kind, d.name = KindBroadcast, head
	default:
		return fail("cannot determine module kind")
	}
	if d.name == broadcaster && d.kind != KindBroadcast {
		return fail("broadcaster cannot carry a kind prefix")
	}
	if !validName(d.name) {
		return fail("invalid module name")
	}

	tail = strings.TrimSpace(tail)
	if tail == "" {
		return d, nil
	}
	for _, name := range strings.Split(tail, ",") {
		name = strings.TrimSpace(name)
		if !validName(name) {
			return fail("invalid destination name")
		}
		d.targets = append(d.targets, name)
	}
	return d, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t%&,")
}

func referenced(decls []declaration, name string) bool {
	for _, d := range decls {
		for _, t := range d.targets {
			if t == name {
				return true
			}
		}
	}
	return false
}
