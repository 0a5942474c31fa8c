package grammar

import (
	"fmt"
	"strings"
)

// parseRule parses a single rule string such as "S -> a B | b" into a Rule.
// Alternatives are separated by "|"; each alternative is whitespace-
// separated symbols, with the literal "ε" (or "epsilon") standing for the
// empty production. Rule bodies may span multiple lines; leading/trailing
// whitespace around each line is ignored. This DSL exists purely to make
// grammar test fixtures readable; it is not part of the public API used by
// callers constructing a Grammar from a real descriptor (§6).
func parseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	arrowIdx := strings.Index(s, "->")
	if arrowIdx < 0 {
		return Rule{}, fmt.Errorf("rule %q missing '->'", s)
	}

	nt := strings.TrimSpace(s[:arrowIdx])
	if nt == "" {
		return Rule{}, fmt.Errorf("rule %q missing left-hand nonterminal", s)
	}

	body := s[arrowIdx+2:]
	altStrs := strings.Split(body, "|")

	r := Rule{NonTerminal: nt}
	for _, altStr := range altStrs {
		fields := strings.Fields(altStr)
		if len(fields) == 0 || (len(fields) == 1 && isEpsilonToken(fields[0])) {
			r.Productions = append(r.Productions, Epsilon)
			continue
		}

		prod := make(Production, 0, len(fields))
		for _, f := range fields {
			if isEpsilonToken(f) {
				continue
			}
			prod = append(prod, f)
		}
		if len(prod) == 0 {
			prod = Epsilon
		}
		r.Productions = append(r.Productions, prod)
	}

	return r, nil
}

func isEpsilonToken(s string) bool {
	return s == epsilonSymbol || s == "epsilon"
}

// mustParseRule is parseRule but panics on malformed input; used only from
// test fixtures, where a malformed literal is a test-authoring bug.
func mustParseRule(s string) Rule {
	r, err := parseRule(s)
	if err != nil {
		panic(err)
	}
	return r
}
