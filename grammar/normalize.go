package grammar

// Normalize runs the full seven-stage pipeline of §4.2 in order, producing a
// grammar with a non-empty language, no non-generating or unreachable
// symbols, no ε-productions (except possibly start → ε), no chain
// productions, no shared left-factorable prefixes, and no immediate left
// recursion. whitelist names nonterminals ("list-tail" style helpers) that
// are allowed to retain an ε-production by stage 4.4 even when they are not
// the start symbol (§4.2 stage 4's sanctioned relaxation).
//
// The first stage to fail stops the pipeline and returns its error
// (icterrors.EmptyLanguage, icterrors.UndefinedSymbol, or
// icterrors.IndirectLeftRecursion); a successful return is a grammar ready
// for LLParseTable.
func (g Grammar) Normalize(whitelist ...string) (Grammar, error) {
	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}
	if err := g.CheckNonEmpty(); err != nil {
		return Grammar{}, err
	}

	out := g.RemoveNonGenerating()
	out = out.RemoveUnreachable()
	out = out.RemoveEpsilons(whitelist...)
	out = out.RemoveUnitProductions()
	out = out.LeftFactor()

	// LeftFactor's fresh nonterminal can itself introduce a new chain
	// production (a factored suffix that is exactly its sibling's name, e.g.
	// S → aS | ε factors to S → aS-P | ε, S-P → S | ε). Stage 5 already ran
	// and never revisits it, so run it again to resolve any such leftover
	// before checking left-recursion form.
	out = out.RemoveUnitProductions()

	if err := out.CheckLeftRecursionForm(); err != nil {
		return Grammar{}, err
	}
	out = out.RemoveLeftRecursion()

	return out, nil
}
