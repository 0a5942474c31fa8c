package grammar

import "github.com/dekarrin/llcore/types"

// Sample returns the teaching-language grammar used throughout the test
// suite and the CLI's demo command, translated from
// tyap_deterministic_final.py's __main__ grammar literal into the
// keyword/terminal alphabet of §1/§6: programs, declarations, assignment,
// conditionals, loops, reads/writes, and arithmetic/boolean expressions.
// Comment productions and the original's character-by-character
// identifier/digit rules are intentionally not reproduced -- comments are
// elided entirely by the lexer before the parser ever sees a token, and the
// identifier/number alphabets are out of grammar scope, represented here
// only by the two catch-all terminal classes.
//
// The returned grammar is already non-left-recursive and prefix-free (the
// arithmetic/boolean rules use the classic sum/sum-tail, term/term-tail
// shape), so Normalize on it is mostly a no-op beyond chain-rule and
// epsilon bookkeeping -- useful for exercising the pipeline against a
// grammar that was never meant to be pathological.
//
// The start nonterminal is named "prog", not "program": the language's own
// leading keyword is the terminal "program", and a nonterminal can't share
// a name with a terminal without making every terminal/nonterminal check
// ambiguous for that one symbol.
func Sample() Grammar {
	var g Grammar

	for _, id := range []string{
		"program", "var", "begin", "end", "read", "write",
		"if", "then", "else", "while", "do", "for", "to", "ass",
		"true", "false", "or", "and", "not",
		"%", "!", "$",
		"(", ")", ",", ":", ";", ".", "=", "<", ">", "<=", ">=", "+", "-", "*", "/",
		ClassIdentifier, ClassNumber,
	} {
		g.AddTerm(id, types.MakeDefaultClass(id))
	}

	rules := []string{
		"prog -> program declarations ; body .",
		"declarations -> var " + ClassIdentifier + " decl_tail",
		"decl_tail -> , " + ClassIdentifier + " decl_tail | : type",
		"type -> % | ! | $",
		"body -> begin stmt_list end",
		"stmt_list -> stmt ; stmt_list | ε",
		"stmt -> assignment | conditional | while_loop | for_loop | compound | read_stmt | write_stmt",
		"assignment -> " + ClassIdentifier + " ass sum",
		"conditional -> if expr then stmt else stmt",
		"while_loop -> while expr do stmt",
		"for_loop -> for assignment to expr do stmt",
		"compound -> begin stmt_list end",
		"read_stmt -> read ( " + ClassIdentifier + " read_tail )",
		"read_tail -> , " + ClassIdentifier + " read_tail | ε",
		"write_stmt -> write ( expr write_tail )",
		"write_tail -> , expr write_tail | ε",
		"expr -> unary | comparison",
		"unary -> not factor",
		"comparison -> sum comparison_tail",
		"comparison_tail -> relop sum | ε",
		"relop -> = | < | > | <= | >=",
		"sum -> term sum_tail",
		"sum_tail -> add_op term sum_tail | ε",
		"add_op -> + | - | or",
		"term -> factor term_tail",
		"term_tail -> mul_op factor term_tail | ε",
		"mul_op -> * | / | and",
		"factor -> " + ClassIdentifier + " | " + ClassNumber + " | bool_const | ( expr )",
		"bool_const -> true | false",
	}

	for _, src := range rules {
		r := mustParseRule(src)
		g.SetProductions(r.NonTerminal, r.Productions)
	}
	g.SetStart("prog")

	return g
}

// ClassIdentifier and ClassNumber name the grammar's two catch-all terminal
// classes; duplicated here (rather than imported from lex) since grammar
// must not depend on lex -- lex depends on grammar's sibling package types,
// and grammar must stay the lower layer.
const (
	ClassIdentifier = "идентификатор"
	ClassNumber     = "число"
)
