/*
Llcore drives the grammar-normalization pipeline, the LL(1) table builder,
and the predictive parser from the command line.

Usage:

	llcore [flags]
	llcore [flags] -i SOURCE_FILE

With no -i/--source, llcore reads one program at a time from stdin (readline
where available, a plain line reader otherwise) until a blank line or EOF,
lexing and parsing each one in turn.

The flags are:

	-v, --version
		Print the current version and exit.

	-g, --grammar FILE
		Load a JSON grammar descriptor (§6) from FILE instead of the built-in
		teaching-language demo grammar (grammar.Sample).

	-i, --source FILE
		Lex and parse the program in FILE instead of entering the
		interactive reader.

	-V, --verbosity N
		Diagnostic verbosity passed to diagnostics.NewLog: 0 prints only a
		one-line summary per normalization stage, >=1 also prints each
		stage's rendered detail table.

	-m, --conflict-mode abort|diagnose
		How LL(1) table construction reacts to a cell collision (§4.3):
		abort stops at the first one, diagnose reports every one found and
		still prints the (possibly ambiguous) table.

	-n, --nullable STRINGS
		Comma-separated nonterminal names allowed to keep an ε-production
		through epsilon-elimination (§4.2 stage 4, the "list-tail"
		relaxation documented in §9). May be given more than once.

	-d, --direct
		Force the plain line reader over GNU-readline-based input even in a
		terminal.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/llcore/config"
	"github.com/dekarrin/llcore/diagnostics"
	"github.com/dekarrin/llcore/grammar"
	"github.com/dekarrin/llcore/icterrors"
	"github.com/dekarrin/llcore/internal/input"
	"github.com/dekarrin/llcore/internal/version"
	"github.com/dekarrin/llcore/lex"
	"github.com/dekarrin/llcore/parse"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitBadGrammar
	ExitParseError
	ExitUsageError
)

var (
	returnCode = ExitSuccess

	flagVersion      = pflag.BoolP("version", "v", false, "Print the current version and exit.")
	flagGrammarFile  = pflag.StringP("grammar", "g", "", "Load a JSON grammar descriptor from FILE.")
	flagSourceFile   = pflag.StringP("source", "i", "", "Lex and parse the program in FILE.")
	flagVerbosity    = pflag.IntP("verbosity", "V", 0, "Diagnostic verbosity.")
	flagConflictMode = pflag.StringP("conflict-mode", "m", "abort", "LL(1) table-conflict handling: abort or diagnose.")
	flagNullable     = pflag.StringArrayP("nullable", "n", nil, "Nonterminal allowed to keep an epsilon-production.")
	flagDirect       = pflag.BoolP("direct", "d", false, "Force the plain line reader over readline.")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("llcore %s\n", version.Current)
		return
	}

	conflictMode, err := config.ParseConflictMode(*flagConflictMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	var whitelist []string
	for _, group := range *flagNullable {
		whitelist = append(whitelist, strings.Split(group, ",")...)
	}

	g, err := loadGrammar(*flagGrammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBadGrammar
		return
	}

	normalized, table, err := buildTable(g, whitelist, conflictMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBadGrammar
		return
	}

	fmt.Println("-- parse table --")
	fmt.Println(table.String())
	fmt.Println()

	parser, err := parse.New(normalized)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBadGrammar
		return
	}

	if *flagSourceFile != "" {
		if err := runSourceFile(parser, *flagSourceFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
		return
	}

	if err := runInteractive(parser); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
	}
}

// loadGrammar loads a Descriptor from path, or the built-in demo grammar if
// path is empty.
func loadGrammar(path string) (grammar.Grammar, error) {
	if path == "" {
		return grammar.Sample(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return grammar.Grammar{}, fmt.Errorf("read grammar file: %w", err)
	}
	desc, err := grammar.ParseDescriptor(data)
	if err != nil {
		return grammar.Grammar{}, err
	}
	return desc.ToGrammar(), nil
}

// buildTable runs g through the normalization pipeline and the LL(1) table
// builder, printing the diagnostic log to stdout as it goes.
func buildTable(g grammar.Grammar, whitelist []string, mode config.ConflictMode) (grammar.Grammar, grammar.LL1Table, error) {
	log := diagnostics.NewLog(*flagVerbosity)

	normalized, err := diagnostics.RunNormalize(g, log, whitelist...)
	if err != nil {
		fmt.Println(log.String())
		return grammar.Grammar{}, nil, err
	}

	table, conflicts := diagnostics.RunTable(normalized, log)
	fmt.Println(log.String())
	fmt.Println()

	if len(conflicts) > 0 {
		for _, c := range conflicts {
			fmt.Fprintf(os.Stderr, "CONFLICT: %s\n", c.Error())
		}
		if mode == config.ConflictAbort {
			return grammar.Grammar{}, nil, conflicts[0]
		}
	}

	return normalized, table, nil
}

// runSourceFile lexes and parses the single program in path.
func runSourceFile(parser parse.Parser, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	return lexAndParse(parser, f)
}

// runInteractive reads one program per "paragraph" (terminated by a blank
// line or EOF) from stdin and parses each in turn, grounded on engine.go's
// useReadline decision: readline-backed input unless --direct forces the
// plain reader.
func runInteractive(parser parse.Parser) error {
	useReadline := !*flagDirect

	if useReadline {
		rd, err := input.NewInteractiveReader()
		if err != nil {
			return err
		}
		defer rd.Close()
		rd.AllowBlank(true)
		return interactiveLoop(parser, rd)
	}

	rd := input.NewDirectReader(os.Stdin)
	defer rd.Close()
	rd.AllowBlank(true)
	return interactiveLoop(parser, rd)
}

// commandReader is the subset of input.DirectCommandReader /
// input.InteractiveCommandReader this loop needs.
type commandReader interface {
	ReadCommand() (string, error)
}

func interactiveLoop(parser parse.Parser, rd commandReader) error {
	var program []string
	for {
		line, err := rd.ReadCommand()
		if err != nil {
			if err == io.EOF {
				if len(program) > 0 {
					parseAndReport(parser, strings.NewReader(strings.Join(program, "\n")))
				}
				return nil
			}
			return err
		}

		if strings.TrimSpace(line) == "" {
			if len(program) == 0 {
				continue
			}
			parseAndReport(parser, strings.NewReader(strings.Join(program, "\n")))
			program = nil
			continue
		}

		if strings.EqualFold(strings.TrimSpace(line), "quit") {
			return nil
		}

		program = append(program, line)
	}
}

func lexAndParse(parser parse.Parser, r io.Reader) error {
	return parseAndReport(parser, r)
}

func parseAndReport(parser parse.Parser, r io.Reader) error {
	stream, err := lex.Lex(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "LEX ERROR: %s\n", err.Error())
		return err
	}

	result, err := parser.Parse(stream)
	if err != nil {
		kind, _ := icterrors.KindOf(err)
		fmt.Fprintf(os.Stderr, "PARSE ERROR [%s]: %s\n", kind, err.Error())
		return err
	}

	fmt.Println("-- leftmost derivation --")
	for _, step := range result.Derivation {
		fmt.Printf("%s -> %s\n", step.NonTerminal, step.Production.String())
	}
	return nil
}
