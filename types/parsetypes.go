package types

// ParserType names the parsing strategy a Parser implements. Only ParserLL1
// is implemented by this module; the others are named so callers that
// persist a ParserType value (e.g. in a stored diagnostic run) have a stable
// vocabulary, even though constructing anything but an LL(1) parser is out of
// scope.
type ParserType string

const (
	ParserLL1   ParserType = "LL(1)"
	ParserSLR1  ParserType = "SLR(1)"
	ParserCLR1  ParserType = "CLR(1)"
	ParserLALR1 ParserType = "LALR(1)"
)

func (pt ParserType) String() string {
	return string(pt)
}
