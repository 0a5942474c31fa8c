package types

import (
	"fmt"
	"strings"
)

// epsilonSymbol mirrors grammar.Epsilon's literal; kept duplicated rather
// than imported to avoid a types<->grammar import cycle (grammar depends on
// types for TokenClass, not the reverse).
const epsilonSymbol = "ε"

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// ParseTree is the derivation tree built by a predictive parser: one node per
// expansion step, with terminal leaves carrying the Token that was matched.
type ParseTree struct {
	// Terminal is whether this node is for a terminal symbol.
	Terminal bool

	// Value is the symbol at this node.
	Value string

	// Source is only set when Terminal is true.
	Source Token

	// Children is all children of the parse tree, left to right.
	Children []*ParseTree
}

// String returns a prettified representation of the entire parse tree
// suitable for line-by-line comparison. Two parse trees are considered
// semantically identical if they produce identical String() output.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

// Copy returns a duplicate, deeply-copied parse tree.
func (pt ParseTree) Copy() ParseTree {
	newPt := ParseTree{
		Terminal: pt.Terminal,
		Value:    pt.Value,
		Source:   pt.Source,
		Children: make([]*ParseTree, len(pt.Children)),
	}

	for i := range pt.Children {
		if pt.Children[i] != nil {
			newChild := pt.Children[i].Copy()
			newPt.Children[i] = &newChild
		}
	}

	return newPt
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Value))
	}

	for i := range pt.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(pt.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		itemOut := pt.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix)
		sb.WriteString(itemOut)
	}

	return sb.String()
}

// Equal returns whether the parse tree is equal to the given object. If the
// given object is not a ParseTree, returns false, else returns whether the
// two parse trees have the exact same structure.
func (pt ParseTree) Equal(o any) bool {
	other, ok := o.(ParseTree)
	if !ok {
		otherPtr, ok := o.(*ParseTree)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if pt.Terminal != other.Terminal {
		return false
	} else if pt.Value != other.Value {
		return false
	}

	if len(pt.Children) != len(other.Children) {
		return false
	}
	for i := range pt.Children {
		if !pt.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Leaves returns the terminal symbols of the tree in left-to-right order,
// the literal lexemes where a Source token is attached. Used to check the
// parser-soundness property (§8): the concatenation of leaves of an accepted
// derivation must equal the input token stream.
func (pt ParseTree) Leaves() []string {
	if pt.Terminal {
		if pt.Value == epsilonSymbol {
			return nil
		}
		return []string{pt.Value}
	}
	var out []string
	for _, c := range pt.Children {
		if c != nil {
			out = append(out, c.Leaves()...)
		}
	}
	return out
}
