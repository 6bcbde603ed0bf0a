// Package grammar holds the QuestDB SQL grammar as first-class data: the
// same rule objects drive both the parser's predictive choice and the
// content-assist engine's follow-set computation, so the grammar is never
// duplicated between the two.
package grammar

import "github.com/oarkflow/questdbsql/lexer"

// Kind tags a Rule's shape.
type Kind uint8

const (
	KindTerminal Kind = iota
	KindSequence
	KindAlt
	KindOptional
	KindMany
	KindMany1
	KindSepBy
	KindRef
)

// Rule is a tagged grammar production. Rules form a directed graph (they may
// recurse) and are looked up by name through the package-level Table rather
// than owned as pointers, so cycles never need special-casing.
type Rule struct {
	Kind  Kind
	Name  string      // stable name, set for every rule entered as a named production
	Token lexer.TokenType // KindTerminal
	Items []Rule      // KindSequence, KindAlt
	Elem  *Rule       // KindOptional, KindMany, KindMany1, KindSepBy (element)
	Sep   *Rule       // KindSepBy (separator)
	Ref   string      // KindRef: name to resolve via Table
}

func Terminal(t lexer.TokenType) Rule { return Rule{Kind: KindTerminal, Token: t} }

func Sequence(items ...Rule) Rule { return Rule{Kind: KindSequence, Items: items} }

func Alt(items ...Rule) Rule { return Rule{Kind: KindAlt, Items: items} }

func Optional(r Rule) Rule { return Rule{Kind: KindOptional, Elem: &r} }

func Many(r Rule) Rule { return Rule{Kind: KindMany, Elem: &r} }

func Many1(r Rule) Rule { return Rule{Kind: KindMany1, Elem: &r} }

func SepBy(elem, sep Rule) Rule { return Rule{Kind: KindSepBy, Elem: &elem, Sep: &sep} }

func Named(name string, r Rule) Rule {
	r.Name = name
	return r
}

func RefTo(name string) Rule { return Rule{Kind: KindRef, Ref: name} }

// Nullable reports whether r can match the empty string, given the named
// rule table (needed to resolve Ref without infinite recursion on cycles).
func Nullable(r Rule, table map[string]Rule, seen map[string]bool) bool {
	switch r.Kind {
	case KindTerminal:
		return false
	case KindOptional, KindMany:
		return true
	case KindMany1:
		return Nullable(*r.Elem, table, seen)
	case KindSepBy:
		return Nullable(*r.Elem, table, seen)
	case KindSequence:
		for _, it := range r.Items {
			if !Nullable(it, table, seen) {
				return false
			}
		}
		return true
	case KindAlt:
		for _, it := range r.Items {
			if Nullable(it, table, seen) {
				return true
			}
		}
		return false
	case KindRef:
		if seen[r.Ref] {
			return false
		}
		seen[r.Ref] = true
		if sub, ok := table[r.Ref]; ok {
			return Nullable(sub, table, seen)
		}
		return false
	}
	return false
}
