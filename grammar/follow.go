package grammar

import "github.com/oarkflow/questdbsql/lexer"

// Frame is one entry in the rule-path stack the parser is inside when it
// reaches the cursor (spec 4.7 step 1): a sequence rule together with how
// many of its items have already been consumed.
type Frame struct {
	Items []Rule
	Idx   int
}

// First computes the FIRST set of r: the terminals that can begin a string
// derived from r. Refs are resolved through Table; a visited-ref guard
// prevents infinite recursion on the grammar's cyclic references.
func First(r Rule, seen map[string]bool) map[lexer.TokenType]bool {
	out := map[lexer.TokenType]bool{}
	firstInto(r, seen, out)
	return out
}

func firstInto(r Rule, seen map[string]bool, out map[lexer.TokenType]bool) {
	switch r.Kind {
	case KindTerminal:
		out[r.Token] = true
	case KindOptional, KindMany:
		firstInto(*r.Elem, seen, out)
	case KindMany1:
		firstInto(*r.Elem, seen, out)
	case KindSepBy:
		firstInto(*r.Elem, seen, out)
	case KindSequence:
		for _, it := range r.Items {
			firstInto(it, seen, out)
			if !Nullable(it, Table, map[string]bool{}) {
				break
			}
		}
	case KindAlt:
		for _, it := range r.Items {
			firstInto(it, seen, out)
		}
	case KindRef:
		if seen[r.Ref] {
			return
		}
		seen[r.Ref] = true
		if sub, ok := Table[r.Ref]; ok {
			firstInto(sub, seen, out)
		}
	}
}

// FirstOfFrame computes next_token_kinds for a single stack frame: the
// FIRST set of its remaining (unconsumed) items, including whether that
// remainder is nullable (meaning the caller must also consult the parent
// frame's follow set).
func FirstOfFrame(f Frame) (set map[lexer.TokenType]bool, nullable bool) {
	set = map[lexer.TokenType]bool{}
	nullable = true
	for i := f.Idx; i < len(f.Items); i++ {
		firstInto(f.Items[i], map[string]bool{}, set)
		if !Nullable(f.Items[i], Table, map[string]bool{}) {
			nullable = false
			break
		}
	}
	return set, nullable
}

// NextTokenKinds computes next_token_kinds for a full rule-path stack
// (outermost first), propagating through nullable successors up the stack
// per spec 4.7 step 2.
func NextTokenKinds(stack []Frame) []lexer.TokenType {
	result := map[lexer.TokenType]bool{}
	for i := len(stack) - 1; i >= 0; i-- {
		set, nullable := FirstOfFrame(stack[i])
		for k := range set {
			result[k] = true
		}
		if !nullable {
			break
		}
	}
	out := make([]lexer.TokenType, 0, len(result))
	for k := range result {
		out = append(out, k)
	}
	return out
}
