// Package assist implements context-aware content assist: given a SQL
// source and a cursor offset, it reports which token kinds could come
// next and, where the cursor sits inside a SELECT, which tables/aliases
// and CTE columns are in scope for completion.
package assist

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/grammar"
	"github.com/oarkflow/questdbsql/lexer"
	"github.com/oarkflow/questdbsql/parser"
)

// TableScope is one FROM/JOIN entry reachable at the cursor.
type TableScope struct {
	Table string // table name (last segment of a qualified name), empty for subqueries/CTEs
	Alias string // alias or, for unaliased simple tables, the table's own last segment
}

// CteColumn is one projected column of a CTE's inner SELECT (spec 4.7 step 4).
type CteColumn struct {
	Name string
	Type string // always empty: no type-checking component exists (Non-goals)
}

// Result is the outcome of a content-assist query.
type Result struct {
	NextTokenKinds []lexer.TokenType
	Scope          []TableScope
	// CteColumns maps a CTE name, lowercased on insertion, to its projected
	// column list.
	CteColumns map[string][]CteColumn
	// QualifierTable is set when the token immediately before the cursor is
	// `ident.`, naming the table/alias the next identifier should be a
	// column of.
	QualifierTable string
}

// GetContentAssist runs the five-step algorithm: tokenize the prefix,
// replay it against the grammar to recover the open rule-path stack,
// compute next_token_kinds from that stack, then separately extract the
// scope (tables/CTE columns) in effect at the cursor by parsing the whole
// statement and locating the innermost enclosing SELECT.
func GetContentAssist(src string, cursor int) Result {
	toks := tokenizeUpTo(src, cursor)
	res := Result{}

	if qt := qualifierBefore(toks); qt != "" {
		res.QualifierTable = qt
	}

	_, frontier, ok := replay(grammar.Table["statement"], toks, 0)
	if ok && frontier != nil {
		res.NextTokenKinds = grammar.NextTokenKinds(frontier)
	} else {
		logrus.WithField("cursor", cursor).Debug("assist: grammar replay found no open frame, falling back to scan")
		res.NextTokenKinds = scanFallback(toks)
	}

	res.Scope, res.CteColumns = scopeAndCtesAt(src, cursor)
	if len(res.Scope) == 0 && res.QualifierTable != "" {
		// Autocomplete-without-FROM (spec 4.7 step 5): no FROM clause, but
		// the cursor follows `ident.` — synthesize a single scope entry
		// from that identifier so column completion still has a home.
		res.Scope = []TableScope{{Table: res.QualifierTable, Alias: res.QualifierTable}}
	}
	return res
}

func tokenizeUpTo(src string, cursor int) []lexer.Token {
	l := lexer.NewString(src)
	var out []lexer.Token
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF || int(tok.Pos) >= cursor {
			break
		}
		out = append(out, tok)
	}
	return out
}

// qualifierBefore reports the identifier immediately preceding a trailing
// `.` in the token stream, i.e. the cursor sits right after `alias.`.
func qualifierBefore(toks []lexer.Token) string {
	if len(toks) < 2 {
		return ""
	}
	last := toks[len(toks)-1]
	if last.Type != lexer.DOT {
		return ""
	}
	prev := toks[len(toks)-2]
	switch prev.Type {
	case lexer.IDENT:
		return string(prev.Raw)
	case lexer.DQUOTE:
		return unquoteDQuote(string(prev.Raw))
	default:
		return ""
	}
}

// scanFallback supplies the next-token kinds when grammar replay of the
// prefix fails or leaves no open frame: for an empty prefix it returns the
// statement-start keywords; for any other prefix it returns nil.
func scanFallback(toks []lexer.Token) []lexer.TokenType {
	if len(toks) == 0 {
		return []lexer.TokenType{lexer.SELECT, lexer.INSERT, lexer.UPDATE, lexer.CREATE, lexer.ALTER, lexer.DROP}
	}
	return nil
}

// replay walks rule against toks starting at pos, reporting how far it
// got and, if it ran out of tokens mid-derivation, the stack of open
// frames (outermost first) at the point it stopped — next_token_kinds
// input per spec 4.7 step 2.
func replay(rule grammar.Rule, toks []lexer.Token, pos int) (newPos int, frontier []grammar.Frame, ok bool) {
	switch rule.Kind {
	case grammar.KindTerminal:
		if pos >= len(toks) {
			return pos, []grammar.Frame{}, true
		}
		if toks[pos].Type == rule.Token {
			return pos + 1, nil, true
		}
		return pos, nil, false

	case grammar.KindRef:
		sub, found := grammar.Table[rule.Ref]
		if !found {
			return pos, nil, false
		}
		return replay(sub, toks, pos)

	case grammar.KindOptional:
		if pos >= len(toks) {
			// Wrap as the Optional rule itself (not just its inner element)
			// so Nullable() reports this frame as always-skippable: running
			// out of input here means both "begin the optional" and "skip
			// it and fall through to whatever follows" are valid, and the
			// latter requires propagating to the parent frame.
			return pos, []grammar.Frame{{Items: []grammar.Rule{rule}, Idx: 0}}, true
		}
		if newPos, fr, ok := replay(*rule.Elem, toks, pos); ok {
			return newPos, fr, true
		}
		return pos, nil, true

	case grammar.KindMany, grammar.KindMany1:
		count := 0
		for {
			if pos >= len(toks) {
				if rule.Kind == grammar.KindMany || count > 0 {
					// Zero-or-more, or Many1 past its first required
					// iteration: another occurrence or stopping here are
					// both valid, so this frame is nullable.
					wrapped := grammar.Optional(*rule.Elem)
					return pos, []grammar.Frame{{Items: []grammar.Rule{wrapped}, Idx: 0}}, true
				}
				// Many1 with zero iterations so far: at least one is
				// still required, so this frame is not nullable.
				return pos, []grammar.Frame{{Items: []grammar.Rule{rule}, Idx: 0}}, true
			}
			next, fr, elemOK := replay(*rule.Elem, toks, pos)
			if !elemOK {
				break
			}
			if fr != nil {
				return next, fr, true
			}
			if next == pos {
				break // avoid an infinite loop on a nullable element
			}
			pos = next
			count++
		}
		if rule.Kind == grammar.KindMany1 && count == 0 {
			return pos, nil, false
		}
		return pos, nil, true

	case grammar.KindSepBy:
		next, fr, elemOK := replay(*rule.Elem, toks, pos)
		if fr != nil {
			return next, fr, true
		}
		if !elemOK {
			return pos, nil, true // zero elements is fine for assist purposes
		}
		pos = next
		for {
			if pos >= len(toks) {
				// After at least one element, a separator+element pair or
				// stopping here are both valid: nullable, so wrap as
				// Optional for propagation to the parent frame.
				wrapped := grammar.Optional(grammar.Sequence(*rule.Sep, *rule.Elem))
				return pos, []grammar.Frame{{Items: []grammar.Rule{wrapped}, Idx: 0}}, true
			}
			sepNext, sepFr, sepOK := replay(*rule.Sep, toks, pos)
			if sepFr != nil {
				return sepNext, sepFr, true
			}
			if !sepOK {
				break
			}
			elNext, elFr, elOK := replay(*rule.Elem, toks, sepNext)
			if elFr != nil {
				return elNext, elFr, true
			}
			if !elOK {
				return pos, nil, false
			}
			pos = elNext
		}
		return pos, nil, true

	case grammar.KindSequence:
		for i := 0; i < len(rule.Items); i++ {
			if pos >= len(toks) {
				return pos, []grammar.Frame{{Items: rule.Items, Idx: i}}, true
			}
			next, fr, itemOK := replay(rule.Items[i], toks, pos)
			if !itemOK {
				return pos, nil, false
			}
			if fr != nil {
				frontier = append([]grammar.Frame{{Items: rule.Items, Idx: i + 1}}, fr...)
				return next, frontier, true
			}
			pos = next
		}
		return pos, nil, true

	case grammar.KindAlt:
		bestPos, bestOK := pos, false
		var bestFr []grammar.Frame
		for _, alt := range rule.Items {
			next, fr, altOK := replay(alt, toks, pos)
			if !altOK {
				continue
			}
			if !bestOK || next > bestPos || (next == bestPos && fr != nil && bestFr == nil) {
				bestPos, bestFr, bestOK = next, fr, true
			}
		}
		return bestPos, bestFr, bestOK
	}
	return pos, nil, false
}

// scopeAndCtesAt parses the full statement and reports the tables reachable
// at cursor: the nearest enclosing SELECT's FROM/JOIN chain, plus any CTEs
// visible from the statement's WITH clause (CTEs project their own column
// list as synthetic tables per spec 4.7 step 4). When the full text fails to
// parse it falls back to a token scanner over FROM/JOIN patterns (step 3).
func scopeAndCtesAt(src string, cursor int) ([]TableScope, map[string][]CteColumn) {
	stmt, err := parser.ParseStatement(src)
	if err != nil || stmt == nil {
		logrus.WithError(err).Debug("assist: full parse failed, falling back to token scan for scope")
		return scanScopeFallback(src, cursor)
	}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		return nil, nil
	}
	target := innermostSelectAt(sel, cursor)
	if target == nil {
		target = sel
	}
	var out []TableScope
	ctes := map[string][]CteColumn{}
	if target.With != nil {
		for _, cte := range target.With.CTEs {
			out = append(out, TableScope{Alias: cte.Name.Unquoted})
			ctes[strings.ToLower(cte.Name.Unquoted)] = cteColumnsOf(cte)
		}
	}
	for _, ref := range target.From {
		out = append(out, tableScopesOf(ref)...)
	}
	if len(ctes) == 0 {
		ctes = nil
	}
	return out, ctes
}

// cteColumnsOf projects a CTE's inner SELECT list to column descriptors
// (spec 4.7 step 4): alias if present, else bare column name, else function
// name. Literal-only items (no identifiable name) are dropped.
func cteColumnsOf(cte ast.CTE) []CteColumn {
	if cte.Subq == nil {
		return nil
	}
	return cteColumnsOfSelect(cte.Subq)
}

func cteColumnsOfSelect(sel *ast.SelectStmt) []CteColumn {
	var out []CteColumn
	for _, col := range sel.Columns {
		if col.Alias != nil {
			out = append(out, CteColumn{Name: col.Alias.Unquoted})
			continue
		}
		switch e := col.Expr.(type) {
		case *ast.Ident:
			out = append(out, CteColumn{Name: e.Unquoted})
		case *ast.QualifiedIdent:
			out = append(out, CteColumn{Name: e.Last()})
		case *ast.FuncCall:
			if e.Name != nil {
				out = append(out, CteColumn{Name: e.Name.Last()})
			}
		}
	}
	return out
}

// scanScopeFallback recognizes `FROM <ident|quoted-ident|keyword-ident>
// [<alias>]` and `JOIN <...> [<alias>]` patterns over the raw token stream
// (spec 4.7 step 3), used when the full text doesn't parse cleanly.
// Qualified names resolve to their last part. A leading WITH clause is
// still honored: each CTE body is located by paren matching and parsed on
// its own (they are often well-formed even when the outer statement is
// not), so CTE names and their projected columns stay available, and the
// FROM/JOIN scan is restricted to the region the cursor actually sits in —
// the broken outer statement must not inherit the tables of a CTE body it
// cannot see, nor vice versa.
func scanScopeFallback(src string, cursor int) ([]TableScope, map[string][]CteColumn) {
	l := lexer.NewString(src)
	var toks []lexer.Token
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
		toks = append(toks, tok)
	}

	spans := scanCteSpans(src, toks)
	ctes := map[string][]CteColumn{}
	for _, sp := range spans {
		if sel := parseCteBody(src, sp); sel != nil {
			ctes[strings.ToLower(sp.name)] = cteColumnsOfSelect(sel)
		}
	}

	// Restrict the FROM/JOIN scan to the cursor's own region: inside one
	// CTE body, or the outer statement with every CTE body masked out.
	lo, hi := 0, len(toks)
	outer := true
	for _, sp := range spans {
		if sp.startByte <= cursor && cursor <= sp.endByte {
			lo, hi = sp.startTok, sp.endTok
			outer = false
			break
		}
	}

	var out []TableScope
	for i := lo; i < hi; i++ {
		if outer && insideAnySpan(spans, i) {
			continue
		}
		if toks[i].Type != lexer.FROM && toks[i].Type != lexer.JOIN {
			continue
		}
		j := i + 1
		name, j2 := scanQualifiedName(toks, j)
		if name == "" {
			continue
		}
		j = j2
		alias := name
		if j < hi && aliasAdmissible(toks[j]) {
			alias = string(toks[j].Raw)
			if toks[j].Type == lexer.DQUOTE {
				alias = unquoteDQuote(alias)
			}
		}
		out = append(out, TableScope{Table: name, Alias: alias})
	}
	if outer {
		for _, sp := range spans {
			out = append(out, TableScope{Alias: sp.name})
		}
	}
	if len(ctes) == 0 {
		ctes = nil
	}
	return out, ctes
}

// aliasAdmissible reports whether tok could be a table alias: an
// identifier, quoted identifier, or non-reserved keyword. Reserved words
// (WHERE, ON, SET, ...) start the next clause instead.
func aliasAdmissible(tok lexer.Token) bool {
	if tok.Type == lexer.IDENT || tok.Type == lexer.DQUOTE {
		return true
	}
	if !lexer.IsKeywordRange(tok.Type) {
		return false
	}
	_, reserved := lexer.ReservedWords[strings.ToLower(string(tok.Raw))]
	return !reserved
}

// cteSpan is one `name AS ( body )` entry of a leading WITH clause,
// located purely by token scanning and paren matching.
type cteSpan struct {
	name               string
	startTok, endTok   int // token index range of the body, exclusive of parens
	startByte, endByte int // byte offset range of the body
}

func scanCteSpans(src string, toks []lexer.Token) []cteSpan {
	if len(toks) == 0 || toks[0].Type != lexer.WITH {
		return nil
	}
	var spans []cteSpan
	i := 1
	for i < len(toks) {
		if !isIdentLike(toks[i].Type) {
			return spans
		}
		name := string(toks[i].Raw)
		if toks[i].Type == lexer.DQUOTE {
			name = unquoteDQuote(name)
		}
		i++
		// optional explicit column list
		if i < len(toks) && toks[i].Type == lexer.LPAREN {
			i = skipBalanced(toks, i)
		}
		if i >= len(toks) || toks[i].Type != lexer.AS {
			return spans
		}
		i++
		if i >= len(toks) || toks[i].Type != lexer.LPAREN {
			return spans
		}
		bodyStart := i + 1
		i = skipBalanced(toks, i)
		bodyEnd := i - 1 // index of the closing paren, exclusive upper bound
		if bodyEnd <= bodyStart {
			return spans
		}
		spans = append(spans, cteSpan{
			name:      name,
			startTok:  bodyStart,
			endTok:    bodyEnd,
			startByte: int(toks[bodyStart].Pos),
			endByte:   int(toks[bodyEnd-1].Pos) + len(toks[bodyEnd-1].Raw),
		})
		if i < len(toks) && toks[i].Type == lexer.COMMA {
			i++
			continue
		}
		return spans
	}
	return spans
}

// skipBalanced advances past the paren group opening at i, returning the
// index just after its matching close (or len(toks) if unbalanced).
func skipBalanced(toks []lexer.Token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

func parseCteBody(src string, sp cteSpan) *ast.SelectStmt {
	if sp.startByte >= sp.endByte || sp.endByte > len(src) {
		return nil
	}
	stmt, err := parser.ParseStatement(src[sp.startByte:sp.endByte])
	if err != nil {
		return nil
	}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		return nil
	}
	return sel
}

func insideAnySpan(spans []cteSpan, tokIdx int) bool {
	for _, sp := range spans {
		if tokIdx >= sp.startTok && tokIdx < sp.endTok {
			return true
		}
	}
	return false
}

// scanQualifiedName consumes a dotted identifier chain starting at i,
// returning its last segment (unquoted) and the index just past it.
func scanQualifiedName(toks []lexer.Token, i int) (string, int) {
	if i >= len(toks) || !isIdentLike(toks[i].Type) {
		return "", i
	}
	last := string(toks[i].Raw)
	if toks[i].Type == lexer.DQUOTE {
		last = unquoteDQuote(last)
	}
	i++
	for i+1 < len(toks) && toks[i].Type == lexer.DOT && isIdentLike(toks[i+1].Type) {
		last = string(toks[i+1].Raw)
		if toks[i+1].Type == lexer.DQUOTE {
			last = unquoteDQuote(last)
		}
		i += 2
	}
	return last, i
}

func isIdentLike(t lexer.TokenType) bool {
	return t == lexer.IDENT || t == lexer.DQUOTE || lexer.IsKeywordRange(t)
}

func unquoteDQuote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	return strings.ReplaceAll(raw, `""`, `"`)
}

// innermostSelectAt walks a SELECT's FROM/subqueries, CTEs, and SetOps
// looking for the most deeply nested SelectStmt whose token range
// ([start, end] of its enclosing parentheses, end inclusive) contains cursor; it returns
// nil if sel itself is the best match (cursor sits in sel's own clauses,
// outside every nested subquery/CTE span).
func innermostSelectAt(sel *ast.SelectStmt, cursor int) *ast.SelectStmt {
	for _, ref := range sel.From {
		if sub, ok := ref.(*ast.SubqueryTable); ok && sub.Subq != nil {
			if spanContains(int(sub.TokPos), int(sub.EndPos), cursor) {
				if inner := innermostSelectAt(sub.Subq, cursor); inner != nil {
					return inner
				}
				return sub.Subq
			}
		}
	}
	for _, cte := range withCTEs(sel) {
		if cte.Subq != nil && spanContains(int(cte.Subq.Pos()), int(cte.EndPos), cursor) {
			if inner := innermostSelectAt(cte.Subq, cursor); inner != nil {
				return inner
			}
			return cte.Subq
		}
	}
	for _, so := range sel.SetOps {
		if so.Right != nil {
			if inner := innermostSelectAt(so.Right, cursor); inner != nil {
				return inner
			}
		}
	}
	return nil
}

func withCTEs(sel *ast.SelectStmt) []ast.CTE {
	if sel.With == nil {
		return nil
	}
	return sel.With.CTEs
}

// spanContains reports whether cursor falls inside [start, end], both ends inclusive.
// end==0 means "no known end" (shouldn't happen now that CTE/subquery spans
// are tracked, but guards against a zero-value EndPos never being set).
func spanContains(start, end, cursor int) bool {
	if end == 0 {
		return false
	}
	return start <= cursor && cursor <= end
}

func tableScopesOf(ref ast.TableRef) []TableScope {
	switch n := ref.(type) {
	case *ast.SimpleTable:
		ts := TableScope{Table: lastIdent(n.Name)}
		if n.Alias != nil {
			ts.Alias = n.Alias.Unquoted
		} else {
			ts.Alias = ts.Table
		}
		return []TableScope{ts}
	case *ast.SubqueryTable:
		if n.Alias != nil {
			return []TableScope{{Alias: n.Alias.Unquoted}}
		}
		return nil
	case *ast.JoinTable:
		out := tableScopesOf(n.Left)
		out = append(out, tableScopesOf(n.Right)...)
		return out
	}
	return nil
}

func lastIdent(qi *ast.QualifiedIdent) string {
	if qi == nil {
		return ""
	}
	return qi.Last()
}
