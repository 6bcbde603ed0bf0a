package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

// parseSelect is the statement-level entrypoint: it delegates to
// parseSelectStmt, which also parses the trailing set-operation chain
// (UNION/INTERSECT/EXCEPT).
func (p *Parser) parseSelect() (ast.Statement, *ParseError) {
	return p.parseSelectStmt()
}

// parseSelectStmt parses one SELECT, including an optional leading WITH
// clause and a trailing chain of set operations — reused for subqueries,
// CTEs, and top-level statements alike.
func (p *Parser) parseSelectStmt() (*ast.SelectStmt, *ParseError) {
	defer p.enterRule("selectStmt")()
	tok := p.tok
	stmt := &ast.SelectStmt{TokPos: tok.Pos}

	if p.is(lexer.DECLARE) {
		decls, err := p.parseDeclareClause()
		if err != nil {
			return nil, err
		}
		stmt.Declare = decls
	}

	if p.is(lexer.WITH) {
		wc, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		stmt.With = wc
	}

	if p.is(lexer.SELECT) {
		p.advance()
		if p.tryEat(lexer.DISTINCT) {
			stmt.Distinct = true
		}
		cols, err := p.parseSelectColumns()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	} else {
		// QuestDB's implicit form: no SELECT keyword, starts directly at FROM
		// or at a bare table reference (e.g. "trades LATEST ON ts ...").
		stmt.Implicit = true
	}

	if p.tryEat(lexer.FROM) || stmt.Implicit {
		refs, err := p.parseTableRefs()
		if err != nil {
			return nil, err
		}
		stmt.From = refs
	}
	if p.tryEat(lexer.WHERE) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = e
	}
	if p.is(lexer.SAMPLE) {
		sb, err := p.parseSampleByClause()
		if err != nil {
			return nil, err
		}
		stmt.SampleBy = sb
	}
	if p.is(lexer.LATEST) {
		lo, err := p.parseLatestOnClause()
		if err != nil {
			return nil, err
		}
		stmt.LatestOn = lo
	}
	if p.tryEat(lexer.GROUP) {
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = list
	}
	if p.tryEat(lexer.HAVING) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Having = e
	}
	if p.is(lexer.PIVOT) {
		pv, err := p.parsePivotClause()
		if err != nil {
			return nil, err
		}
		stmt.Pivot = pv
	}
	if p.is(lexer.ORDER) {
		items, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
	}
	if p.is(lexer.LIMIT) {
		lc, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		stmt.Limit = lc
	}

	for {
		var op ast.SetOp
		var all bool
		switch {
		case p.tryEat(lexer.UNION):
			op = ast.Union
			all = p.tryEat(lexer.ALL)
		case p.tryEat(lexer.INTERSECT):
			op = ast.Intersect
			all = p.tryEat(lexer.ALL)
		case p.tryEat(lexer.EXCEPT):
			op = ast.Except
			all = p.tryEat(lexer.ALL)
		default:
			return stmt, nil
		}
		right, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		stmt.SetOps = append(stmt.SetOps, ast.SetOperation{Op: op, All: all, Right: right})
	}
}

func (p *Parser) parseWithClause() (*ast.WithClause, *ParseError) {
	defer p.enterRule("withClause")()
	p.advance() // WITH
	wc := &ast.WithClause{}
	for {
		cte, err := p.parseCTE()
		if err != nil {
			return nil, err
		}
		wc.CTEs = append(wc.CTEs, *cte)
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return wc, nil
}

// parseDeclareClause consumes DECLARE @name := expr [, @name := expr ...].
func (p *Parser) parseDeclareClause() ([]ast.DeclareItem, *ParseError) {
	defer p.enterRule("declareClause")()
	p.advance() // DECLARE
	var out []ast.DeclareItem
	for {
		name := p.tok
		if name.Type != lexer.NAMEDPARAM {
			return nil, p.errorf("expected @variable after DECLARE, got %s", name.Type)
		}
		p.advance()
		if _, err := p.eat(lexer.ASSIGN); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, ast.DeclareItem{Name: string(name.Raw), Value: val})
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return out, nil
}

func (p *Parser) parseCTE() (*ast.CTE, *ParseError) {
	defer p.enterRule("cte")()
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	cte := &ast.CTE{Name: name}
	if p.tryEat(lexer.LPAREN) {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		cte.Columns = cols
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	if _, err := p.eat(lexer.AS); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	subq, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	cte.Subq = subq
	cte.EndPos = p.tok.Pos
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return cte, nil
}

func (p *Parser) parseSelectColumns() ([]ast.SelectColumn, *ParseError) {
	defer p.enterRule("selectColumns")()
	if p.is(lexer.STAR) {
		tok := p.advance()
		return []ast.SelectColumn{{Expr: &ast.StarExpr{TokPos: tok.Pos}, Star: true}}, nil
	}
	var out []ast.SelectColumn
	for {
		col, err := p.parseSelectColumn()
		if err != nil {
			return nil, err
		}
		out = append(out, col)
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return out, nil
}

func (p *Parser) parseSelectColumn() (ast.SelectColumn, *ParseError) {
	defer p.enterRule("selectColumn")()
	e, err := p.parseExpr()
	if err != nil {
		return ast.SelectColumn{}, err
	}
	col := ast.SelectColumn{Expr: e}
	if alias := p.tryParseAlias(); alias != nil {
		col.Alias = alias
	}
	return col, nil
}

func (p *Parser) parseTableRefs() ([]ast.TableRef, *ParseError) {
	defer p.enterRule("tableRefs")()
	first, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	refs := []ast.TableRef{first}
	for {
		switch {
		case p.isJoinStart():
			joined, err := p.parseJoinSuffix(refs[len(refs)-1])
			if err != nil {
				return nil, err
			}
			refs[len(refs)-1] = joined
		case p.tryEat(lexer.COMMA):
			next, err := p.parseTableRef()
			if err != nil {
				return nil, err
			}
			refs = append(refs, next)
		default:
			return refs, nil
		}
	}
}

func (p *Parser) isJoinStart() bool {
	switch p.tok.Type {
	case lexer.JOIN, lexer.INNER, lexer.LEFT, lexer.RIGHT, lexer.FULL,
		lexer.CROSS, lexer.ASOF, lexer.LT_JOIN, lexer.SPLICE, lexer.WINDOW:
		return true
	}
	return false
}

func (p *Parser) parseTableRef() (ast.TableRef, *ParseError) {
	defer p.enterRule("tableRef")()
	if p.is(lexer.LPAREN) {
		tok := p.advance()
		subq, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		endPos := p.tok.Pos
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		st := &ast.SubqueryTable{Subq: subq, TokPos: tok.Pos, EndPos: endPos}
		st.Alias = p.tryParseAlias()
		return st, nil
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	st := &ast.SimpleTable{Name: name}
	st.Alias = p.tryParseAlias()
	return st, nil
}

// durationRaw extracts a duration lexeme from tok: the raw bytes of a
// DURATION token, or the unquoted content of a STRING holding one —
// a quoted duration literal is the same statement as the bare spelling,
// and the bare spelling is canonical.
func durationRaw(tok lexer.Token) ([]byte, bool) {
	switch tok.Type {
	case lexer.DURATION:
		return tok.Raw, true
	case lexer.STRING:
		if len(tok.Raw) >= 3 {
			return tok.Raw[1 : len(tok.Raw)-1], true
		}
	}
	return nil, false
}

// tryParseAlias consumes an optional [AS] alias, stopping short of any
// keyword that introduces the next clause.
func (p *Parser) tryParseAlias() *ast.Ident {
	hadAs := p.tryEat(lexer.AS)
	if !identAdmissible(p.tok) {
		return nil
	}
	if !hadAs && isClauseStart(p.tok.Type) {
		return nil
	}
	alias, err := p.parseIdent()
	if err != nil {
		return nil
	}
	return alias
}

func isClauseStart(t lexer.TokenType) bool {
	switch t {
	case lexer.WHERE, lexer.SAMPLE, lexer.LATEST, lexer.GROUP, lexer.HAVING,
		lexer.ORDER, lexer.LIMIT, lexer.PIVOT, lexer.UNION, lexer.INTERSECT,
		lexer.EXCEPT, lexer.JOIN, lexer.INNER, lexer.LEFT, lexer.RIGHT,
		lexer.FULL, lexer.CROSS, lexer.ASOF, lexer.LT_JOIN, lexer.SPLICE,
		lexer.WINDOW, lexer.ON, lexer.USING, lexer.TOLERANCE, lexer.RANGE,
		lexer.INCLUDE, lexer.EXCLUDE:
		return true
	}
	return false
}

func (p *Parser) parseJoinSuffix(left ast.TableRef) (ast.TableRef, *ParseError) {
	defer p.enterRule("joinSuffix")()
	tok := p.tok
	kind := ast.InnerJoin
	switch p.tok.Type {
	case lexer.INNER:
		p.advance()
	case lexer.LEFT:
		p.advance()
		kind = ast.LeftJoin
		p.tryEat(lexer.OUTER)
	case lexer.RIGHT:
		p.advance()
		kind = ast.RightJoin
		p.tryEat(lexer.OUTER)
	case lexer.FULL:
		p.advance()
		kind = ast.FullJoin
		p.tryEat(lexer.OUTER)
	case lexer.CROSS:
		p.advance()
		kind = ast.CrossJoin
	case lexer.ASOF:
		p.advance()
		kind = ast.AsofJoin
	case lexer.LT_JOIN:
		p.advance()
		kind = ast.LtJoin
	case lexer.SPLICE:
		p.advance()
		kind = ast.SpliceJoin
	case lexer.WINDOW:
		p.advance()
		kind = ast.WindowJoin
	}
	if _, err := p.eat(lexer.JOIN); err != nil {
		return nil, err
	}
	right, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	jt := &ast.JoinTable{Left: left, Right: right, Kind: kind, TokPos: tok.Pos}

	if p.tryEatKeyword("tolerance") {
		durTok := p.tok
		raw, ok := durationRaw(durTok)
		if !ok {
			return nil, p.errorf("expected duration after TOLERANCE, got %s", durTok.Type)
		}
		p.advance()
		jt.Tolerance = &ast.DurationLit{Raw: raw, TokPos: durTok.Pos}
	}
	if p.tryEat(lexer.RANGE) {
		if _, err := p.eat(lexer.BETWEEN); err != nil {
			return nil, err
		}
		lo, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.AND); err != nil {
			return nil, err
		}
		hi, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		jt.RangeLower, jt.RangeUpper = lo, hi
	}
	if p.tryEat(lexer.INCLUDE) {
		p.tryEatKeyword("prevailing")
		jt.HasIncludePrevail = true
		jt.IncludePrevailing = true
	} else if p.tryEat(lexer.EXCLUDE) {
		p.tryEatKeyword("prevailing")
		jt.HasIncludePrevail = true
		jt.IncludePrevailing = false
	}
	if p.tryEat(lexer.ON) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		jt.On = e
	} else if p.tryEat(lexer.USING) {
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, err
		}
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		jt.Using = cols
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return jt, nil
}

func (p *Parser) parseSampleByClause() (*ast.SampleByClause, *ParseError) {
	defer p.enterRule("sampleByClause")()
	p.advance() // SAMPLE
	if _, err := p.eat(lexer.BY); err != nil {
		return nil, err
	}
	durTok := p.tok
	raw, ok := durationRaw(durTok)
	if !ok {
		return nil, p.errorf("expected duration after SAMPLE BY, got %s", durTok.Type)
	}
	p.advance()
	sb := &ast.SampleByClause{Duration: &ast.DurationLit{Raw: raw, TokPos: durTok.Pos}}
	if p.tryEat(lexer.FROM) {
		e, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		sb.From = e
	}
	if p.tryEat(lexer.TO) {
		e, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		sb.To = e
	}
	if p.tryEat(lexer.FILL) {
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		sb.Fill = list
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	if p.tryEat(lexer.ALIGN) {
		if _, err := p.eat(lexer.TO); err != nil {
			return nil, err
		}
		if p.tryEat(lexer.FIRST) {
			if _, err := p.eat(lexer.OBSERVATION); err != nil {
				return nil, err
			}
			sb.AlignTo = ast.AlignToFirstObservation
		} else if p.tryEat(lexer.CALENDAR) {
			sb.AlignTo = ast.AlignToCalendar
			if p.tryEatKeyword("time") {
				p.tryEatKeyword("zone")
				if p.is(lexer.STRING) {
					tz := p.tok
					p.advance()
					sb.TimeZone = &ast.Literal{Raw: tz.Raw, Kind: lexer.STRING, TokPos: tz.Pos}
				}
				if p.tryEatKeyword("with") {
					p.tryEatKeyword("offset")
					if p.is(lexer.STRING) {
						off := p.tok
						p.advance()
						sb.WithOffset = &ast.Literal{Raw: off.Raw, Kind: lexer.STRING, TokPos: off.Pos}
					}
				}
			}
		}
	}
	return sb, nil
}

func (p *Parser) parseLatestOnClause() (*ast.LatestOnClause, *ParseError) {
	defer p.enterRule("latestOnClause")()
	p.advance() // LATEST
	if _, err := p.eat(lexer.ON); err != nil {
		return nil, err
	}
	col, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.PARTITION); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.BY); err != nil {
		return nil, err
	}
	parts, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	return &ast.LatestOnClause{Column: col, PartitionBy: parts}, nil
}

// parsePivotClause parses the inline PIVOT clause. Only the first item may
// carry a FOR source (the grammar's leading-FOR quirk): the clause opens
// with FOR <col> IN (<values>) and the aggregate list follows.
func (p *Parser) parsePivotClause() (*ast.PivotClause, *ParseError) {
	defer p.enterRule("pivotClause")()
	p.advance() // PIVOT
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	pv := &ast.PivotClause{}
	var forExpr ast.Expr
	if p.tryEat(lexer.FOR) {
		e, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		forExpr = e
		if err := p.parsePivotInList(pv); err != nil {
			return nil, err
		}
	}
	for {
		item := ast.PivotItem{}
		if len(pv.Items) == 0 {
			item.For = forExpr
		}
		fc, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if call, ok := fc.(*ast.FuncCall); ok {
			item.Func = call
		}
		pv.Items = append(pv.Items, item)
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return pv, nil
}

func (p *Parser) parsePivotInList(pv *ast.PivotClause) *ParseError {
	if _, err := p.eat(lexer.IN); err != nil {
		return err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return err
	}
	for {
		v, err := p.parseExpr()
		if err != nil {
			return err
		}
		pi := ast.PivotInValue{Value: v}
		if alias := p.tryParseAlias(); alias != nil {
			pi.Alias = alias
		}
		pv.In = append(pv.In, pi)
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return err
	}
	return nil
}

func (p *Parser) parseLimitClause() (*ast.LimitClause, *ParseError) {
	defer p.enterRule("limitClause")()
	p.advance() // LIMIT
	lower, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	lc := &ast.LimitClause{Lower: lower}
	if p.tryEat(lexer.COMMA) {
		upper, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lc.Upper = upper
	}
	return lc, nil
}
