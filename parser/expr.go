package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

// parseExpr is the entrypoint of the precedence chain (spec 4.3): expr ->
// orExpr -> andExpr -> notExpr -> compareExpr -> addExpr -> mulExpr ->
// unaryExpr -> primary.
func (p *Parser) parseExpr() (ast.Expr, *ParseError) {
	defer p.enterRule("expr")()
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (ast.Expr, *ParseError) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.is(lexer.OR) {
		opTok := p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Op: lexer.OR, TokPos: opTok.Pos}
	}
	return left, nil
}

func (p *Parser) parseAndExpr() (ast.Expr, *ParseError) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.is(lexer.AND) {
		opTok := p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Op: lexer.AND, TokPos: opTok.Pos}
	}
	return left, nil
}

func (p *Parser) parseNotExpr() (ast.Expr, *ParseError) {
	if p.is(lexer.NOT) {
		tok := p.advance()
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Expr: inner, Op: lexer.NOT, TokPos: tok.Pos}, nil
	}
	return p.parseCompareExpr()
}

func (p *Parser) parseCompareExpr() (ast.Expr, *ParseError) {
	left, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case isCmpOp(p.tok.Type):
			opTok := p.advance()
			right, err := p.parseAddExpr()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Left: left, Right: right, Op: opTok.Type, TokPos: opTok.Pos}
		case p.is(lexer.BETWEEN) || (p.is(lexer.NOT) && p.peekToken().Type == lexer.BETWEEN):
			not := p.tryEat(lexer.NOT)
			tok := p.tok
			p.advance() // BETWEEN
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
			left = &ast.BetweenExpr{Expr: left, Lo: lo, Hi: hi, Not: not, TokPos: tok.Pos}
		case p.is(lexer.IN) || (p.is(lexer.NOT) && p.peekToken().Type == lexer.IN):
			not := p.tryEat(lexer.NOT)
			tok := p.tok
			p.advance() // IN
			in, err := p.parseInRhs(left, not, tok.Pos)
			if err != nil {
				return nil, err
			}
			left = in
		case p.is(lexer.IS):
			tok := p.advance()
			not := p.tryEat(lexer.NOT)
			if _, err := p.eat(lexer.NULL_KW); err != nil {
				return nil, err
			}
			left = &ast.IsNullExpr{Expr: left, Not: not, TokPos: tok.Pos}
		case p.is(lexer.LIKE) || (p.is(lexer.NOT) && p.peekToken().Type == lexer.LIKE):
			not := p.tryEat(lexer.NOT)
			tok := p.tok
			p.advance() // LIKE
			pattern, err := p.parseAddExpr()
			if err != nil {
				return nil, err
			}
			left = &ast.LikeExpr{Expr: left, Pattern: pattern, Not: not, TokPos: tok.Pos}
		case p.is(lexer.WITHIN):
			tok := p.advance()
			if _, err := p.eat(lexer.LPAREN); err != nil {
				return nil, err
			}
			args, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return nil, err
			}
			left = &ast.WithinExpr{Expr: left, Args: args, TokPos: tok.Pos}
		default:
			return left, nil
		}
	}
}

func isCmpOp(t lexer.TokenType) bool {
	switch t {
	case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		return true
	}
	return false
}

func (p *Parser) parseInRhs(left ast.Expr, not bool, pos int32) (ast.Expr, *ParseError) {
	if p.tryEat(lexer.LPAREN) {
		if p.is(lexer.SELECT) || p.is(lexer.WITH) {
			subq, err := p.parseSelectStmt()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return nil, err
			}
			return &ast.InExpr{Expr: left, Subq: subq, Not: not, Parenthesized: true, TokPos: pos}, nil
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.InExpr{Expr: left, List: list, Not: not, Parenthesized: true, TokPos: pos}, nil
	}
	rhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &ast.InExpr{Expr: left, List: []ast.Expr{rhs}, Not: not, TokPos: pos}, nil
}

func (p *Parser) parseExprList() ([]ast.Expr, *ParseError) {
	defer p.enterRule("exprList")()
	var out []ast.Expr
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for p.tryEat(lexer.COMMA) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (p *Parser) parseAddExpr() (ast.Expr, *ParseError) {
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}
	for p.is(lexer.PLUS) || p.is(lexer.MINUS) || p.is(lexer.DBAR) {
		opTok := p.advance()
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Op: opTok.Type, TokPos: opTok.Pos}
	}
	return left, nil
}

func (p *Parser) parseMulExpr() (ast.Expr, *ParseError) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.is(lexer.STAR) || p.is(lexer.SLASH) || p.is(lexer.PERCENT) {
		opTok := p.advance()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Right: right, Op: opTok.Type, TokPos: opTok.Pos}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (ast.Expr, *ParseError) {
	if p.is(lexer.MINUS) || p.is(lexer.PLUS) || p.is(lexer.TILDE) {
		tok := p.advance()
		inner, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(&ast.UnaryExpr{Expr: inner, Op: tok.Type, TokPos: tok.Pos})
	}
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(prim)
}

// parsePostfix handles ::type casts and [i] / [i:j] array subscript chains,
// both of which bind tighter than any binary operator.
func (p *Parser) parsePostfix(e ast.Expr) (ast.Expr, *ParseError) {
	for {
		switch {
		case p.is(lexer.DOUBLECOLON):
			tok := p.advance()
			dt, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			e = &ast.CastExpr{Expr: e, Type: dt, DoubleColon: true, TokPos: tok.Pos}
		case p.is(lexer.LBRACKET):
			tok := p.advance()
			var subs []ast.Node
			for {
				sub, err := p.parseArraySub()
				if err != nil {
					return nil, err
				}
				subs = append(subs, sub)
				if !p.tryEat(lexer.COMMA) {
					break
				}
			}
			if _, err := p.eat(lexer.RBRACKET); err != nil {
				return nil, err
			}
			e = &ast.ArrayAccess{Array: e, Subscripts: subs, TokPos: tok.Pos}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArraySub() (ast.Node, *ParseError) {
	var start ast.Expr
	if !p.is(lexer.COLON) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		start = e
	}
	if p.tryEat(lexer.COLON) {
		var end ast.Expr
		if !p.is(lexer.RBRACKET) && !p.is(lexer.COMMA) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end = e
		}
		return &ast.ArraySlice{Start: start, End: end}, nil
	}
	return start, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *ParseError) {
	defer p.enterRule("primary")()
	tok := p.tok
	switch tok.Type {
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.HEXLIT, lexer.BITLIT:
		p.advance()
		return &ast.Literal{Raw: tok.Raw, Kind: tok.Type, TokPos: tok.Pos}, nil
	case lexer.DURATION:
		p.advance()
		return &ast.DurationLit{Raw: tok.Raw, TokPos: tok.Pos}, nil
	case lexer.GEOHASH:
		p.advance()
		return &ast.GeohashLit{Raw: tok.Raw, TokPos: tok.Pos}, nil
	case lexer.NULL_KW:
		p.advance()
		return &ast.NullLit{TokPos: tok.Pos}, nil
	case lexer.TRUE_KW, lexer.FALSE_KW:
		p.advance()
		return &ast.Literal{Raw: tok.Raw, Kind: tok.Type, TokPos: tok.Pos}, nil
	case lexer.NAMEDPARAM, lexer.QUESTION, lexer.DOLLAR:
		p.advance()
		return &ast.Param{Raw: tok.Raw, TokPos: tok.Pos}, nil
	case lexer.STAR:
		p.advance()
		return &ast.StarExpr{TokPos: tok.Pos}, nil
	case lexer.LPAREN:
		return p.parseParenOrSubquery()
	case lexer.LBRACKET:
		return p.parseArrayLiteral(false)
	case lexer.ARRAY:
		p.advance()
		return p.parseArrayLiteral(true)
	case lexer.CASE:
		return p.parseCaseExpr()
	case lexer.CAST:
		return p.parseCastExpr()
	case lexer.EXISTS:
		return p.parseExistsExpr(false)
	case lexer.NOT:
		if p.peekToken().Type == lexer.EXISTS {
			p.advance()
			return p.parseExistsExpr(true)
		}
	case lexer.IDENT, lexer.DQUOTE:
		return p.parseIdentOrFuncCall()
	}
	if identAdmissible(tok) {
		return p.parseIdentOrFuncCall()
	}
	return nil, p.errorf("unexpected token %s (%q) in expression", tok.Type, tok.Raw)
}

func (p *Parser) parseParenOrSubquery() (ast.Expr, *ParseError) {
	tok := p.tok
	p.advance() // (
	if p.is(lexer.SELECT) || p.is(lexer.WITH) {
		leave := p.enterRule("subquery")
		subq, err := p.parseSelectStmt()
		if err != nil {
			leave()
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			leave()
			return nil, err
		}
		leave()
		return &ast.SubqueryExpr{Subq: subq, TokPos: tok.Pos}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var additional []ast.Expr
	for p.tryEat(lexer.COMMA) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		additional = append(additional, e)
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ParenExpr{Expr: first, Additional: additional, TokPos: tok.Pos}, nil
}

func (p *Parser) parseArrayLiteral(hasKeyword bool) (ast.Expr, *ParseError) {
	tok := p.tok
	if _, err := p.eat(lexer.LBRACKET); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if !p.is(lexer.RBRACKET) {
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		elems = list
	}
	if _, err := p.eat(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elems, HasArrayKeyword: hasKeyword, TokPos: tok.Pos}, nil
}

func (p *Parser) parseCaseExpr() (ast.Expr, *ParseError) {
	defer p.enterRule("case")()
	tok := p.advance() // CASE
	ce := &ast.CaseExpr{TokPos: tok.Pos}
	if !p.is(lexer.WHEN) {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Operand = operand
	}
	for p.tryEat(lexer.WHEN) {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.THEN); err != nil {
			return nil, err
		}
		res, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Whens = append(ce.Whens, ast.WhenClause{Cond: cond, Result: res})
	}
	if p.tryEat(lexer.ELSE) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ce.Else = e
	}
	if _, err := p.eat(lexer.END); err != nil {
		return nil, err
	}
	return ce, nil
}

func (p *Parser) parseCastExpr() (ast.Expr, *ParseError) {
	defer p.enterRule("cast")()
	tok := p.advance() // CAST
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.AS); err != nil {
		return nil, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CastExpr{Expr: inner, Type: dt, TokPos: tok.Pos}, nil
}

func (p *Parser) parseExistsExpr(not bool) (ast.Expr, *ParseError) {
	defer p.enterRule("exists")()
	tok := p.advance() // EXISTS
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	subq, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ExistsExpr{Subq: subq, Not: not, TokPos: tok.Pos}, nil
}

// parseIdentOrFuncCall parses a (possibly qualified) identifier, or a
// function call when immediately followed by '('. extract-style
// func(x FROM y) and aggregate qualifiers (DISTINCT, IGNORE NULLS, OVER,
// leading star) are all recognized here.
func (p *Parser) parseIdentOrFuncCall() (ast.Expr, *ParseError) {
	qi, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	if !p.is(lexer.LPAREN) {
		if len(qi.Parts) == 1 {
			return qi.Parts[0], nil
		}
		return qi, nil
	}
	defer p.enterRule("funcCall")()
	tok := p.tok
	p.advance() // (
	fc := &ast.FuncCall{Name: qi, TokPos: qi.Pos()}
	if p.tryEat(lexer.DISTINCT) {
		fc.Distinct = true
	}
	if p.is(lexer.STAR) {
		p.advance()
		fc.Star = true
	} else if !p.is(lexer.RPAREN) {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fc.Args = append(fc.Args, first)
		if p.tryEat(lexer.FROM) {
			sep, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fc.FromSeparator = sep
		}
		for p.tryEat(lexer.COMMA) {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fc.Args = append(fc.Args, arg)
		}
	}
	if p.tryEat(lexer.IGNORE) {
		p.tryEatKeyword("nulls")
		fc.IgnoreNulls = true
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	if p.tryEatKeyword("over") {
		over, err := p.parseOverClause(tok.Pos)
		if err != nil {
			return nil, err
		}
		fc.Over = over
	}
	return fc, nil
}

// tryEatKeyword consumes the current token if its raw text matches word
// case-insensitively, whatever its token type — used for words the parser
// recognizes by spelling rather than by token type.
func (p *Parser) tryEatKeyword(word string) bool {
	if lowerASCII(p.tok.Raw) == word {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) parseOverClause(pos int32) (*ast.OverClause, *ParseError) {
	defer p.enterRule("over")()
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	oc := &ast.OverClause{TokPos: pos}
	if p.tryEat(lexer.PARTITION) {
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		oc.PartitionBy = list
	}
	if p.is(lexer.ORDER) {
		items, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		oc.OrderBy = items
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return oc, nil
}

// parseOrderByClause consumes the leading ORDER BY keywords and the
// comma-separated item list that follows, wrapping both in a single
// "orderByClause" CST node (grammar's orderByClause rule).
func (p *Parser) parseOrderByClause() ([]ast.OrderByItem, *ParseError) {
	defer p.enterRule("orderByClause")()
	p.advance() // ORDER
	if _, err := p.eat(lexer.BY); err != nil {
		return nil, err
	}
	return p.parseOrderByItems()
}

func (p *Parser) parseOrderByItems() ([]ast.OrderByItem, *ParseError) {
	var out []ast.OrderByItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item := ast.OrderByItem{Expr: e}
		if p.tryEat(lexer.DESC) {
			item.Desc = true
		} else {
			p.tryEat(lexer.ASC)
		}
		if p.tryEatKeyword("nulls") {
			first := true
			if !p.tryEatKeyword("first") {
				p.tryEatKeyword("last")
				first = false
			}
			item.NullsFirst = &first
		}
		out = append(out, item)
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return out, nil
}
