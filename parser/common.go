package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

// parseIdent consumes a single identifier, admitting identifier-keyword
// tokens (spec 4.1) wherever a bare name is expected.
func (p *Parser) parseIdent() (*ast.Ident, *ParseError) {
	tok := p.tok
	if !identAdmissible(tok) {
		return nil, p.errorf("expected identifier, got %s (%q)", tok.Type, tok.Raw)
	}
	p.advance()
	return &ast.Ident{Raw: tok.Raw, Unquoted: unquoteIdent(tok), TokPos: tok.Pos}, nil
}

func unquoteIdent(t lexer.Token) string {
	if t.Type == lexer.DQUOTE {
		if len(t.Raw) >= 2 {
			return string(t.Raw[1 : len(t.Raw)-1])
		}
		return string(t.Raw)
	}
	return string(t.Raw)
}

// parseQualifiedIdent consumes a dotted name (a.b.c).
func (p *Parser) parseQualifiedIdent() (*ast.QualifiedIdent, *ParseError) {
	first, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	parts := []*ast.Ident{first}
	for p.tok.Type == lexer.DOT {
		p.advance()
		part, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return &ast.QualifiedIdent{Parts: parts}, nil
}

// parseIdentList consumes a comma-separated list of identifiers.
func (p *Parser) parseIdentList() ([]*ast.Ident, *ParseError) {
	var out []*ast.Ident
	first, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for p.tryEat(lexer.COMMA) {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// parseDataType consumes a column type, including GEOHASH(n) precision.
func (p *Parser) parseDataType() (*ast.DataType, *ParseError) {
	tok := p.tok
	if !identAdmissible(tok) {
		return nil, p.errorf("expected type name, got %s", tok.Type)
	}
	p.advance()
	dt := &ast.DataType{Name: tok.Raw, TokPos: tok.Pos}
	if tok.Type == lexer.GEOHASH_KW && p.tryEat(lexer.LPAREN) {
		bits := p.tok
		if bits.Type != lexer.INT {
			return nil, p.errorf("expected geohash precision, got %s", bits.Type)
		}
		p.advance()
		n, _ := atoiBytes(bits.Raw)
		dt.GeohashBits = n
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return dt, nil
	}
	if p.tryEat(lexer.LPAREN) {
		prec := p.tok
		if prec.Type != lexer.INT {
			return nil, p.errorf("expected precision, got %s", prec.Type)
		}
		p.advance()
		n, _ := atoiBytes(prec.Raw)
		dt.Precision = n
		dt.HasPrecision = true
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return dt, nil
}

func atoiBytes(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return n, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// parseTtlClause consumes TTL <n> [<unit>].
func (p *Parser) parseTtlClause() (*ast.TtlClause, *ParseError) {
	if _, err := p.eat(lexer.TTL); err != nil {
		return nil, err
	}
	return p.parseTtlValue()
}

// parseTtlValue consumes the <n> [<unit>] tail of a TTL clause, with the
// TTL keyword already eaten. Only real TTL unit spellings are consumed —
// anything else (WAL, DEDUP, ...) belongs to the next clause.
func (p *Parser) parseTtlValue() (*ast.TtlClause, *ParseError) {
	nTok := p.tok
	if nTok.Type != lexer.INT {
		return nil, p.errorf("expected TTL value, got %s", nTok.Type)
	}
	p.advance()
	n, _ := atoiBytes(nTok.Raw)
	unit := "HOURS"
	if isTtlUnit(p.tok.Raw) {
		unit = string(p.tok.Raw)
		p.advance()
	}
	return &ast.TtlClause{Value: int64(n), Unit: unit}, nil
}

func isTtlUnit(raw []byte) bool {
	if len(raw) == 1 {
		switch raw[0] {
		case 'h', 'H', 'd', 'D', 'w', 'W', 'M', 'y', 'Y':
			return true
		}
		return false
	}
	switch lowerASCII(raw) {
	case "hour", "hours", "day", "days", "week", "weeks",
		"month", "months", "year", "years":
		return true
	}
	return false
}
