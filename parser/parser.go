// Package parser provides a recursive descent parser for the QuestDB SQL
// dialect. It produces a typed AST directly (in the teacher's single-pass
// style) while building a real, nested CST in lock-step at clause/rule
// granularity (spec 3/4.4) via enterRule, and it never aborts: on a token
// mismatch it records a ParseError and attempts recovery so the caller
// always gets the best AST/CST it could build.
package parser

import (
	"fmt"

	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

// ParseError records a parse failure (spec 7).
type ParseError struct {
	Msg  string
	Pos  int32
	Line uint32
	Col  uint32
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// Parser converts a stream of tokens into an AST plus a CST, tolerating and
// recording errors rather than aborting.
type Parser struct {
	lex     *lexer.Lexer
	tok     lexer.Token // current (already consumed from lexer)
	peek    lexer.Token // one token ahead
	hasPeek bool

	Errors []*ParseError
	cst    *Node // CST for the statement currently being parsed
}

// New creates a Parser for the given SQL bytes.
func New(src []byte) *Parser {
	p := &Parser{}
	p.lex = lexer.New(src)
	p.tok = p.lex.Next()
	return p
}

// NewString creates a Parser for a SQL string.
func NewString(src string) *Parser {
	p := &Parser{}
	p.lex = lexer.NewString(src)
	p.tok = p.lex.Next()
	return p
}

// Reset reuses the parser with new input, reusing internal memory.
func (p *Parser) Reset(src []byte) {
	if p.lex == nil {
		p.lex = lexer.New(src)
	} else {
		p.lex.Reset(src)
	}
	p.tok = p.lex.Next()
	p.hasPeek = false
	p.Errors = nil
}

// ParseOne parses a single SQL statement, returning its CST alongside it.
func (p *Parser) ParseOne() (ast.Statement, *Node, error) {
	p.skipSemis()
	if p.tok.Type == lexer.EOF {
		return nil, nil, nil
	}
	stmt, node := p.parseStatementRecovering()
	p.skipSemis()
	if len(p.Errors) > 0 {
		return stmt, node, p.Errors[0]
	}
	return stmt, node, nil
}

// ParseAll parses every statement in the input, separated by semicolons.
// It never aborts: a statement that fails to parse still contributes its
// partial CST and the recorded errors (no AST statement is kept for it), and
// parsing continues after it.
func (p *Parser) ParseAll() ([]ast.Statement, []*Node, []*ParseError) {
	var stmts []ast.Statement
	var nodes []*Node
	for {
		p.skipSemis()
		if p.tok.Type == lexer.EOF {
			break
		}
		stmt, node := p.parseStatementRecovering()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}
	return stmts, nodes, p.Errors
}

func (p *Parser) parseStatementRecovering() (ast.Statement, *Node) {
	start := p.tok
	stmt, node, err := p.parseStatementCST()
	if err != nil {
		p.Errors = append(p.Errors, err)
		p.recover()
	}
	_ = start
	return stmt, node
}

// recover skips tokens up to the next statement terminator or EOF, or to a
// synchronizing leading keyword, whichever comes first (spec 4.4).
func (p *Parser) recover() {
	for p.tok.Type != lexer.EOF && p.tok.Type != lexer.SEMICOLON {
		if isSyncKeyword(p.tok.Type) {
			return
		}
		p.advance()
	}
}

func isSyncKeyword(t lexer.TokenType) bool {
	switch t {
	case lexer.SELECT, lexer.INSERT, lexer.UPDATE, lexer.CREATE, lexer.ALTER,
		lexer.DROP, lexer.TRUNCATE, lexer.SHOW, lexer.EXPLAIN, lexer.WITH,
		lexer.GRANT, lexer.REVOKE:
		return true
	}
	return false
}

// LexErrors returns the lex-level failures (spec 7) accumulated while
// scanning the input so far: unterminated strings/quoted identifiers/block
// comments and unrecognized characters. These are independent of ParseError — a statement can be both
// lexically and syntactically broken.
func (p *Parser) LexErrors() []lexer.LexError {
	return p.lex.Errors
}

// ParseStatement is the public entrypoint for parsing a single statement.
func ParseStatement(src string) (ast.Statement, error) {
	p := NewString(src)
	stmt, _, err := p.ParseOne()
	return stmt, err
}

// ParseStatements parses multiple statements.
func ParseStatements(src string) ([]ast.Statement, []*ParseError) {
	p := NewString(src)
	stmts, _, errs := p.ParseAll()
	return stmts, errs
}

// ParseStatementsWithLexErrors is ParseStatements plus the lex-level errors
// accumulated along the way (spec 7), for callers that need to surface both
// taxonomies (the root package's ParseToAST/ParseStatements).
func ParseStatementsWithLexErrors(src string) ([]ast.Statement, []*ParseError, []lexer.LexError) {
	p := NewString(src)
	stmts, _, errs := p.ParseAll()
	return stmts, errs, p.LexErrors()
}

// ---- internal helpers ----

func (p *Parser) advance() lexer.Token {
	prev := p.tok
	if p.cst != nil && prev.Type != lexer.EOF {
		p.cst.addToken(prev)
	}
	if p.hasPeek {
		p.tok = p.peek
		p.hasPeek = false
	} else {
		p.tok = p.lex.Next()
	}
	return prev
}

func (p *Parser) peekToken() lexer.Token {
	if !p.hasPeek {
		p.peek = p.lex.Next()
		p.hasPeek = true
	}
	return p.peek
}

func (p *Parser) skipSemis() {
	for p.tok.Type == lexer.SEMICOLON {
		p.advance()
	}
}

func (p *Parser) is(typ lexer.TokenType) bool { return p.tok.Type == typ }

func (p *Parser) eat(typ lexer.TokenType) (lexer.Token, *ParseError) {
	if p.tok.Type != typ {
		return p.tok, p.errorf("expected %s, got %s (%q)", typ, p.tok.Type, p.tok.Raw)
	}
	return p.advance(), nil
}

func (p *Parser) tryEat(typ lexer.TokenType) bool {
	if p.tok.Type == typ {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Msg:  fmt.Sprintf(format, args...),
		Pos:  p.tok.Pos,
		Line: p.tok.Line,
		Col:  p.tok.Col,
	}
}

// enterRule pushes a new CST node named rule as the active node, nesting it
// under whatever node was active before. The returned leave func pops back
// to the previous node and attaches the new node as its child, so a call
// bracketing a grammar-rule parse function (`defer p.enterRule("ruleName")()`)
// produces a real nested tree in lock-step with the AST build (spec 3/4.4) —
// rule names mirror the ones in package grammar's Table where a direct
// counterpart exists.
func (p *Parser) enterRule(rule string) func() {
	if p.cst == nil {
		return func() {}
	}
	node := newNode(rule)
	parent := p.cst
	p.cst = node
	return func() {
		p.cst = parent
		parent.addChild(node)
	}
}

// identAdmissible reports whether t is admissible as an identifier: a bare IDENT,
// a quoted identifier, or any keyword in the identifier-keyword class
// (spec 4.1) — i.e. every keyword-range token except the reserved ones.
func identAdmissible(t lexer.Token) bool {
	if t.Type == lexer.IDENT || t.Type == lexer.DQUOTE {
		return true
	}
	if !lexer.IsKeywordRange(t.Type) {
		return false
	}
	lower := lowerASCII(t.Raw)
	_, reserved := lexer.ReservedWords[lower]
	return !reserved
}

func lowerASCII(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		out[i] = c
	}
	return string(out)
}

// ---- statement dispatch ----

func (p *Parser) parseStatementCST() (ast.Statement, *Node, *ParseError) {
	node := newNode("statement")
	prevCST := p.cst
	p.cst = node
	defer func() { p.cst = prevCST }()

	stmt, err := p.dispatchStatement()
	return stmt, node, err
}

func (p *Parser) dispatchStatement() (ast.Statement, *ParseError) {
	switch p.tok.Type {
	case lexer.SELECT, lexer.DECLARE:
		return p.parseSelect()
	case lexer.WITH:
		return p.parseWithLedStatement()
	case lexer.INSERT:
		return p.parseInsert()
	case lexer.UPDATE:
		return p.parseUpdate()
	case lexer.CREATE:
		return p.parseCreate()
	case lexer.ALTER:
		return p.parseAlter()
	case lexer.DROP:
		return p.parseDrop()
	case lexer.TRUNCATE:
		return p.parseTruncate()
	case lexer.RENAME:
		return p.parseRenameTable()
	case lexer.SHOW:
		return p.parseShow()
	case lexer.EXPLAIN:
		return p.parseExplain()
	case lexer.GRANT:
		return p.parseGrant()
	case lexer.REVOKE:
		return p.parseRevoke()
	case lexer.ASSUME:
		return p.parseAssumeServiceAccount()
	case lexer.EXIT:
		return p.parseExitServiceAccount()
	case lexer.ADD:
		return p.parseAddUser()
	case lexer.CANCEL:
		return p.parseCancelOrCopyCancel()
	case lexer.CHECKPOINT:
		return p.parseCheckpoint()
	case lexer.SNAPSHOT:
		return p.parseSnapshot()
	case lexer.VACUUM:
		return p.parseVacuum()
	case lexer.REINDEX:
		return p.parseReindex()
	case lexer.COPY:
		return p.parseCopy()
	case lexer.BACKUP:
		return p.parseBackup()
	case lexer.REFRESH:
		return p.parseRefreshMaterializedView()
	case lexer.IDENT:
		return p.parseIdentLedStatement()
	default:
		if identAdmissible(p.tok) || p.is(lexer.LPAREN) {
			// Implicit SELECT form led by a keyword-identifier table name or
			// a parenthesized subquery.
			return p.parseSelect()
		}
		return nil, p.errorf("unexpected token %q at start of statement", p.tok.Raw)
	}
}

// parseWithLedStatement resolves what a leading WITH clause prefixes: the
// CTE list binds to a following INSERT or UPDATE just as it does to a
// SELECT (spec 3: "with CTEs precede the statement body").
func (p *Parser) parseWithLedStatement() (ast.Statement, *ParseError) {
	wc, err := p.parseWithClause()
	if err != nil {
		return nil, err
	}
	switch p.tok.Type {
	case lexer.INSERT:
		stmt, err := p.parseInsert()
		if err != nil {
			return nil, err
		}
		stmt.(*ast.InsertStmt).With = wc
		return stmt, nil
	case lexer.UPDATE:
		stmt, err := p.parseUpdate()
		if err != nil {
			return nil, err
		}
		stmt.(*ast.UpdateStmt).With = wc
		return stmt, nil
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	sel.With = wc
	return sel, nil
}

// parseIdentLedStatement handles bare-word statements whose leading token
// isn't a reserved keyword in this dialect (REMOVE USER, COMPILE VIEW...),
// falling through to QuestDB's implicit SELECT form ("trades LATEST ON ts
// PARTITION BY sym") for anything else identifier-led.
func (p *Parser) parseIdentLedStatement() (ast.Statement, *ParseError) {
	word := lowerASCII(p.tok.Raw)
	switch word {
	case "remove":
		if p.peekToken().Type == lexer.USER {
			return p.parseRemoveUser()
		}
	case "compile":
		if p.peekToken().Type == lexer.VIEW {
			return p.parseCompileView()
		}
	}
	return p.parseSelect()
}
