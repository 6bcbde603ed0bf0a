// Package questdbsql is a zero-allocation lexer, recursive-descent
// parser, AST, SQL serializer, and content-assist engine for the
// QuestDB SQL dialect.
//
// Design goals carried over from the library this one is built in the
// style of:
//   - Zero heap allocations in the lexer hot path
//   - O(1) keyword recognition via length-bucketed tables
//   - Precedence-chain expression parsing (one recursive-descent function per level)
//   - A real nested CST built in lock-step with the AST (see package parser)
//
// Usage:
//
//	stmt, err := questdbsql.ParseOne("SELECT ts, sym, price FROM trades LATEST ON ts PARTITION BY sym")
//	sql, err := questdbsql.ToSQL(stmt)
//	result := questdbsql.GetContentAssist("SELECT * FROM trades WHERE ", 27)
package questdbsql

import (
	"fmt"

	"github.com/oarkflow/questdbsql/assist"
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/grammar"
	"github.com/oarkflow/questdbsql/lexer"
	"github.com/oarkflow/questdbsql/parser"
	"github.com/oarkflow/questdbsql/serializer"
)

// Re-export the core types so callers only need this package.
type (
	Statement  = ast.Statement
	Expr       = ast.Expr
	SelectStmt = ast.SelectStmt
	Token      = lexer.Token
	TokenType  = lexer.TokenType
)

// ParseOne parses a single SQL statement from source text. It fails if the
// input contains zero statements or more than one.
func ParseOne(sql string) (Statement, error) {
	stmts, errs := ParseStatements(sql)
	if len(errs) > 0 {
		return nil, &ApiError{Op: "ParseOne", Err: errs[0]}
	}
	if len(stmts) != 1 {
		return nil, &ApiError{Op: "ParseOne", Err: fmt.Errorf("expected 1 statement, found %d", len(stmts))}
	}
	return stmts[0], nil
}

// ParseStatements parses zero or more semicolon-separated statements,
// continuing past malformed statements rather than aborting the batch. It
// fails (returns a non-empty errors slice) if any statement failed to parse
// OR the lexer hit an unterminated string/quoted-identifier/block comment or
// an unrecognized character along the way (lex errors surface here as *ParseError too, since both
// taxonomies are call-failing for this entrypoint).
func ParseStatements(sql string) ([]Statement, []*ParseError) {
	stmts, perrs, lerrs := parser.ParseStatementsWithLexErrors(sql)
	out := make([]*ParseError, 0, len(perrs)+len(lerrs))
	for _, e := range lerrs {
		out = append(out, &ParseError{Msg: e.Msg, Pos: e.Pos, Line: e.Line, Col: e.Col})
	}
	for _, e := range perrs {
		out = append(out, &ParseError{Msg: e.Msg, Pos: e.Pos, Line: e.Line, Col: e.Col})
	}
	return stmts, out
}

// ParseResult is the outcome of ParseToAST: the best AST the parse could
// build plus every error recorded along the way (spec §6/§7), split by
// taxonomy. Unlike ParseOne/ParseStatements it never fails its contract: AST
// may be empty or partial when Errors/LexErrors is non-empty, but the call
// itself always succeeds.
type ParseResult struct {
	AST       []Statement
	Errors    []*ParseError
	LexErrors []*LexError
}

// ParseToAST is the library's total entrypoint: it always returns, never
// surfacing an error from the call itself. Compare ParseOne/ParseStatements,
// which fail the call when the input doesn't parse cleanly.
func ParseToAST(sql string) ParseResult {
	stmts, perrs, lerrs := parser.ParseStatementsWithLexErrors(sql)
	outP := make([]*ParseError, 0, len(perrs))
	for _, e := range perrs {
		outP = append(outP, &ParseError{Msg: e.Msg, Pos: e.Pos, Line: e.Line, Col: e.Col})
	}
	outL := make([]*LexError, 0, len(lerrs))
	for _, e := range lerrs {
		outL = append(outL, &LexError{Msg: e.Msg, Pos: e.Pos, Line: e.Line, Col: e.Col})
	}
	return ParseResult{AST: stmts, Errors: outP, LexErrors: outL}
}

// ToSQL renders stmt back to canonical QuestDB SQL text.
func ToSQL(stmt Statement) (string, error) {
	sql, err := serializer.ToSQL(stmt)
	if err != nil {
		return "", &ApiError{Op: "ToSQL", Err: err}
	}
	return sql, nil
}

// ToSQLAll renders a sequence of statements, joined with ";\n" (spec §6:
// "to_sql(Statement | Statement[]) → string — joins multiple statements
// with ';\n'"), the Statement[] half of to_sql's contract that ToSQL alone
// doesn't cover.
func ToSQLAll(stmts []Statement) (string, error) {
	sql, err := serializer.ToSQLAll(stmts)
	if err != nil {
		return "", &ApiError{Op: "ToSQLAll", Err: err}
	}
	return sql, nil
}

// GetContentAssist reports the set of token kinds that could validly
// appear at cursor, plus the table/CTE scope visible there.
func GetContentAssist(sql string, cursor int) assist.Result {
	return assist.GetContentAssist(sql, cursor)
}

// GetNextValidTokens is a thin convenience wrapper returning only the
// token-kind half of GetContentAssist's result.
func GetNextValidTokens(sql string, cursor int) []TokenType {
	return assist.GetContentAssist(sql, cursor).NextTokenKinds
}

// IsTokenExpected reports whether kind is among the tokens
// GetNextValidTokens would return for sql at cursor.
func IsTokenExpected(sql string, cursor int, kind TokenType) bool {
	for _, k := range GetNextValidTokens(sql, cursor) {
		if k == kind {
			return true
		}
	}
	return false
}

// GrammarTable exposes the shared FIRST/FOLLOW rule graph for callers
// that want to drive their own completion UI off the raw grammar
// instead of assist.Result.
func GrammarTable() map[string]grammar.Rule {
	return grammar.Table
}
