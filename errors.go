package questdbsql

import "fmt"

// LexError is raised for input the lexer cannot tokenize (an unterminated
// string/quoted identifier/block comment, or an unrecognized character).
type LexError struct {
	Msg  string
	Pos  int32
	Line uint32
	Col  uint32
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is raised when a statement could not be recognized against
// the grammar; Pos/Line/Col locate the offending token.
type ParseError struct {
	Msg  string
	Pos  int32
	Line uint32
	Col  uint32
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// SerializationError is raised when ToSQL is given an AST shape with no
// render path (practically: a hand-built AST outside what the parser
// itself ever produces).
type SerializationError struct {
	Msg string
}

func (e *SerializationError) Error() string { return "serialization error: " + e.Msg }

// ApiError wraps any of the above with the operation name that surfaced
// it, for callers that want one error type at the package boundary.
type ApiError struct {
	Op  string
	Err error
}

func (e *ApiError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *ApiError) Unwrap() error { return e.Err }
