package parser

import (
	"fmt"

	"github.com/oarkflow/questdbsql/ast"
)

// VisitResult is the outcome of folding a CST into an AST: the best AST the
// fold could produce, plus any panics it had to isolate along the way and,
// when the statement failed to parse, that parse error's message.
type VisitResult struct {
	Stmt   ast.Statement
	Panics []string
}

// Visit performs the CST -> AST fold (spec 4.5). In this implementation the
// AST is actually constructed directly by the recursive-descent parser in
// lock-step with its CST (see Parser.advance, which appends every consumed
// token into the active CST node) rather than as a second pass over an
// already-built CST — the grammar table in package grammar is what the two
// passes would otherwise have needed to keep in sync, and sharing it here
// would only duplicate the dispatch already in ddl.go/select.go/ops.go.
// Visit exists as the fold's entrypoint for the one property a one-pass
// build doesn't give for free: panic isolation. Visit parses a single
// statement (ParseOne); a panic during that parse unwinds to here instead
// of the caller, and is recorded rather than propagated.
func Visit(src string) (result VisitResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Panics = append(result.Panics, fmt.Sprintf("%v", r))
		}
	}()
	stmt, _, err := NewString(src).ParseOne()
	if err != nil {
		result.Panics = append(result.Panics, err.Error())
	}
	result.Stmt = stmt
	return result
}
