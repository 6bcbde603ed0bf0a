package questdbsql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/questdbsql"
)

func TestParseOneFailsOnZeroStatements(t *testing.T) {
	_, err := questdbsql.ParseOne("   ")
	require.Error(t, err)
}

func TestParseOneFailsOnMultipleStatements(t *testing.T) {
	_, err := questdbsql.ParseOne("SELECT 1; SELECT 2")
	require.Error(t, err)
}

func TestParseOneFailsOnMalformedInput(t *testing.T) {
	_, err := questdbsql.ParseOne("GARBAGE ] ] ]")
	require.Error(t, err)
}

func TestParseOneSucceedsOnExactlyOneStatement(t *testing.T) {
	stmt, err := questdbsql.ParseOne("SELECT 1")
	require.NoError(t, err)
	require.NotNil(t, stmt)
}

func TestParseStatementsFailsWhenAnyStatementErrors(t *testing.T) {
	_, errs := questdbsql.ParseStatements("SELECT 1; GARBAGE ] ] ]; SELECT 3")
	require.NotEmpty(t, errs)
}

func TestParseStatementsSucceedsOnCleanBatch(t *testing.T) {
	stmts, errs := questdbsql.ParseStatements("SELECT 1; SELECT 2")
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
}

// ParseToAST must never fail the call itself (spec 6): a malformed batch
// still returns whatever partial AST it could build, plus accumulated
// errors, rather than the call failing outright.
func TestParseToASTNeverFailsTheCallItself(t *testing.T) {
	result := questdbsql.ParseToAST("SELECT 1; GARBAGE ] ] ]; SELECT 3")
	require.NotEmpty(t, result.Errors)
	require.NotEmpty(t, result.AST, "well-formed statements around the bad one should still parse")
}

func TestParseToASTOnCleanInputHasNoErrors(t *testing.T) {
	result := questdbsql.ParseToAST("SELECT 1; SELECT 2")
	require.Empty(t, result.Errors)
	require.Empty(t, result.LexErrors)
	require.Len(t, result.AST, 2)
}

func TestParseToASTSurfacesLexErrorsSeparately(t *testing.T) {
	result := questdbsql.ParseToAST("SELECT 'unterminated")
	require.NotEmpty(t, result.LexErrors)
}

func TestToSQLRoundTripsSimpleSelect(t *testing.T) {
	stmt, err := questdbsql.ParseOne("SELECT * FROM trades")
	require.NoError(t, err)
	sql, err := questdbsql.ToSQL(stmt)
	require.NoError(t, err)
	require.NotEmpty(t, sql)
}

func TestToSQLAllJoinsStatementsWithSemicolonNewline(t *testing.T) {
	stmts, errs := questdbsql.ParseStatements("SELECT 1; SELECT 2")
	require.Empty(t, errs)
	sql, err := questdbsql.ToSQLAll(stmts)
	require.NoError(t, err)
	require.Contains(t, sql, ";\n")
}

func TestIsTokenExpectedMatchesGetNextValidTokens(t *testing.T) {
	sql := "SELECT * FROM t ORDER "
	next := questdbsql.GetNextValidTokens(sql, len(sql))
	require.NotEmpty(t, next)
	require.True(t, questdbsql.IsTokenExpected(sql, len(sql), next[0]))
}
