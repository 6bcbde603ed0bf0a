package questdbsql_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/questdbsql"
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

// TestScenarioS1 covers spec end-to-end scenario S1: a simple filtered
// SELECT round-trips to an equivalent statement.
func TestScenarioS1(t *testing.T) {
	sql := "SELECT * FROM trades WHERE symbol = 'BTC-USD'"
	stmt, err := questdbsql.ParseOne(sql)
	require.NoError(t, err)
	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok)
	require.Len(t, sel.From, 1)

	rendered, err := questdbsql.ToSQL(stmt)
	require.NoError(t, err)

	stmt2, err := questdbsql.ParseOne(rendered)
	require.NoError(t, err)
	rendered2, err := questdbsql.ToSQL(stmt2)
	require.NoError(t, err)
	require.Equal(t, rendered, rendered2, "re-rendering the canonical form must be a fixed point")
}

// TestScenarioS2 covers spec scenario S2: SAMPLE BY with FILL and ALIGN TO.
func TestScenarioS2(t *testing.T) {
	sql := "SELECT avg(price) FROM trades SAMPLE BY 1h FILL(PREV) ALIGN TO CALENDAR"
	stmt, err := questdbsql.ParseOne(sql)
	require.NoError(t, err)
	sel, ok := stmt.(*ast.SelectStmt)
	require.True(t, ok)
	require.NotNil(t, sel.SampleBy)
	require.Equal(t, "1h", string(sel.SampleBy.Duration.Raw))
	require.Len(t, sel.SampleBy.Fill, 1)
	require.Equal(t, ast.AlignToCalendar, sel.SampleBy.AlignTo)

	rendered, err := questdbsql.ToSQL(stmt)
	require.NoError(t, err)
	stmt2, err := questdbsql.ParseOne(rendered)
	require.NoError(t, err)
	rendered2, err := questdbsql.ToSQL(stmt2)
	require.NoError(t, err)
	require.Equal(t, rendered, rendered2)
}

// TestScenarioS3 covers spec scenario S3: a CREATE TABLE with a designated
// timestamp, partitioning, WAL/DEDUP, and a TTL clause.
func TestScenarioS3(t *testing.T) {
	sql := "CREATE TABLE t (ts TIMESTAMP, p DOUBLE) TIMESTAMP(ts) PARTITION BY DAY WAL DEDUP UPSERT KEYS(ts) TTL 30 DAYS"
	stmt, err := questdbsql.ParseOne(sql)
	require.NoError(t, err)
	ct, ok := stmt.(*ast.CreateTableStmt)
	require.True(t, ok)
	require.NotNil(t, ct.Timestamp)
	require.Equal(t, "ts", ct.Timestamp.Unquoted)
	require.Equal(t, "DAY", ct.PartitionBy)
	require.NotNil(t, ct.Wal)
	require.True(t, *ct.Wal)
	require.Equal(t, []string{"ts"}, identNames(ct.DedupKeys))
	require.NotNil(t, ct.Ttl)
	require.Equal(t, int64(30), ct.Ttl.Value)
	require.Equal(t, "DAYS", ct.Ttl.Unit)
}

func identNames(idents []*ast.Ident) []string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = id.Unquoted
	}
	return out
}

// TestScenarioS6 covers spec scenario S6: next_token_kinds after
// "SELECT * FROM t ORDER " must contain BY.
func TestScenarioS6(t *testing.T) {
	sql := "SELECT * FROM t ORDER "
	require.True(t, questdbsql.IsTokenExpected(sql, len(sql), lexer.BY))
}
