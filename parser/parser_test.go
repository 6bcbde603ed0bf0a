package parser_test

import (
	"testing"

	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/parser"
)

func mustParse(t *testing.T, sql string) ast.Statement {
	t.Helper()
	stmt, err := parser.ParseStatement(sql)
	if err != nil {
		t.Fatalf("parse error: %v\nSQL: %s", err, sql)
	}
	return stmt
}

func TestSelectSimple(t *testing.T) {
	stmt := mustParse(t, "SELECT 1")
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		t.Fatalf("expected *SelectStmt, got %T", stmt)
	}
	if len(sel.Columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(sel.Columns))
	}
}

func TestSelectStar(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM trades")
	sel := stmt.(*ast.SelectStmt)
	if !sel.Columns[0].Star {
		t.Fatalf("expected star column")
	}
}

func TestImplicitSelect(t *testing.T) {
	stmt := mustParse(t, "trades LATEST ON ts PARTITION BY symbol")
	sel := stmt.(*ast.SelectStmt)
	if !sel.Implicit {
		t.Fatalf("expected implicit SELECT form")
	}
	if sel.LatestOn == nil {
		t.Fatalf("expected LatestOn clause")
	}
}

func TestSampleBy(t *testing.T) {
	stmt := mustParse(t, "SELECT symbol, avg(price) FROM trades SAMPLE BY 15m FILL(NULL) ALIGN TO CALENDAR TIME ZONE 'Europe/Berlin'")
	sel := stmt.(*ast.SelectStmt)
	if sel.SampleBy == nil {
		t.Fatalf("expected SampleBy clause")
	}
	if string(sel.SampleBy.Duration.Raw) != "15m" {
		t.Fatalf("expected duration literal 15m, got %q", sel.SampleBy.Duration.Raw)
	}
	if sel.SampleBy.AlignTo != ast.AlignToCalendar {
		t.Fatalf("expected ALIGN TO CALENDAR")
	}
	if sel.SampleBy.TimeZone == nil {
		t.Fatalf("expected TIME ZONE literal")
	}
}

func TestAsofJoinWithTolerance(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM trades ASOF JOIN quotes TOLERANCE 1s ON trades.symbol = quotes.symbol")
	sel := stmt.(*ast.SelectStmt)
	if len(sel.From) != 1 {
		t.Fatalf("expected 1 table ref, got %d", len(sel.From))
	}
	jt, ok := sel.From[0].(*ast.JoinTable)
	if !ok {
		t.Fatalf("expected *JoinTable, got %T", sel.From[0])
	}
	if jt.Kind != ast.AsofJoin {
		t.Fatalf("expected AsofJoin")
	}
	if jt.Tolerance == nil || string(jt.Tolerance.Raw) != "1s" {
		t.Fatalf("expected TOLERANCE 1s")
	}
	if jt.On == nil {
		t.Fatalf("expected ON predicate")
	}
}

func TestGeohashLiteral(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM geo WHERE loc = #u33d8/8")
	sel := stmt.(*ast.SelectStmt)
	bin, ok := sel.Where.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *BinaryExpr, got %T", sel.Where)
	}
	if _, ok := bin.Right.(*ast.GeohashLit); !ok {
		t.Fatalf("expected *GeohashLit, got %T", bin.Right)
	}
}

func TestPivot(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM trades PIVOT (FOR symbol IN ('AAPL', 'MSFT') sum(amount))")
	sel := stmt.(*ast.SelectStmt)
	if sel.Pivot == nil {
		t.Fatalf("expected Pivot clause")
	}
	if sel.Pivot.Items[0].For == nil {
		t.Fatalf("expected leading FOR on first pivot item")
	}
	if len(sel.Pivot.In) != 2 {
		t.Fatalf("expected 2 IN values, got %d", len(sel.Pivot.In))
	}
}

func TestCreateTableWithTimestampAndWal(t *testing.T) {
	stmt := mustParse(t, `CREATE TABLE trades (
		ts TIMESTAMP,
		symbol SYMBOL,
		price DOUBLE
	) TIMESTAMP(ts) PARTITION BY DAY WAL DEDUP UPSERT KEYS(ts, symbol)`)
	ct, ok := stmt.(*ast.CreateTableStmt)
	if !ok {
		t.Fatalf("expected *CreateTableStmt, got %T", stmt)
	}
	if ct.Timestamp == nil || ct.Timestamp.Unquoted != "ts" {
		t.Fatalf("expected TIMESTAMP(ts)")
	}
	if ct.PartitionBy != "DAY" {
		t.Fatalf("expected PARTITION BY DAY, got %q", ct.PartitionBy)
	}
	if ct.Wal == nil || !*ct.Wal {
		t.Fatalf("expected WAL true")
	}
	if len(ct.DedupKeys) != 2 {
		t.Fatalf("expected 2 dedup keys, got %d", len(ct.DedupKeys))
	}
}

func TestInsertValues(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO trades (ts, symbol, price) VALUES (now(), 'AAPL', 101.5)")
	ins, ok := stmt.(*ast.InsertStmt)
	if !ok {
		t.Fatalf("expected *InsertStmt, got %T", stmt)
	}
	if len(ins.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(ins.Columns))
	}
	if len(ins.Values) != 1 || len(ins.Values[0]) != 3 {
		t.Fatalf("expected 1 row of 3 values")
	}
}

func TestUpdateWithoutWhereParses(t *testing.T) {
	stmt := mustParse(t, "UPDATE trades SET price = price * 2")
	upd, ok := stmt.(*ast.UpdateStmt)
	if !ok {
		t.Fatalf("expected *UpdateStmt, got %T", stmt)
	}
	if upd.Where != nil {
		t.Fatalf("expected nil WHERE")
	}
}

func TestAlterTableAddColumn(t *testing.T) {
	stmt := mustParse(t, "ALTER TABLE trades ADD COLUMN volume LONG")
	alt, ok := stmt.(*ast.AlterTableStmt)
	if !ok {
		t.Fatalf("expected *AlterTableStmt, got %T", stmt)
	}
	add, ok := alt.Cmd.(*ast.AddColumnCmd)
	if !ok {
		t.Fatalf("expected *AddColumnCmd, got %T", alt.Cmd)
	}
	if add.Col.Name.Unquoted != "volume" {
		t.Fatalf("expected column name volume, got %q", add.Col.Name.Unquoted)
	}
}

func TestCreateServiceAccountAndGrant(t *testing.T) {
	mustParse(t, "CREATE SERVICE ACCOUNT ingest_svc OWNED BY admin")
	stmt := mustParse(t, "GRANT ASSUME SERVICE ACCOUNT ingest_svc TO alice, bob")
	g, ok := stmt.(*ast.GrantAssumeServiceAccountStmt)
	if !ok {
		t.Fatalf("expected *GrantAssumeServiceAccountStmt, got %T", stmt)
	}
	if len(g.To) != 2 {
		t.Fatalf("expected 2 grantees, got %d", len(g.To))
	}
}

func TestIdentifierKeywordAsColumnName(t *testing.T) {
	// ACCOUNT is a QuestDB keyword but not reserved, so it is admissible
	// as a plain identifier in most positions.
	mustParse(t, "SELECT account FROM ledger")
}

func TestErrorRecoveryContinuesPastBadStatement(t *testing.T) {
	stmts, errs := parser.ParseStatements("SELECT 1; GARBAGE ] ] ]; SELECT 2")
	if len(errs) == 0 {
		t.Fatalf("expected at least one parse error")
	}
	if len(stmts) < 2 {
		t.Fatalf("expected recovery to still yield the surrounding valid statements, got %d", len(stmts))
	}
}

// The CST must actually nest (spec 3: "children: ordered list of Token |
// CST"), not just collect every token into one flat statement-level node.
func TestCSTNestsByRule(t *testing.T) {
	p := parser.NewString("SELECT price FROM trades WHERE price > 1 ORDER BY price")
	_, node, err := p.ParseOne()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if node == nil {
		t.Fatalf("expected a non-nil CST node")
	}
	if node.Rule != "statement" {
		t.Fatalf("expected top-level rule %q, got %q", "statement", node.Rule)
	}
	var foundNested *parser.Node
	for _, c := range node.Children {
		if n, ok := c.(*parser.Node); ok {
			foundNested = n
			break
		}
	}
	if foundNested == nil {
		t.Fatalf("expected a nested *Node child under the statement node, found only tokens")
	}
	if foundNested.Rule != "selectStmt" {
		t.Fatalf("expected nested rule %q, got %q", "selectStmt", foundNested.Rule)
	}
}

// The CST must remain lossless (spec 3) once nesting is real: every token
// consumed by the parse must still be reachable, in source order, via
// Node.Tokens() regardless of how deep it ended up nested.
func TestCSTTokensAreLosslessAndOrdered(t *testing.T) {
	sql := "SELECT price, sym FROM trades WHERE price > 1"
	p := parser.NewString(sql)
	_, node, err := p.ParseOne()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	toks := node.Tokens()
	if len(toks) == 0 {
		t.Fatalf("expected at least one token")
	}
	for i := 1; i < len(toks); i++ {
		if toks[i].Pos < toks[i-1].Pos {
			t.Fatalf("tokens out of source order at index %d", i)
		}
	}
}

func TestDeclarePrefix(t *testing.T) {
	stmt := mustParse(t, "DECLARE @sym := 'AAPL' SELECT * FROM trades WHERE symbol = @sym")
	sel := stmt.(*ast.SelectStmt)
	if len(sel.Declare) != 1 {
		t.Fatalf("expected 1 declare binding, got %d", len(sel.Declare))
	}
	if sel.Declare[0].Name != "@sym" {
		t.Fatalf("expected binding name @sym, got %q", sel.Declare[0].Name)
	}
}

func TestWithClauseBindsToInsert(t *testing.T) {
	stmt := mustParse(t, "WITH recent AS (SELECT * FROM staging) INSERT INTO trades SELECT * FROM recent")
	ins, ok := stmt.(*ast.InsertStmt)
	if !ok {
		t.Fatalf("expected *InsertStmt, got %T", stmt)
	}
	if ins.With == nil || len(ins.With.CTEs) != 1 {
		t.Fatalf("expected the WITH clause to bind to the INSERT")
	}
}

func TestRefreshMaterializedViewFull(t *testing.T) {
	stmt := mustParse(t, "REFRESH MATERIALIZED VIEW FULL daily_volume_mv")
	rv, ok := stmt.(*ast.RefreshMaterializedViewStmt)
	if !ok {
		t.Fatalf("expected *RefreshMaterializedViewStmt, got %T", stmt)
	}
	if !rv.Full {
		t.Fatalf("expected FULL refresh")
	}
}

func TestResumeWalPreservesFromSpelling(t *testing.T) {
	for _, tc := range []struct{ sql, want string }{
		{"ALTER TABLE t RESUME WAL FROM TXN 42", "TXN"},
		{"ALTER TABLE t RESUME WAL FROM TRANSACTION 42", "TRANSACTION"},
	} {
		stmt := mustParse(t, tc.sql)
		cmd := stmt.(*ast.AlterTableStmt).Cmd.(*ast.ResumeWalCmd)
		if cmd.FromKeyword != tc.want {
			t.Errorf("expected spelling %q preserved, got %q", tc.want, cmd.FromKeyword)
		}
		if cmd.FromTxn == nil {
			t.Errorf("expected a transaction id expression")
		}
	}
}

func TestGrantWithReservedPrivilegeNames(t *testing.T) {
	stmt := mustParse(t, "GRANT select, insert ON trades TO alice")
	g := stmt.(*ast.GrantStmt)
	if len(g.Privileges) != 2 {
		t.Fatalf("expected 2 privileges, got %d", len(g.Privileges))
	}
	if g.Privileges[0].Unquoted != "select" {
		t.Fatalf("expected privilege spelling preserved, got %q", g.Privileges[0].Unquoted)
	}
}

func TestCreateTableTailClausesInAnyOrder(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE t (ts TIMESTAMP, p DOUBLE) TIMESTAMP(ts) PARTITION BY DAY WAL DEDUP UPSERT KEYS(ts) TTL 30 DAYS")
	ct := stmt.(*ast.CreateTableStmt)
	if ct.Ttl == nil || ct.Ttl.Value != 30 {
		t.Fatalf("expected TTL parsed after DEDUP, got %+v", ct.Ttl)
	}
	if ct.Wal == nil || !*ct.Wal {
		t.Fatalf("expected WAL true")
	}
}

func TestSetTypeBypassWal(t *testing.T) {
	stmt := mustParse(t, "ALTER TABLE trades SET TYPE BYPASS WAL")
	cmd, ok := stmt.(*ast.AlterTableStmt).Cmd.(*ast.SetTypeWalCmd)
	if !ok {
		t.Fatalf("expected *SetTypeWalCmd, got %T", stmt.(*ast.AlterTableStmt).Cmd)
	}
	if cmd.Wal {
		t.Fatalf("expected Wal false for BYPASS WAL")
	}
}

func TestTtlUnitDoesNotSwallowNextClause(t *testing.T) {
	stmt := mustParse(t, "CREATE TABLE t (ts TIMESTAMP) TTL 0 WAL")
	ct := stmt.(*ast.CreateTableStmt)
	if ct.Ttl == nil || ct.Ttl.Value != 0 {
		t.Fatalf("expected TTL 0, got %+v", ct.Ttl)
	}
	if ct.Wal == nil || !*ct.Wal {
		t.Fatalf("expected WAL to parse as its own clause, not a TTL unit")
	}
}
