package serializer_test

import (
	"strings"
	"testing"

	"github.com/oarkflow/questdbsql/parser"
	"github.com/oarkflow/questdbsql/serializer"
)

func render(t *testing.T, sql string) string {
	t.Helper()
	stmt, err := parser.ParseStatement(sql)
	if err != nil {
		t.Fatalf("parse error: %v\nSQL: %s", err, sql)
	}
	out, err := serializer.ToSQL(stmt)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	return out
}

func TestDebugStringRendersNodeShape(t *testing.T) {
	stmt, err := parser.ParseStatement("SELECT * FROM trades")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out := serializer.DebugString(stmt)
	if !strings.Contains(out, "SelectStmt") {
		t.Fatalf("expected the node type name in the dump, got:\n%s", out)
	}
}

func TestCancelQueryQuotedIDRendersBare(t *testing.T) {
	got := render(t, "CANCEL QUERY '29'")
	if got != "CANCEL QUERY 29" {
		t.Fatalf("expected bare numeral, got %q", got)
	}
}

func TestCancelQueryNonNumericIDKeepsQuotes(t *testing.T) {
	got := render(t, "CANCEL QUERY 'abc'")
	if got != "CANCEL QUERY 'abc'" {
		t.Fatalf("expected quoted id preserved, got %q", got)
	}
}

func TestTtlZeroRendersWithoutUnit(t *testing.T) {
	got := render(t, "CREATE TABLE t (ts TIMESTAMP) TTL 0 HOURS")
	if !strings.HasSuffix(got, "TTL 0") {
		t.Fatalf("expected TTL 0 with no unit, got %q", got)
	}
}

func TestSetTypeBypassWalRenders(t *testing.T) {
	got := render(t, "ALTER TABLE trades SET TYPE BYPASS WAL")
	if got != "ALTER TABLE trades SET TYPE BYPASS WAL" {
		t.Fatalf("expected BYPASS WAL rendered, got %q", got)
	}
}
