package assist_test

import (
	"testing"

	"github.com/oarkflow/questdbsql/assist"
	"github.com/oarkflow/questdbsql/lexer"
)

func hasKind(kinds []lexer.TokenType, want lexer.TokenType) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// S4: cursor right after "SELECT " in "SELECT  FROM trades WHERE symbol = 'BTC'".
func TestContentAssistAfterSelect(t *testing.T) {
	sql := "SELECT  FROM trades WHERE symbol = 'BTC'"
	res := assist.GetContentAssist(sql, 7)

	for _, want := range []lexer.TokenType{lexer.IDENT, lexer.STAR, lexer.DISTINCT} {
		if !hasKind(res.NextTokenKinds, want) {
			t.Errorf("expected next_token_kinds to include %s, got %+v", want, res.NextTokenKinds)
		}
	}

	if len(res.Scope) != 1 || res.Scope[0].Table != "trades" {
		t.Fatalf("expected scope = [trades], got %+v", res.Scope)
	}
}

// S5: CTE column projection and scope restricted to the nearest enclosing
// SELECT, not the CTE's own inner FROM.
func TestContentAssistCteColumnsAndScope(t *testing.T) {
	sql := "WITH cte AS (SELECT symbol AS sym, price AS p FROM trades) SELECT  FROM cte"
	cursor := len("WITH cte AS (SELECT symbol AS sym, price AS p FROM trades) SELECT  FROM")
	res := assist.GetContentAssist(sql, cursor)

	cols, ok := res.CteColumns["cte"]
	if !ok {
		t.Fatalf("expected cte_columns to have an entry for \"cte\", got %+v", res.CteColumns)
	}
	names := map[string]bool{}
	for _, c := range cols {
		names[c.Name] = true
	}
	if !names["sym"] || !names["p"] {
		t.Fatalf("expected cte columns {sym, p}, got %+v", cols)
	}

	var sawCte, sawTrades bool
	for _, s := range res.Scope {
		if s.Alias == "cte" {
			sawCte = true
		}
		if s.Table == "trades" || s.Alias == "trades" {
			sawTrades = true
		}
	}
	if !sawCte {
		t.Errorf("expected scope to contain cte, got %+v", res.Scope)
	}
	if sawTrades {
		t.Errorf("expected scope NOT to contain trades (it belongs to the CTE's own inner SELECT), got %+v", res.Scope)
	}
}

// S6: next_token_kinds after "ORDER " must contain BY.
func TestContentAssistAfterOrder(t *testing.T) {
	sql := "SELECT * FROM t ORDER "
	res := assist.GetContentAssist(sql, len(sql))
	if !hasKind(res.NextTokenKinds, lexer.BY) {
		t.Fatalf("expected next_token_kinds to contain BY, got %+v", res.NextTokenKinds)
	}
}

func TestContentAssistQualifierWithoutFrom(t *testing.T) {
	sql := "SELECT trades."
	res := assist.GetContentAssist(sql, len(sql))
	if res.QualifierTable != "trades" {
		t.Fatalf("expected qualifier table \"trades\", got %q", res.QualifierTable)
	}
	if len(res.Scope) != 1 || res.Scope[0].Alias != "trades" {
		t.Fatalf("expected a synthesized scope entry for trades, got %+v", res.Scope)
	}
}

func TestContentAssistScopeFallsBackOnUnparseableInput(t *testing.T) {
	sql := "SELECT * FROM trades t JOIN quotes q ON ((("
	res := assist.GetContentAssist(sql, len(sql))
	var sawTrades, sawQuotes bool
	for _, s := range res.Scope {
		if s.Alias == "t" {
			sawTrades = true
		}
		if s.Alias == "q" {
			sawQuotes = true
		}
	}
	if !sawTrades || !sawQuotes {
		t.Fatalf("expected scan fallback to recover both aliases, got %+v", res.Scope)
	}
}
