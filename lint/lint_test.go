package lint_test

import (
	"testing"

	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lint"
	"github.com/oarkflow/questdbsql/parser"
)

func analyzeOne(t *testing.T, sql string) lint.Report {
	t.Helper()
	stmt, err := parser.ParseStatement(sql)
	if err != nil {
		t.Fatalf("parse error: %v\nSQL: %s", err, sql)
	}
	return lint.Analyze([]ast.Statement{stmt})
}

func findingCodes(findings []lint.Finding) map[string]bool {
	out := map[string]bool{}
	for _, f := range findings {
		out[f.Code] = true
	}
	return out
}

func TestSelectStarFlagged(t *testing.T) {
	report := analyzeOne(t, "SELECT * FROM trades")
	codes := findingCodes(report.Findings)
	if !codes["SELECT_STAR"] {
		t.Fatalf("expected SELECT_STAR finding, got %+v", report.Findings)
	}
}

func TestSampleByWithoutFillOrAlignTo(t *testing.T) {
	report := analyzeOne(t, "SELECT avg(price) FROM trades SAMPLE BY 1h")
	codes := findingCodes(report.Findings)
	if !codes["SAMPLE_BY_NO_FILL"] {
		t.Errorf("expected SAMPLE_BY_NO_FILL, got %+v", report.Findings)
	}
	if !codes["SAMPLE_BY_NO_ALIGN_TO"] {
		t.Errorf("expected SAMPLE_BY_NO_ALIGN_TO, got %+v", report.Findings)
	}
}

func TestSampleByWithFillAndAlignToIsClean(t *testing.T) {
	report := analyzeOne(t, "SELECT avg(price) FROM trades SAMPLE BY 1h FILL(PREV) ALIGN TO CALENDAR")
	codes := findingCodes(report.Findings)
	if codes["SAMPLE_BY_NO_FILL"] || codes["SAMPLE_BY_NO_ALIGN_TO"] {
		t.Fatalf("did not expect SAMPLE BY findings, got %+v", report.Findings)
	}
}

func TestUpdateWithoutWhereIsCritical(t *testing.T) {
	report := analyzeOne(t, "UPDATE trades SET price = 0")
	for _, f := range report.Findings {
		if f.Code == "UPDATE_WITHOUT_WHERE" {
			if f.Severity != lint.SeverityCritical {
				t.Errorf("expected UPDATE_WITHOUT_WHERE to be critical, got %s", f.Severity)
			}
			return
		}
	}
	t.Fatalf("expected UPDATE_WITHOUT_WHERE finding, got %+v", report.Findings)
}

func TestCrossJoinFlagged(t *testing.T) {
	report := analyzeOne(t, "SELECT * FROM a CROSS JOIN b")
	codes := findingCodes(report.Findings)
	if !codes["CROSS_JOIN"] {
		t.Fatalf("expected CROSS_JOIN finding, got %+v", report.Findings)
	}
}

func TestAsofJoinWithoutKeyFlagged(t *testing.T) {
	report := analyzeOne(t, "SELECT * FROM trades ASOF JOIN quotes")
	codes := findingCodes(report.Findings)
	if !codes["TIME_JOIN_NO_KEY"] {
		t.Fatalf("expected TIME_JOIN_NO_KEY finding, got %+v", report.Findings)
	}
}

func TestLikeLeadingWildcardFlagged(t *testing.T) {
	report := analyzeOne(t, "SELECT * FROM trades WHERE symbol LIKE '%USD'")
	codes := findingCodes(report.Findings)
	if !codes["LIKE_LEADING_WILDCARD"] {
		t.Fatalf("expected LIKE_LEADING_WILDCARD finding, got %+v", report.Findings)
	}
}

func TestReportStringSummarizesFindings(t *testing.T) {
	report := analyzeOne(t, "SELECT symbol FROM trades WHERE symbol = 'BTC'")
	if report.String() == "" {
		t.Fatalf("expected a non-empty report summary")
	}
}
