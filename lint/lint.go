// Package lint reports QuestDB-specific advisories over a parsed AST:
// patterns that parse fine but are usually mistakes against QuestDB's
// time-series query model (SAMPLE BY without FILL/ALIGN TO, ASOF JOIN
// without ON, LATEST ON followed by a redundant ORDER BY, and the
// cross-dialect staples like SELECT * and UPDATE without WHERE).
package lint

import (
	"fmt"
	"strings"

	"github.com/oarkflow/questdbsql/ast"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Finding struct {
	Severity       Severity
	Code           string
	Message        string
	Recommendation string
	StatementIndex int
}

type Report struct {
	Valid          bool
	StatementCount int
	Findings       []Finding
}

func (r Report) String() string {
	if !r.Valid {
		return "invalid SQL"
	}
	if len(r.Findings) == 0 {
		return fmt.Sprintf("valid SQL (%d statements), no findings", r.StatementCount)
	}
	return fmt.Sprintf("valid SQL (%d statements), %d finding(s)", r.StatementCount, len(r.Findings))
}

func addFinding(report *Report, sev Severity, code, problem, recommendation string, idx int) {
	msg := problem
	if recommendation != "" {
		msg += " Recommendation: " + recommendation
	}
	report.Findings = append(report.Findings, Finding{
		Severity:       sev,
		Code:           code,
		Message:        msg,
		Recommendation: recommendation,
		StatementIndex: idx,
	})
}

// Analyze runs every advisory rule over each of stmts.
func Analyze(stmts []ast.Statement) Report {
	report := Report{Valid: true, StatementCount: len(stmts)}
	for i, stmt := range stmts {
		analyzeStatement(stmt, i, &report)
	}
	return report
}

func analyzeStatement(stmt ast.Statement, idx int, report *Report) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		analyzeSelect(s, idx, report)
	case *ast.UpdateStmt:
		if s.Where == nil {
			addFinding(report, SeverityCritical, "UPDATE_WITHOUT_WHERE",
				"UPDATE statement has no WHERE clause and will affect all rows.",
				"Add a WHERE predicate or confirm an intentional full-table update.", idx)
		}
		analyzeExpr(s.Where, idx, report)
		for _, a := range s.Set {
			analyzeExpr(a.Value, idx, report)
		}
	case *ast.CreateTableStmt:
		if s.Timestamp == nil && s.Select == nil {
			addFinding(report, SeverityInfo, "NO_DESIGNATED_TIMESTAMP",
				"Table has no designated TIMESTAMP column.",
				"Add TIMESTAMP(col) so the table can participate in SAMPLE BY / LATEST ON / ASOF JOIN queries.", idx)
		}
		if s.Wal == nil {
			addFinding(report, SeverityInfo, "WAL_UNSPECIFIED",
				"Table does not explicitly state WAL or BYPASS WAL.",
				"State WAL mode explicitly so the table's durability/replication behavior is unambiguous.", idx)
		}
	}
}

func analyzeSelect(s *ast.SelectStmt, idx int, report *Report) {
	if hasSelectStar(s.Columns) {
		addFinding(report, SeverityWarning, "SELECT_STAR",
			"Query uses SELECT *; this reads every column and breaks quietly if the schema changes.",
			"Select explicit columns needed by the caller.", idx)
	}
	for _, tr := range s.From {
		analyzeTableRef(tr, idx, report)
	}
	if s.SampleBy != nil {
		if len(s.SampleBy.Fill) == 0 {
			addFinding(report, SeverityInfo, "SAMPLE_BY_NO_FILL",
				"SAMPLE BY has no FILL(...) clause; gaps in the input series produce gaps in the output.",
				"Add FILL(NULL|PREV|LINEAR|<const>) if a dense output series is expected.", idx)
		}
		if s.SampleBy.AlignTo == ast.AlignToNone {
			addFinding(report, SeverityInfo, "SAMPLE_BY_NO_ALIGN_TO",
				"SAMPLE BY does not specify ALIGN TO; the default alignment may not match intent across DST transitions.",
				"Add ALIGN TO CALENDAR [TIME ZONE '...'] or ALIGN TO FIRST OBSERVATION explicitly.", idx)
		}
	}
	if s.LatestOn != nil && len(s.OrderBy) > 0 {
		addFinding(report, SeverityInfo, "LATEST_ON_REDUNDANT_ORDER_BY",
			"LATEST ON already returns the most recent row per partition key; a trailing ORDER BY only re-sorts that result.",
			"Drop ORDER BY unless a presentation order different from scan order is actually required.", idx)
	}
	for _, op := range s.SetOps {
		if op.Op == ast.Union && !op.All {
			addFinding(report, SeverityInfo, "UNION_DISTINCT_COST",
				"UNION performs duplicate elimination, which adds sort/hash overhead on large result sets.",
				"Use UNION ALL when duplicate removal is not required.", idx)
		}
	}
	analyzeExpr(s.Where, idx, report)
	analyzeExpr(s.Having, idx, report)
	for _, c := range s.Columns {
		analyzeExpr(c.Expr, idx, report)
	}
}

func analyzeTableRef(tr ast.TableRef, idx int, report *Report) {
	jt, ok := tr.(*ast.JoinTable)
	if !ok {
		return
	}
	switch jt.Kind {
	case ast.CrossJoin:
		addFinding(report, SeverityWarning, "CROSS_JOIN",
			"CROSS JOIN can create a cartesian product and explode row counts.",
			"Use an INNER/LEFT/ASOF JOIN with an explicit join predicate if one is intended.", idx)
	case ast.AsofJoin, ast.LtJoin:
		if jt.On == nil && len(jt.Using) == 0 {
			addFinding(report, SeverityInfo, "TIME_JOIN_NO_KEY",
				"ASOF/LT JOIN has no ON/USING predicate; it will only match on the designated timestamp.",
				"Add ON <left>.<key> = <right>.<key> if rows should also match on a symbol/key column.", idx)
		}
	}
	analyzeTableRef(jt.Left, idx, report)
	analyzeTableRef(jt.Right, idx, report)
}

func analyzeExpr(e ast.Expr, idx int, report *Report) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.LikeExpr:
		if lit, ok := ex.Pattern.(*ast.Literal); ok {
			raw := string(lit.Raw)
			if strings.HasPrefix(raw, "'%") || strings.HasPrefix(raw, "\"%") {
				addFinding(report, SeverityInfo, "LIKE_LEADING_WILDCARD",
					"LIKE pattern starts with a wildcard; index seeks are usually not possible.",
					"Anchor the pattern (e.g. 'abc%') if a prefix match was intended.", idx)
			}
		}
		analyzeExpr(ex.Expr, idx, report)
		analyzeExpr(ex.Pattern, idx, report)
		analyzeExpr(ex.Escape, idx, report)
	case *ast.BinaryExpr:
		analyzeExpr(ex.Left, idx, report)
		analyzeExpr(ex.Right, idx, report)
	case *ast.UnaryExpr:
		analyzeExpr(ex.Expr, idx, report)
	case *ast.FuncCall:
		for _, a := range ex.Args {
			analyzeExpr(a, idx, report)
		}
	case *ast.CaseExpr:
		analyzeExpr(ex.Operand, idx, report)
		analyzeExpr(ex.Else, idx, report)
		for _, w := range ex.Whens {
			analyzeExpr(w.Cond, idx, report)
			analyzeExpr(w.Result, idx, report)
		}
	case *ast.BetweenExpr:
		analyzeExpr(ex.Expr, idx, report)
		analyzeExpr(ex.Lo, idx, report)
		analyzeExpr(ex.Hi, idx, report)
	case *ast.InExpr:
		analyzeExpr(ex.Expr, idx, report)
		for _, v := range ex.List {
			analyzeExpr(v, idx, report)
		}
	case *ast.IsNullExpr:
		analyzeExpr(ex.Expr, idx, report)
	case *ast.CastExpr:
		analyzeExpr(ex.Expr, idx, report)
	}
}

func hasSelectStar(cols []ast.SelectColumn) bool {
	for _, c := range cols {
		if c.Star {
			return true
		}
	}
	return false
}
