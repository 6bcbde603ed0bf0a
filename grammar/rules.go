package grammar

import "github.com/oarkflow/questdbsql/lexer"

// Table is the process-wide, read-only rule graph, indexed by rule name.
// It is built once at init and never mutated afterwards (spec 5), so it is
// safe to share across concurrent parser/assist calls.
var Table map[string]Rule

func t(k lexer.TokenType) Rule { return Terminal(k) }

func init() {
	Table = map[string]Rule{}

	// ---- expression precedence chain (spec 4.3) ----
	Table["expr"] = RefTo("orExpr")

	Table["orExpr"] = Sequence(
		RefTo("andExpr"),
		Many(Sequence(t(lexer.OR), RefTo("andExpr"))),
	)
	Table["andExpr"] = Sequence(
		RefTo("notExpr"),
		Many(Sequence(t(lexer.AND), RefTo("notExpr"))),
	)
	Table["notExpr"] = Sequence(
		Optional(t(lexer.NOT)),
		RefTo("compareExpr"),
	)
	Table["compareExpr"] = Sequence(
		RefTo("addExpr"),
		Many(Alt(
			Sequence(RefTo("cmpOp"), RefTo("addExpr")),
			Sequence(Optional(t(lexer.NOT)), t(lexer.BETWEEN), RefTo("addExpr"), t(lexer.AND), RefTo("addExpr")),
			Sequence(Optional(t(lexer.NOT)), t(lexer.IN), RefTo("inRhs")),
			Sequence(t(lexer.IS), Optional(t(lexer.NOT)), t(lexer.NULL_KW)),
			Sequence(Optional(t(lexer.NOT)), t(lexer.LIKE), RefTo("addExpr")),
			Sequence(t(lexer.WITHIN), t(lexer.LPAREN), RefTo("exprList"), t(lexer.RPAREN)),
		)),
	)
	Table["cmpOp"] = Alt(t(lexer.EQ), t(lexer.NEQ), t(lexer.LT), t(lexer.GT), t(lexer.LTE), t(lexer.GTE))
	Table["inRhs"] = Alt(
		Sequence(t(lexer.LPAREN), RefTo("exprList"), t(lexer.RPAREN)),
		RefTo("primary"),
	)
	Table["addExpr"] = Sequence(
		RefTo("mulExpr"),
		Many(Sequence(Alt(t(lexer.PLUS), t(lexer.MINUS)), RefTo("mulExpr"))),
	)
	Table["mulExpr"] = Sequence(
		RefTo("unaryExpr"),
		Many(Sequence(Alt(t(lexer.STAR), t(lexer.SLASH), t(lexer.PERCENT)), RefTo("unaryExpr"))),
	)
	Table["unaryExpr"] = Sequence(
		Optional(Alt(t(lexer.MINUS), t(lexer.PLUS), t(lexer.TILDE))),
		RefTo("primary"),
	)
	Table["primary"] = Alt(
		t(lexer.INT), t(lexer.FLOAT), t(lexer.STRING), t(lexer.DURATION), t(lexer.GEOHASH),
		t(lexer.NULL_KW), t(lexer.TRUE_KW), t(lexer.FALSE_KW), t(lexer.NAMEDPARAM),
		t(lexer.IDENT), t(lexer.STAR),
		Sequence(t(lexer.LPAREN), RefTo("expr"), t(lexer.RPAREN)),
		Sequence(t(lexer.CASE), Many(RefTo("expr")), t(lexer.END)),
		Sequence(t(lexer.CAST), t(lexer.LPAREN), RefTo("expr"), t(lexer.AS), t(lexer.IDENT), t(lexer.RPAREN)),
		RefTo("funcCall"),
		RefTo("subquery"),
	)
	Table["funcCall"] = Sequence(
		t(lexer.IDENT), t(lexer.LPAREN), Optional(RefTo("exprList")), t(lexer.RPAREN),
	)
	Table["exprList"] = SepBy(RefTo("expr"), t(lexer.COMMA))
	Table["subquery"] = Sequence(t(lexer.LPAREN), RefTo("selectStmt"), t(lexer.RPAREN))

	// ---- SELECT (spec 4.6 clause order; this is the production the
	// content-assist scope/follow-set walker actually descends into) ----
	Table["selectStmt"] = Sequence(
		Optional(RefTo("declareClause")),
		Optional(RefTo("withClause")),
		t(lexer.SELECT),
		Optional(t(lexer.DISTINCT)),
		RefTo("selectColumns"),
		Optional(Sequence(t(lexer.FROM), RefTo("tableRefs"))),
		Optional(Sequence(t(lexer.WHERE), RefTo("expr"))),
		Optional(RefTo("sampleByClause")),
		Optional(RefTo("latestOnClause")),
		Optional(Sequence(t(lexer.GROUP), t(lexer.BY), RefTo("exprList"))),
		Optional(Sequence(t(lexer.HAVING), RefTo("expr"))),
		Optional(RefTo("pivotClause")),
		Optional(RefTo("orderByClause")),
		Optional(RefTo("limitClause")),
		Many(Sequence(
			Alt(t(lexer.UNION), t(lexer.INTERSECT), t(lexer.EXCEPT)),
			Optional(t(lexer.ALL)),
			RefTo("selectStmt"),
		)),
	)
	Table["declareClause"] = Sequence(
		t(lexer.DECLARE),
		SepBy(Sequence(t(lexer.NAMEDPARAM), t(lexer.ASSIGN), RefTo("expr")), t(lexer.COMMA)),
	)
	Table["withClause"] = Sequence(
		t(lexer.WITH),
		SepBy(RefTo("cte"), t(lexer.COMMA)),
	)
	Table["cte"] = Sequence(t(lexer.IDENT), t(lexer.AS), t(lexer.LPAREN), RefTo("selectStmt"), t(lexer.RPAREN))
	Table["selectColumns"] = Alt(
		t(lexer.STAR),
		SepBy(RefTo("selectColumn"), t(lexer.COMMA)),
	)
	Table["selectColumn"] = Sequence(RefTo("expr"), Optional(Sequence(Optional(t(lexer.AS)), t(lexer.IDENT))))
	Table["tableRefs"] = Sequence(
		RefTo("tableRef"),
		Many(Alt(
			RefTo("joinSuffix"),
			Sequence(t(lexer.COMMA), RefTo("tableRef")),
		)),
	)
	Table["tableRef"] = Sequence(
		Alt(t(lexer.IDENT), RefTo("subquery")),
		Optional(Sequence(Optional(t(lexer.AS)), t(lexer.IDENT))),
	)
	Table["joinSuffix"] = Sequence(
		Alt(t(lexer.JOIN), Sequence(RefTo("joinKind"), t(lexer.JOIN))),
		RefTo("tableRef"),
		Optional(Sequence(t(lexer.TOLERANCE), t(lexer.DURATION))),
		Optional(Sequence(t(lexer.RANGE), t(lexer.BETWEEN), RefTo("addExpr"), t(lexer.AND), RefTo("addExpr"))),
		Optional(Sequence(Alt(t(lexer.INCLUDE), t(lexer.EXCLUDE)), t(lexer.PREVAILING))),
		Optional(Alt(
			Sequence(t(lexer.ON), RefTo("expr")),
			Sequence(t(lexer.USING), t(lexer.LPAREN), RefTo("identList"), t(lexer.RPAREN)),
		)),
	)
	Table["joinKind"] = Alt(
		t(lexer.INNER), t(lexer.LEFT), t(lexer.RIGHT), t(lexer.FULL), t(lexer.CROSS),
		t(lexer.ASOF), t(lexer.LT_JOIN), t(lexer.SPLICE), t(lexer.WINDOW),
	)
	Table["sampleByClause"] = Sequence(
		t(lexer.SAMPLE), t(lexer.BY), t(lexer.DURATION),
		Optional(Sequence(t(lexer.FROM), RefTo("addExpr"))),
		Optional(Sequence(t(lexer.TO), RefTo("addExpr"))),
		Optional(Sequence(t(lexer.FILL), t(lexer.LPAREN), RefTo("exprList"), t(lexer.RPAREN))),
		Optional(Sequence(t(lexer.ALIGN), t(lexer.TO), Alt(
			Sequence(t(lexer.FIRST), t(lexer.OBSERVATION)),
			Sequence(t(lexer.CALENDAR),
				Optional(Sequence(t(lexer.TIME), t(lexer.ZONE), t(lexer.STRING))),
				Optional(Sequence(t(lexer.WITH), t(lexer.OFFSET), t(lexer.STRING)))),
		))),
	)
	Table["pivotClause"] = Sequence(
		t(lexer.PIVOT), t(lexer.LPAREN),
		Optional(Sequence(t(lexer.FOR), RefTo("addExpr"), t(lexer.IN), t(lexer.LPAREN), RefTo("exprList"), t(lexer.RPAREN))),
		SepBy(RefTo("expr"), t(lexer.COMMA)),
		t(lexer.RPAREN),
	)
	Table["latestOnClause"] = Sequence(
		t(lexer.LATEST), t(lexer.ON), t(lexer.IDENT), t(lexer.PARTITION), t(lexer.BY), RefTo("identList"),
	)
	Table["identList"] = SepBy(t(lexer.IDENT), t(lexer.COMMA))
	Table["orderByClause"] = Sequence(
		t(lexer.ORDER), t(lexer.BY),
		SepBy(Sequence(RefTo("expr"), Optional(Alt(t(lexer.ASC), t(lexer.DESC)))), t(lexer.COMMA)),
	)
	Table["limitClause"] = Sequence(t(lexer.LIMIT), RefTo("expr"), Optional(Sequence(t(lexer.COMMA), RefTo("expr"))))

	// Every non-Select statement kind (DDL/DCL/ops) is a flat keyword
	// sequence with no internal scope-bearing structure for assist to
	// resolve; admitted to the statement alternation as one coarse Ref
	// (see DESIGN.md "Open item / scope line").
	Table["ddlStatement"] = Sequence(t(lexer.IDENT), Many(t(lexer.IDENT)))

	Table["statement"] = Alt(RefTo("selectStmt"), RefTo("ddlStatement"))
}
