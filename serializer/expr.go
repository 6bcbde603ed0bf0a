package serializer

import (
	"fmt"
	"strings"

	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

func (r *renderer) expr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Ident:
		r.ident(n)
	case *ast.QualifiedIdent:
		r.qualifiedIdent(n)
	case *ast.StarExpr:
		r.w("*")
	case *ast.Literal:
		r.literal(n)
	case *ast.NullLit:
		r.w("NULL")
	case *ast.Param:
		r.w(string(n.Raw))
	case *ast.DurationLit:
		r.w(string(n.Raw))
	case *ast.GeohashLit:
		r.w(string(n.Raw))
	case *ast.BinaryExpr:
		if err := r.expr(n.Left); err != nil {
			return err
		}
		r.w(" " + opText(n.Op) + " ")
		if err := r.expr(n.Right); err != nil {
			return err
		}
	case *ast.UnaryExpr:
		r.w(opText(n.Op))
		if n.Op != lexer.NOT {
			// prefix operators bind directly to their operand
		} else {
			r.w(" ")
		}
		if err := r.expr(n.Expr); err != nil {
			return err
		}
	case *ast.FuncCall:
		return r.funcCall(n)
	case *ast.CaseExpr:
		return r.caseExpr(n)
	case *ast.BetweenExpr:
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		if n.Not {
			r.w(" NOT BETWEEN ")
		} else {
			r.w(" BETWEEN ")
		}
		if err := r.expr(n.Lo); err != nil {
			return err
		}
		r.w(" AND ")
		return r.expr(n.Hi)
	case *ast.InExpr:
		return r.inExpr(n)
	case *ast.LikeExpr:
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		if n.Not {
			r.w(" NOT LIKE ")
		} else {
			r.w(" LIKE ")
		}
		if err := r.expr(n.Pattern); err != nil {
			return err
		}
		if n.Escape != nil {
			r.w(" ESCAPE ")
			return r.expr(n.Escape)
		}
		return nil
	case *ast.WithinExpr:
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		r.w(" WITHIN(")
		for i, a := range n.Args {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(a); err != nil {
				return err
			}
		}
		r.w(")")
	case *ast.IsNullExpr:
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		if n.Not {
			r.w(" IS NOT NULL")
		} else {
			r.w(" IS NULL")
		}
	case *ast.ExistsExpr:
		if n.Not {
			r.w("NOT ")
		}
		r.w("EXISTS (")
		if err := r.selectStmt(n.Subq); err != nil {
			return err
		}
		r.w(")")
	case *ast.SubqueryExpr:
		r.w("(")
		if err := r.selectStmt(n.Subq); err != nil {
			return err
		}
		r.w(")")
	case *ast.ParenExpr:
		r.w("(")
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		for _, a := range n.Additional {
			r.w(", ")
			if err := r.expr(a); err != nil {
				return err
			}
		}
		r.w(")")
	case *ast.CastExpr:
		if n.DoubleColon {
			if err := r.expr(n.Expr); err != nil {
				return err
			}
			r.w("::")
			r.dataType(n.Type)
			return nil
		}
		r.w("CAST(")
		if err := r.expr(n.Expr); err != nil {
			return err
		}
		r.w(" AS ")
		r.dataType(n.Type)
		r.w(")")
	case *ast.ArrayLiteral:
		if n.HasArrayKeyword {
			r.w("ARRAY")
		}
		r.w("[")
		for i, el := range n.Elements {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(el); err != nil {
				return err
			}
		}
		r.w("]")
	case *ast.ArrayAccess:
		if err := r.expr(n.Array); err != nil {
			return err
		}
		r.w("[")
		for i, sub := range n.Subscripts {
			if i > 0 {
				r.w(",")
			}
			switch s := sub.(type) {
			case ast.Expr:
				if err := r.expr(s); err != nil {
					return err
				}
			case *ast.ArraySlice:
				if s.Start != nil {
					if err := r.expr(s.Start); err != nil {
						return err
					}
				}
				r.w(":")
				if s.End != nil {
					if err := r.expr(s.End); err != nil {
						return err
					}
				}
			}
		}
		r.w("]")
	case *ast.SelectStmt:
		r.w("(")
		if err := r.selectStmt(n); err != nil {
			return err
		}
		r.w(")")
	default:
		return &SerializationError{Msg: fmt.Sprintf("no render path for expr %T", e)}
	}
	return nil
}

func (r *renderer) inExpr(n *ast.InExpr) error {
	if err := r.expr(n.Expr); err != nil {
		return err
	}
	if n.Not {
		r.w(" NOT IN ")
	} else {
		r.w(" IN ")
	}
	if n.Subq != nil {
		r.w("(")
		if err := r.selectStmt(n.Subq); err != nil {
			return err
		}
		r.w(")")
		return nil
	}
	if n.Parenthesized {
		r.w("(")
	}
	for i, e := range n.List {
		if i > 0 {
			r.w(", ")
		}
		if err := r.expr(e); err != nil {
			return err
		}
	}
	if n.Parenthesized {
		r.w(")")
	}
	return nil
}

func (r *renderer) funcCall(n *ast.FuncCall) error {
	r.qualifiedIdent(n.Name)
	r.w("(")
	if n.Distinct {
		r.w("DISTINCT ")
	}
	if n.Star {
		r.w("*")
	} else {
		for i, a := range n.Args {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(a); err != nil {
				return err
			}
		}
		if n.FromSeparator != nil {
			r.w(" FROM ")
			if err := r.expr(n.FromSeparator); err != nil {
				return err
			}
		}
	}
	if n.IgnoreNulls {
		r.w(" IGNORE NULLS")
	}
	r.w(")")
	if n.Over != nil {
		r.w(" OVER ")
		if err := r.overClause(n.Over); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) overClause(o *ast.OverClause) error {
	r.w("(")
	wrote := false
	if len(o.PartitionBy) > 0 {
		r.w("PARTITION BY ")
		for i, e := range o.PartitionBy {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
		wrote = true
	}
	if len(o.OrderBy) > 0 {
		if wrote {
			r.w(" ")
		}
		r.w("ORDER BY ")
		if err := r.orderByItems(o.OrderBy); err != nil {
			return err
		}
	}
	r.w(")")
	return nil
}

func (r *renderer) caseExpr(n *ast.CaseExpr) error {
	r.w("CASE")
	if n.Operand != nil {
		r.w(" ")
		if err := r.expr(n.Operand); err != nil {
			return err
		}
	}
	for _, when := range n.Whens {
		r.w(" WHEN ")
		if err := r.expr(when.Cond); err != nil {
			return err
		}
		r.w(" THEN ")
		if err := r.expr(when.Result); err != nil {
			return err
		}
	}
	if n.Else != nil {
		r.w(" ELSE ")
		if err := r.expr(n.Else); err != nil {
			return err
		}
	}
	r.w(" END")
	return nil
}

func (r *renderer) dataType(dt *ast.DataType) {
	r.w(strings.ToUpper(string(dt.Name)))
	if dt.GeohashBits > 0 {
		r.w(fmt.Sprintf("(%d)", dt.GeohashBits))
	} else if dt.HasPrecision {
		r.w(fmt.Sprintf("(%d)", dt.Precision))
	}
}

func (r *renderer) orderByItems(items []ast.OrderByItem) error {
	for i, it := range items {
		if i > 0 {
			r.w(", ")
		}
		if err := r.expr(it.Expr); err != nil {
			return err
		}
		if it.Desc {
			r.w(" DESC")
		}
		if it.NullsFirst != nil {
			if *it.NullsFirst {
				r.w(" NULLS FIRST")
			} else {
				r.w(" NULLS LAST")
			}
		}
	}
	return nil
}

func opText(t lexer.TokenType) string {
	switch t {
	case lexer.OR:
		return "OR"
	case lexer.AND:
		return "AND"
	case lexer.NOT:
		return "NOT"
	case lexer.EQ:
		return "="
	case lexer.NEQ:
		return "!="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LTE:
		return "<="
	case lexer.GTE:
		return ">="
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.DBAR:
		return "||"
	case lexer.TILDE:
		return "~"
	}
	return t.String()
}
