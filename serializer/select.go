package serializer

import (
	"github.com/oarkflow/questdbsql/ast"
)

func (r *renderer) selectStmt(s *ast.SelectStmt) error {
	if len(s.Declare) > 0 {
		r.w("DECLARE ")
		for i, d := range s.Declare {
			if i > 0 {
				r.w(", ")
			}
			r.w(d.Name)
			r.w(" := ")
			if err := r.expr(d.Value); err != nil {
				return err
			}
		}
		r.w(" ")
	}
	if s.With != nil {
		if err := r.withClause(s.With); err != nil {
			return err
		}
	}
	if !s.Implicit {
		r.w("SELECT ")
		if s.Distinct {
			r.w("DISTINCT ")
		}
		if err := r.selectColumns(s.Columns); err != nil {
			return err
		}
		if len(s.From) > 0 {
			r.w(" FROM ")
		}
	}
	if len(s.From) > 0 {
		if err := r.tableRefs(s.From); err != nil {
			return err
		}
	}
	if s.Where != nil {
		r.w(" WHERE ")
		if err := r.expr(s.Where); err != nil {
			return err
		}
	}
	if s.SampleBy != nil {
		r.sampleByClause(s.SampleBy)
	}
	if s.LatestOn != nil {
		r.latestOnClause(s.LatestOn)
	}
	if len(s.GroupBy) > 0 {
		r.w(" GROUP BY ")
		for i, e := range s.GroupBy {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
	}
	if s.Having != nil {
		r.w(" HAVING ")
		if err := r.expr(s.Having); err != nil {
			return err
		}
	}
	if s.Pivot != nil {
		if err := r.pivotClause(s.Pivot); err != nil {
			return err
		}
	}
	if len(s.OrderBy) > 0 {
		r.w(" ORDER BY ")
		if err := r.orderByItems(s.OrderBy); err != nil {
			return err
		}
	}
	if s.Limit != nil {
		r.w(" LIMIT ")
		if err := r.expr(s.Limit.Lower); err != nil {
			return err
		}
		if s.Limit.Upper != nil {
			r.w(", ")
			if err := r.expr(s.Limit.Upper); err != nil {
				return err
			}
		}
	}
	for _, op := range s.SetOps {
		switch op.Op {
		case ast.Union:
			r.w(" UNION ")
		case ast.Intersect:
			r.w(" INTERSECT ")
		case ast.Except:
			r.w(" EXCEPT ")
		}
		if op.All {
			r.w("ALL ")
		}
		if err := r.selectStmt(op.Right); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) withClause(w *ast.WithClause) error {
	r.w("WITH ")
	for i, cte := range w.CTEs {
		if i > 0 {
			r.w(", ")
		}
		r.ident(cte.Name)
		if len(cte.Columns) > 0 {
			r.w("(")
			r.identList(cte.Columns)
			r.w(")")
		}
		r.w(" AS (")
		if err := r.selectStmt(cte.Subq); err != nil {
			return err
		}
		r.w(")")
	}
	r.w(" ")
	return nil
}

func (r *renderer) selectColumns(cols []ast.SelectColumn) error {
	for i, c := range cols {
		if i > 0 {
			r.w(", ")
		}
		if err := r.expr(c.Expr); err != nil {
			return err
		}
		if c.Alias != nil {
			r.w(" ")
			r.ident(c.Alias)
		}
	}
	return nil
}

func (r *renderer) tableRefs(refs []ast.TableRef) error {
	for i, ref := range refs {
		if i > 0 {
			r.w(", ")
		}
		if err := r.tableRef(ref); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) tableRef(t ast.TableRef) error {
	switch n := t.(type) {
	case *ast.SimpleTable:
		r.qualifiedIdent(n.Name)
		if n.Alias != nil {
			r.w(" ")
			r.ident(n.Alias)
		}
	case *ast.SubqueryTable:
		r.w("(")
		if err := r.selectStmt(n.Subq); err != nil {
			return err
		}
		r.w(")")
		if n.Alias != nil {
			r.w(" ")
			r.ident(n.Alias)
		}
	case *ast.JoinTable:
		if err := r.tableRef(n.Left); err != nil {
			return err
		}
		r.w(" ")
		r.w(joinKindText(n.Kind))
		r.w(" JOIN ")
		if err := r.tableRef(n.Right); err != nil {
			return err
		}
		if n.Tolerance != nil {
			r.w(" TOLERANCE ")
			r.w(string(n.Tolerance.Raw))
		}
		if n.RangeLower != nil {
			r.w(" RANGE BETWEEN ")
			if err := r.expr(n.RangeLower); err != nil {
				return err
			}
			r.w(" AND ")
			if err := r.expr(n.RangeUpper); err != nil {
				return err
			}
		}
		if n.HasIncludePrevail {
			if n.IncludePrevailing {
				r.w(" INCLUDE PREVAILING")
			} else {
				r.w(" EXCLUDE PREVAILING")
			}
		}
		if n.On != nil {
			r.w(" ON ")
			if err := r.expr(n.On); err != nil {
				return err
			}
		} else if len(n.Using) > 0 {
			r.w(" USING (")
			r.identList(n.Using)
			r.w(")")
		}
	}
	return nil
}

func joinKindText(k ast.JoinKind) string {
	switch k {
	case ast.InnerJoin:
		return "INNER"
	case ast.LeftJoin:
		return "LEFT"
	case ast.RightJoin:
		return "RIGHT"
	case ast.FullJoin:
		return "FULL"
	case ast.CrossJoin:
		return "CROSS"
	case ast.AsofJoin:
		return "ASOF"
	case ast.LtJoin:
		return "LT"
	case ast.SpliceJoin:
		return "SPLICE"
	case ast.WindowJoin:
		return "WINDOW"
	}
	return ""
}

func (r *renderer) sampleByClause(sb *ast.SampleByClause) {
	r.w(" SAMPLE BY ")
	r.w(string(sb.Duration.Raw))
	if sb.From != nil {
		r.w(" FROM ")
		r.expr(sb.From)
	}
	if sb.To != nil {
		r.w(" TO ")
		r.expr(sb.To)
	}
	if len(sb.Fill) > 0 {
		r.w(" FILL(")
		for i, e := range sb.Fill {
			if i > 0 {
				r.w(", ")
			}
			r.expr(e)
		}
		r.w(")")
	}
	switch sb.AlignTo {
	case ast.AlignToFirstObservation:
		r.w(" ALIGN TO FIRST OBSERVATION")
	case ast.AlignToCalendar:
		r.w(" ALIGN TO CALENDAR")
		if sb.TimeZone != nil {
			r.w(" TIME ZONE ")
			r.literal(sb.TimeZone)
			if sb.WithOffset != nil {
				r.w(" WITH OFFSET ")
				r.literal(sb.WithOffset)
			}
		}
	}
}

func (r *renderer) latestOnClause(lo *ast.LatestOnClause) {
	r.w(" LATEST ON ")
	r.ident(lo.Column)
	r.w(" PARTITION BY ")
	r.identList(lo.PartitionBy)
}

func (r *renderer) pivotClause(pv *ast.PivotClause) error {
	r.w(" PIVOT (")
	hasFor := len(pv.Items) > 0 && pv.Items[0].For != nil
	if hasFor {
		r.w("FOR ")
		if err := r.expr(pv.Items[0].For); err != nil {
			return err
		}
		r.w(" ")
		if err := r.pivotInList(pv.In); err != nil {
			return err
		}
		r.w(" ")
	}
	for i, item := range pv.Items {
		if i > 0 {
			r.w(", ")
		}
		if item.Func != nil {
			if err := r.funcCall(item.Func); err != nil {
				return err
			}
		}
	}
	if !hasFor && len(pv.In) > 0 {
		r.w(" ")
		if err := r.pivotInList(pv.In); err != nil {
			return err
		}
	}
	r.w(")")
	return nil
}

func (r *renderer) pivotInList(in []ast.PivotInValue) error {
	r.w("IN (")
	for i, v := range in {
		if i > 0 {
			r.w(", ")
		}
		if err := r.expr(v.Value); err != nil {
			return err
		}
		if v.Alias != nil {
			r.w(" ")
			r.ident(v.Alias)
		}
	}
	r.w(")")
	return nil
}
