package serializer

import (
	"fmt"

	"github.com/oarkflow/questdbsql/ast"
)

func (r *renderer) insertStmt(s *ast.InsertStmt) error {
	if s.With != nil {
		if err := r.withClause(s.With); err != nil {
			return err
		}
	}
	r.w("INSERT ")
	if s.Atomic {
		r.w("ATOMIC ")
	}
	if s.Batch != nil {
		r.w("BATCH ")
		if err := r.expr(s.Batch); err != nil {
			return err
		}
		r.w(" ")
	}
	r.w("INTO ")
	r.qualifiedIdent(s.Table)
	if len(s.Columns) > 0 {
		r.w(" (")
		r.identList(s.Columns)
		r.w(")")
	}
	if s.Select != nil {
		r.w(" ")
		return r.selectStmt(s.Select)
	}
	r.w(" VALUES ")
	for i, row := range s.Values {
		if i > 0 {
			r.w(", ")
		}
		r.w("(")
		for j, e := range row {
			if j > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
		r.w(")")
	}
	return nil
}

func (r *renderer) updateStmt(s *ast.UpdateStmt) error {
	if s.With != nil {
		if err := r.withClause(s.With); err != nil {
			return err
		}
	}
	r.w("UPDATE ")
	r.qualifiedIdent(s.Table)
	if s.Alias != nil {
		r.w(" ")
		r.ident(s.Alias)
	}
	r.w(" SET ")
	for i, a := range s.Set {
		if i > 0 {
			r.w(", ")
		}
		r.ident(a.Column)
		r.w(" = ")
		if err := r.expr(a.Value); err != nil {
			return err
		}
	}
	if len(s.From) > 0 {
		r.w(" FROM ")
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
	return nil
}

func (r *renderer) createTableStmt(s *ast.CreateTableStmt) error {
	r.w("CREATE TABLE ")
	if s.IfNotExists {
		r.w("IF NOT EXISTS ")
	}
	r.qualifiedIdent(s.Table)
	if s.Like != nil {
		r.w(" LIKE ")
		r.qualifiedIdent(s.Like)
		return nil
	}
	if s.Select != nil {
		r.w(" AS (")
		if err := r.selectStmt(s.Select); err != nil {
			return err
		}
		r.w(")")
		for _, c := range s.AsSelectCasts {
			r.w(", CAST(")
			r.ident(c.Column)
			r.w(" AS ")
			r.dataType(c.Type)
			r.w(")")
		}
	} else {
		r.w(" (")
		for i, col := range s.Columns {
			if i > 0 {
				r.w(", ")
			}
			r.ident(col.Name)
			r.w(" ")
			r.dataType(col.Type)
			if col.Index {
				r.w(" INDEX")
			}
		}
		for _, idx := range s.Indexes {
			r.w(", INDEX(")
			r.ident(idx.Name)
			if idx.CapacityHint != nil {
				r.w(" CAPACITY ")
				r.literal(idx.CapacityHint)
			}
			r.w(")")
		}
		r.w(")")
	}
	r.tableTail(s)
	return nil
}

func (r *renderer) tableTail(s *ast.CreateTableStmt) {
	if s.Timestamp != nil {
		r.w(" TIMESTAMP(")
		r.ident(s.Timestamp)
		r.w(")")
	}
	if s.PartitionBy != "" {
		r.w(" PARTITION BY " + s.PartitionBy)
	}
	if s.Ttl != nil {
		r.w(" TTL ")
		r.ttl(s.Ttl)
	}
	if s.Wal != nil {
		if *s.Wal {
			r.w(" WAL")
		} else {
			r.w(" BYPASS WAL")
		}
	}
	if len(s.DedupKeys) > 0 {
		r.w(" DEDUP UPSERT KEYS(")
		r.identList(s.DedupKeys)
		r.w(")")
	}
	r.tableOptions(s.WithParams)
	if s.Volume != nil {
		r.w(" IN VOLUME ")
		r.ident(s.Volume)
	}
	if s.OwnedBy != nil {
		r.w(" OWNED BY ")
		r.ident(s.OwnedBy)
	}
}

func (r *renderer) createMatViewStmt(s *ast.CreateMaterializedViewStmt) error {
	r.w("CREATE MATERIALIZED VIEW ")
	if s.IfNotExists {
		r.w("IF NOT EXISTS ")
	}
	r.qualifiedIdent(s.Name)
	if s.BaseTable != nil {
		r.w(" WITH BASE ")
		r.qualifiedIdent(s.BaseTable)
	}
	if s.RefreshMode != "" {
		r.w(" REFRESH " + s.RefreshMode)
	}
	r.w(" AS (")
	if err := r.selectStmt(s.Select); err != nil {
		return err
	}
	r.w(")")
	if s.PartitionBy != "" {
		r.w(" PARTITION BY " + s.PartitionBy)
	}
	if s.Ttl != nil {
		r.w(" TTL ")
		r.ttl(s.Ttl)
	}
	return nil
}

func (r *renderer) alterTableStmt(s *ast.AlterTableStmt) error {
	r.w("ALTER TABLE ")
	r.qualifiedIdent(s.Table)
	r.w(" ")
	return r.alterCmd(s.Cmd)
}

func (r *renderer) alterCmd(cmd ast.AlterCmd) error {
	switch c := cmd.(type) {
	case *ast.AddColumnCmd:
		r.w("ADD COLUMN ")
		r.ident(c.Col.Name)
		r.w(" ")
		r.dataType(c.Col.Type)
		if c.Col.Index {
			r.w(" INDEX")
		}
	case *ast.DropColumnCmd:
		r.w("DROP COLUMN ")
		r.identList(c.Names)
	case *ast.RenameColumnCmd:
		r.w("RENAME COLUMN ")
		r.ident(c.From)
		r.w(" TO ")
		r.ident(c.To)
	case *ast.AlterColumnCmd:
		r.w("ALTER COLUMN ")
		r.ident(c.Name)
		switch {
		case c.AddIndex:
			r.w(" ADD INDEX")
		case c.DropIndex:
			r.w(" DROP INDEX")
		case c.Type != nil:
			r.w(" TYPE ")
			r.dataType(c.Type)
		}
	case *ast.DropPartitionCmd:
		r.w("DROP PARTITION ")
		if c.Where != nil {
			r.w("WHERE ")
			return r.expr(c.Where)
		}
		for i, e := range c.List {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
	case *ast.AttachPartitionCmd:
		r.w("ATTACH PARTITION LIST ")
		for i, e := range c.List {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
	case *ast.DetachPartitionCmd:
		r.w("DETACH PARTITION ")
		for i, e := range c.List {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
	case *ast.SquashPartitionsCmd:
		r.w("SQUASH PARTITIONS")
	case *ast.SetParamCmd:
		r.w("SET PARAM " + string(c.Option.Key) + " = " + string(c.Option.Value))
	case *ast.SetTtlCmd:
		r.w("SET TTL ")
		r.ttl(c.Ttl)
	case *ast.DedupCmd:
		if c.Enable {
			r.w("DEDUP ENABLE UPSERT KEYS(")
			r.identList(c.Keys)
			r.w(")")
		} else {
			r.w("DEDUP DISABLE")
		}
	case *ast.SetTypeWalCmd:
		if c.Wal {
			r.w("SET TYPE WAL")
		} else {
			r.w("SET TYPE BYPASS WAL")
		}
	case *ast.SuspendWalCmd:
		r.w("SUSPEND WAL")
	case *ast.ResumeWalCmd:
		r.w("RESUME WAL")
		if c.FromTxn != nil {
			r.w(" FROM " + c.FromKeyword + " ")
			return r.expr(c.FromTxn)
		}
	case *ast.ConvertPartitionCmd:
		r.w("CONVERT PARTITION TO PARQUET ")
		for i, e := range c.List {
			if i > 0 {
				r.w(", ")
			}
			if err := r.expr(e); err != nil {
				return err
			}
		}
	case *ast.RenameTableCmd:
		r.w("RENAME TO ")
		r.qualifiedIdent(c.NewName)
	default:
		return &SerializationError{Msg: fmt.Sprintf("no render path for alter command %T", cmd)}
	}
	return nil
}
