package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

func (p *Parser) parseCreate() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	p.advance() // CREATE
	orReplace := false
	// "CREATE OR REPLACE VIEW" reuses the bare identifier "or"/"replace" path.
	if lowerASCII(p.tok.Raw) == "or" {
		p.advance()
		p.tryEatKeyword("replace")
		orReplace = true
	}
	switch {
	case p.is(lexer.TABLE):
		return p.parseCreateTable()
	case p.is(lexer.VIEW):
		return p.parseCreateView(orReplace)
	case p.is(lexer.MATERIALIZED):
		return p.parseCreateMaterializedView()
	case p.is(lexer.USER):
		return p.parseCreateUser()
	case p.is(lexer.GROUP) || p.is(lexer.GROUPS):
		return p.parseCreateGroup()
	case p.is(lexer.SERVICE):
		return p.parseCreateServiceAccount()
	}
	return nil, p.errorf("expected TABLE/VIEW/MATERIALIZED VIEW/USER/GROUP/SERVICE ACCOUNT after CREATE, got %s", p.tok.Type)
}

func (p *Parser) parseCreateTable() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // TABLE
	ct := &ast.CreateTableStmt{TokPos: tok.Pos}
	if p.tryEat(lexer.IF) {
		if _, err := p.eat(lexer.NOT); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.EXISTS); err != nil {
			return nil, err
		}
		ct.IfNotExists = true
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	ct.Table = name

	if p.tryEatKeyword("like") || p.is(lexer.LIKE) {
		if p.is(lexer.LIKE) {
			p.advance()
		}
		like, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		ct.Like = like
		return ct, nil
	}

	if p.tryEat(lexer.LPAREN) {
		for {
			col, idx, err := p.parseColumnOrIndexDef()
			if err != nil {
				return nil, err
			}
			if idx != nil {
				ct.Indexes = append(ct.Indexes, idx)
			} else {
				ct.Columns = append(ct.Columns, col)
			}
			if !p.tryEat(lexer.COMMA) {
				break
			}
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	} else if p.tryEat(lexer.AS) {
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, err
		}
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		ct.Select = sel
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		for p.tryEat(lexer.CAST) {
			if _, err := p.eat(lexer.LPAREN); err != nil {
				return nil, err
			}
			col, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.AS); err != nil {
				return nil, err
			}
			dt, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			ct.AsSelectCasts = append(ct.AsSelectCasts, ast.AsSelectCast{Column: col, Type: dt})
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return nil, err
			}
		}
	}

	if err := p.parseTableTail(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// parseTableTail parses the shared CREATE TABLE suffix clauses: designated
// timestamp, PARTITION BY, TTL, WAL/BYPASS WAL, dedup, WITH options,
// IN VOLUME, OWNED BY. The clauses may appear in any order.
func (p *Parser) parseTableTail(ct *ast.CreateTableStmt) *ParseError {
	for {
		switch {
		case p.is(lexer.TIMESTAMP_KW) || lowerASCII(p.tok.Raw) == "timestamp":
			p.advance()
			if _, err := p.eat(lexer.LPAREN); err != nil {
				return err
			}
			col, err := p.parseIdent()
			if err != nil {
				return err
			}
			ct.Timestamp = col
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return err
			}
		case p.tryEat(lexer.PARTITION):
			if _, err := p.eat(lexer.BY); err != nil {
				return err
			}
			unit, err := p.parseIdent()
			if err != nil {
				return err
			}
			ct.PartitionBy = upperASCII(unit.Unquoted)
		case p.is(lexer.TTL):
			ttl, err := p.parseTtlClause()
			if err != nil {
				return err
			}
			ct.Ttl = ttl
		case p.tryEatKeyword("bypass"):
			if _, err := p.eat(lexer.WAL); err != nil {
				return err
			}
			f := false
			ct.Wal = &f
		case p.tryEat(lexer.WAL):
			t := true
			ct.Wal = &t
		case p.tryEat(lexer.DEDUP):
			p.tryEatKeyword("upsert")
			if _, err := p.eat(lexer.KEYS); err != nil {
				return err
			}
			if _, err := p.eat(lexer.LPAREN); err != nil {
				return err
			}
			keys, err := p.parseIdentList()
			if err != nil {
				return err
			}
			ct.DedupKeys = keys
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return err
			}
		case p.tryEat(lexer.WITH):
			opts, err := p.parseTableOptions()
			if err != nil {
				return err
			}
			ct.WithParams = opts
		case p.tryEat(lexer.IN):
			if _, err := p.eat(lexer.VOLUME); err != nil {
				return err
			}
			vol, err := p.parseIdent()
			if err != nil {
				return err
			}
			ct.Volume = vol
		case p.tryEat(lexer.OWNED):
			if _, err := p.eat(lexer.BY); err != nil {
				return err
			}
			owner, err := p.parseIdent()
			if err != nil {
				return err
			}
			ct.OwnedBy = owner
		default:
			return nil
		}
	}
}

func upperASCII(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 32
		}
		out[i] = c
	}
	return string(out)
}

func (p *Parser) parseTableOptions() ([]ast.TableOption, *ParseError) {
	var out []ast.TableOption
	for {
		key := p.tok
		if !identAdmissible(key) {
			return nil, p.errorf("expected WITH option key, got %s", key.Type)
		}
		p.advance()
		if _, err := p.eat(lexer.EQ); err != nil {
			return nil, err
		}
		val := p.tok
		p.advance()
		out = append(out, ast.TableOption{Key: key.Raw, Value: val.Raw})
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return out, nil
}

func (p *Parser) parseColumnOrIndexDef() (*ast.ColumnDef, *ast.IndexColDef, *ParseError) {
	if p.is(lexer.INDEX) {
		p.advance()
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, nil, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return nil, nil, err
		}
		idx := &ast.IndexColDef{Name: name}
		if p.tryEatKeyword("capacity") {
			cap := p.tok
			if cap.Type != lexer.INT {
				return nil, nil, p.errorf("expected capacity int, got %s", cap.Type)
			}
			p.advance()
			idx.CapacityHint = &ast.Literal{Raw: cap.Raw, Kind: lexer.INT, TokPos: cap.Pos}
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, nil, err
		}
		return nil, idx, nil
	}
	tok := p.tok
	name, err := p.parseIdent()
	if err != nil {
		return nil, nil, err
	}
	dt, err := p.parseDataType()
	if err != nil {
		return nil, nil, err
	}
	col := &ast.ColumnDef{Name: name, Type: dt, TokPos: tok.Pos}
	if p.tryEat(lexer.INDEX) {
		col.Index = true
	}
	return col, nil, nil
}

func (p *Parser) parseCreateView(orReplace bool) (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // VIEW
	cv := &ast.CreateViewStmt{OrReplace: orReplace, TokPos: tok.Pos}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	cv.Name = name
	if _, err := p.eat(lexer.AS); err != nil {
		return nil, err
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	cv.Select = sel
	return cv, nil
}

func (p *Parser) parseCreateMaterializedView() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // MATERIALIZED
	if _, err := p.eat(lexer.VIEW); err != nil {
		return nil, err
	}
	mv := &ast.CreateMaterializedViewStmt{TokPos: tok.Pos}
	if p.tryEat(lexer.IF) {
		if _, err := p.eat(lexer.NOT); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.EXISTS); err != nil {
			return nil, err
		}
		mv.IfNotExists = true
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	mv.Name = name

	if p.tryEat(lexer.WITH) {
		p.tryEatKeyword("base")
		base, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		mv.BaseTable = base
	}
	if p.tryEat(lexer.REFRESH) {
		switch {
		case p.tryEatKeyword("immediate"):
			mv.RefreshMode = "IMMEDIATE"
		case p.tryEatKeyword("manual"):
			mv.RefreshMode = "MANUAL"
		case p.is(lexer.TIME) || lowerASCII(p.tok.Raw) == "every":
			p.advance()
			if p.is(lexer.DURATION) {
				mv.RefreshMode = "EVERY " + string(p.tok.Raw)
				p.advance()
			}
		case lowerASCII(p.tok.Raw) == "period":
			p.advance()
			mv.RefreshMode = "PERIOD"
		}
	}
	if _, err := p.eat(lexer.AS); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	sel, err := p.parseSelectStmt()
	if err != nil {
		return nil, err
	}
	mv.Select = sel
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	if p.tryEat(lexer.PARTITION) {
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		unit, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		mv.PartitionBy = upperASCII(unit.Unquoted)
	}
	if p.is(lexer.TTL) {
		ttl, err := p.parseTtlClause()
		if err != nil {
			return nil, err
		}
		mv.Ttl = ttl
	}
	return mv, nil
}

func (p *Parser) parseAlter() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	p.advance() // ALTER
	switch {
	case p.is(lexer.TABLE):
		return p.parseAlterTable()
	case p.is(lexer.VIEW):
		return p.parseAlterView()
	case p.is(lexer.MATERIALIZED):
		return p.parseAlterMaterializedView()
	case p.is(lexer.USER):
		return p.parseAlterUser()
	case p.is(lexer.GROUP) || p.is(lexer.GROUPS):
		return p.parseAlterGroup()
	case p.is(lexer.SERVICE):
		return p.parseAlterServiceAccount()
	}
	return nil, p.errorf("expected TABLE/VIEW/MATERIALIZED VIEW/USER/GROUP/SERVICE ACCOUNT after ALTER, got %s", p.tok.Type)
}

func (p *Parser) parseAlterTable() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // TABLE
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	cmd, err := p.parseAlterCmd()
	if err != nil {
		return nil, err
	}
	return &ast.AlterTableStmt{Table: name, Cmd: cmd, TokPos: tok.Pos}, nil
}

func (p *Parser) parseAlterCmd() (ast.AlterCmd, *ParseError) {
	tok := p.tok
	switch {
	case p.tryEat(lexer.ADD):
		p.tryEat(lexer.COLUMN)
		col, _, err := p.parseColumnOrIndexDef()
		if err != nil {
			return nil, err
		}
		return &ast.AddColumnCmd{Col: col, TokPos: tok.Pos}, nil
	case p.tryEat(lexer.DROP):
		switch {
		case p.tryEat(lexer.COLUMN):
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			return &ast.DropColumnCmd{Names: names, TokPos: tok.Pos}, nil
		case p.tryEat(lexer.PARTITION):
			return p.parseDropPartitionTail(tok.Pos)
		}
		return nil, p.errorf("expected COLUMN or PARTITION after ALTER TABLE DROP, got %s", p.tok.Type)
	case p.tryEat(lexer.RENAME):
		switch {
		case p.tryEat(lexer.COLUMN):
			from, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.TO); err != nil {
				return nil, err
			}
			to, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			return &ast.RenameColumnCmd{From: from, To: to, TokPos: tok.Pos}, nil
		case p.tryEat(lexer.TO):
			newName, err := p.parseQualifiedIdent()
			if err != nil {
				return nil, err
			}
			return &ast.RenameTableCmd{NewName: newName, TokPos: tok.Pos}, nil
		}
		return nil, p.errorf("expected COLUMN or TO after ALTER TABLE RENAME, got %s", p.tok.Type)
	case p.tryEat(lexer.ATTACH):
		if _, err := p.eat(lexer.PARTITION); err != nil {
			return nil, err
		}
		p.tryEatKeyword("list")
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.AttachPartitionCmd{List: list, TokPos: tok.Pos}, nil
	case p.tryEat(lexer.DETACH):
		if _, err := p.eat(lexer.PARTITION); err != nil {
			return nil, err
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.DetachPartitionCmd{List: list, TokPos: tok.Pos}, nil
	case p.tryEat(lexer.SQUASH):
		if !p.tryEat(lexer.PARTITIONS) {
			p.tryEat(lexer.PARTITION)
		}
		return &ast.SquashPartitionsCmd{TokPos: tok.Pos}, nil
	case p.tryEat(lexer.SET):
		return p.parseAlterSet(tok.Pos)
	case p.tryEat(lexer.DEDUP):
		return p.parseAlterDedup(tok.Pos)
	case p.tryEat(lexer.SUSPEND):
		if _, err := p.eat(lexer.WAL); err != nil {
			return nil, err
		}
		return &ast.SuspendWalCmd{TokPos: tok.Pos}, nil
	case p.tryEat(lexer.RESUME):
		if _, err := p.eat(lexer.WAL); err != nil {
			return nil, err
		}
		cmd := &ast.ResumeWalCmd{TokPos: tok.Pos}
		if p.tryEat(lexer.FROM) {
			// Both FROM TXN and FROM TRANSACTION are admitted; the spelling
			// used is preserved so the statement renders back verbatim.
			kw := lowerASCII(p.tok.Raw)
			if kw != "txn" && kw != "transaction" {
				return nil, p.errorf("expected TXN or TRANSACTION after RESUME WAL FROM, got %q", p.tok.Raw)
			}
			cmd.FromKeyword = upperASCII(kw)
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			cmd.FromTxn = e
		}
		return cmd, nil
	case p.tryEat(lexer.CONVERT):
		if _, err := p.eat(lexer.PARTITION); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.TO); err != nil {
			return nil, err
		}
		p.tryEatKeyword("parquet")
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.ConvertPartitionCmd{ToParquet: true, List: list, TokPos: tok.Pos}, nil
	case p.is(lexer.ALTER):
		p.advance()
		if _, err := p.eat(lexer.COLUMN); err != nil {
			return nil, err
		}
		return p.parseAlterColumnCmd(tok.Pos)
	}
	return nil, p.errorf("unrecognized ALTER TABLE command starting at %s", p.tok.Type)
}

func (p *Parser) parseDropPartitionTail(pos int32) (ast.AlterCmd, *ParseError) {
	p.tryEatKeyword("list")
	if p.tryEat(lexer.WHERE) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.DropPartitionCmd{Where: e, TokPos: pos}, nil
	}
	list, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &ast.DropPartitionCmd{List: list, TokPos: pos}, nil
}

func (p *Parser) parseAlterColumnCmd(pos int32) (ast.AlterCmd, *ParseError) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	cmd := &ast.AlterColumnCmd{Name: name, TokPos: pos}
	switch {
	case p.tryEat(lexer.ADD):
		if _, err := p.eat(lexer.INDEX); err != nil {
			return nil, err
		}
		cmd.AddIndex = true
	case p.tryEat(lexer.DROP):
		if _, err := p.eat(lexer.INDEX); err != nil {
			return nil, err
		}
		cmd.DropIndex = true
	case p.tryEat(lexer.TYPE):
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		cmd.Type = dt
	}
	return cmd, nil
}

func (p *Parser) parseAlterSet(pos int32) (ast.AlterCmd, *ParseError) {
	switch {
	case p.tryEat(lexer.TYPE):
		if p.tryEatKeyword("bypass") {
			if _, err := p.eat(lexer.WAL); err != nil {
				return nil, err
			}
			return &ast.SetTypeWalCmd{Wal: false, TokPos: pos}, nil
		}
		if _, err := p.eat(lexer.WAL); err != nil {
			return nil, err
		}
		return &ast.SetTypeWalCmd{Wal: true, TokPos: pos}, nil
	case p.tryEat(lexer.TTL):
		ttl, err := p.parseTtlValue()
		if err != nil {
			return nil, err
		}
		return &ast.SetTtlCmd{Ttl: ttl, TokPos: pos}, nil
	case p.tryEatKeyword("param"):
		key := p.tok
		if !identAdmissible(key) {
			return nil, p.errorf("expected param key, got %s", key.Type)
		}
		p.advance()
		if _, err := p.eat(lexer.EQ); err != nil {
			return nil, err
		}
		val := p.tok
		p.advance()
		return &ast.SetParamCmd{Option: ast.TableOption{Key: key.Raw, Value: val.Raw}, TokPos: pos}, nil
	}
	return nil, p.errorf("unrecognized ALTER TABLE SET command at %s", p.tok.Type)
}

func (p *Parser) parseAlterDedup(pos int32) (ast.AlterCmd, *ParseError) {
	if p.tryEat(lexer.DISABLE) {
		return &ast.DedupCmd{Enable: false, TokPos: pos}, nil
	}
	if p.tryEat(lexer.ENABLE) {
		p.tryEatKeyword("upsert")
		if _, err := p.eat(lexer.KEYS); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.LPAREN); err != nil {
			return nil, err
		}
		keys, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.DedupCmd{Enable: true, Keys: keys, TokPos: pos}, nil
	}
	return nil, p.errorf("expected ENABLE or DISABLE after ALTER TABLE DEDUP, got %s", p.tok.Type)
}

func (p *Parser) parseAlterView() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // VIEW
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	av := &ast.AlterViewStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.SYMBOL) {
		p.tryEatKeyword("capacity")
		cap := p.tok
		p.advance()
		av.Option = ast.TableOption{Key: []byte("symbolCapacity"), Value: cap.Raw}
	}
	return av, nil
}

func (p *Parser) parseAlterMaterializedView() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // MATERIALIZED
	if _, err := p.eat(lexer.VIEW); err != nil {
		return nil, err
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	mv := &ast.AlterMaterializedViewStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.SET) {
		if p.is(lexer.TTL) {
			ttl, err := p.parseTtlClause()
			if err != nil {
				return nil, err
			}
			mv.SetTtl = ttl
		} else if p.tryEat(lexer.REFRESH) {
			switch {
			case p.tryEatKeyword("immediate"):
				mv.SetRefreshMode = "IMMEDIATE"
			case p.tryEatKeyword("manual"):
				mv.SetRefreshMode = "MANUAL"
			}
		}
	}
	return mv, nil
}

func (p *Parser) parseDrop() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // DROP
	switch {
	case p.is(lexer.TABLE):
		p.advance()
		ifExists := p.tryIfExists()
		name, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropTableStmt{Table: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	case p.is(lexer.VIEW):
		p.advance()
		ifExists := p.tryIfExists()
		name, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropViewStmt{Name: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	case p.is(lexer.MATERIALIZED):
		p.advance()
		if _, err := p.eat(lexer.VIEW); err != nil {
			return nil, err
		}
		ifExists := p.tryIfExists()
		name, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropMaterializedViewStmt{Name: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	case p.is(lexer.USER):
		p.advance()
		ifExists := p.tryIfExists()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropUserStmt{Name: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	case p.is(lexer.GROUP) || p.is(lexer.GROUPS):
		p.advance()
		ifExists := p.tryIfExists()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropGroupStmt{Name: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	case p.is(lexer.SERVICE):
		p.advance()
		if _, err := p.eat(lexer.ACCOUNT); err != nil {
			return nil, err
		}
		ifExists := p.tryIfExists()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DropServiceAccountStmt{Name: name, IfExists: ifExists, TokPos: tok.Pos}, nil
	}
	return nil, p.errorf("expected TABLE/VIEW/MATERIALIZED VIEW/USER/GROUP/SERVICE ACCOUNT after DROP, got %s", tok.Type)
}

func (p *Parser) tryIfExists() bool {
	if p.tryEat(lexer.IF) {
		p.tryEat(lexer.EXISTS)
		return true
	}
	return false
}

func (p *Parser) parseTruncate() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // TRUNCATE
	p.tryEat(lexer.TABLE)
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	return &ast.TruncateStmt{Table: name, TokPos: tok.Pos}, nil
}

func (p *Parser) parseRenameTable() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // RENAME
	if _, err := p.eat(lexer.TABLE); err != nil {
		return nil, err
	}
	from, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.TO); err != nil {
		return nil, err
	}
	to, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	return &ast.RenameTableStmt{From: from, To: to, TokPos: tok.Pos}, nil
}

func (p *Parser) parseRefreshMaterializedView() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // REFRESH
	if _, err := p.eat(lexer.MATERIALIZED); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.VIEW); err != nil {
		return nil, err
	}
	rv := &ast.RefreshMaterializedViewStmt{TokPos: tok.Pos}
	if p.tryEat(lexer.FULL) {
		rv.Full = true
	} else {
		p.tryEatKeyword("incremental")
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	rv.Name = name
	return rv, nil
}

func (p *Parser) parseCompileView() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // COMPILE (ident-led)
	if !p.tryEatKeyword("view") {
		if _, err := p.eat(lexer.VIEW); err != nil {
			return nil, err
		}
	}
	name, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	return &ast.CompileViewStmt{Name: name, TokPos: tok.Pos}, nil
}
