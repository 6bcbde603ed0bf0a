package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

func (p *Parser) parseInsert() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // INSERT
	ins := &ast.InsertStmt{TokPos: tok.Pos}
	if p.tryEat(lexer.ATOMIC) {
		ins.Atomic = true
	}
	if p.tryEat(lexer.BATCH) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ins.Batch = e
	}
	if _, err := p.eat(lexer.INTO); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	ins.Table = table
	if p.tryEat(lexer.LPAREN) {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		ins.Columns = cols
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	if p.tryEat(lexer.VALUES) {
		for {
			if _, err := p.eat(lexer.LPAREN); err != nil {
				return nil, err
			}
			row, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			ins.Values = append(ins.Values, row)
			if _, err := p.eat(lexer.RPAREN); err != nil {
				return nil, err
			}
			if !p.tryEat(lexer.COMMA) {
				break
			}
		}
	} else if p.is(lexer.SELECT) || p.is(lexer.WITH) {
		sel, err := p.parseSelectStmt()
		if err != nil {
			return nil, err
		}
		ins.Select = sel
	}
	return ins, nil
}

func (p *Parser) parseUpdate() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // UPDATE
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	up := &ast.UpdateStmt{Table: table, TokPos: tok.Pos}
	up.Alias = p.tryParseAlias()
	if _, err := p.eat(lexer.SET); err != nil {
		return nil, err
	}
	for {
		col, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.EQ); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		up.Set = append(up.Set, ast.Assignment{Column: col, Value: val})
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	if p.tryEat(lexer.FROM) {
		refs, err := p.parseTableRefs()
		if err != nil {
			return nil, err
		}
		up.From = refs
	}
	if p.tryEat(lexer.WHERE) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		up.Where = e
	}
	return up, nil
}

func (p *Parser) parseShow() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // SHOW
	sh := &ast.ShowStmt{TokPos: tok.Pos}
	switch {
	case p.tryEat(lexer.TABLES):
		sh.Kind = ast.ShowTables
	case p.tryEat(lexer.COLUMNS):
		if _, err := p.eat(lexer.FROM); err != nil {
			return nil, err
		}
		target, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		sh.Kind = ast.ShowColumns
		sh.Target = target
	case p.tryEat(lexer.PARTITIONS):
		if _, err := p.eat(lexer.FROM); err != nil {
			return nil, err
		}
		target, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		sh.Kind = ast.ShowPartitions
		sh.Target = target
	case lowerASCII(p.tok.Raw) == "create" && p.tok.Type == lexer.CREATE:
		p.advance()
		if p.tryEat(lexer.TABLE) {
			sh.Kind = ast.ShowCreateTable
		} else if p.tryEat(lexer.VIEW) {
			sh.Kind = ast.ShowCreateView
		} else if p.tryEat(lexer.MATERIALIZED) {
			if _, err := p.eat(lexer.VIEW); err != nil {
				return nil, err
			}
			sh.Kind = ast.ShowCreateMaterializedView
		}
		target, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		sh.Target = target
	case p.tryEat(lexer.SERVER_VERSION):
		sh.Kind = ast.ShowServerVersion
	case p.tryEat(lexer.PARAMETERS):
		sh.Kind = ast.ShowParameters
	case p.tryEat(lexer.USER):
		sh.Kind = ast.ShowUser
	case p.tryEat(lexer.USERS):
		sh.Kind = ast.ShowUsers
	case p.tryEat(lexer.GROUPS) || p.tryEat(lexer.GROUP):
		sh.Kind = ast.ShowGroups
	case p.tryEat(lexer.SERVICE):
		if p.tryEat(lexer.ACCOUNT) {
			sh.Kind = ast.ShowServiceAccount
			if identAdmissible(p.tok) {
				target, err := p.parseQualifiedIdent()
				if err != nil {
					return nil, err
				}
				sh.Target = target
			}
		} else if p.tryEatKeyword("accounts") {
			sh.Kind = ast.ShowServiceAccounts
		} else {
			return nil, p.errorf("expected ACCOUNT or ACCOUNTS after SHOW SERVICE, got %s", p.tok.Type)
		}
	case p.tryEat(lexer.PERMISSIONS):
		sh.Kind = ast.ShowPermissions
	default:
		return nil, p.errorf("unrecognized SHOW target %s", p.tok.Type)
	}
	if p.tryEat(lexer.LIKE) {
		lit := p.tok
		if lit.Type != lexer.STRING {
			return nil, p.errorf("expected LIKE pattern literal, got %s", lit.Type)
		}
		p.advance()
		sh.Like = &ast.Literal{Raw: lit.Raw, Kind: lexer.STRING, TokPos: lit.Pos}
	}
	return sh, nil
}

func (p *Parser) parseExplain() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // EXPLAIN
	inner, err := p.dispatchStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ExplainStmt{Stmt: inner, TokPos: tok.Pos}, nil
}

func (p *Parser) parseCancelOrCopyCancel() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // CANCEL
	if p.tryEatKeyword("query") || p.is(lexer.QUERY) {
		if p.is(lexer.QUERY) {
			p.advance()
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.CancelQueryStmt{QueryID: e, TokPos: tok.Pos}, nil
	}
	if p.tryEat(lexer.COPY) {
		id := p.tok
		if id.Type != lexer.STRING {
			return nil, p.errorf("expected COPY id literal, got %s", id.Type)
		}
		p.advance()
		return &ast.CopyCancelStmt{CopyID: &ast.Literal{Raw: id.Raw, Kind: lexer.STRING, TokPos: id.Pos}, TokPos: tok.Pos}, nil
	}
	return nil, p.errorf("expected QUERY or COPY after CANCEL, got %s", p.tok.Type)
}

func (p *Parser) parseCheckpoint() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // CHECKPOINT
	cp := &ast.CheckpointStmt{TokPos: tok.Pos}
	if p.tryEatKeyword("release") {
		cp.Release = true
	} else {
		p.tryEatKeyword("create")
	}
	return cp, nil
}

func (p *Parser) parseSnapshot() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // SNAPSHOT
	sn := &ast.SnapshotStmt{TokPos: tok.Pos}
	if p.tryEatKeyword("complete") {
		sn.Complete = true
	} else {
		p.tryEatKeyword("prepare")
	}
	return sn, nil
}

func (p *Parser) parseVacuum() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // VACUUM
	p.tryEatKeyword("partitions")
	if _, err := p.eat(lexer.TABLE); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	return &ast.VacuumTableStmt{Table: table, TokPos: tok.Pos}, nil
}

func (p *Parser) parseReindex() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // REINDEX
	if _, err := p.eat(lexer.TABLE); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	rx := &ast.ReindexTableStmt{Table: table, TokPos: tok.Pos}
	if p.tryEatKeyword("column") {
		col, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		rx.Column = col
	}
	if p.tryEatKeyword("lock") {
		p.tryEatKeyword("exclusive")
		rx.Lock = "EXCLUSIVE"
	}
	return rx, nil
}

func (p *Parser) parseCopy() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // COPY
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	if p.tryEat(lexer.FROM) {
		file := p.tok
		if file.Type != lexer.STRING {
			return nil, p.errorf("expected COPY FROM file literal, got %s", file.Type)
		}
		p.advance()
		cp := &ast.CopyFromStmt{Table: table, File: &ast.Literal{Raw: file.Raw, Kind: lexer.STRING, TokPos: file.Pos}, TokPos: tok.Pos}
		if p.tryEat(lexer.WITH) {
			opts, err := p.parseTableOptions()
			if err != nil {
				return nil, err
			}
			cp.Options = opts
		}
		return cp, nil
	}
	if p.tryEat(lexer.TO) {
		file := p.tok
		if file.Type != lexer.STRING {
			return nil, p.errorf("expected COPY TO file literal, got %s", file.Type)
		}
		p.advance()
		cp := &ast.CopyToStmt{Table: table, File: &ast.Literal{Raw: file.Raw, Kind: lexer.STRING, TokPos: file.Pos}, TokPos: tok.Pos}
		if p.tryEat(lexer.WITH) {
			opts, err := p.parseTableOptions()
			if err != nil {
				return nil, err
			}
			cp.Options = opts
		}
		return cp, nil
	}
	return nil, p.errorf("expected FROM or TO after COPY <table>, got %s", p.tok.Type)
}

func (p *Parser) parseBackup() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // BACKUP
	p.tryEatKeyword("table")
	bk := &ast.BackupStmt{TokPos: tok.Pos}
	if p.is(lexer.DATABASE) || lowerASCII(p.tok.Raw) == "database" {
		p.advance()
		bk.All = true
		return bk, nil
	}
	tables, err := p.parseQualifiedIdentList()
	if err != nil {
		return nil, err
	}
	bk.Tables = tables
	return bk, nil
}
