package parser

import (
	"github.com/oarkflow/questdbsql/ast"
	"github.com/oarkflow/questdbsql/lexer"
)

func (p *Parser) parseCreateUser() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // USER
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	cu := &ast.CreateUserStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.WITH) {
		if _, err := p.eat(lexer.PASSWORD); err != nil {
			return nil, err
		}
		pass := p.tok
		if pass.Type != lexer.STRING {
			return nil, p.errorf("expected password literal, got %s", pass.Type)
		}
		p.advance()
		cu.Password = &ast.Literal{Raw: pass.Raw, Kind: lexer.STRING, TokPos: pass.Pos}
	}
	return cu, nil
}

func (p *Parser) parseAlterUser() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // USER
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	au := &ast.AlterUserStmt{Name: name, TokPos: tok.Pos}
	switch {
	case p.tryEat(lexer.WITH):
		if _, err := p.eat(lexer.PASSWORD); err != nil {
			return nil, err
		}
		pass := p.tok
		p.advance()
		au.Password = &ast.Literal{Raw: pass.Raw, Kind: lexer.STRING, TokPos: pass.Pos}
	case p.tryEat(lexer.ENABLE):
		t := true
		au.Enabled = &t
	case p.tryEat(lexer.DISABLE):
		f := false
		au.Enabled = &f
	}
	return au, nil
}

func (p *Parser) parseCreateGroup() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // GROUP[S]
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.CreateGroupStmt{Name: name, TokPos: tok.Pos}, nil
}

func (p *Parser) parseAlterGroup() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // GROUP[S]
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	ag := &ast.AlterGroupStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.ADD) {
		if _, err := p.eat(lexer.USER); err != nil {
			return nil, err
		}
		u, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		ag.AddUser = u
	} else if p.tryEat(lexer.DROP) {
		if _, err := p.eat(lexer.USER); err != nil {
			return nil, err
		}
		u, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		ag.RemoveUser = u
	}
	return ag, nil
}

func (p *Parser) parseCreateServiceAccount() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // SERVICE
	if _, err := p.eat(lexer.ACCOUNT); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	cs := &ast.CreateServiceAccountStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.OWNED) {
		if _, err := p.eat(lexer.BY); err != nil {
			return nil, err
		}
		owner, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		cs.Owner = owner
	}
	return cs, nil
}

func (p *Parser) parseAlterServiceAccount() (ast.Statement, *ParseError) {
	tok := p.tok
	p.advance() // SERVICE
	if _, err := p.eat(lexer.ACCOUNT); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	as := &ast.AlterServiceAccountStmt{Name: name, TokPos: tok.Pos}
	if p.tryEat(lexer.ENABLE) {
		t := true
		as.Enabled = &t
	} else if p.tryEat(lexer.DISABLE) {
		f := false
		as.Enabled = &f
	}
	return as, nil
}

func (p *Parser) parseAddUser() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // ADD
	if _, err := p.eat(lexer.USER); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.AddUserStmt{Name: name, TokPos: tok.Pos}, nil
}

func (p *Parser) parseRemoveUser() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // REMOVE (ident-led)
	if _, err := p.eat(lexer.USER); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.RemoveUserStmt{Name: name, TokPos: tok.Pos}, nil
}

func (p *Parser) parseAssumeServiceAccount() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // ASSUME
	if _, err := p.eat(lexer.SERVICE); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ACCOUNT); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.AssumeServiceAccountStmt{Name: name, TokPos: tok.Pos}, nil
}

func (p *Parser) parseExitServiceAccount() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // EXIT
	if _, err := p.eat(lexer.SERVICE); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ACCOUNT); err != nil {
		return nil, err
	}
	return &ast.ExitServiceAccountStmt{TokPos: tok.Pos}, nil
}

// parseGrant dispatches between GRANT <privs> ON ... TO ... and the
// assume-service-account grant form.
func (p *Parser) parseGrant() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // GRANT
	if p.tryEatKeyword("assume") {
		if _, err := p.eat(lexer.SERVICE); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.ACCOUNT); err != nil {
			return nil, err
		}
		acct, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.TO); err != nil {
			return nil, err
		}
		to, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		return &ast.GrantAssumeServiceAccountStmt{Account: acct, To: to, TokPos: tok.Pos}, nil
	}
	privs, err := p.parsePrivilegeList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ON); err != nil {
		return nil, err
	}
	targets, err := p.parseQualifiedIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.TO); err != nil {
		return nil, err
	}
	to, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	gs := &ast.GrantStmt{Privileges: privs, On: targets, To: to, TokPos: tok.Pos}
	if p.tryEat(lexer.WITH) {
		if _, err := p.eat(lexer.GRANT); err != nil {
			return nil, err
		}
		p.tryEatKeyword("option")
		gs.WithGrantOption = true
	}
	return gs, nil
}

func (p *Parser) parseRevoke() (ast.Statement, *ParseError) {
	defer p.enterRule("ddlStatement")()
	tok := p.tok
	p.advance() // REVOKE
	if p.tryEatKeyword("assume") {
		if _, err := p.eat(lexer.SERVICE); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.ACCOUNT); err != nil {
			return nil, err
		}
		acct, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.FROM); err != nil {
			return nil, err
		}
		from, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		return &ast.RevokeAssumeServiceAccountStmt{Account: acct, From: from, TokPos: tok.Pos}, nil
	}
	privs, err := p.parsePrivilegeList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ON); err != nil {
		return nil, err
	}
	targets, err := p.parseQualifiedIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.FROM); err != nil {
		return nil, err
	}
	from, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	return &ast.RevokeStmt{Privileges: privs, On: targets, From: from, TokPos: tok.Pos}, nil
}

// parsePrivilegeList consumes a comma-separated list of privilege names.
// Unlike parseIdentList it also admits reserved keywords (SELECT, INSERT,
// UPDATE, CREATE, ...) since the privilege vocabulary reuses them.
func (p *Parser) parsePrivilegeList() ([]*ast.Ident, *ParseError) {
	var out []*ast.Ident
	for {
		tok := p.tok
		if !identAdmissible(tok) && !lexer.IsKeywordRange(tok.Type) {
			return nil, p.errorf("expected privilege name, got %s (%q)", tok.Type, tok.Raw)
		}
		p.advance()
		out = append(out, &ast.Ident{Raw: tok.Raw, Unquoted: string(tok.Raw), TokPos: tok.Pos})
		if !p.tryEat(lexer.COMMA) {
			break
		}
	}
	return out, nil
}

func (p *Parser) parseQualifiedIdentList() ([]*ast.QualifiedIdent, *ParseError) {
	var out []*ast.QualifiedIdent
	first, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for p.tryEat(lexer.COMMA) {
		qi, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, qi)
	}
	return out, nil
}
