package lexer_test

import (
	"testing"

	"github.com/oarkflow/questdbsql/lexer"
)

func tokenize(t *testing.T, sql string) []lexer.Token {
	t.Helper()
	l := lexer.NewString(sql)
	var toks []lexer.Token
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestSelectKeywordsAndIdent(t *testing.T) {
	toks := tokenize(t, "SELECT ts, sym FROM trades")
	want := []lexer.TokenType{lexer.SELECT, lexer.IDENT, lexer.COMMA, lexer.IDENT, lexer.FROM, lexer.IDENT}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: expected %s, got %s", i, w, toks[i].Type)
		}
	}
}

func TestStringAndQuotedIdentLiterals(t *testing.T) {
	toks := tokenize(t, `SELECT 'btc' , "my col"`)
	if toks[1].Type != lexer.STRING {
		t.Fatalf("expected STRING, got %s", toks[1].Type)
	}
	if toks[3].Type != lexer.DQUOTE {
		t.Fatalf("expected DQUOTE, got %s", toks[3].Type)
	}
}

func TestDurationLiteral(t *testing.T) {
	toks := tokenize(t, "SAMPLE BY 10m")
	if toks[2].Type != lexer.DURATION {
		t.Fatalf("expected DURATION, got %s: %q", toks[2].Type, toks[2].Raw)
	}
}

func TestGeohashLiteral(t *testing.T) {
	toks := tokenize(t, "WHERE geo = #u33d/8")
	var found bool
	for _, tok := range toks {
		if tok.Type == lexer.GEOHASH {
			found = true
			if string(tok.Raw) != "#u33d/8" {
				t.Errorf("unexpected geohash raw: %q", tok.Raw)
			}
		}
	}
	if !found {
		t.Fatalf("expected a GEOHASH token in %+v", toks)
	}
}

func TestKeywordTokenStringIsNotUnknown(t *testing.T) {
	for _, tt := range []lexer.TokenType{
		lexer.ACCOUNT, lexer.ZONE, lexer.ARRAY, lexer.VARCHAR, lexer.DARROW2,
	} {
		if got := tt.String(); got == "UNKNOWN" {
			t.Errorf("token type %d stringifies to UNKNOWN", tt)
		}
	}
}

func TestUnterminatedStringRecordsLexError(t *testing.T) {
	l := lexer.NewString(`SELECT 'btc`)
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lex error, got %d: %+v", len(l.Errors), l.Errors)
	}
	if l.Errors[0].Line != 1 {
		t.Errorf("expected error on line 1, got %d", l.Errors[0].Line)
	}
}

func TestUnterminatedQuotedIdentRecordsLexError(t *testing.T) {
	l := lexer.NewString(`SELECT "col`)
	for l.Next().Type != lexer.EOF {
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors))
	}
}

func TestUnterminatedBlockCommentRecordsLexError(t *testing.T) {
	l := lexer.NewString("SELECT 1 /* oops")
	for l.Next().Type != lexer.EOF {
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(l.Errors))
	}
}

func TestWellFormedInputRecordsNoLexErrors(t *testing.T) {
	l := lexer.NewString(`SELECT 'btc', "col" FROM trades /* a comment */`)
	for l.Next().Type != lexer.EOF {
	}
	if len(l.Errors) != 0 {
		t.Fatalf("expected no lex errors, got %+v", l.Errors)
	}
}

func TestResetClearsErrors(t *testing.T) {
	l := lexer.NewString(`'unterminated`)
	for l.Next().Type != lexer.EOF {
	}
	if len(l.Errors) == 0 {
		t.Fatalf("expected an error before reset")
	}
	l.Reset([]byte("SELECT 1"))
	for l.Next().Type != lexer.EOF {
	}
	if len(l.Errors) != 0 {
		t.Fatalf("expected Reset to clear Errors, got %+v", l.Errors)
	}
}
