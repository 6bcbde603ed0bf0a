package grammar_test

import (
	"testing"

	"github.com/oarkflow/questdbsql/grammar"
	"github.com/oarkflow/questdbsql/lexer"
)

func TestNullableTerminalNeverNullable(t *testing.T) {
	r := grammar.Terminal(lexer.SELECT)
	if grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("a bare terminal must never be nullable")
	}
}

func TestNullableOptionalAlwaysNullable(t *testing.T) {
	r := grammar.Optional(grammar.Terminal(lexer.DISTINCT))
	if !grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("Optional(x) must always be nullable regardless of x")
	}
}

func TestNullableManyAlwaysNullable(t *testing.T) {
	r := grammar.Many(grammar.Terminal(lexer.COMMA))
	if !grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("Many(x) must always be nullable regardless of x")
	}
}

func TestNullableMany1FollowsElement(t *testing.T) {
	r := grammar.Many1(grammar.Terminal(lexer.COMMA))
	if grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("Many1(terminal) must not be nullable: at least one match is required")
	}
	r2 := grammar.Many1(grammar.Optional(grammar.Terminal(lexer.COMMA)))
	if !grammar.Nullable(r2, grammar.Table, map[string]bool{}) {
		t.Fatalf("Many1(Optional(x)) is nullable since its required element is itself nullable")
	}
}

func TestNullableSequenceRequiresAllElements(t *testing.T) {
	r := grammar.Sequence(grammar.Terminal(lexer.SELECT), grammar.Terminal(lexer.STAR))
	if grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("a sequence of two non-nullable terminals must not be nullable")
	}
	r2 := grammar.Sequence(grammar.Optional(grammar.Terminal(lexer.SELECT)), grammar.Optional(grammar.Terminal(lexer.STAR)))
	if !grammar.Nullable(r2, grammar.Table, map[string]bool{}) {
		t.Fatalf("a sequence of all-nullable items must be nullable")
	}
}

func TestNullableAltRequiresOneNullableBranch(t *testing.T) {
	r := grammar.Alt(grammar.Terminal(lexer.SELECT), grammar.Optional(grammar.Terminal(lexer.STAR)))
	if !grammar.Nullable(r, grammar.Table, map[string]bool{}) {
		t.Fatalf("Alt is nullable if any branch is nullable")
	}
	r2 := grammar.Alt(grammar.Terminal(lexer.SELECT), grammar.Terminal(lexer.STAR))
	if grammar.Nullable(r2, grammar.Table, map[string]bool{}) {
		t.Fatalf("Alt of only non-nullable branches must not be nullable")
	}
}

func TestNullableRefCycleGuardTerminates(t *testing.T) {
	table := map[string]grammar.Rule{
		"a": grammar.RefTo("b"),
		"b": grammar.RefTo("a"),
	}
	// Must terminate (no infinite recursion) and report not-nullable since
	// neither ref ever bottoms out in a terminal or empty production.
	if grammar.Nullable(table["a"], table, map[string]bool{}) {
		t.Fatalf("a cyclic ref pair with no base case must not be nullable")
	}
}

func TestFirstOfTerminal(t *testing.T) {
	set := grammar.First(grammar.Terminal(lexer.SELECT), map[string]bool{})
	if !set[lexer.SELECT] || len(set) != 1 {
		t.Fatalf("expected FIRST = {SELECT}, got %+v", set)
	}
}

func TestFirstOfSequenceStopsAtNonNullable(t *testing.T) {
	r := grammar.Sequence(
		grammar.Optional(grammar.Terminal(lexer.DISTINCT)),
		grammar.Terminal(lexer.STAR),
		grammar.Terminal(lexer.FROM),
	)
	set := grammar.First(r, map[string]bool{})
	if !set[lexer.DISTINCT] || !set[lexer.STAR] {
		t.Fatalf("expected FIRST to include DISTINCT and STAR, got %+v", set)
	}
	if set[lexer.FROM] {
		t.Fatalf("FIRST must not include FROM: STAR is not nullable so FROM can't start the sequence")
	}
}

func TestNextTokenKindsPropagatesThroughNullableFrame(t *testing.T) {
	// Stack index 0 is the outermost enclosing frame (what follows once the
	// cursor's frame is satisfied); the last index is where the cursor
	// actually stopped. An exhausted Optional(DISTINCT) there is nullable,
	// so the walk must also fold in the outer frame's FIRST set.
	frames := []grammar.Frame{
		{Items: []grammar.Rule{grammar.Terminal(lexer.STAR), grammar.Terminal(lexer.FROM)}, Idx: 0},
		{Items: []grammar.Rule{grammar.Optional(grammar.Terminal(lexer.DISTINCT))}, Idx: 0},
	}
	got := grammar.NextTokenKinds(frames)
	want := map[lexer.TokenType]bool{lexer.DISTINCT: true, lexer.STAR: true}
	if len(got) != len(want) {
		t.Fatalf("expected %d token kinds, got %+v", len(want), got)
	}
	for _, k := range got {
		if !want[k] {
			t.Errorf("unexpected token kind %s in result", k)
		}
	}
}

func TestNextTokenKindsStopsAtNonNullableFrame(t *testing.T) {
	frames := []grammar.Frame{
		{Items: []grammar.Rule{grammar.Terminal(lexer.SELECT)}, Idx: 0},
		{Items: []grammar.Rule{grammar.Terminal(lexer.STAR)}, Idx: 0},
	}
	got := grammar.NextTokenKinds(frames)
	if len(got) != 1 || got[0] != lexer.STAR {
		t.Fatalf("expected only STAR since the innermost frame is not nullable, got %+v", got)
	}
}

func TestGrammarTableHasCoreProductions(t *testing.T) {
	for _, name := range []string{"statement", "selectStmt", "expr", "tableRefs"} {
		if _, ok := grammar.Table[name]; !ok {
			t.Errorf("expected grammar.Table to define %q", name)
		}
	}
}
