package questdbsql_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/questdbsql"
)

type corpusFixture struct {
	Name      string `yaml:"name"`
	SQL       string `yaml:"sql"`
	Canonical string `yaml:"canonical"`
}

func loadCorpus(t *testing.T) []corpusFixture {
	t.Helper()
	b, err := os.ReadFile("testdata/corpus.yaml")
	require.NoError(t, err)
	var fixtures []corpusFixture
	require.NoError(t, yaml.Unmarshal(b, &fixtures))
	require.NotEmpty(t, fixtures)
	return fixtures
}

// TestCorpusRoundTrip checks the round-trip/normalization contract: every
// fixture's sql parses, and rendering the resulting AST back to text
// reproduces canonical exactly.
func TestCorpusRoundTrip(t *testing.T) {
	for _, fx := range loadCorpus(t) {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			stmt, err := questdbsql.ParseOne(fx.SQL)
			require.NoError(t, err, "parsing %q", fx.SQL)

			rendered, err := questdbsql.ToSQL(stmt)
			require.NoError(t, err)
			if diff := cmp.Diff(fx.Canonical, rendered); diff != "" {
				t.Errorf("render mismatch for %q (-want +got):\n%s", fx.Name, diff)
			}
		})
	}
}

// TestCorpusIdempotentSecondRoundTrip checks that re-parsing and
// re-rendering the canonical form is a fixed point, independent of
// whatever normalization the first pass performed.
func TestCorpusIdempotentSecondRoundTrip(t *testing.T) {
	for _, fx := range loadCorpus(t) {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			stmt, err := questdbsql.ParseOne(fx.Canonical)
			require.NoError(t, err, "parsing canonical form %q", fx.Canonical)

			rendered, err := questdbsql.ToSQL(stmt)
			require.NoError(t, err)
			require.Equal(t, fx.Canonical, rendered)
		})
	}
}
