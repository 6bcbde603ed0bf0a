package serializer

import (
	"github.com/alecthomas/repr"
)

// DebugString pretty-prints a CST or AST tree (or any node within one) for
// manual grammar debugging. The output is Go-syntax-shaped and indented,
// not SQL; use ToSQL for the canonical textual form.
func DebugString(v any) string {
	return repr.String(v, repr.Indent("  "))
}
