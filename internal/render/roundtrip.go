package render

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/noctua/internal/ast"
)

// Diff returns a unified diff between two renderings, for "noctua render
// --diff" and for test failure messages that need to show exactly which
// lines moved (SPEC_FULL.md §12 "Roundtrip tooling").
func Diff(want, got string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("render roundtrip diff: %w", err)
	}
	return text, nil
}

// Stable renders n twice with fresh Renderers and reports whether both
// passes produced byte-identical output — the renderer has no external
// state, so this catches accidental reliance on map iteration order or
// similar nondeterminism (testable property 5, "render is
// deterministic").
func Stable(n *ast.Node, flags Flags) (string, bool) {
	first := New(flags).Render(n)
	second := New(flags).Render(n)
	return first, first == second
}
