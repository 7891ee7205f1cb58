// Package fixture loads a JSON AST fixture into internal/ast nodes — the
// stand-in for "the parser", which is out of scope (spec §1 Non-goals).
// It also discovers fixture files by glob under a root directory, the
// moral equivalent of the teacher's FileWalker (core/filewalker.go).
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/ident"
	"github.com/oxhq/noctua/internal/overload"
)

// Node is the wire shape of one fixture AST node. Exactly the fields
// meaningful for Kind are expected to be populated, mirroring
// ast.Node's "one payload field per Kind" convention.
type Node struct {
	Kind     string   `json:"kind"`
	Ident    string   `json:"ident,omitempty"`
	IntVal   int64    `json:"intVal,omitempty"`
	FloatVal float64  `json:"floatVal,omitempty"`
	StrVal   string   `json:"strVal,omitempty"`
	Comment  string   `json:"comment,omitempty"`
	Flags    []string `json:"flags,omitempty"`
	Kids     []*Node  `json:"kids,omitempty"`
}

var flagNames = map[string]ast.Flags{
	"base2":  ast.FlagBase2,
	"base8":  ast.FlagBase8,
	"base16": ast.FlagBase16,
}

// Load reads and decodes a single fixture file into an *ast.Node tree,
// interning every identifier into pool and registering every node in
// alloc's arena so that back-references recorded during analysis (e.g.
// symtab.Symbol.Node) resolve through Allocator.NewNode-assigned ids
// instead of the zero value coreid.NoNode.
func Load(path string, pool *ident.Pool, alloc overload.Allocator) (*ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	return build(&root, pool, alloc)
}

func build(n *Node, pool *ident.Pool, alloc overload.Allocator) (*ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	kind, ok := ast.ParseKind(n.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}

	out := &ast.Node{
		Kind:     kind,
		IntVal:   n.IntVal,
		FloatVal: n.FloatVal,
		StrVal:   n.StrVal,
		Comment:  n.Comment,
	}
	if n.Ident != "" {
		out.Ident = pool.Intern(n.Ident)
	}
	for _, flagName := range n.Flags {
		bit, ok := flagNames[flagName]
		if !ok {
			return nil, fmt.Errorf("unknown flag %q", flagName)
		}
		out.SetFlag(bit)
	}
	if n.Kids != nil {
		out.Kids = make([]*ast.Node, len(n.Kids))
		for i, kid := range n.Kids {
			child, err := build(kid, pool, alloc)
			if err != nil {
				return nil, err
			}
			out.Kids[i] = child
		}
	}
	return alloc.NewNode(out), nil
}

// Discover globs pattern (default "**/*.nunit.json" when empty) under
// root and returns matching fixture paths in lexical order, grounded on
// the teacher's doublestar-based FileWalker.matchPattern.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.nunit.json"
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		ok, matchErr := doublestar.Match(pattern, filepath.ToSlash(rel))
		if matchErr != nil {
			return fmt.Errorf("matching pattern %q: %w", pattern, matchErr)
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering fixtures under %s: %w", root, err)
	}
	return matches, nil
}
