package ast_test

import (
	"testing"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/parser"
)

func TestCountAndDepth(t *testing.T) {
	e, diags := parser.ParseExpression("a + b * c")
	if len(diags) > 0 {
		t.Fatalf("parser errors: %v", diags)
	}
	if n := ast.Count(e); n != 5 {
		t.Errorf("expected 5 nodes, got %d", n)
	}
	if d := ast.Depth(e); d != 3 {
		t.Errorf("expected depth 3, got %d", d)
	}
}

func TestChildrenSkipsEmptySlots(t *testing.T) {
	e, _ := parser.ParseExpression("(a, , b)")
	children := ast.Children(e)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
}

func TestInspectSkipsSubtrees(t *testing.T) {
	unit := parse(t, `contract C {
    function f() public { uint x = 1; }
    function g() public { assembly { let y := 2 } }
}`)
	var identifiers, functions int
	ast.Inspect(unit, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FunctionDefinition:
			functions++
			return false
		case *ast.Identifier:
			identifiers++
		}
		return true
	})
	if functions != 2 {
		t.Errorf("expected 2 functions, got %d", functions)
	}
	if identifiers != 0 {
		t.Errorf("expected function bodies to be skipped, saw %d identifiers", identifiers)
	}
}

func TestInspectReachesAssembly(t *testing.T) {
	unit := parse(t, `contract C { function f() public { assembly { if iszero(x) { revert(0, 0) } } } }`)
	var calls []string
	ast.Inspect(unit, func(n ast.Node) bool {
		if c, ok := n.(*ast.YulCall); ok {
			calls = append(calls, c.Name)
		}
		return true
	})
	if len(calls) != 2 || calls[0] != "iszero" || calls[1] != "revert" {
		t.Errorf("unexpected calls %v", calls)
	}
}

func TestSpansCoverSource(t *testing.T) {
	src := "x = a[1:2] + f({k: 3})"
	e, diags := parser.ParseExpression(src)
	if len(diags) > 0 {
		t.Fatalf("parser errors: %v", diags)
	}
	if e.Span().Start.Offset != 0 || e.Span().End.Offset != len(src) {
		t.Errorf("expected span 0-%d, got %s", len(src), e.Span())
	}
	ast.Inspect(e, func(n ast.Node) bool {
		s := n.Span()
		if s.Start.Offset < 0 || s.End.Offset > len(src) || s.Start.Offset > s.End.Offset {
			t.Errorf("%T has bad span %s", n, s)
		}
		return true
	})
}
