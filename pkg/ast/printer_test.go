package ast_test

import (
	"strings"
	"testing"

	"github.com/raymyers/ralph-sol/pkg/ast"
	"github.com/raymyers/ralph-sol/pkg/parser"
)

func parse(t *testing.T, src string) *ast.SourceUnit {
	t.Helper()
	unit, diags := parser.ParseFile(src)
	if len(diags) > 0 {
		t.Fatalf("parser errors: %v", diags)
	}
	return unit
}

func TestPrintSourceUnit(t *testing.T) {
	src := `pragma solidity ^0.8.0;
contract C is B {
    uint public x = 1;
    function f(uint a) external view returns (uint r) {
        if (a > 0) return a; else { r = 2; }
        assembly { let y := add(a, 1) }
    }
}`
	expected := `pragma solidity ^0.8.0;
contract C is B {
  uint public x = 1;
  function f(uint a) external view returns (uint r) {
    if ((a > 0))
      return a;
    else
      {
        (r = 2);
      }
    assembly {
      let y := add(a, 1)
    }
  }
}
`
	var sb strings.Builder
	ast.NewPrinter(&sb).PrintSourceUnit(parse(t, src))
	if sb.String() != expected {
		t.Errorf("printer output mismatch:\nwant:\n%s\ngot:\n%s", expected, sb.String())
	}
}

func TestPrintDefinitions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"import alias", `import "a.sol" as A;`, "import \"a.sol\" as A;\n"},
		{"import symbols", `import {x as y, z} from "a.sol";`, "import {x as y, z} from \"a.sol\";\n"},
		{"import wildcard", `import * as M from "m.sol";`, "import * as M from \"m.sol\";\n"},
		{"enum", `enum E { A, B }`, "enum E { A, B }\n"},
		{"value type", `type T is uint8;`, "type T is uint8;\n"},
		{"error", `error Bad(uint code, string why);`, "error Bad(uint code, string why);\n"},
		{"event", `event Log(address indexed a, uint) anonymous;`, "event Log(address indexed a, uint) anonymous;\n"},
		{"using", `using {f as +} for T global;`, "using {f as +} for T global;\n"},
		{"using star", `using L for *;`, "using L for *;\n"},
		{"constant", `uint constant N = 2 ** 8;`, "uint constant N = (2 ** 8);\n"},
		{"free function", `function g() pure returns (bool) { return true; }`, "function g() pure returns (bool) {\n  return true;\n}\n"},
		{"mapping", `contract C { mapping(address => uint[]) m; }`, "contract C {\n  mapping(address => uint[]) m;\n}\n"},
		{"abstract", `abstract contract A { function f() public virtual; }`, "abstract contract A {\n  function f() public virtual;\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			ast.NewPrinter(&sb).PrintSourceUnit(parse(t, tt.src))
			if sb.String() != tt.want {
				t.Errorf("want %q, got %q", tt.want, sb.String())
			}
		})
	}
}

func TestExprString(t *testing.T) {
	e := &ast.AddSub{
		Op:   "+",
		Left: &ast.Identifier{Name: "a"},
		Right: &ast.MulDivMod{
			Op:    "*",
			Left:  &ast.NumberLiteral{Value: "2", Unit: "ether"},
			Right: &ast.TupleExpr{Elems: []ast.Expr{&ast.Identifier{Name: "b"}, nil}},
		},
	}
	if got := ast.ExprString(e); got != "(a + (2 ether * (b, )))" {
		t.Errorf("unexpected output %s", got)
	}
}

func TestTypeString(t *testing.T) {
	ty := &ast.ArrayType{
		Elem: &ast.MappingType{
			Key:   &ast.ElementaryType{Name: "address"},
			Value: &ast.ElementaryType{Name: "address", Payable: true},
		},
		Length: &ast.NumberLiteral{Value: "3"},
	}
	if got := ast.TypeString(ty); got != "mapping(address => address payable)[3]" {
		t.Errorf("unexpected output %s", got)
	}
}
