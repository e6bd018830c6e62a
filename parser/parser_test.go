package parser

import (
	"testing"

	"sheetengine/ast"
	"sheetengine/lexer"
)

func parse(t *testing.T, expr string) ast.Node {
	t.Helper()
	node, err := New(lexer.New(expr)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", expr, err)
	}
	return node
}

func TestParsePrecedence(t *testing.T) {
	node := parse(t, "1+2*3")
	infix, ok := node.(*ast.InfixExpression)
	if !ok || infix.Operator != "+" {
		t.Fatalf("expected top-level '+', got %#v", node)
	}
	right, ok := infix.Right.(*ast.InfixExpression)
	if !ok || right.Operator != "*" {
		t.Fatalf("expected '*' grouped tighter than '+', got %#v", infix.Right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	node := parse(t, "1-2-3")
	infix, ok := node.(*ast.InfixExpression)
	if !ok || infix.Operator != "-" {
		t.Fatalf("expected top-level '-', got %#v", node)
	}
	if _, ok := infix.Left.(*ast.InfixExpression); !ok {
		t.Fatalf("left-associative chain should nest on the left, got %#v", infix.Left)
	}
	if _, ok := infix.Right.(*ast.NumberLiteral); !ok {
		t.Fatalf("expected a bare literal on the right, got %#v", infix.Right)
	}
}

func TestParseUnaryBindsTighterThanMultiplication(t *testing.T) {
	node := parse(t, "-2*3")
	infix, ok := node.(*ast.InfixExpression)
	if !ok || infix.Operator != "*" {
		t.Fatalf("expected top-level '*', got %#v", node)
	}
	if _, ok := infix.Left.(*ast.PrefixExpression); !ok {
		t.Fatalf("expected unary minus on the left operand, got %#v", infix.Left)
	}
}

func TestParseErrorsReported(t *testing.T) {
	cases := []string{"", "1+", "(1+2", "1 2", "@"}
	for _, c := range cases {
		if _, err := New(lexer.New(c)).Parse(); err == nil {
			t.Errorf("Parse(%q) expected an error, got none", c)
		}
	}
}
