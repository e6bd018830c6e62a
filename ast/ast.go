// Package ast defines the formula expression tree: numeric literals,
// cell references, unary and binary operators, all built by parser and
// consumed by formula's evaluator and canonical printer.
package ast

import "sheetengine/position"

// Node is any expression node in a formula's expression tree.
type Node interface {
	node()
}

// NumberLiteral is a decimal literal, stored only as its parsed value;
// its original text is not retained - canonical printing always
// re-renders the shortest round-tripping decimal form (spec 4.2).
type NumberLiteral struct {
	Value float64
}

func (*NumberLiteral) node() {}

// CellReference is a single A1-style reference. Pos is the decoded
// position, normalized to position.Invalid if the label is syntactically
// legal but numerically out of range (spec 3, 9): an invalid reference
// stays in the tree and evaluates to a Ref error, but is excluded from
// the sheet's dependency graph by the caller, not by this package.
type CellReference struct {
	Label string // original uppercase label, e.g. "AZ100"
	Pos   position.Position
}

func (*CellReference) node() {}

// PrefixExpression is unary + or -.
type PrefixExpression struct {
	Operator string // "+" or "-"
	Right    Node
}

func (*PrefixExpression) node() {}

// InfixExpression is a binary + - * / application.
type InfixExpression struct {
	Operator string
	Left     Node
	Right    Node
}

func (*InfixExpression) node() {}
