// Package parser builds a formula's expression tree from its token
// stream. It is a small Pratt parser in the same shape as the teacher
// repo's parser/parser.go (precedence table, registered prefix/infix
// functions, a parseExpression(precedence) loop driven by curToken/
// peekToken) cut down to the four arithmetic operators, unary sign,
// parens, numbers, and cell references that make up the formula
// grammar.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"sheetengine/ast"
	"sheetengine/lexer"
	"sheetengine/position"
	"sheetengine/token"
)

const (
	lowest    = 0
	additive  = 1
	multiplic = 2
	unary     = 3
)

var precedences = map[token.Type]int{
	token.PLUS:     additive,
	token.MINUS:    additive,
	token.ASTERISK: multiplic,
	token.SLASH:    multiplic,
}

type prefixFn func() (ast.Node, error)
type infixFn func(ast.Node) (ast.Node, error)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixFns map[token.Type]prefixFn
	infixFns  map[token.Type]infixFn

	errs []string
}

// New builds a parser over l. Call Parse once to consume the formula.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[token.Type]prefixFn{
		token.NUMBER: p.parseNumber,
		token.CELL:   p.parseCellReference,
		token.PLUS:   p.parsePrefix,
		token.MINUS:  p.parsePrefix,
		token.LPAREN: p.parseGrouped,
	}
	p.infixFns = map[token.Type]infixFn{
		token.PLUS:     p.parseInfix,
		token.MINUS:    p.parseInfix,
		token.ASTERISK: p.parseInfix,
		token.SLASH:    p.parseInfix,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Parse consumes the entire token stream as a single expression and
// returns an error describing what went wrong if the formula is
// malformed (unknown token, mismatched parens, out-of-format
// reference, trailing input, or an empty expression).
func (p *Parser) Parse() (ast.Node, error) {
	if p.curToken.Type == token.EOF {
		return nil, fmt.Errorf("empty expression")
	}
	expr := p.parseExpression(lowest)
	if p.peekToken.Type != token.EOF {
		p.addErrorf("unexpected trailing input at %s", describe(p.peekToken))
	}
	if len(p.errs) > 0 {
		return nil, fmt.Errorf("formula parse error: %s", strings.Join(p.errs, "; "))
	}
	return expr, nil
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addErrorf(format string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Sprintf(format, args...))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) parseExpression(precedence int) ast.Node {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.addErrorf("unexpected token %s", describe(p.curToken))
		return nil
	}
	left, err := prefix()
	if err != nil {
		p.addErrorf("%v", err)
		return nil
	}

	for p.peekToken.Type != token.EOF && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left, err = infix(left)
		if err != nil {
			p.addErrorf("%v", err)
			return left
		}
	}
	return left
}

// parseNumber and parseCellReference read curToken without advancing;
// the surrounding parseExpression loop (or a parent prefix/infix fn)
// is responsible for moving past whatever they just consumed.

func (p *Parser) parseNumber() (ast.Node, error) {
	v, err := strconv.ParseFloat(p.curToken.Lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q", p.curToken.Lit)
	}
	return &ast.NumberLiteral{Value: v}, nil
}

func (p *Parser) parseCellReference() (ast.Node, error) {
	label := p.curToken.Lit
	pos, err := position.Parse(label)
	if err != nil {
		return nil, fmt.Errorf("invalid cell reference %q: %v", label, err)
	}
	return &ast.CellReference{Label: label, Pos: pos}, nil
}

func (p *Parser) parsePrefix() (ast.Node, error) {
	op := p.curToken.Lit
	p.nextToken()
	right := p.parseExpression(unary)
	if right == nil {
		return nil, fmt.Errorf("missing operand after unary %q", op)
	}
	return &ast.PrefixExpression{Operator: op, Right: right}, nil
}

func (p *Parser) parseInfix(left ast.Node) (ast.Node, error) {
	op := p.curToken.Lit
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil, fmt.Errorf("missing right-hand operand for %q", op)
	}
	return &ast.InfixExpression{Operator: op, Left: left, Right: right}, nil
}

func (p *Parser) parseGrouped() (ast.Node, error) {
	p.nextToken() // consume '('
	expr := p.parseExpression(lowest)
	if expr == nil {
		return nil, fmt.Errorf("invalid expression inside parentheses")
	}
	if p.peekToken.Type != token.RPAREN {
		return nil, fmt.Errorf("mismatched parentheses: expected ')', got %s", describe(p.peekToken))
	}
	p.nextToken() // curToken now ')'
	return expr, nil
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of formula"
	}
	return fmt.Sprintf("%q", tok.Lit)
}
