// Package fixture provides a small formula language for building
// boolgraph.BooleanGraph values in tests and example fixtures, without
// hand-wiring gate-by-gate graph construction calls.
package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/scram-project/scram/boolgraph"
)

// Parse reads a formula from src and builds it into graph, returning
// the constructed root gate. Operators, from lowest to highest
// priority:
//
//   - "|" disjunction (or)
//   - "^" exclusive disjunction (xor)
//   - "&" conjunction (and)
//   - "!" negation (prefix, unary)
//
// Parentheses group subformulas. "0" and "1" are the Boolean constants.
// An identifier names a Variable; the same identifier always resolves
// to the same Variable within one Parse call. atleast(k; a, b, c, ...)
// builds a vote gate requiring at least k of its comma-separated
// arguments.
//
// Parse sets graph.Coherent false if "!" appears anywhere in src, and
// graph.Normal false if "^" does — the two flags a real builder is
// responsible for, not something NewGraph can assume.
func Parse(graph *boolgraph.BooleanGraph, src string) (*boolgraph.Gate, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	p := &parser{s: s, graph: graph, vars: make(map[string]*boolgraph.Variable)}
	p.scan()
	signed, node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof {
		return nil, fmt.Errorf("fixture: unexpected token %q at %s", p.token, p.s.Pos())
	}
	graph.Coherent = graph.Coherent && !p.sawNegation
	graph.Normal = graph.Normal && !p.sawNonNormalOperator
	return p.wrapRoot(signed, node), nil
}

type parser struct {
	s     scanner.Scanner
	eof   bool
	token string

	graph *boolgraph.BooleanGraph
	vars  map[string]*boolgraph.Variable

	// sawNegation records whether "!" appeared anywhere in the source,
	// leaf or otherwise: a Coherent graph uses no negation at all.
	sawNegation bool
	// sawNonNormalOperator records whether an operator other than
	// AND/OR/NULL/ATLEAST was built (only XOR, here) — a graph carrying
	// one is not yet Normal, since normalization expands it away.
	sawNonNormalOperator bool
}

func (p *parser) scan() {
	if p.eof {
		return
	}
	p.eof = p.s.Scan() == scanner.EOF
	p.token = p.s.TokenText()
}

// wrapRoot ensures Parse always hands back a *Gate: a formula that
// reduces to a single (possibly negated) literal is wrapped in a NULL
// pass-through gate, the same shape CheckRootGate already knows how to
// collapse away during preprocessing.
func (p *parser) wrapRoot(signed int, node boolgraph.Node) *boolgraph.Gate {
	wrapper := p.graph.NewGate(boolgraph.NULL)
	mustAddArg(wrapper, signed, node)
	return wrapper
}

func mustAddArg(gate *boolgraph.Gate, signed int, node boolgraph.Node) {
	if err := gate.AddArg(signed, node); err != nil {
		panic(err)
	}
}

// buildBinary creates an op gate over the two given operands. AND/OR
// silently absorb a repeated positive operand (x & x = x) without
// retyping themselves the way Gate.EraseArg does for a rewriter-driven
// removal, so a formula like "a & a" would otherwise leave a one-arg AND
// in the graph; buildBinary returns the repeated operand itself in that
// case and builds no gate, so every gate this package hands off to the
// preprocessor is already in the shape it expects and nothing is left
// queued on the graph's worklists.
func buildBinary(graph *boolgraph.BooleanGraph, op boolgraph.Operator, signed int, node boolgraph.Node, rsigned int, rnode boolgraph.Node) (int, boolgraph.Node) {
	if signed == rsigned {
		return signed, node
	}
	gate := graph.NewGate(op)
	mustAddArg(gate, signed, node)
	mustAddArg(gate, rsigned, rnode)
	return gate.Index(), gate
}

func (p *parser) parseOr() (int, boolgraph.Node, error) {
	signed, node, err := p.parseXor()
	if err != nil {
		return 0, nil, err
	}
	for !p.eof && p.token == "|" {
		p.scan()
		rsigned, rnode, err := p.parseXor()
		if err != nil {
			return 0, nil, err
		}
		signed, node = buildBinary(p.graph, boolgraph.OR, signed, node, rsigned, rnode)
	}
	return signed, node, nil
}

func (p *parser) parseXor() (int, boolgraph.Node, error) {
	signed, node, err := p.parseAnd()
	if err != nil {
		return 0, nil, err
	}
	for !p.eof && p.token == "^" {
		p.scan()
		rsigned, rnode, err := p.parseAnd()
		if err != nil {
			return 0, nil, err
		}
		gate := p.graph.NewGate(boolgraph.XOR)
		mustAddArg(gate, signed, node)
		mustAddArg(gate, rsigned, rnode)
		signed, node = gate.Index(), gate
		p.sawNonNormalOperator = true
	}
	return signed, node, nil
}

func (p *parser) parseAnd() (int, boolgraph.Node, error) {
	signed, node, err := p.parseNot()
	if err != nil {
		return 0, nil, err
	}
	for !p.eof && p.token == "&" {
		p.scan()
		rsigned, rnode, err := p.parseNot()
		if err != nil {
			return 0, nil, err
		}
		signed, node = buildBinary(p.graph, boolgraph.AND, signed, node, rsigned, rnode)
	}
	return signed, node, nil
}

func (p *parser) parseNot() (int, boolgraph.Node, error) {
	if p.token == "!" {
		p.scan()
		signed, node, err := p.parseNot()
		if err != nil {
			return 0, nil, err
		}
		p.sawNegation = true
		return -signed, node, nil
	}
	return p.parseAtLeast()
}

func (p *parser) parseAtLeast() (int, boolgraph.Node, error) {
	if p.token != "atleast" {
		return p.parseBasic()
	}
	p.scan()
	if p.token != "(" {
		return 0, nil, fmt.Errorf("fixture: expected '(' after atleast, found %q at %s", p.token, p.s.Pos())
	}
	p.scan()
	k, err := strconv.Atoi(p.token)
	if err != nil {
		return 0, nil, fmt.Errorf("fixture: expected vote count, found %q at %s", p.token, p.s.Pos())
	}
	p.scan()
	if p.token != ";" {
		return 0, nil, fmt.Errorf("fixture: expected ';' after vote count, found %q at %s", p.token, p.s.Pos())
	}
	p.scan()

	args := make(map[int]boolgraph.Node)
	for {
		signed, node, err := p.parseOr()
		if err != nil {
			return 0, nil, err
		}
		args[signed] = node
		if p.token != "," {
			break
		}
		p.scan()
	}
	if p.token != ")" {
		return 0, nil, fmt.Errorf("fixture: expected ')' to close atleast, found %q at %s", p.token, p.s.Pos())
	}
	p.scan()

	gate, err := p.graph.NewAtLeastGate(k, args)
	if err != nil {
		return 0, nil, err
	}
	return gate.Index(), gate, nil
}

func (p *parser) parseBasic() (int, boolgraph.Node, error) {
	if p.eof {
		return 0, nil, fmt.Errorf("fixture: expected expression, found EOF")
	}
	switch p.token {
	case "(":
		p.scan()
		signed, node, err := p.parseOr()
		if err != nil {
			return 0, nil, err
		}
		if p.token != ")" {
			return 0, nil, fmt.Errorf("fixture: expected ')', found %q at %s", p.token, p.s.Pos())
		}
		p.scan()
		return signed, node, nil
	case "0", "1":
		c := p.graph.NewConstant(p.token == "1")
		p.scan()
		return c.Index(), c, nil
	}
	name := p.token
	v, ok := p.vars[name]
	if !ok {
		v = p.graph.NewVariable(name)
		p.vars[name] = v
	}
	p.scan()
	return v.Index(), v, nil
}
