package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 256

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Parse builds the expression tree for src.
func Parse(src string) (Node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, t, t.pos)
	}
	return n, nil
}

// Eval parses and evaluates src.
func Eval(src string) (float64, error) {
	n, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return n.Eval()
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: expression nested too deeply", ErrSyntax)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) expr() (Node, error) {
	l, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		r, err := p.term()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) term() (Node, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next().text
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op, L: l, R: r}
	}
	return l, nil
}

func (p *parser) unary() (Node, error) {
	if p.isOp("+", "-") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		op := p.next().text
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	// The exponent is parsed at unary level: right-associative, signed.
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: "^", L: base, R: exp}, nil
}

func (p *parser) postfix() (Node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isOp("!", "%") {
		x = &Postfix{Op: p.next().text, X: x}
	}
	return x, nil
}

func (p *parser) primary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %s is out of range", ErrDomain, t.text)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q at %d", ErrSyntax, t.text, t.pos)
		}
		return &Number{Value: v}, nil

	case tokIdent:
		if fn, ok := functions[t.text]; ok {
			return p.call(t, fn)
		}
		if v, ok := constants[t.text]; ok {
			return &Const{Name: t.text, Value: v}, nil
		}
		return nil, fmt.Errorf("%w: %q at %d", ErrUnknownIdent, t.text, t.pos)

	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ) at %d, found %s", ErrSyntax, c.pos, c)
		}
		return x, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, t, t.pos)
}

func (p *parser) call(name token, fn *function) (Node, error) {
	if open := p.next(); open.kind != tokLParen {
		return nil, fmt.Errorf("%w: expected ( after %s at %d", ErrSyntax, name.text, open.pos)
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	n := &Call{Name: name.text, fn: fn}
	if p.peek().kind == tokRParen {
		p.next()
	} else {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, arg)

			t := p.next()
			if t.kind == tokRParen {
				break
			}
			if t.kind != tokComma {
				return nil, fmt.Errorf("%w: expected , or ) at %d, found %s", ErrSyntax, t.pos, t)
			}
		}
	}

	// Arity is a parse-time property of the call.
	if len(n.Args) < fn.minArgs || (fn.maxArgs >= 0 && len(n.Args) > fn.maxArgs) {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrArity, fn.name, fn.arity(), len(n.Args))
	}
	return n, nil
}
