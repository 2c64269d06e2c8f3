package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Node is an expression tree node.
type Node interface {
	// Eval computes the node's value. Non-finite results are ErrDomain.
	Eval() (float64, error)
	String() string
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Const is a named constant such as pi or e.
type Const struct {
	Name  string
	Value float64
}

// Unary is a prefix sign.
type Unary struct {
	Op string // "+" or "-"
	X  Node
}

// Binary is an infix operation.
type Binary struct {
	Op   string // "+", "-", "*", "/", "^"
	L, R Node
}

// Postfix is a factorial or a percentage.
type Postfix struct {
	Op string // "!" or "%"
	X  Node
}

// Call is a function application.
type Call struct {
	Name string
	Args []Node
	fn   *function
}

func (n *Number) Eval() (float64, error) { return n.Value, nil }
func (n *Const) Eval() (float64, error)  { return n.Value, nil }

func (n *Unary) Eval() (float64, error) {
	x, err := n.X.Eval()
	if err != nil {
		return 0, err
	}
	if n.Op == "-" {
		return -x, nil
	}
	return x, nil
}

func (n *Binary) Eval() (float64, error) {
	l, err := n.L.Eval()
	if err != nil {
		return 0, err
	}
	r, err := n.R.Eval()
	if err != nil {
		return 0, err
	}

	var v float64
	switch n.Op {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrDomain)
		}
		v = l / r
	case "^":
		v = math.Pow(l, r)
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrSyntax, n.Op)
	}
	return finite(v, n)
}

func (n *Postfix) Eval() (float64, error) {
	x, err := n.X.Eval()
	if err != nil {
		return 0, err
	}
	if n.Op == "%" {
		return x / 100, nil
	}
	return factorial(x)
}

func (n *Call) Eval() (float64, error) {
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval()
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	v, err := n.fn.apply(args)
	if err != nil {
		return 0, err
	}
	return finite(v, n)
}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *Const) String() string { return n.Name }

func (n *Unary) String() string { return "(" + n.Op + n.X.String() + ")" }

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + n.Op + " " + n.R.String() + ")"
}

func (n *Postfix) String() string { return n.X.String() + n.Op }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// maxFactorial is the largest n whose factorial fits a float64.
const maxFactorial = 170

func factorial(x float64) (float64, error) {
	if x < 0 || x != math.Trunc(x) {
		return 0, fmt.Errorf("%w: factorial of %v", ErrDomain, x)
	}
	if x > maxFactorial {
		return 0, fmt.Errorf("%w: factorial of %v overflows", ErrDomain, x)
	}
	v := 1.0
	for i := 2.0; i <= x; i++ {
		v *= i
	}
	return v, nil
}

func finite(v float64, n Node) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is not a finite number", ErrDomain, n)
	}
	return v, nil
}
