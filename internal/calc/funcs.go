package calc

import (
	"fmt"
	"math"
)

// function is a built-in with an argument count range. maxArgs < 0 means
// variadic.
type function struct {
	name    string
	minArgs int
	maxArgs int
	fn      func(args []float64) float64
}

func (f *function) apply(args []float64) (float64, error) {
	if len(args) < f.minArgs || (f.maxArgs >= 0 && len(args) > f.maxArgs) {
		return 0, fmt.Errorf("%w: %s takes %s, got %d", ErrArity, f.name, f.arity(), len(args))
	}
	return f.fn(args), nil
}

func (f *function) arity() string {
	switch {
	case f.maxArgs < 0:
		return "at least " + pluralArgs(f.minArgs)
	case f.minArgs == f.maxArgs:
		return pluralArgs(f.minArgs)
	}
	return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

func unary(name string, fn func(float64) float64) *function {
	return &function{name: name, minArgs: 1, maxArgs: 1, fn: func(a []float64) float64 { return fn(a[0]) }}
}

// Trigonometric functions work in radians. log is base 10, ln natural.
var functions = map[string]*function{
	"sin":  unary("sin", math.Sin),
	"cos":  unary("cos", math.Cos),
	"tan":  unary("tan", math.Tan),
	"asin": unary("asin", math.Asin),
	"acos": unary("acos", math.Acos),
	"atan": unary("atan", math.Atan),
	"sqrt": unary("sqrt", math.Sqrt),
	"log":  unary("log", math.Log10),
	"ln":   unary("ln", math.Log),
	"abs":  unary("abs", math.Abs),
	"exp":  unary("exp", math.Exp),
	"pow": {name: "pow", minArgs: 2, maxArgs: 2, fn: func(a []float64) float64 {
		return math.Pow(a[0], a[1])
	}},
	"min": {name: "min", minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {name: "max", minArgs: 1, maxArgs: -1, fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"π":  math.Pi,
	"e":  math.E,
}
