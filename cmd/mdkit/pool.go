package main

import (
	"context"
	"fmt"

	"github.com/aguakit/mdkit"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mdkit.Input) (*mdkit.Result, error)
}

// Compile-time interface implementation checks.
var (
	_ CLIConverter = (*mdkit.Converter)(nil)
	_ Pool         = (*poolAdapter)(nil)
)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter adapts *mdkit.ConverterPool to Pool.
type poolAdapter struct {
	pool *mdkit.ConverterPool
}

func newConverterPool(size int, opts ...mdkit.Option) Pool {
	return &poolAdapter{pool: mdkit.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when c did not come from this adapter.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*mdkit.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }
