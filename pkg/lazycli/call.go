// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"io"
)

// Call carries the parsed arguments of one command, split the way the
// operation receives them.
type Call struct {
	// Command is the full command path, e.g. "greet hello".
	Command string

	// Positional holds positional values in declaration order.
	Positional []any

	// Variadic holds the variadic values; empty, never nil, when none
	// were supplied.
	Variadic []any

	// Keywords maps optional parameter names to their values. Inverted
	// switches are stored under the parameter name, not the flag name.
	Keywords map[string]any

	// Extra holds the ancestor commands' optional values when the command
	// declared a Keywords sink. It is nil otherwise.
	Extra map[string]any

	values map[string]any
}

// Value returns the value bound to a parameter name (positional, variadic,
// optional or keyword sink).
func (c *Call) Value(name string) any {
	return c.values[name]
}

// Has reports whether name is a parameter of the command.
func (c *Call) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Lookup returns the value bound to name as a T.
func Lookup[T any](c *Call, name string) (T, bool) {
	v, ok := c.values[name].(T)
	return v, ok
}

// Slice returns the sequence bound to name, keeping elements that are a T.
func Slice[T any](c *Call, name string) []T {
	items, _ := c.values[name].([]any)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// String returns a string parameter, or "".
func (c *Call) String(name string) string {
	v, _ := Lookup[string](c, name)
	return v
}

// Int returns an int parameter, or 0.
func (c *Call) Int(name string) int {
	v, _ := Lookup[int](c, name)
	return v
}

// Float returns a float64 parameter, or 0.
func (c *Call) Float(name string) float64 {
	v, _ := Lookup[float64](c, name)
	return v
}

// Bool returns a bool parameter, or false.
func (c *Call) Bool(name string) bool {
	v, _ := Lookup[bool](c, name)
	return v
}

// Reader returns a stream parameter (or its default) as an io.Reader.
func (c *Call) Reader(name string) io.Reader {
	v, _ := Lookup[io.Reader](c, name)
	return v
}

// Writer returns a stream parameter (or its default) as an io.Writer.
func (c *Call) Writer(name string) io.Writer {
	v, _ := Lookup[io.Writer](c, name)
	return v
}
