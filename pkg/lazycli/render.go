// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Shape is how a result value is written to the output.
type Shape int

const (
	// ShapeNone writes nothing.
	ShapeNone Shape = iota
	// ShapeLine writes the value's string form on one line.
	ShapeLine
	// ShapeLines writes one line per element.
	ShapeLines
)

// Classify reports the output shape of v. Strings, byte slices, maps and
// anything with a String method are one line even though some of them
// can be iterated.
func Classify(v any) Shape {
	switch v.(type) {
	case nil:
		return ShapeNone
	case string, []byte, fmt.Stringer, error:
		return ShapeLine
	case iter.Seq[any], iter.Seq[string]:
		return ShapeLines
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ShapeNone
		}
	case reflect.Slice, reflect.Array:
		return ShapeLines
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir != 0 {
			return ShapeLines
		}
	}
	return ShapeLine
}

// Render writes an operation's result to w according to its shape.
// Channels and iterators are drained.
func Render(w io.Writer, v any) error {
	bw := bufio.NewWriter(w)
	line := func(x any) {
		bw.WriteString(repr(x))
		bw.WriteByte('\n')
	}
	switch Classify(v) {
	case ShapeNone:
		return nil
	case ShapeLine:
		line(v)
	case ShapeLines:
		switch seq := v.(type) {
		case iter.Seq[any]:
			for x := range seq {
				line(x)
			}
		case iter.Seq[string]:
			for x := range seq {
				line(x)
			}
		default:
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Chan {
				for {
					x, ok := rv.Recv()
					if !ok {
						break
					}
					line(x.Interface())
				}
				break
			}
			for i := range rv.Len() {
				line(rv.Index(i).Interface())
			}
		}
	}
	return bw.Flush()
}

// repr is the display form of one value, used for rendered lines, help
// defaults and flag defaults.
func repr(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case interface{ Name() string }:
		// Files show their path.
		return x.Name()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = repr(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	return fmt.Sprint(v)
}

// formatFloat always keeps a fractional part or exponent, so a float
// result is never mistaken for an integer: 13 prints as "13.0".
func formatFloat(f float64, bits int) string {
	var s string
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s = strconv.FormatFloat(f, 'e', -1, bits)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, bits)
	}
	if !strings.ContainsAny(s, ".eNn") {
		s += ".0"
	}
	return s
}
