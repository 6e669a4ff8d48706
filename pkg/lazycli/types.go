// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type streamMode int

const (
	noStream streamMode = iota
	streamRead
	streamWrite
	streamAppend
)

// Type is a value constructor: it turns one raw command-line token into a
// typed value. Types are immutable and may be shared between commands.
type Type struct {
	name   string
	parse  func(string) (any, error)
	elem   *Type
	json   bool
	stream streamMode
	err    error
}

// Name returns the display name used in help text ("int", "[]float", ...).
func (t *Type) Name() string {
	return t.name
}

// IsSequence reports whether t is a "sequence of T" type.
func (t *Type) IsSequence() bool {
	return t.elem != nil
}

// Elem returns the element type of a sequence type, or nil.
func (t *Type) Elem() *Type {
	return t.elem
}

// IsJSON reports whether raw tokens are decoded as JSON literals.
func (t *Type) IsJSON() bool {
	return t.json
}

// IsStream reports whether t opens a path as a text stream. The parsed
// value is an *os.File owned by the invoked operation.
func (t *Type) IsStream() bool {
	return t.stream != noStream
}

// Parse converts a single raw token. For sequence types it converts one
// element.
func (t *Type) Parse(s string) (any, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.parse(s)
}

func (t *Type) String() string {
	return t.name
}

var (
	// String is the identity constructor.
	String = &Type{name: "string", parse: func(s string) (any, error) { return s, nil }}

	// Int parses base-10 integers into int.
	Int = &Type{name: "int", parse: func(s string) (any, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, numError(err)
		}
		return n, nil
	}}

	// Float parses float64 values.
	Float = &Type{name: "float", parse: func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, numError(err)
		}
		return f, nil
	}}

	// Bool parses strconv-style booleans. Optional booleans never see it on
	// the command line; they become presence switches.
	Bool = &Type{name: "bool", parse: func(s string) (any, error) {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, numError(err)
		}
		return b, nil
	}}

	// Duration parses time.ParseDuration strings.
	Duration = &Type{name: "duration", parse: func(s string) (any, error) {
		return time.ParseDuration(s)
	}}

	// JSON decodes the token as any JSON value: object, array, string,
	// number, boolean or null.
	JSON = &Type{name: "json", json: true, parse: decodeJSON}

	// Object is the generic object annotation; it is JSON-literal typed.
	Object = JSON

	// ReadStream opens the path for reading.
	ReadStream = &Type{name: "read", stream: streamRead, parse: func(s string) (any, error) {
		return os.Open(s)
	}}

	// WriteStream creates or truncates the path for writing.
	WriteStream = &Type{name: "write", stream: streamWrite, parse: func(s string) (any, error) {
		return os.Create(s)
	}}

	// AppendStream opens the path for appending, creating it if needed.
	AppendStream = &Type{name: "append", stream: streamAppend, parse: func(s string) (any, error) {
		return os.OpenFile(s, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o666)
	}}
)

var namedTypes = map[string]*Type{
	"string":   String,
	"str":      String,
	"int":      Int,
	"float":    Float,
	"bool":     Bool,
	"duration": Duration,
	"json":     JSON,
	"object":   JSON,
	"map":      JSON,
	"read":     ReadStream,
	"write":    WriteStream,
	"append":   AppendStream,
}

// SequenceOf returns the "sequence of t" type. A positional parameter of a
// sequence type is variadic; an optional one is a repeatable flag.
func SequenceOf(t *Type) *Type {
	if t == nil {
		return unresolvable("[]<nil>")
	}
	if t.err != nil {
		return t
	}
	if t.elem != nil {
		return &Type{name: "[]" + t.name, err: fmt.Errorf("%w: nested sequence %s", ErrUnresolvableType, "[]"+t.name)}
	}
	return &Type{
		name:   "[]" + t.name,
		parse:  t.parse,
		elem:   t,
		json:   t.json,
		stream: t.stream,
	}
}

// ParseFunc wraps an arbitrary single-string constructor.
func ParseFunc(name string, fn func(string) (any, error)) *Type {
	if fn == nil {
		return unresolvable(name)
	}
	return &Type{name: name, parse: fn}
}

// Parser is the typed form of ParseFunc.
func Parser[T any](name string, fn func(string) (T, error)) *Type {
	if fn == nil {
		return unresolvable(name)
	}
	return &Type{name: name, parse: func(s string) (any, error) {
		return fn(s)
	}}
}

// TypeOf derives a constructor from the Go type T, using the same rules as
// inference from a default value. TypeOf[[]float64]() is a sequence of
// floats; TypeOf[any]() is the generic object type.
func TypeOf[T any]() *Type {
	return reflectType(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeNamed resolves a type by name: string (str), int, float, bool,
// duration, json (object, map), read, write, append, or "[]" followed by
// one of those. An unknown name yields a type that fails the build.
func TypeNamed(name string) *Type {
	if elem, ok := strings.CutPrefix(name, "[]"); ok {
		return SequenceOf(TypeNamed(elem))
	}
	if t, ok := namedTypes[name]; ok {
		return t
	}
	return unresolvable(name)
}

func unresolvable(name string) *Type {
	return &Type{name: name, err: fmt.Errorf("%w: %s", ErrUnresolvableType, name)}
}

func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

func decodeJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// reflectType maps a Go type to a constructor that yields values of that
// same Go type.
func reflectType(rt reflect.Type) *Type {
	if rt == durationType {
		return Duration
	}
	if rt.Kind() != reflect.Interface && reflect.PointerTo(rt).Implements(textUnmarshalerType) {
		return textType(rt)
	}
	switch rt.Kind() {
	case reflect.String:
		if rt.PkgPath() == "" {
			return String
		}
		return convertedType(String, rt)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rt == reflect.TypeOf(0) {
			return Int
		}
		return &Type{name: rt.String(), parse: func(s string) (any, error) {
			n, err := strconv.ParseInt(s, 10, rt.Bits())
			if err != nil {
				return nil, numError(err)
			}
			return reflect.ValueOf(n).Convert(rt).Interface(), nil
		}}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Type{name: rt.String(), parse: func(s string) (any, error) {
			n, err := strconv.ParseUint(s, 10, rt.Bits())
			if err != nil {
				return nil, numError(err)
			}
			return reflect.ValueOf(n).Convert(rt).Interface(), nil
		}}
	case reflect.Float32, reflect.Float64:
		if rt == reflect.TypeOf(0.0) {
			return Float
		}
		return &Type{name: rt.String(), parse: func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, rt.Bits())
			if err != nil {
				return nil, numError(err)
			}
			return reflect.ValueOf(f).Convert(rt).Interface(), nil
		}}
	case reflect.Bool:
		if rt.PkgPath() == "" {
			return Bool
		}
		return convertedType(Bool, rt)
	case reflect.Map:
		return JSON
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return JSON
		}
	case reflect.Struct:
		return jsonInto(rt)
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return &Type{name: rt.String(), parse: func(s string) (any, error) {
				return reflect.ValueOf([]byte(s)).Convert(rt).Interface(), nil
			}}
		}
		return SequenceOf(reflectType(rt.Elem()))
	case reflect.Array:
		return SequenceOf(reflectType(rt.Elem()))
	}
	return unresolvable(rt.String())
}

func convertedType(base *Type, rt reflect.Type) *Type {
	return &Type{name: rt.String(), parse: func(s string) (any, error) {
		v, err := base.parse(s)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(rt).Interface(), nil
	}}
}

func textType(rt reflect.Type) *Type {
	return &Type{name: rt.String(), parse: func(s string) (any, error) {
		p := reflect.New(rt)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}}
}

func jsonInto(rt reflect.Type) *Type {
	return &Type{name: rt.String(), json: true, parse: func(s string) (any, error) {
		p := reflect.New(rt)
		if err := json.Unmarshal([]byte(s), p.Interface()); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}}
}

// inference is the outcome of type resolution for one parameter.
type inference struct {
	ctor     *Type // element constructor when sequence is set
	sequence bool
}

// inferType resolves a parameter's constructor: declared type first, then
// the default's runtime type, then the identity string constructor.
func inferType(p *Param) (inference, error) {
	if p.typ != nil {
		if p.typ.err != nil {
			return inference{}, p.typ.err
		}
		if p.typ.elem != nil {
			return inference{ctor: p.typ.elem, sequence: true}, nil
		}
		return inference{ctor: p.typ, sequence: p.kind == KindVariadic}, nil
	}
	if p.kind == KindVariadic {
		return inference{ctor: String, sequence: true}, nil
	}
	if p.kind != KindOptional || p.def == nil {
		return inference{ctor: String}, nil
	}
	rv := reflect.ValueOf(p.def)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() == reflect.Interface {
		// Untyped sequences take their element type from the first item.
		if rv.Len() > 0 && !rv.Index(0).IsNil() {
			elem := reflectType(rv.Index(0).Elem().Type())
			if elem.err != nil {
				return inference{}, elem.err
			}
			return inference{ctor: elem, sequence: true}, nil
		}
		return inference{ctor: String, sequence: true}, nil
	}
	t := reflectType(rv.Type())
	if t.err != nil {
		return inference{}, t.err
	}
	if t.elem != nil {
		return inference{ctor: t.elem, sequence: true}, nil
	}
	return inference{ctor: t}, nil
}
