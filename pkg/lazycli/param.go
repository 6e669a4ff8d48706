// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind classifies a declared parameter.
type Kind int

const (
	// KindPositional is a required parameter without a default.
	KindPositional Kind = iota
	// KindOptional is a parameter with a default; it becomes a flag.
	KindOptional
	// KindVariadic collects zero or more trailing positional tokens.
	KindVariadic
	// KindKeywords is the catch-all keyword sink. It is never part of the
	// command-line schema.
	KindKeywords
)

func (k Kind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindOptional:
		return "optional"
	case KindVariadic:
		return "variadic"
	case KindKeywords:
		return "keywords"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Param is one declared parameter, as written by the caller. Use
// Positional, Optional, Variadic and Keywords to create them.
type Param struct {
	name   string
	kind   Kind
	typ    *Type
	def    any
	help   string
	schema string
}

// ParamOption configures a declared parameter.
type ParamOption func(*Param)

// WithType sets an explicit type annotation.
func WithType(t *Type) ParamOption {
	return func(p *Param) {
		p.typ = t
	}
}

// WithHelp sets the help fragment shown for the parameter. Without it a
// description is synthesized from the type and default.
func WithHelp(help string) ParamOption {
	return func(p *Param) {
		p.help = help
	}
}

// WithSchema attaches a JSON Schema document that every decoded value of
// a JSON-literal parameter must satisfy.
func WithSchema(doc string) ParamOption {
	return func(p *Param) {
		p.schema = doc
	}
}

// Positional declares a required parameter.
func Positional(name string, opts ...ParamOption) Param {
	return newParam(name, KindPositional, nil, opts)
}

// Optional declares a parameter with a default value. A nil default leaves
// the parameter untyped unless WithType is given.
func Optional(name string, def any, opts ...ParamOption) Param {
	return newParam(name, KindOptional, def, opts)
}

// Variadic declares the parameter that collects zero or more positional
// tokens.
func Variadic(name string, opts ...ParamOption) Param {
	return newParam(name, KindVariadic, nil, opts)
}

// Keywords declares the catch-all sink. On a subcommand it receives the
// optional values of every ancestor command (see Call.Extra).
func Keywords(name string) Param {
	return Param{name: name, kind: KindKeywords}
}

func newParam(name string, kind Kind, def any, opts []ParamOption) Param {
	p := Param{name: name, kind: kind, def: def}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ParamSpec is the normalized descriptor for one parameter.
type ParamSpec struct {
	Name         string
	Kind         Kind
	DeclaredType *Type // nil when untyped
	Default      any   // meaningful only for KindOptional
	IsBoolean    bool  // flag-only switch, arity zero

	// Type is the effective constructor; for sequences, the element's.
	Type     *Type
	Sequence bool
	Help     string

	// Flag is set for KindOptional parameters only.
	Flag *FlagBinding

	schema *jsonschema.Schema
}

// IsJSON reports whether raw tokens are decoded as JSON literals.
func (ps *ParamSpec) IsJSON() bool {
	return ps.Type != nil && ps.Type.json
}

// Metavar is the placeholder shown in usage for the parameter's value.
func (ps *ParamSpec) Metavar() string {
	return strings.ToUpper(longName(ps.Name))
}

// convert runs the constructor (and schema validation) on one raw token.
func (ps *ParamSpec) convert(display, raw string) (any, error) {
	if ps.schema != nil {
		var generic any
		if err := json.Unmarshal([]byte(raw), &generic); err != nil {
			return nil, &ValueError{Param: display, Type: ps.Type.Name(), Value: raw, Err: err}
		}
		if err := ps.schema.Validate(generic); err != nil {
			return nil, &ValueError{Param: display, Type: ps.Type.Name(), Value: raw, Err: err}
		}
	}
	v, err := ps.Type.Parse(raw)
	if err != nil {
		return nil, &ValueError{Param: display, Type: ps.Type.Name(), Value: raw, Err: err}
	}
	return v, nil
}

// extractParams turns declarations into ParamSpecs, preserving order. The
// keyword sink, if any, is returned separately.
func extractParams(command string, decls []Param) (specs []*ParamSpec, sink string, err error) {
	fail := func(param string, err error) ([]*ParamSpec, string, error) {
		return nil, "", &buildError{Command: command, Param: param, Err: err}
	}
	seen := make(map[string]bool, len(decls))
	variadic := ""
	for i := range decls {
		p := &decls[i]
		if seen[p.name] {
			return fail(p.name, ErrDuplicateParam)
		}
		seen[p.name] = true
		if p.kind == KindKeywords {
			if sink != "" {
				return fail(p.name, fmt.Errorf("%w: keywords sink already declared as %q", ErrDuplicateParam, sink))
			}
			sink = p.name
			continue
		}
		inf, err := inferType(p)
		if err != nil {
			return fail(p.name, err)
		}
		ps := &ParamSpec{
			Name:         p.name,
			Kind:         p.kind,
			DeclaredType: p.typ,
			Type:         inf.ctor,
			Sequence:     inf.sequence,
			Help:         p.help,
		}
		if ps.Kind == KindPositional && ps.Sequence {
			ps.Kind = KindVariadic
		}
		if ps.Kind == KindOptional {
			ps.Default = p.def
			ps.IsBoolean = isBoolDefault(p)
			if ps.IsBoolean && ps.Default == nil {
				ps.Default = false
			}
			if ps.Sequence {
				ps.Default = toAnySlice(p.def)
			}
		}
		if ps.Kind == KindVariadic {
			if variadic != "" {
				return fail(p.name, fmt.Errorf("%w: %q and %q", ErrMultipleVariadic, variadic, p.name))
			}
			variadic = p.name
		}
		if p.schema != "" {
			if !ps.IsJSON() {
				return fail(p.name, ErrSchemaNotJSON)
			}
			s, err := compileSchema(command, p.name, p.schema)
			if err != nil {
				return fail(p.name, fmt.Errorf("%w: %v", ErrInvalidSchema, err))
			}
			ps.schema = s
		}
		specs = append(specs, ps)
	}
	return specs, sink, nil
}

// isBoolDefault reports whether the effective default is a boolean.
func isBoolDefault(p *Param) bool {
	if p.def == nil {
		return p.typ == Bool
	}
	return reflect.TypeOf(p.def).Kind() == reflect.Bool
}

func toAnySlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func compileSchema(command, param, doc string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("mem://lazycli/%s/%s.json", command, param)
	if err := c.AddResource(url, strings.NewReader(doc)); err != nil {
		return nil, err
	}
	return c.Compile(url)
}
