// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestTypeNamed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    any
		wantSeq bool
	}{
		{"string", "x", "x", false},
		{"str", "x", "x", false},
		{"int", "42", 42, false},
		{"float", "2.5", 2.5, false},
		{"bool", "true", true, false},
		{"duration", "1m", time.Minute, false},
		{"json", `[1,"a"]`, []any{float64(1), "a"}, false},
		{"[]int", "7", 7, true},
	}
	for _, tt := range tests {
		typ := TypeNamed(tt.name)
		if got := typ.IsSequence(); got != tt.wantSeq {
			t.Errorf("TypeNamed(%q).IsSequence() = %v, want %v", tt.name, got, tt.wantSeq)
		}
		got, err := typ.Parse(tt.raw)
		if err != nil {
			t.Errorf("TypeNamed(%q).Parse(%q) error: %v", tt.name, tt.raw, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("TypeNamed(%q).Parse(%q) mismatch (-want +got):\n%s", tt.name, tt.raw, diff)
		}
	}
}

func TestTypeNamedUnknown(t *testing.T) {
	for _, name := range []string{"nope", "[]nope", "[][]int"} {
		if _, err := TypeNamed(name).Parse("1"); !errors.Is(err, ErrUnresolvableType) {
			t.Errorf("TypeNamed(%q).Parse error = %v, want ErrUnresolvableType", name, err)
		}
	}
}

func TestTypeParseErrors(t *testing.T) {
	tests := []struct {
		typ *Type
		raw string
	}{
		{Int, "x"},
		{Int, "1.5"},
		{Float, "abc"},
		{Bool, "maybe"},
		{Duration, "10"},
		{JSON, "{a:1}"},
	}
	for _, tt := range tests {
		if _, err := tt.typ.Parse(tt.raw); err == nil {
			t.Errorf("%s.Parse(%q) succeeded, want error", tt.typ, tt.raw)
		}
	}
}

type level int

func TestTypeOf(t *testing.T) {
	id := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	tests := []struct {
		name string
		typ  *Type
		raw  string
		want any
	}{
		{"int8", TypeOf[int8](), "-3", int8(-3)},
		{"uint16", TypeOf[uint16](), "9", uint16(9)},
		{"float32", TypeOf[float32](), "0.5", float32(0.5)},
		{"named int", TypeOf[level](), "2", level(2)},
		{"text unmarshaler", TypeOf[netip.Addr](), "10.0.0.1", netip.MustParseAddr("10.0.0.1")},
		{"uuid", TypeOf[uuid.UUID](), id, uuid.MustParse(id)},
		{"map", TypeOf[map[string]any](), `{"a":1}`, map[string]any{"a": float64(1)}},
		{"struct", TypeOf[struct{ A int }](), `{"A":4}`, struct{ A int }{4}},
		{"bytes", TypeOf[[]byte](), "hi", []byte("hi")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestTypeOfVersion(t *testing.T) {
	got, err := TypeOf[semver.Version]().Parse("v1.2.3-rc.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := got.(semver.Version)
	if !ok {
		t.Fatalf("Parse returned %T, want semver.Version", got)
	}
	if v.String() != "1.2.3-rc.1" {
		t.Errorf("version = %q, want %q", v.String(), "1.2.3-rc.1")
	}
	if _, err := TypeOf[semver.Version]().Parse("not.a.version"); err == nil {
		t.Error("Parse(not.a.version) succeeded, want error")
	}
}

func TestTypeOfSequence(t *testing.T) {
	typ := TypeOf[[]float64]()
	if !typ.IsSequence() {
		t.Fatalf("TypeOf[[]float64]().IsSequence() = false")
	}
	if typ.Elem() != Float {
		t.Errorf("Elem() = %v, want %v", typ.Elem(), Float)
	}
	if _, err := TypeOf[chan int]().Parse("1"); !errors.Is(err, ErrUnresolvableType) {
		t.Errorf("TypeOf[chan int]() error = %v, want ErrUnresolvableType", err)
	}
}

func TestParser(t *testing.T) {
	typ := Parser("addr", netip.ParseAddr)
	if typ.Name() != "addr" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "addr")
	}
	if _, err := typ.Parse("not-an-ip"); err == nil {
		t.Error("Parse(not-an-ip) succeeded, want error")
	}
	if _, err := ParseFunc("nil", nil).Parse("x"); !errors.Is(err, ErrUnresolvableType) {
		t.Errorf("ParseFunc with nil constructor error = %v, want ErrUnresolvableType", err)
	}
}

func TestInferType(t *testing.T) {
	type mode string
	tests := []struct {
		name    string
		param   Param
		wantTyp string
		wantSeq bool
	}{
		{"positional", Positional("p"), "string", false},
		{"declared", Positional("p", WithType(Int)), "int", false},
		{"variadic", Variadic("v"), "string", true},
		{"variadic declared", Variadic("v", WithType(Float)), "float", true},
		{"nil default", Optional("o", nil), "string", false},
		{"int default", Optional("o", 3), "int", false},
		{"float default", Optional("o", 1.5), "float", false},
		{"named string", Optional("o", mode("fast")), "lazycli.mode", false},
		{"duration default", Optional("o", time.Second), "duration", false},
		{"typed slice", Optional("o", []int{1}), "int", true},
		{"untyped slice", Optional("o", []any{2.5}), "float", true},
		{"empty untyped slice", Optional("o", []any{}), "string", true},
		{"declared sequence", Positional("p", WithType(SequenceOf(Int))), "int", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inf, err := inferType(&tt.param)
			if err != nil {
				t.Fatalf("inferType: %v", err)
			}
			if got := inf.ctor.Name(); got != tt.wantTyp {
				t.Errorf("type = %q, want %q", got, tt.wantTyp)
			}
			if inf.sequence != tt.wantSeq {
				t.Errorf("sequence = %v, want %v", inf.sequence, tt.wantSeq)
			}
		})
	}
}

func TestInferTypeUnresolvable(t *testing.T) {
	for _, p := range []Param{
		Optional("ch", make(chan int)),
		Optional("fn", func() {}),
		Positional("p", WithType(TypeNamed("complex"))),
	} {
		if _, err := inferType(&p); !errors.Is(err, ErrUnresolvableType) {
			t.Errorf("inferType(%s) error = %v, want ErrUnresolvableType", p.name, err)
		}
	}
}
