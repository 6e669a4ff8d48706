// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrReservedName is returned when a parameter's long flag would shadow
// the built-in help flag.
var ErrReservedName = errors.New("reserved flag name")

// FlagBinding is the resolved naming of one optional parameter.
//
// Flag identity is part of a command's external contract, and short names
// are assigned in declaration order: reordering parameters can change
// which parameter owns a given short flag.
type FlagBinding struct {
	Long     string // without leading dashes
	Short    string // single letter, or "" when none was free
	Inverted bool   // --no-<name>; presence sets false
}

// Names renders the binding as it appears in help: "-r, --recursive".
func (fb *FlagBinding) Names() string {
	if fb.Short == "" {
		return "--" + fb.Long
	}
	return "-" + fb.Short + ", --" + fb.Long
}

// reservedShort holds the letters claimed before any parameter is seen.
var reservedShort = []rune{'h', 'H'}

const helpFlag = "help"

// longName converts a parameter name to its flag spelling.
func longName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, name)
}

// shortFlag returns the first letter of name, lower-cased, unless it is
// taken; then the upper-case letter, unless that is taken too. The chosen
// letter is recorded in used.
func shortFlag(name string, used map[rune]bool) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r >= utf8.RuneSelf || !unicode.IsLetter(r) {
		return ""
	}
	c := unicode.ToLower(r)
	if used[c] {
		c = unicode.ToUpper(r)
		if used[c] {
			return ""
		}
	}
	used[c] = true
	return string(c)
}

// resolveFlags assigns a FlagBinding to every optional parameter of one
// command, in declaration order.
func resolveFlags(command string, params []*ParamSpec) error {
	used := make(map[rune]bool, len(params)+len(reservedShort))
	for _, r := range reservedShort {
		used[r] = true
	}
	longs := map[string]string{helpFlag: helpFlag}
	for _, ps := range params {
		if ps.Kind != KindOptional {
			continue
		}
		fb := &FlagBinding{Long: longName(ps.Name)}
		if ps.IsBoolean && reflect.ValueOf(ps.Default).Bool() {
			fb.Long = "no-" + fb.Long
			fb.Inverted = true
		}
		if owner, ok := longs[fb.Long]; ok {
			err := ErrDuplicateParam
			if owner == helpFlag {
				err = ErrReservedName
			}
			return &buildError{Command: command, Param: ps.Name, Err: fmt.Errorf("%w: --%s", err, fb.Long)}
		}
		longs[fb.Long] = ps.Name
		fb.Short = shortFlag(ps.Name, used)
		ps.Flag = fb
	}
	return nil
}
