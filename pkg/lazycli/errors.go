// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"errors"
	"fmt"
)

// Build errors. These are returned (wrapped with the command and parameter
// they concern) by New and never reach the command line.
var (
	// ErrMultipleVariadic is returned when a command declares more than one
	// variadic parameter, counting sequence-typed positionals.
	ErrMultipleVariadic = errors.New("more than one variadic parameter")

	// ErrUnresolvableType is returned when a declared type or a default
	// value's runtime type cannot be turned into a value constructor.
	ErrUnresolvableType = errors.New("unresolvable type")

	// ErrDuplicateParam is returned when two parameters share a name.
	ErrDuplicateParam = errors.New("duplicate parameter")

	// ErrPositionalWithSubcommands is returned when a command that has
	// subcommands also declares positional or variadic parameters.
	ErrPositionalWithSubcommands = errors.New("command with subcommands cannot take positional arguments")

	// ErrDuplicateSubcommand is returned when two subcommands (or a
	// subcommand and an alias) share a name.
	ErrDuplicateSubcommand = errors.New("duplicate subcommand")

	// ErrAlreadyAttached is returned when a command is attached to a
	// second parent.
	ErrAlreadyAttached = errors.New("command already attached to a parent")

	// ErrSchemaNotJSON is returned when a JSON schema is attached to a
	// parameter that is not JSON-literal typed.
	ErrSchemaNotJSON = errors.New("json schema on non-json parameter")

	// ErrInvalidSchema is returned when a JSON schema fails to compile.
	ErrInvalidSchema = errors.New("invalid json schema")
)

// buildError ties a build error to the command (and optionally the
// parameter) it was found on.
type buildError struct {
	Command string
	Param   string
	Err     error
}

func (e *buildError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("lazycli: command %q, parameter %q: %v", e.Command, e.Param, e.Err)
	}
	return fmt.Sprintf("lazycli: command %q: %v", e.Command, e.Err)
}

func (e *buildError) Unwrap() error {
	return e.Err
}

// ParseError is returned by Parse and Run when the command line does not
// match the command's schema. The operation is never invoked when a
// ParseError is returned.
type ParseError struct {
	Command string // Full path of the command that rejected the input.
	Usage   string // Usage text of that command, for display.
	Err     error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ArgsError is returned when the wrong number of positional arguments is
// provided.
type ArgsError struct {
	Expected string // "1", "at least 2"
	Got      int
	Command  string
}

func (e *ArgsError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("'%s' requires %s argument(s), got %d", e.Command, e.Expected, e.Got)
	}
	return fmt.Sprintf("requires %s argument(s), got %d", e.Expected, e.Got)
}

// ValueError is returned when a raw token cannot be converted by the
// parameter's constructor (including JSON decoding and schema validation).
type ValueError struct {
	Param string // Display name: "--number" for flags, "DST" for positionals.
	Type  string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("argument %s: invalid %s value: %q: %v", e.Param, e.Type, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
