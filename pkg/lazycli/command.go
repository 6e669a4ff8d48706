// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Func is the operation a Command exposes. The returned value is rendered
// to standard output (see Render); a returned error is passed to the
// caller of Run untouched.
type Func func(ctx context.Context, call *Call) (any, error)

// CommandSpec is the immutable description of one command, built by New.
type CommandSpec struct {
	Name    string
	Help    string // first line of Doc
	Doc     string
	Aliases []string
	Params  []*ParamSpec

	// Sink names the Keywords parameter, if one was declared.
	Sink string

	Parent   *CommandSpec
	Children []*CommandSpec // display order
}

// Child returns the subcommand with the given name.
func (cs *CommandSpec) Child(name string) (*CommandSpec, bool) {
	for _, c := range cs.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Param returns the parameter with the given name.
func (cs *CommandSpec) Param(name string) (*ParamSpec, bool) {
	for _, p := range cs.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Path returns the space separated names from the root to cs.
func (cs *CommandSpec) Path() string {
	if cs.Parent == nil {
		return cs.Name
	}
	return cs.Parent.Path() + " " + cs.Name
}

// Command wraps an operation with its generated command-line interface.
// A Command is read-only once New returns and may be run any number of
// times.
type Command struct {
	spec     *CommandSpec
	fn       Func
	parent   *Command
	children []*Command
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// Option configures a Command.
type Option func(*options)

type options struct {
	doc     string
	params  []Param
	subs    []*Command
	aliases []string
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// WithDoc sets the command's documentation. The first line is used as the
// short description in a parent's command list.
func WithDoc(doc string) Option {
	return func(o *options) {
		o.doc = doc
	}
}

// WithParams declares the operation's parameters, in order. Order decides
// positional order and short-flag assignment.
func WithParams(params ...Param) Option {
	return func(o *options) {
		o.params = append(o.params, params...)
	}
}

// WithSubcommands attaches subcommands. Their display order is the order
// given here.
func WithSubcommands(cmds ...*Command) Option {
	return func(o *options) {
		o.subs = append(o.subs, cmds...)
	}
}

// WithAliases sets alternative names a parent accepts for this command.
func WithAliases(aliases ...string) Option {
	return func(o *options) {
		o.aliases = append(o.aliases, aliases...)
	}
}

// WithLogger sets the logger for debug output. If not set, logging is
// disabled unless LAZYCLI_DEBUG is set in the environment.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStdout sets where help and rendered results are written.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithStderr sets where the parsing engine writes diagnostics.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// New builds a Command. All schema problems (several variadic parameters,
// unresolvable types, duplicate names, bad JSON schemas) are reported here,
// before any argument is parsed.
func New(name string, fn Func, opts ...Option) (*Command, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = defaultLogger()
	}
	if o.stdout == nil {
		o.stdout = os.Stdout
	}
	if o.stderr == nil {
		o.stderr = os.Stderr
	}

	params, sink, err := extractParams(name, o.params)
	if err != nil {
		return nil, err
	}
	if err := resolveFlags(name, params); err != nil {
		return nil, err
	}
	spec := &CommandSpec{
		Name:    name,
		Doc:     strings.TrimSpace(o.doc),
		Aliases: o.aliases,
		Params:  params,
		Sink:    sink,
	}
	spec.Help, _, _ = strings.Cut(spec.Doc, "\n")
	for _, ps := range params {
		if ps.Flag != nil {
			o.logger.Debug("resolved flag", "command", name, "param", ps.Name, "long", ps.Flag.Long, "short", ps.Flag.Short, "type", ps.Type.Name())
		}
	}

	c := &Command{
		spec:   spec,
		fn:     fn,
		logger: o.logger,
		stdout: o.stdout,
		stderr: o.stderr,
	}
	if err := c.attach(o.subs); err != nil {
		return nil, err
	}
	return c, nil
}

// Must is a helper that wraps a call to New and panics if the error is
// non-nil.
func Must(c *Command, err error) *Command {
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Command) attach(subs []*Command) error {
	if len(subs) == 0 {
		return nil
	}
	for _, ps := range c.spec.Params {
		if ps.Kind == KindPositional || ps.Kind == KindVariadic {
			return &buildError{Command: c.spec.Name, Param: ps.Name, Err: ErrPositionalWithSubcommands}
		}
	}
	names := make(map[string]bool)
	claim := func(name string) error {
		if names[name] {
			return &buildError{Command: c.spec.Name, Err: fmt.Errorf("%w: %q", ErrDuplicateSubcommand, name)}
		}
		names[name] = true
		return nil
	}
	for _, sub := range subs {
		if sub.parent != nil {
			return &buildError{Command: c.spec.Name, Err: fmt.Errorf("%w: %q", ErrAlreadyAttached, sub.spec.Name)}
		}
		if err := claim(sub.spec.Name); err != nil {
			return err
		}
		for _, alias := range sub.spec.Aliases {
			if err := claim(alias); err != nil {
				return err
			}
		}
	}
	for _, sub := range subs {
		sub.parent = c
		sub.spec.Parent = c.spec
		c.children = append(c.children, sub)
		c.spec.Children = append(c.spec.Children, sub.spec)
	}
	return nil
}

// Spec returns the command's resolved description.
func (c *Command) Spec() *CommandSpec {
	return c.spec
}

// Name returns the command name.
func (c *Command) Name() string {
	return c.spec.Name
}

// Run parses args, invokes the selected operation(s) and renders their
// results to the configured stdout. Parse failures are returned as
// *ParseError; an operation's error is returned as is.
//
// Stream-typed parameters are opened during parsing and handed to the
// operation, which owns them and is responsible for closing them.
func (c *Command) Run(ctx context.Context, args []string) error {
	inv, err := c.Parse(args)
	if err != nil {
		return err
	}
	return inv.Invoke(ctx, c.stdout)
}
