// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
)

// State is the lifecycle position of an Invocation. Parse either fails or
// returns an Invocation in StateBound, or StateRendered when it answered a
// help request.
type State int

const (
	StateBuilt    State = iota // zero value; not produced by Parse
	StateBound                 // arguments bound, nothing invoked
	StateInvoked               // an operation is running or returned
	StateRendered              // every result was rendered
	StateError                 // an operation or rendering failed
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateBound:
		return "bound"
	case StateInvoked:
		return "invoked"
	case StateRendered:
		return "rendered"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type step struct {
	cmd  *Command
	call *Call

	// streams are the handles opened for call; the operation owns them.
	streams []io.Closer
}

// release closes the streams of steps that never ran.
func release(steps []step) {
	for _, s := range steps {
		for _, c := range s.streams {
			c.Close()
		}
	}
}

// Invocation is a parsed command line, ready to run. It holds one Call per
// command on the path from the root to the selected subcommand.
type Invocation struct {
	steps  []step
	state  State
	logger *slog.Logger
}

// State reports how far the invocation got.
func (inv *Invocation) State() State {
	return inv.state
}

// Calls returns the bound arguments of every command on the selected
// path, root first. It is empty when only help was requested.
func (inv *Invocation) Calls() []*Call {
	calls := make([]*Call, len(inv.steps))
	for i, s := range inv.steps {
		calls[i] = s.call
	}
	return calls
}

// Selected returns the Call of the innermost selected command, or nil.
func (inv *Invocation) Selected() *Call {
	if len(inv.steps) == 0 {
		return nil
	}
	return inv.steps[len(inv.steps)-1].call
}

// Invoke runs every command on the selected path that has an operation,
// root first, rendering each result to w. The first error stops the chain
// and is returned unchanged. Streams bound for a command that never runs
// are closed.
func (inv *Invocation) Invoke(ctx context.Context, w io.Writer) error {
	for i, s := range inv.steps {
		if s.cmd.fn == nil {
			release(inv.steps[i : i+1])
			continue
		}
		inv.logger.Debug("invoking", "command", s.call.Command)
		inv.state = StateInvoked
		out, err := s.cmd.fn(ctx, s.call)
		if err == nil {
			err = Render(w, out)
		}
		if err != nil {
			inv.state = StateError
			release(inv.steps[i+1:])
			return err
		}
	}
	inv.state = StateRendered
	return nil
}

// Parse matches args (without the program name) against the command tree.
// Help requests are answered here: the help text is written to stdout and
// the returned Invocation has nothing to invoke.
func (c *Command) Parse(args []string) (*Invocation, error) {
	if args == nil {
		args = []string{}
	}
	p := newParser(c)
	c.logger.Debug("parsing", "command", c.spec.Name, "args", args)

	p.root.cc.SetArgs(p.shieldNegatives(args))
	cc, err := p.root.cc.ExecuteC()
	if err != nil {
		p.closeOpened()
		n := p.nodeFor(cc)
		err = p.translate(n, err)
		c.logger.Debug("parse failed", "command", n.cc.CommandPath(), "err", err)
		return nil, &ParseError{
			Command: n.cc.CommandPath(),
			Usage:   n.usageLine(),
			Err:     err,
		}
	}
	inv := &Invocation{state: StateBound, logger: c.logger}
	if p.selected == nil {
		p.closeOpened()
		inv.state = StateRendered
		return inv, nil
	}
	inv.steps = p.bind()
	return inv, nil
}

// bind builds one Call per command from the root to the selected node.
func (p *parser) bind() []step {
	var path []*node
	for n := p.selected; n != nil; n = n.parent {
		path = append([]*node{n}, path...)
	}
	inherited := make(map[string]any)
	steps := make([]step, 0, len(path))
	for _, n := range path {
		spec := n.cmd.spec
		call := &Call{
			Command:    n.cc.CommandPath(),
			Positional: n.positional,
			Variadic:   n.variadic,
			Keywords:   make(map[string]any),
			values:     make(map[string]any, len(spec.Params)+1),
		}
		if call.Positional == nil {
			call.Positional = []any{}
		}
		if call.Variadic == nil {
			call.Variadic = []any{}
		}
		i := 0
		for _, ps := range spec.Params {
			switch ps.Kind {
			case KindPositional:
				call.values[ps.Name] = call.Positional[i]
				i++
			case KindVariadic:
				call.values[ps.Name] = call.Variadic
			case KindOptional:
				v := n.flags[ps.Name].value
				call.Keywords[ps.Name] = v
				call.values[ps.Name] = v
			}
		}
		if spec.Sink != "" {
			call.Extra = maps.Clone(inherited)
			call.values[spec.Sink] = call.Extra
		}
		maps.Copy(inherited, call.Keywords)
		st := step{cmd: n.cmd, call: call}
		for _, ps := range spec.Params {
			if ps.Type == nil || !ps.Type.IsStream() {
				continue
			}
			// An unset optional still holds its default, which the
			// caller owns.
			if ps.Kind == KindOptional && !n.flags[ps.Name].changed {
				continue
			}
			st.streams = appendClosers(st.streams, call.values[ps.Name])
		}
		steps = append(steps, st)
	}
	return steps
}

// appendClosers appends v, or each element of v when it is a sequence, if
// it is an io.Closer.
func appendClosers(dst []io.Closer, v any) []io.Closer {
	if items, ok := v.([]any); ok {
		for _, item := range items {
			dst = appendClosers(dst, item)
		}
		return dst
	}
	if c, ok := v.(io.Closer); ok {
		dst = append(dst, c)
	}
	return dst
}
