// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"fmt"
	"io"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// node is the per-parse state of one command in the tree.
type node struct {
	cmd    *Command
	parent *node
	cc     *cobra.Command
	flags  map[string]*flagValue

	positional []any
	variadic   []any
}

// parser owns one cobra tree built from a Command tree. It is used for a
// single parse and thrown away.
type parser struct {
	root     *node
	byCobra  map[*cobra.Command]*node
	selected *node
	out      io.Writer

	// valueErr keeps the typed conversion error; pflag only passes on
	// its text.
	valueErr error
	opened   []io.Closer

	// helpFor is the ancestor whose -h came before the subcommand.
	helpFor *node
}

func newParser(c *Command) *parser {
	p := &parser{
		byCobra: make(map[*cobra.Command]*node),
		out:     c.stdout,
	}
	p.root = p.build(c, nil)
	p.root.cc.SetOut(c.stdout)
	p.root.cc.SetErr(c.stderr)
	return p
}

func (p *parser) build(c *Command, parent *node) *node {
	n := &node{cmd: c, parent: parent, flags: make(map[string]*flagValue)}
	cc := &cobra.Command{
		Use:                   c.spec.Name,
		Aliases:               c.spec.Aliases,
		Short:                 c.spec.Help,
		Long:                  c.spec.Doc,
		SilenceErrors:         true,
		SilenceUsage:          true,
		TraverseChildren:      true,
		DisableFlagsInUseLine: true,
		CompletionOptions:     cobra.CompletionOptions{DisableDefaultCmd: true},
		Args: func(_ *cobra.Command, args []string) error {
			if p.helpFor = n.ancestorHelp(); p.helpFor != nil {
				return nil
			}
			return p.bindPositionals(n, args)
		},
		RunE: func(cc *cobra.Command, _ []string) error {
			if p.helpFor != nil {
				return p.helpFor.cc.Help()
			}
			if c.fn == nil && len(c.children) > 0 {
				return cc.Help()
			}
			p.selected = n
			return nil
		},
	}
	n.cc = cc
	p.byCobra[cc] = n

	fs := cc.Flags()
	fs.BoolP(helpFlag, "h", false, "show this help message and exit")
	for _, ps := range c.spec.Params {
		if ps.Kind != KindOptional {
			continue
		}
		v := &flagValue{p: p, param: ps, value: ps.Default}
		n.flags[ps.Name] = v
		f := fs.VarPF(v, ps.Flag.Long, ps.Flag.Short, ps.helpText())
		if ps.IsBoolean {
			f.NoOptDefVal = "true"
		}
	}
	cc.SetHelpFunc(func(*cobra.Command, []string) {
		fmt.Fprint(p.out, n.help(terminalWidth(p.out)))
	})
	cc.SetUsageFunc(func(cc *cobra.Command) error {
		_, err := fmt.Fprintln(cc.OutOrStderr(), n.usageLine())
		return err
	})
	for _, child := range c.children {
		cc.AddCommand(p.build(child, n).cc)
	}
	return n
}

// ancestorHelp returns the outermost ancestor of n given -h or --help, or
// nil. The engine only checks the help flag of the command it runs.
func (n *node) ancestorHelp() *node {
	var req *node
	for a := n.parent; a != nil; a = a.parent {
		if h, _ := a.cc.Flags().GetBool(helpFlag); h {
			req = a
		}
	}
	return req
}

// child returns the subcommand of n named or aliased tok, or nil.
func (p *parser) child(n *node, tok string) *node {
	for _, cc := range n.cc.Commands() {
		if cc.Name() == tok || cc.HasAlias(tok) {
			return p.byCobra[cc]
		}
	}
	return nil
}

// flagParam returns the optional parameter bound to a long flag name or a
// shorthand letter of n.
func (n *node) flagParam(name string, short bool) *ParamSpec {
	for _, v := range n.flags {
		if f := v.param.Flag; (short && f.Short == name) || (!short && f.Long == name) {
			return v.param
		}
	}
	return nil
}

// consumesNext reports whether the flag token tok takes the following token
// as its value.
func (n *node) consumesNext(tok string) bool {
	if long, ok := strings.CutPrefix(tok, "--"); ok {
		if strings.Contains(long, "=") {
			return false
		}
		ps := n.flagParam(long, false)
		return ps != nil && !ps.IsBoolean
	}
	shorts := tok[1:]
	for i := range len(shorts) {
		ps := n.flagParam(shorts[i:i+1], true)
		if ps == nil || ps.IsBoolean {
			continue
		}
		return i == len(shorts)-1
	}
	return false
}

// negativeNumber matches tokens read as negative numbers, not flags.
var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

func isFlagToken(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && !negativeNumber.MatchString(tok)
}

// shieldNegatives moves the positional tokens of the selected leaf command
// behind a "--" when one of them is a negative number, so pflag does not
// read "-1" as a shorthand. Shorthands are always letters, so a negative
// number never names a flag.
func (p *parser) shieldNegatives(args []string) []string {
	n, start := p.root, 0
walk:
	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "--":
			break walk
		case isFlagToken(tok):
			if n.consumesNext(tok) {
				i++
			}
		default:
			child := p.child(n, tok)
			if child == nil {
				break walk
			}
			n, start = child, i+1
		}
	}
	if len(n.cmd.children) > 0 {
		return args
	}

	var flags, positional []string
	shield := false
	seg := args[start:]
scan:
	for i := 0; i < len(seg); i++ {
		tok := seg[i]
		switch {
		case tok == "--":
			positional = append(positional, seg[i+1:]...)
			break scan
		case negativeNumber.MatchString(tok):
			shield = true
			positional = append(positional, tok)
		case isFlagToken(tok):
			flags = append(flags, tok)
			if n.consumesNext(tok) && i+1 < len(seg) {
				i++
				flags = append(flags, seg[i])
			}
		default:
			positional = append(positional, tok)
		}
	}
	if !shield {
		return args
	}
	return slices.Concat(args[:start], flags, []string{"--"}, positional)
}

func (p *parser) nodeFor(cc *cobra.Command) *node {
	if n, ok := p.byCobra[cc]; ok {
		return n
	}
	return p.root
}

// convert runs a parameter's constructor and remembers any stream it
// opened, so a later parse failure can release it.
func (p *parser) convert(ps *ParamSpec, display, raw string) (any, error) {
	v, err := ps.convert(display, raw)
	if err != nil {
		return nil, err
	}
	if ps.Type.IsStream() {
		if c, ok := v.(io.Closer); ok {
			p.opened = append(p.opened, c)
		}
	}
	return v, nil
}

func (p *parser) closeOpened() {
	for _, c := range p.opened {
		c.Close()
	}
	p.opened = nil
}

// bindPositionals checks arity and converts positional tokens. The
// variadic slot takes whatever the fixed slots leave over, wherever it is
// declared.
func (p *parser) bindPositionals(n *node, args []string) error {
	spec := n.cmd.spec
	if len(n.cmd.children) > 0 {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q for %q%s", args[0], n.cc.CommandPath(), n.suggestCommand(args[0]))
		}
		return nil
	}
	fixed := 0
	var variadic *ParamSpec
	for _, ps := range spec.Params {
		switch ps.Kind {
		case KindPositional:
			fixed++
		case KindVariadic:
			variadic = ps
		}
	}
	switch {
	case variadic == nil && len(args) != fixed:
		return &ArgsError{Expected: strconv.Itoa(fixed), Got: len(args), Command: n.cc.CommandPath()}
	case variadic != nil && len(args) < fixed:
		return &ArgsError{Expected: fmt.Sprintf("at least %d", fixed), Got: len(args), Command: n.cc.CommandPath()}
	}

	extra := len(args) - fixed
	n.positional = make([]any, 0, fixed)
	n.variadic = make([]any, 0, extra)
	i := 0
	for _, ps := range spec.Params {
		switch ps.Kind {
		case KindPositional:
			v, err := p.convert(ps, ps.Metavar(), args[i])
			if err != nil {
				return err
			}
			n.positional = append(n.positional, v)
			i++
		case KindVariadic:
			for _, raw := range args[i : i+extra] {
				v, err := p.convert(ps, ps.Metavar(), raw)
				if err != nil {
					return err
				}
				n.variadic = append(n.variadic, v)
			}
			i += extra
		}
	}
	return nil
}

// translate turns an engine error into the error reported to the user.
func (p *parser) translate(n *node, err error) error {
	if p.valueErr != nil {
		return p.valueErr
	}
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "unknown flag: --"); ok {
		var longs []string
		for _, ps := range n.cmd.spec.Params {
			if ps.Flag != nil {
				longs = append(longs, ps.Flag.Long)
			}
		}
		if s := suggest(name, longs); s != "" {
			return fmt.Errorf("%s; did you mean --%s?", msg, s)
		}
	}
	return err
}

func (n *node) suggestCommand(name string) string {
	var names []string
	for _, child := range n.cmd.spec.Children {
		names = append(names, child.Name)
		names = append(names, child.Aliases...)
	}
	if s := suggest(name, names); s != "" {
		return fmt.Sprintf("; did you mean %q?", s)
	}
	if s := n.cc.SuggestionsFor(name); len(s) > 0 {
		return fmt.Sprintf("; did you mean %q?", s[0])
	}
	return ""
}

func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

var _ pflag.Value = (*flagValue)(nil)

// flagValue is the pflag.Value behind every optional parameter.
type flagValue struct {
	p       *parser
	param   *ParamSpec
	value   any
	changed bool
}

func (v *flagValue) Set(raw string) error {
	ps := v.param
	if ps.IsBoolean {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return v.fail(&ValueError{Param: "--" + ps.Flag.Long, Type: "bool", Value: raw, Err: numError(err)})
		}
		if ps.Flag.Inverted {
			b = !b
		}
		v.value = reflect.ValueOf(b).Convert(reflect.TypeOf(ps.Default)).Interface()
		v.changed = true
		return nil
	}
	x, err := v.p.convert(ps, "--"+ps.Flag.Long, raw)
	if err != nil {
		return v.fail(err)
	}
	if ps.Sequence {
		// The first occurrence replaces the default.
		var items []any
		if v.changed {
			items, _ = v.value.([]any)
		}
		v.value = append(items, x)
	} else {
		if c, ok := v.value.(io.Closer); ok && v.changed && ps.Type.IsStream() {
			c.Close()
		}
		v.value = x
	}
	v.changed = true
	return nil
}

func (v *flagValue) fail(err error) error {
	if v.p.valueErr == nil {
		v.p.valueErr = err
	}
	return err
}

func (v *flagValue) String() string {
	return repr(v.value)
}

func (v *flagValue) Type() string {
	if v.param.IsBoolean {
		return "bool"
	}
	return v.param.Type.Name()
}
