// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// maxLabel is the widest label column before help moves to its own line.
const maxLabel = 24

// helpText is the description shown next to a parameter. An explicit help
// fragment wins; otherwise it is synthesized from the type and default.
func (ps *ParamSpec) helpText() string {
	if ps.Help != "" {
		return ps.Help
	}
	var parts []string
	if !ps.IsBoolean && (ps.Kind == KindOptional || ps.Type != String) {
		parts = append(parts, "type: "+ps.Type.Name())
	}
	if ps.Kind == KindOptional && !ps.IsBoolean && ps.Default != nil {
		if s, ok := ps.Default.([]any); !ok || len(s) > 0 {
			parts = append(parts, "default: "+repr(ps.Default))
		}
	}
	return strings.Join(parts, "; ")
}

// usageToken is how ps appears in the usage line.
func (ps *ParamSpec) usageToken() string {
	switch ps.Kind {
	case KindPositional:
		return ps.Metavar()
	case KindVariadic:
		return "[" + ps.Metavar() + " ...]"
	}
	name := "--" + ps.Flag.Long
	if ps.Flag.Short != "" {
		name = "-" + ps.Flag.Short
	}
	if !ps.IsBoolean {
		name += " " + ps.Metavar()
	}
	if ps.Sequence {
		return "[" + name + "]..."
	}
	return "[" + name + "]"
}

func (n *node) usageLine() string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(n.cc.CommandPath())
	b.WriteString(" [-h]")
	spec := n.cmd.spec
	for _, ps := range spec.Params {
		if ps.Kind == KindOptional {
			b.WriteString(" " + ps.usageToken())
		}
	}
	for _, ps := range spec.Params {
		if ps.Kind == KindPositional || ps.Kind == KindVariadic {
			b.WriteString(" " + ps.usageToken())
		}
	}
	if len(spec.Children) > 0 {
		names := make([]string, len(spec.Children))
		for i, c := range spec.Children {
			names[i] = c.Name
		}
		b.WriteString(" {" + strings.Join(names, ",") + "} ...")
	}
	return b.String()
}

type helpRow struct {
	label, text string
}

// help renders the full help screen. Help text is wrapped when width is
// positive.
func (n *node) help(width int) string {
	spec := n.cmd.spec
	var b strings.Builder
	b.WriteString(n.usageLine())
	b.WriteString("\n")
	if spec.Doc != "" {
		b.WriteString("\n")
		b.WriteString(spec.Doc)
		b.WriteString("\n")
	}

	var args, opts, cmds []helpRow
	opts = append(opts, helpRow{"-h, --help", "show this help message and exit"})
	for _, ps := range spec.Params {
		switch ps.Kind {
		case KindPositional:
			args = append(args, helpRow{ps.Metavar(), ps.helpText()})
		case KindVariadic:
			args = append(args, helpRow{ps.Metavar() + " ...", ps.helpText()})
		case KindOptional:
			label := ps.Flag.Names()
			if !ps.IsBoolean {
				label += " " + ps.Metavar()
			}
			opts = append(opts, helpRow{label, ps.helpText()})
		}
	}
	for _, c := range spec.Children {
		label := c.Name
		if len(c.Aliases) > 0 {
			label += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		cmds = append(cmds, helpRow{label, c.Help})
	}

	labelWidth := 0
	for _, rows := range [][]helpRow{args, opts, cmds} {
		for _, r := range rows {
			if l := len(r.label); l > labelWidth && l <= maxLabel {
				labelWidth = l
			}
		}
	}
	section := func(title string, rows []helpRow) {
		if len(rows) == 0 {
			return
		}
		b.WriteString("\n" + title + ":\n")
		for _, r := range rows {
			writeRow(&b, r, labelWidth, width)
		}
	}
	section("positional arguments", args)
	section("options", opts)
	section("commands", cmds)
	return b.String()
}

func writeRow(b *strings.Builder, r helpRow, labelWidth, width int) {
	const indent = 2
	col := indent + labelWidth + 2
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString(r.label)
	if r.text == "" {
		b.WriteString("\n")
		return
	}
	if len(r.label) > labelWidth {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", col))
	} else {
		b.WriteString(strings.Repeat(" ", col-indent-len(r.label)))
	}
	lines := wrap(r.text, width-col)
	b.WriteString(strings.Join(lines, "\n"+strings.Repeat(" ", col)))
	b.WriteString("\n")
}

// wrap splits text into lines of at most width columns. Words longer than
// width get a line of their own. A width below 20 disables wrapping.
func wrap(text string, width int) []string {
	if width < 20 {
		return []string{text}
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	return append(lines, cur.String())
}

// terminalWidth returns the column count of w when it is a terminal, and
// 0 otherwise.
func terminalWidth(w any) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
