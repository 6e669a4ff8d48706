// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// upcat copies a file to another, upper-casing it on the way.
package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/yeetrun/lazycli/pkg/cli"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

func upcat(_ context.Context, call *lazycli.Call) (any, error) {
	in, out := call.Reader("in"), call.Writer("out")
	for _, s := range []any{in, out} {
		if c, ok := s.(io.Closer); ok && c != os.Stdin && c != os.Stdout {
			defer c.Close()
		}
	}
	sc := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	for sc.Scan() {
		w.WriteString(strings.ToUpper(sc.Text()))
		w.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, w.Flush()
}

func main() {
	cli.Main(lazycli.Must(lazycli.New("upcat", upcat,
		lazycli.WithDoc("Upper-case IN into OUT."),
		lazycli.WithParams(
			lazycli.Optional("in", os.Stdin, lazycli.WithType(lazycli.ReadStream)),
			lazycli.Optional("out", os.Stdout, lazycli.WithType(lazycli.WriteStream)),
		),
	)))
}
