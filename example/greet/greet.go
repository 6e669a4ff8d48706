// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// greet shows subcommands: the root prints a version banner when asked,
// then hands over to hello or goodbye.
package main

import (
	"context"
	"fmt"

	"github.com/yeetrun/lazycli/pkg/cli"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

func root(_ context.Context, call *lazycli.Call) (any, error) {
	if call.Bool("version") {
		return 1.0, nil
	}
	return nil, nil
}

func hello(_ context.Context, call *lazycli.Call) (any, error) {
	msg := fmt.Sprintf("%s, %s", call.String("greeting"), call.String("name"))
	if call.Extra["shout"] == true {
		msg += "!"
	}
	return msg, nil
}

func goodbye(_ context.Context, call *lazycli.Call) (any, error) {
	names := lazycli.Slice[string](call, "names")
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "goodbye, " + n
	}
	return out, nil
}

func main() {
	cli.Main(lazycli.Must(lazycli.New("greet", root,
		lazycli.WithDoc("Greet people."),
		lazycli.WithParams(
			lazycli.Optional("version", false, lazycli.WithHelp("print the version")),
			lazycli.Optional("shout", false),
		),
		lazycli.WithSubcommands(
			lazycli.Must(lazycli.New("hello", hello,
				lazycli.WithDoc("Say hello to NAME."),
				lazycli.WithAliases("hi"),
				lazycli.WithParams(
					lazycli.Positional("name"),
					lazycli.Optional("greeting", "hello"),
					lazycli.Keywords("parent"),
				),
			)),
			lazycli.Must(lazycli.New("goodbye", goodbye,
				lazycli.WithDoc("Say goodbye to everyone."),
				lazycli.WithAliases("bye"),
				lazycli.WithParams(lazycli.Variadic("names")),
			)),
		),
	)))
}
