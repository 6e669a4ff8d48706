// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lazycli turns a function and its declared parameters into a
// command-line interface.
//
// Parameters without a default are positional. Parameters with a default
// become flags: "--long-name" from the parameter name, plus a one-letter
// short form when a letter is free ("h" and "H" never are). A boolean
// default makes a switch; a true default inverts it to "--no-name". One
// variadic parameter collects the remaining positional tokens.
//
// Values are converted by the parameter's Type, either declared with
// WithType or inferred from the default. JSON-typed parameters take JSON
// literals and may carry a JSON Schema.
//
//	cp := lazycli.Must(lazycli.New("cp", copyFiles,
//		lazycli.WithDoc("Copy files."),
//		lazycli.WithParams(
//			lazycli.Variadic("src"),
//			lazycli.Positional("dst"),
//			lazycli.Optional("recursive", false),
//		),
//	))
//	err := cp.Run(ctx, os.Args[1:])
//
// Whatever the function returns is rendered: nothing for nil, one line for
// scalars, one line per element for slices, channels and iterators.
//
// Commands nest with WithSubcommands. Every command on the selected path
// that has a function runs, outermost first, so a parent can act as
// middleware for its subcommands.
package lazycli
