// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cp prints what a copy would do, without touching the filesystem.
package main

import (
	"context"
	"fmt"

	"github.com/yeetrun/lazycli/pkg/cli"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

func copyFiles(_ context.Context, call *lazycli.Call) (any, error) {
	src := lazycli.Slice[string](call, "src")
	dst := call.String("dst")
	verb := "copy"
	if call.Bool("recursive") {
		verb = "copy recursively"
	}
	lines := make([]string, len(src))
	for i, s := range src {
		lines[i] = fmt.Sprintf("%s %s -> %s", verb, s, dst)
	}
	return lines, nil
}

func main() {
	cli.Main(lazycli.Must(lazycli.New("cp", copyFiles,
		lazycli.WithDoc("Copy SRC files to DST."),
		lazycli.WithParams(
			lazycli.Variadic("src", lazycli.WithHelp("files to copy")),
			lazycli.Positional("dst", lazycli.WithHelp("destination")),
			lazycli.Optional("recursive", false, lazycli.WithHelp("copy directories recursively")),
		),
	)))
}
