// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mysum adds its arguments.
package main

import (
	"context"

	"github.com/yeetrun/lazycli/pkg/cli"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

func main() {
	cli.Main(lazycli.Must(lazycli.New("mysum", func(_ context.Context, call *lazycli.Call) (any, error) {
		var sum float64
		for _, n := range lazycli.Slice[float64](call, "numbers") {
			sum += n
		}
		return sum, nil
	},
		lazycli.WithDoc("Print the sum of NUMBERS."),
		lazycli.WithParams(lazycli.Variadic("numbers", lazycli.WithType(lazycli.Float))),
	)))
}
