// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli runs a lazycli command as a program's main function.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1 // the operation failed
	ExitUsage = 2 // the command line was rejected
)

// Main runs cmd with the process arguments and exits. It cancels the
// context on SIGINT or SIGTERM.
func Main(cmd *lazycli.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, cmd, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// Run runs cmd and reports any error to stderr. It returns the process
// exit code.
func Run(ctx context.Context, cmd *lazycli.Command, args []string, stderr io.Writer) int {
	err := cmd.Run(ctx, args)
	if err == nil {
		return ExitOK
	}
	PrintError(stderr, err)
	var perr *lazycli.ParseError
	if errors.As(err, &perr) {
		return ExitUsage
	}
	return ExitError
}

type errorPrefixer interface {
	errorPrefix() string
}

type usageError struct {
	*lazycli.ParseError
}

func (e usageError) errorPrefix() string {
	return e.Usage + "\n"
}

var errorLabel = color.New(color.FgRed, color.Bold)

// PrintError writes err to w as "error: <message>". Parse errors are
// preceded by the usage line of the command that rejected them.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var perr *lazycli.ParseError
	if errors.As(err, &perr) {
		err = usageError{perr}
	}
	var pref errorPrefixer
	if errors.As(err, &pref) {
		if prefix := pref.errorPrefix(); prefix != "" {
			fmt.Fprint(w, prefix)
		}
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("error:"), err)
}
