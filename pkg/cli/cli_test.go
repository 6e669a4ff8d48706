// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/yeetrun/lazycli/pkg/lazycli"
)

func init() {
	color.NoColor = true
}

func newCounter(t *testing.T, stdout *bytes.Buffer) *lazycli.Command {
	t.Helper()
	cmd, err := lazycli.New("count", func(_ context.Context, call *lazycli.Call) (any, error) {
		if call.Int("n") < 0 {
			return nil, errors.New("negative count")
		}
		return call.Int("n"), nil
	},
		lazycli.WithParams(lazycli.Positional("n", lazycli.WithType(lazycli.Int))),
		lazycli.WithStdout(stdout),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cmd
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantOut    string
		wantStderr string
	}{
		{"ok", []string{"3"}, ExitOK, "3\n", ""},
		{"operation error", []string{"--", "-1"}, ExitError, "", "error: negative count\n"},
		{"bad value", []string{"x"}, ExitUsage, "", "usage: count [-h] N\nerror: argument N: invalid int value: \"x\": invalid syntax\n"},
		{"missing", nil, ExitUsage, "", "usage: count [-h] N\nerror: 'count' requires 1 argument(s), got 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Run(context.Background(), newCounter(t, &stdout), tt.args, &stderr)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if got := stdout.String(); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
			if got := stderr.String(); got != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got, tt.wantStderr)
			}
		})
	}
}

func TestPrintErrorNil(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("PrintError(nil) wrote %q", buf.String())
	}
}

func TestPrintErrorWrapped(t *testing.T) {
	var stdout bytes.Buffer
	_, err := newCounter(t, &stdout).Parse([]string{"1", "2"})
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}
	var buf bytes.Buffer
	PrintError(&buf, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "usage: count") {
		t.Errorf("first line = %q, want usage", lines[0])
	}
	if want := "error: 'count' requires 1 argument(s), got 2"; lines[1] != want {
		t.Errorf("second line = %q, want %q", lines[1], want)
	}
}
