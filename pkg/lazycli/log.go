// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazycli

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug logging to stderr when set to a non-empty value
// and no logger was given with WithLogger.
const DebugEnv = "LAZYCLI_DEBUG"

func defaultLogger() *slog.Logger {
	if os.Getenv(DebugEnv) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
