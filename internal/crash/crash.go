/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic at the process edge into a report file, an
// optional telemetry upload and a non-zero exit.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "dialoguebox/internal/log"
	"dialoguebox/internal/telemetry"
	"dialoguebox/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Context describes where to put the report and what to put in it.
type Context struct {
	// Dir receives crash-<stamp>.log; the temp dir when empty.
	Dir string
	// Command is the CLI command that was running.
	Command string
	// State returns a short description of the dialogue on screen, if any.
	State func() string
	// Telemetry returns the client built from the user config. The report
	// goes through the env-configured default client when it is nil or
	// returns nil.
	Telemetry func() *telemetry.Client
}

// uploadTimeout bounds the crash upload for clients without a timeout.
const uploadTimeout = 5 * time.Second

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file and uploads it when crash uploads are opted in. The upload has
// finished or failed before the process exits.
//
// Usage: defer crash.Recover(crash.Context{...})
func Recover(ctx Context) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(ctx, r, stack)
		if err != nil {
			l.Error("write crash report", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

func writeReport(ctx Context, panicVal any, stack []byte) (string, error) {
	dir := ctx.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "dialoguebox crash report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ctx.Command != "" {
		_, _ = fmt.Fprintf(&buf, "Command: %s\n", ctx.Command)
	}
	if ctx.State != nil {
		_, _ = fmt.Fprintf(&buf, "Dialogue: %s\n", safeState(ctx.State))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	werr := os.WriteFile(path, buf.Bytes(), 0o644)
	upload(ctx, buf.Bytes())
	return path, werr
}

func upload(ctx Context, report []byte) {
	var c *telemetry.Client
	if ctx.Telemetry != nil {
		c = ctx.Telemetry()
	}
	tctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()
	var err error
	if c != nil {
		err = c.UploadCrash(tctx, report)
	} else {
		err = telemetry.UploadCrash(tctx, report)
	}
	if err != nil {
		applog.WithComponent("crash").Warn("crash upload failed", slog.Any("err", err))
	}
}

// safeState calls state, reporting a second panic instead of propagating it.
func safeState(state func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<state unavailable: %v>", r)
		}
	}()
	return state()
}
