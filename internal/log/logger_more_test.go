/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFromEnvAndGetenv(t *testing.T) {
	t.Setenv("DBX_LOG_LEVEL", "warn")
	t.Setenv("DBX_LOG_FORMAT", "json")
	t.Setenv("DBX_LOG_SOURCE", "true")
	// DBX_LOG_FILE intentionally unset

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}

	// Also verify getenv default fallback when var missing
	if err := os.Unsetenv("SOME_UNSET_VAR"); err != nil {
		t.Fatalf("Unsetenv error: %v", err)
	}
	if v := getenv("SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestConsoleHandler_Behavior(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelWarn, source: true}

	if h.Enabled(nil, slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(nil, slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "say"), slog.String("k", "v")})
	h2 = h2.WithGroup("grp")

	r := slog.Record{Time: time.Now(), Level: slog.LevelError, Message: "boom"}
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.Bool("ok", true), slog.String("text", "a b"))
	if err := h2.Handle(nil, r); err != nil {
		t.Fatalf("handle error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ERR [say] boom", " k=v", " grp.n=42", " grp.pi=3.14", " grp.ok=true", ` grp.text="a b"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should be shown in brackets only: %q", out)
	}
}

func TestInit_ConsoleWriterAndLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "WARNING", Console: &buf})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	WithComponent("box").Info("hidden")
	WithComponent("box").Warn("shown", slog.Int("page", 2))
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "WRN [box] shown") || !strings.Contains(out, "page=2") {
		t.Fatalf("unexpected console output %q", out)
	}
	if parseLevel("nonsense") != slog.LevelInfo || parseLevel("debug") != slog.LevelDebug {
		t.Fatalf("parseLevel fallback broken")
	}
}

func TestFrameHandler_AddsFrameNumber(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(frameHandler{next: slog.NewJSONHandler(&buf, nil)})

	SetFrame(0)
	l.Info("before")
	if strings.Contains(buf.String(), `"frame"`) {
		t.Fatalf("frame attr should be absent outside a frame loop: %s", buf.String())
	}

	buf.Reset()
	SetFrame(42)
	t.Cleanup(func() { SetFrame(0) })
	l.InfoContext(context.Background(), "tick")
	if !strings.Contains(buf.String(), `"frame":42`) {
		t.Fatalf("expected frame attr, got %s", buf.String())
	}
}
