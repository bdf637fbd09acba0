/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dialoguebox/internal/input"
	"dialoguebox/internal/say"
	"dialoguebox/internal/telemetry"
)

// recorder collects posted event names and crash bodies.
type recorder struct {
	mu      sync.Mutex
	events  []map[string]any
	crashes []string
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		var m map[string]any
		b, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err := json.Unmarshal(b, &m); err == nil {
			r.mu.Lock()
			r.events = append(r.events, m)
			r.mu.Unlock()
		}
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		r.mu.Lock()
		r.crashes = append(r.crashes, string(b))
		r.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if n, ok := e["name"].(string); ok {
			out = append(out, n)
		}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDialogueEventsArePosted(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := telemetry.New(telemetry.Config{OptIn: true, EventsURL: srv.URL + "/events", Timeout: time.Second})
	defer c.Close()

	stack := &input.Stack{}
	svc := say.New(say.Config{Speed: 100, Input: stack, Telemetry: c})
	if err := svc.Say("Hi", nil); err != nil {
		t.Fatalf("say: %v", err)
	}
	svc.Update()
	stack.Dispatch(input.ConfirmDown)
	c.Flush(context.Background())

	waitFor(t, func() bool { return len(rec.names()) >= 2 })
	got := rec.names()
	if got[0] != telemetry.EventDialogueOpen || got[1] != telemetry.EventDialogueComplete {
		t.Fatalf("events = %v", got)
	}
	rec.mu.Lock()
	first := rec.events[0]
	rec.mu.Unlock()
	if first["pages"] != float64(1) {
		t.Fatalf("pages prop = %v", first["pages"])
	}
	if _, ok := first["ts"].(string); !ok {
		t.Fatalf("missing ts in %v", first)
	}
	if c.Count(telemetry.EventDialogueOpen) != 1 || c.Count(telemetry.EventDialogueComplete) != 1 {
		t.Fatalf("local counts not recorded")
	}
}

func TestUploadCrash(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := telemetry.New(telemetry.Config{OptIn: true, CrashURL: srv.URL + "/crash", Timeout: time.Second})
	defer c.Close()
	if err := c.UploadCrash(context.Background(), []byte("dialoguebox crash report")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.crashes) != 1 || rec.crashes[0] != "dialoguebox crash report" {
		t.Fatalf("report not received before UploadCrash returned: %q", rec.crashes)
	}
}

func TestUploadCrashReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := telemetry.New(telemetry.Config{OptIn: true, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	if err := c.UploadCrash(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected error for 503")
	}
}

func TestDisabledClientSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	c := telemetry.New(telemetry.Config{EventsURL: srv.URL, CrashURL: srv.URL, Timeout: time.Second})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("client without opt-in must be disabled")
	}
	c.Event(telemetry.EventDialogueOpen, nil)
	c.Event("", nil)
	if err := c.UploadCrash(context.Background(), []byte("x")); err != nil {
		t.Fatalf("disabled upload: %v", err)
	}
	c.Flush(context.Background())
	time.Sleep(50 * time.Millisecond)
	if hits.Load() != 0 {
		t.Fatalf("disabled client sent %d requests", hits.Load())
	}
	if c.Count(telemetry.EventDialogueOpen) != 1 {
		t.Fatalf("disabled client should still count locally")
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	c := telemetry.New(telemetry.Config{
		OptIn:        true,
		EventsURL:    "http://127.0.0.1:1/events",
		CrashURL:     "http://127.0.0.1:1/crash",
		Timeout:      50 * time.Millisecond,
		DebugLogging: true,
	})
	defer c.Close()
	c.Event(telemetry.EventCrash, map[string]any{"cmd": "run"})
	c.Flush(context.Background())
	if err := c.UploadCrash(context.Background(), []byte("oops")); err == nil {
		t.Fatalf("expected error for unreachable crash URL")
	}
}

func TestFromEnvAndDefaultClient(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	t.Setenv(telemetry.EnvOptIn, "on")
	t.Setenv(telemetry.EnvCrashURL, srv.URL+"/crash")
	t.Setenv(telemetry.EnvTimeoutMS, "250")
	cfg := telemetry.FromEnv()
	if !cfg.OptIn || cfg.Timeout != 250*time.Millisecond || cfg.CrashURL != srv.URL+"/crash" {
		t.Fatalf("FromEnv = %+v", cfg)
	}
	telemetry.NewDefault(cfg)
	t.Cleanup(func() { telemetry.NewDefault(telemetry.Config{}) })
	if err := telemetry.UploadCrash(context.Background(), []byte("via default")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.crashes) != 1 || rec.crashes[0] != "via default" {
		t.Fatalf("crashes = %q", rec.crashes)
	}
}
