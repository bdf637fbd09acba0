/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in, anonymous dialogue usage events and crash
// reports. Every client also keeps local per-event counts, which are never
// sent on their own.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dialoguebox/internal/config"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/version"
)

// Event names sent by the dialogue facade. Properties carry page counts only.
const (
	EventDialogueOpen     = "dialogue_open"
	EventDialogueComplete = "dialogue_complete"
	EventCrash            = "crash"
)

// Environment variables read by FromEnv.
const (
	EnvOptIn     = "DBX_TELEMETRY_OPT_IN"     // 1, true, yes or on
	EnvEventsURL = "DBX_TELEMETRY_URL"        // events are POSTed here as JSON
	EnvCrashURL  = "DBX_CRASH_UPLOAD_URL"     // crash reports are POSTed here as text
	EnvTimeoutMS = "DBX_TELEMETRY_TIMEOUT_MS" // request timeout, 1500 by default
	EnvDebug     = "DBX_TELEMETRY_DEBUG"      // any value logs send attempts
)

const (
	defaultTimeout = 1500 * time.Millisecond
	queueSize      = 64
	flushLimit     = 500 * time.Millisecond
)

// Config holds runtime configuration for telemetry and crash uploads.
// Nothing is sent unless OptIn is set and the matching URL is non-empty.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

// FromEnv reads Config from the DBX_TELEMETRY_* and DBX_CRASH_UPLOAD_URL
// variables.
func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv(EnvOptIn)),
		EventsURL:    strings.TrimSpace(os.Getenv(EnvEventsURL)),
		CrashURL:     strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:      defaultTimeout,
		DebugLogging: os.Getenv(EnvDebug) != "",
	}
	if ms := strings.TrimSpace(os.Getenv(EnvTimeoutMS)); ms != "" {
		if d, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// FromConfig starts from the telemetry section of the user config and lets
// the environment variables read by FromEnv take precedence.
func FromConfig(tc config.TelemetryConfig) Config {
	cfg := FromEnv()
	if strings.TrimSpace(os.Getenv(EnvOptIn)) == "" {
		cfg.OptIn = tc.OptIn
	}
	if cfg.EventsURL == "" {
		cfg.EventsURL = strings.TrimSpace(tc.EventsURL)
	}
	if cfg.CrashURL == "" {
		cfg.CrashURL = strings.TrimSpace(tc.CrashURL)
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// event is one queued usage event.
type event struct {
	name  string
	at    time.Time
	props map[string]any
}

func (e event) payload() map[string]any {
	p := make(map[string]any, len(e.props)+5)
	for k, v := range e.props {
		p[k] = v
	}
	p["name"] = e.name
	p["ts"] = e.at.UTC().Format(time.RFC3339Nano)
	p["version"] = version.String()
	p["os"] = runtime.GOOS
	p["arch"] = runtime.GOARCH
	return p
}

// Client posts events from a background goroutine. Event never blocks the
// frame loop: a full queue or a failed request drops the event. A nil
// *Client is valid and does nothing.
type Client struct {
	cfg Config
	log *slog.Logger
	hc  *http.Client

	queue   chan event
	pending atomic.Int64
	stop    context.CancelFunc
	ctx     context.Context
	once    sync.Once

	mu     sync.Mutex
	counts map[string]int64
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// NewDefault replaces the package-level client used by UploadCrash.
func NewDefault(cfg Config) {
	c := New(cfg)
	defaultMu.Lock()
	old := defaultClient
	defaultClient = c
	defaultMu.Unlock()
	old.Close()
}

func getDefault() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	ctx, stop := context.WithCancel(context.Background())
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		hc:     &http.Client{Timeout: cfg.Timeout},
		queue:  make(chan event, queueSize),
		ctx:    ctx,
		stop:   stop,
		counts: make(map[string]int64),
	}
	go c.run()
	return c
}

// Enabled reports whether usage events are sent: opted in with an events URL.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event counts name locally and, when enabled, queues it for sending.
// props must not carry anything that identifies the user.
func (c *Client) Event(name string, props map[string]any) {
	if c == nil || name == "" {
		return
	}
	c.mu.Lock()
	c.counts[name]++
	c.mu.Unlock()
	if !c.Enabled() {
		return
	}
	c.pending.Add(1)
	select {
	case c.queue <- event{name: name, at: time.Now(), props: props}:
	default:
		c.pending.Add(-1)
		c.debug("telemetry queue full, event dropped", slog.String("event", name))
	}
}

// Count returns how often name was recorded by this client.
func (c *Client) Count(name string) int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Flush waits until queued events are sent, ctx ends or half a second
// passes, whichever comes first.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, flushLimit)
	defer cancel()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

// Close stops the sender; queued events that were not sent are dropped.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(c.stop)
}

func (c *Client) run() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.queue:
			if err := c.post(ev); err != nil {
				c.debug("telemetry send failed", slog.String("event", ev.name), slog.Any("err", err))
			} else {
				c.debug("telemetry event sent", slog.String("event", ev.name))
			}
			c.pending.Add(-1)
		}
	}
}

func (c *Client) post(ev event) error {
	body, err := json.Marshal(ev.payload())
	if err != nil {
		return err
	}
	return c.do(c.ctx, c.cfg.EventsURL, "application/json", body)
}

func (c *Client) do(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return nil
}

func (c *Client) debug(msg string, attrs ...any) {
	if c.cfg.DebugLogging {
		c.log.Debug(msg, attrs...)
	}
}

// UploadCrash posts an already-serialized crash report to the crash URL when
// opted in. Unlike Event it blocks until the server answers, ctx ends or the
// client timeout passes, so a crashing process can exit right after it.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return nil
	}
	if err := c.do(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		return fmt.Errorf("crash upload: %w", err)
	}
	c.debug("crash report uploaded", slog.Int("bytes", len(report)))
	return nil
}

// UploadCrash sends report through the package-level client, which reads
// its settings from the environment unless NewDefault replaced it.
func UploadCrash(ctx context.Context, report []byte) error {
	return getDefault().UploadCrash(ctx, report)
}
