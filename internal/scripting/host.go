/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scripting runs JavaScript dialogue scripts against a say service.
// Scripts get say(text, options), set(key, value), setup(options), println
// and sprintf as globals. Calls to say are queued and play in order.
package scripting

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dop251/goja"

	applog "dialoguebox/internal/log"
	"dialoguebox/internal/say"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a script runs longer than the timeout.
var ErrTimeout = errors.New("script timed out")

// Host owns one JavaScript runtime. Hook callbacks created by a script run
// on whichever goroutine drives the service, which must be the one that
// calls Run.
type Host struct {
	vm      *goja.Runtime
	svc     *say.Service
	queue   *say.Queue
	out     io.Writer
	timeout time.Duration
	log     *slog.Logger
}

// Options configures a Host.
type Options struct {
	// Out receives println output; defaults to stdout.
	Out     io.Writer
	Timeout time.Duration
}

func New(svc *say.Service, queue *say.Queue, opts Options) *Host {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	h := &Host{
		vm:      goja.New(),
		svc:     svc,
		queue:   queue,
		out:     opts.Out,
		timeout: opts.Timeout,
		log:     applog.WithComponent("scripting"),
	}
	h.install()
	return h
}

func (h *Host) install() {
	_ = h.vm.Set("sprintf", fmt.Sprintf)
	_ = h.vm.Set("println", func(args ...any) { fmt.Fprintln(h.out, args...) })
	_ = h.vm.Set("say", h.jsSay)
	_ = h.vm.Set("set", h.jsSet)
	_ = h.vm.Set("setup", h.jsSetup)
}

// Runtime exposes the underlying VM, mainly for tests and embedding.
func (h *Host) Runtime() *goja.Runtime { return h.vm }

// Run executes src. name is used in errors and logs only.
func (h *Host) Run(src, name string) (goja.Value, error) {
	timer := time.AfterFunc(h.timeout, func() { h.vm.Interrupt(ErrTimeout) })
	defer timer.Stop()
	start := time.Now()
	val, err := h.vm.RunScript(name, src)
	h.vm.ClearInterrupt()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("script %s: %w", name, ErrTimeout)
		}
		return nil, fmt.Errorf("failed to run script %s: %w", name, err)
	}
	h.log.Debug("script finished",
		slog.String("script", name),
		slog.Duration("took", time.Since(start)),
		slog.Int("queued", h.queue.Len()))
	return val, nil
}

func (h *Host) throw(err error) {
	panic(h.vm.NewGoError(err))
}

func (h *Host) jsSay(call goja.FunctionCall) goja.Value {
	text := call.Argument(0).String()
	opts := h.options(call.Argument(1))
	if err := h.svc.CheckKeys(opts); err != nil {
		h.throw(err)
	}
	h.queue.Enqueue(text, opts)
	return goja.Undefined()
}

func (h *Host) jsSet(call goja.FunctionCall) goja.Value {
	key := call.Argument(0).String()
	if err := h.svc.Set(key, h.export(call.Argument(1))); err != nil {
		h.throw(err)
	}
	return goja.Undefined()
}

func (h *Host) jsSetup(call goja.FunctionCall) goja.Value {
	if err := h.svc.Setup(h.options(call.Argument(0))); err != nil {
		h.throw(err)
	}
	return goja.Undefined()
}

// options converts a JS object to an option map. Functions become Go hooks.
func (h *Host) options(v goja.Value) map[string]any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj := v.ToObject(h.vm)
	out := make(map[string]any, len(obj.Keys()))
	for _, k := range obj.Keys() {
		out[k] = h.export(obj.Get(k))
	}
	return out
}

func (h *Host) export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return func() {
			if _, err := fn(goja.Undefined()); err != nil {
				h.log.Error("script callback failed", slog.Any("err", err))
			}
		}
	}
	return v.Export()
}
