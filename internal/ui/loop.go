/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"dialoguebox/internal/input"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/say"
)

// Loop is the frame order shared by the window and headless runs: key
// events are dispatched first, then the queue and box advance one tick.
// Drawing happens after Step.
type Loop struct {
	Stack    *input.Stack
	Queue    *say.Queue
	Bindings Bindings
	frame    int64
}

// Step runs one frame.
func (l *Loop) Step(ks KeyState) {
	l.frame++
	applog.SetFrame(l.frame)
	for _, ev := range l.Bindings.Events(ks) {
		l.Stack.Dispatch(ev)
	}
	l.Queue.Update()
}

// Frame returns the number of completed steps.
func (l *Loop) Frame() int64 { return l.frame }

// AutoConfirm is a KeyState that taps the first confirm key whenever the
// open page is fully revealed, or the open dialogue has no pages at all,
// for runs without a keyboard.
type AutoConfirm struct {
	Service  *say.Service
	Bindings Bindings
	held     bool
	release  bool
}

// Next prepares the key transitions for the coming frame.
func (a *AutoConfirm) Next() {
	a.release = a.held
	b := a.Service.Box()
	a.held = !a.held && a.Service.Active() && (b.LineComplete() || b.PageCount() == 0)
}

func (a *AutoConfirm) key() string {
	if len(a.Bindings.Confirm) == 0 {
		return ""
	}
	return a.Bindings.Confirm[0]
}

func (a *AutoConfirm) JustPressed(key string) bool  { return a.held && key == a.key() }
func (a *AutoConfirm) JustReleased(key string) bool { return a.release && key == a.key() }
