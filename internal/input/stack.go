/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package input routes controller events to a stack of named handler sets.
// The top set sees an event first; sets that leave an event unhandled let it
// fall through to the ones below unless they were pushed as masking.
package input

import (
	"log/slog"

	applog "dialoguebox/internal/log"
)

// Event is one of the four controller transitions a dialogue box reacts to.
type Event int

const (
	ConfirmDown Event = iota
	ConfirmUp
	SecondaryDown
	SecondaryUp
)

func (e Event) String() string {
	switch e {
	case ConfirmDown:
		return "confirm_down"
	case ConfirmUp:
		return "confirm_up"
	case SecondaryDown:
		return "secondary_down"
	case SecondaryUp:
		return "secondary_up"
	default:
		return "unknown"
	}
}

// Handlers is a named set of callbacks; nil entries leave the event unhandled.
type Handlers struct {
	ConfirmDown   func()
	ConfirmUp     func()
	SecondaryDown func()
	SecondaryUp   func()
}

func (h Handlers) lookup(ev Event) func() {
	switch ev {
	case ConfirmDown:
		return h.ConfirmDown
	case ConfirmUp:
		return h.ConfirmUp
	case SecondaryDown:
		return h.SecondaryDown
	case SecondaryUp:
		return h.SecondaryUp
	}
	return nil
}

type entry struct {
	name     string
	handlers Handlers
	mask     bool
}

// Stack holds handler sets in push order. The zero value is ready to use.
type Stack struct {
	entries []entry
}

// Push installs h on top of the stack. With mask set, events h does not
// handle are dropped instead of reaching the sets below.
func (s *Stack) Push(name string, h Handlers, mask bool) {
	s.entries = append(s.entries, entry{name: name, handlers: h, mask: mask})
	applog.WithComponent("input").Debug("handlers pushed", slog.String("name", name), slog.Int("depth", len(s.entries)))
}

// Pop removes the topmost set registered under name and reports whether one
// was found.
func (s *Stack) Pop(name string) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].name == name {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			applog.WithComponent("input").Debug("handlers popped", slog.String("name", name), slog.Int("depth", len(s.entries)))
			return true
		}
	}
	return false
}

// Dispatch delivers ev to the first set, from the top, that handles it.
// It reports whether a handler ran.
func (s *Stack) Dispatch(ev Event) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if fn := e.handlers.lookup(ev); fn != nil {
			fn()
			return true
		}
		if e.mask {
			return false
		}
	}
	return false
}

// Len returns the number of installed sets.
func (s *Stack) Len() int { return len(s.entries) }

// Top returns the name of the topmost set, or "" when empty.
func (s *Stack) Top() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1].name
}
