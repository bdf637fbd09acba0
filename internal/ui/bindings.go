/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"strings"

	"dialoguebox/internal/config"
	"dialoguebox/internal/input"
)

// KeyNames lists the key names accepted in bindings.
var KeyNames = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"Enter", "Space", "Backspace", "Escape", "Tab",
	"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight",
}

// Bindings maps the two dialogue buttons to keys.
type Bindings struct {
	Confirm   []string
	Secondary []string
}

// KeyState reports edge transitions of named keys for the current frame.
type KeyState interface {
	JustPressed(key string) bool
	JustReleased(key string) bool
}

// ParseBindings normalises key names from the config, e.g. "enter" becomes
// "Enter". Unknown names are an error.
func ParseBindings(in config.InputConfig) (Bindings, error) {
	confirm, err := normaliseKeys(in.Confirm)
	if err != nil {
		return Bindings{}, fmt.Errorf("confirm: %w", err)
	}
	secondary, err := normaliseKeys(in.Secondary)
	if err != nil {
		return Bindings{}, fmt.Errorf("secondary: %w", err)
	}
	if len(confirm) == 0 {
		return Bindings{}, fmt.Errorf("confirm: no keys bound")
	}
	return Bindings{Confirm: confirm, Secondary: secondary}, nil
}

func normaliseKeys(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		key, ok := lookupKey(n)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", n)
		}
		out = append(out, key)
	}
	return out, nil
}

func lookupKey(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, k := range KeyNames {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// Events turns this frame's key transitions into dialogue input events,
// presses before releases.
func (b Bindings) Events(ks KeyState) []input.Event {
	var evs []input.Event
	if anyKey(b.Confirm, ks.JustPressed) {
		evs = append(evs, input.ConfirmDown)
	}
	if anyKey(b.Secondary, ks.JustPressed) {
		evs = append(evs, input.SecondaryDown)
	}
	if anyKey(b.Confirm, ks.JustReleased) {
		evs = append(evs, input.ConfirmUp)
	}
	if anyKey(b.Secondary, ks.JustReleased) {
		evs = append(evs, input.SecondaryUp)
	}
	return evs
}

func anyKey(keys []string, pred func(string) bool) bool {
	for _, k := range keys {
		if pred(k) {
			return true
		}
	}
	return false
}
