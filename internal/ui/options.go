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
	"dialoguebox/internal/say"
	"dialoguebox/internal/vector"
)

// RunOptions configures the window.
type RunOptions struct {
	Service  *say.Service
	Queue    *say.Queue
	Stack    *input.Stack
	Bindings Bindings

	// ScreenWidth and ScreenHeight are the logical resolution; Scale
	// multiplies it for the window size.
	ScreenWidth, ScreenHeight int
	Scale                     int
	Title                     string
	Background                vector.Color

	// QuitWhenIdle closes the window once the queue has played out.
	QuitWhenIdle bool
}

func (o *RunOptions) defaults() {
	if o.ScreenWidth <= 0 {
		o.ScreenWidth = 400
	}
	if o.ScreenHeight <= 0 {
		o.ScreenHeight = 240
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Title == "" {
		o.Title = "dialoguebox"
	}
	if o.Background.IsZero() {
		o.Background = vector.Color{R: 32, G: 32, B: 48, A: 255}
	}
}
