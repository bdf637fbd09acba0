/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package reveal implements the typewriter state machine behind a dialogue box.
//
// An Engine tracks which page of a page set is shown and how many of its
// characters are visible. Each Tick advances the visible count by a fractional
// speed; when the whole page is visible the line is complete, and when that
// happens on the last page the dialogue is complete.
package reveal

import (
	"log/slog"
	"math"

	applog "dialoguebox/internal/log"
)

// Event reports the transitions caused by a single call.
type Event uint8

const (
	// PageComplete is set when the current page became fully visible.
	PageComplete Event = 1 << iota
	// DialogueComplete is set when the last page became fully visible.
	DialogueComplete
)

func (e Event) Has(flag Event) bool { return e&flag != 0 }

// Engine is the reveal cursor for one page set. It is not safe for
// concurrent use; a frame loop drives it from a single goroutine.
type Engine struct {
	lengths []int
	index   int
	count   float64
	speed   float64

	lineComplete     bool
	dialogueComplete bool

	log *slog.Logger
}

// New returns an engine advancing speed characters per tick.
func New(speed float64) *Engine {
	return &Engine{speed: clampSpeed(speed), log: applog.WithComponent("reveal")}
}

// SetPages replaces the page set, given as the character count of each page,
// and restarts at the first page.
func (e *Engine) SetPages(lengths []int) {
	e.lengths = append(e.lengths[:0], lengths...)
	e.Restart()
}

// Restart shows the first character of the first page with both flags
// cleared. Only a dialogue of exactly one character starts complete; any
// other first page reports its completion on the next Tick. No events are
// reported.
func (e *Engine) Restart() {
	e.index = 0
	e.resetCount()
	e.lineComplete, e.dialogueComplete = false, false
	if len(e.lengths) == 1 && e.lengths[0] == 1 {
		e.evaluate()
	}
}

// Tick advances the cursor by the current speed and reports any transition.
func (e *Engine) Tick() Event {
	if len(e.lengths) == 0 {
		return 0
	}
	length := float64(e.lengths[e.index])
	if e.count < length {
		e.count = math.Min(e.count+e.speed, length)
	}
	ev := e.evaluate()
	if ev.Has(PageComplete) {
		e.log.Debug("page complete", slog.Int("page", e.index))
	}
	if ev.Has(DialogueComplete) {
		e.log.Debug("dialogue complete", slog.Int("pages", len(e.lengths)))
	}
	return ev
}

// FinishLine makes the whole current page visible at once. The returned
// event describes the transitions; Tick will not report them again.
func (e *Engine) FinishLine() Event {
	if len(e.lengths) == 0 {
		return 0
	}
	e.count = float64(e.lengths[e.index])
	return e.evaluate()
}

// NextPage moves to the following page and shows its first character.
// It reports false and does nothing on the last page.
func (e *Engine) NextPage() bool {
	if e.index+1 >= len(e.lengths) {
		return false
	}
	e.index++
	e.restartLine()
	e.log.Debug("next page", slog.Int("page", e.index))
	return true
}

// PreviousPage moves to the preceding page and shows its first character.
// It reports false and does nothing on the first page.
func (e *Engine) PreviousPage() bool {
	if e.index == 0 || len(e.lengths) == 0 {
		return false
	}
	e.index--
	e.restartLine()
	e.log.Debug("previous page", slog.Int("page", e.index))
	return true
}

func (e *Engine) restartLine() {
	e.resetCount()
	e.lineComplete, e.dialogueComplete = false, false
}

func (e *Engine) resetCount() {
	e.count = 0
	if len(e.lengths) > 0 {
		e.count = math.Min(1, float64(e.lengths[e.index]))
	}
}

// evaluate recomputes the flags from the cursor and returns the false→true
// transitions.
func (e *Engine) evaluate() Event {
	wasLine, wasDialogue := e.lineComplete, e.dialogueComplete
	e.lineComplete = e.count >= float64(e.lengths[e.index])
	e.dialogueComplete = e.lineComplete && e.index == len(e.lengths)-1
	var ev Event
	if e.lineComplete && !wasLine {
		ev |= PageComplete
	}
	if e.dialogueComplete && !wasDialogue {
		ev |= DialogueComplete
	}
	return ev
}

// Page returns the 0-based index of the current page.
func (e *Engine) Page() int { return e.index }

// Pages returns the number of pages.
func (e *Engine) Pages() int { return len(e.lengths) }

// Count returns the fractional number of visible characters.
func (e *Engine) Count() float64 { return e.count }

// Visible returns how many characters of the current page to draw.
func (e *Engine) Visible() int { return int(math.Floor(e.count)) }

func (e *Engine) LineComplete() bool     { return e.lineComplete }
func (e *Engine) DialogueComplete() bool { return e.dialogueComplete }

func (e *Engine) Speed() float64 { return e.speed }

// SetSpeed changes the characters revealed per tick. Negative values are
// treated as zero so the visible count never decreases.
func (e *Engine) SetSpeed(speed float64) { e.speed = clampSpeed(speed) }

func clampSpeed(speed float64) float64 {
	if speed < 0 || math.IsNaN(speed) {
		return 0
	}
	return speed
}
