/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package say is a one-call facade over a single dialogue box. Options given
// to Say override the box configuration for the duration of that dialogue
// and are restored when the box closes.
package say

import (
	"fmt"
	"log/slog"
	"sort"

	"dialoguebox/internal/dialogue"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/telemetry"
	"dialoguebox/internal/textlayout"
)

// Config sets up a Service. Zero sizes select a 390×60 box.
type Config struct {
	Width, Height float64
	X, Y          float64
	Padding       float64
	Speed         float64
	FastFactor    float64
	Input         dialogue.Binder

	// Fonts resolves family names given as strings to the font options.
	Fonts    *textlayout.FontLibrary
	FontSize float64
	DPI      float64
	Leading  float64

	// Telemetry receives dialogue_open and dialogue_complete events.
	Telemetry *telemetry.Client
}

// frame records one Say call: the keys it applied, their values before the
// call and the keys that had no value and must be cleared.
type frame struct {
	applied []string
	prior   map[string]any
	clear   []string
}

// Service owns one dialogue box, its screen position and the option table.
// Like the box it is driven from a single frame loop and is not safe for
// concurrent use.
type Service struct {
	box     *dialogue.Box
	x, y    float64
	options map[string]accessor
	frames  []frame

	fonts                  *textlayout.FontLibrary
	fontSize, dpi, leading float64
	tel                    *telemetry.Client

	onOpen, onPageComplete, onDialogueComplete, onClose func()

	log *slog.Logger
}

// New creates an idle service.
func New(cfg Config) *Service {
	if cfg.Width <= 0 {
		cfg.Width = 390
	}
	if cfg.Height <= 0 {
		cfg.Height = 60
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 12
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 72
	}
	s := &Service{
		x:        cfg.X,
		y:        cfg.Y,
		fonts:    cfg.Fonts,
		fontSize: cfg.FontSize,
		dpi:      cfg.DPI,
		leading:  cfg.Leading,
		tel:      cfg.Telemetry,
		log:      applog.WithComponent("say"),
	}
	s.box = dialogue.NewBox("", cfg.Width, cfg.Height, dialogue.Options{
		Padding:    cfg.Padding,
		Speed:      cfg.Speed,
		FastFactor: cfg.FastFactor,
		Input:      cfg.Input,
		Hooks: dialogue.Hooks{
			OnOpen:             func() { call(s.onOpen) },
			OnPageComplete:     func() { call(s.onPageComplete) },
			OnDialogueComplete: s.dialogueComplete,
			OnClose:            s.closed,
		},
	})
	if cfg.Leading != 0 {
		s.box.SetFont(textlayout.Basic().WithLeading(cfg.Leading))
	}
	s.registerOptions()
	return s
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// Box exposes the underlying dialogue box.
func (s *Service) Box() *dialogue.Box { return s.box }

// Position returns where Draw places the box.
func (s *Service) Position() (x, y float64) { return s.x, s.y }

// Active reports whether a dialogue is open.
func (s *Service) Active() bool { return s.box.Enabled() }

// Depth returns the number of pending override frames.
func (s *Service) Depth() int { return len(s.frames) }

// Get returns the current value of an option.
func (s *Service) Get(key string) (any, bool, error) {
	acc, ok := s.options[canonicalKey(key)]
	if !ok {
		return nil, false, s.unknown(key)
	}
	v, has := acc.get()
	return v, has, nil
}

// Set changes an option permanently.
func (s *Service) Set(key string, value any) error {
	acc, ok := s.options[canonicalKey(key)]
	if !ok {
		return s.unknown(key)
	}
	if err := acc.set(value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Setup changes several options permanently. Unknown keys are rejected
// before anything is applied.
func (s *Service) Setup(cfg map[string]any) error {
	keys, err := s.sortedKeys(cfg)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.Set(k, cfg[k]); err != nil {
			return err
		}
	}
	return nil
}

// Say shows text with opts applied on top of the current configuration and
// opens the box. The overrides are undone when the box closes, before the
// onClose callback in effect runs. Calling Say while a dialogue is open
// replaces its text and stacks another set of overrides.
func (s *Service) Say(text string, opts map[string]any) error {
	keys, err := s.sortedKeys(opts)
	if err != nil {
		return err
	}
	f := frame{prior: make(map[string]any, len(keys))}
	for _, k := range keys {
		key := canonicalKey(k)
		acc := s.options[key]
		prev, has := acc.get()
		if err := acc.set(opts[k]); err != nil {
			s.unwind(f)
			return fmt.Errorf("say %s: %w", k, err)
		}
		f.applied = append(f.applied, key)
		if has {
			f.prior[key] = prev
		} else {
			f.clear = append(f.clear, key)
		}
	}
	s.frames = append(s.frames, f)
	s.box.SetText(text)
	if s.box.Enabled() {
		s.box.RestartDialogue()
	} else {
		s.box.Enable()
	}
	s.log.Debug("say",
		slog.Int("pages", s.box.PageCount()),
		slog.Int("overrides", len(f.applied)),
		slog.Int("depth", len(s.frames)))
	s.tel.Event(telemetry.EventDialogueOpen, map[string]any{"pages": s.box.PageCount()})
	return nil
}

// CheckKeys reports ErrUnknownOption for the first unregistered key in opts,
// or ErrInvalidValue when opts names one option twice.
func (s *Service) CheckKeys(opts map[string]any) error {
	_, err := s.sortedKeys(opts)
	return err
}

// sortedKeys validates the keys of m and returns them in order. A map that
// names one option twice, through an alias and its canonical key, is
// rejected with ErrInvalidValue.
func (s *Service) sortedKeys(m map[string]any) ([]string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, ok := s.options[canonicalKey(k)]; !ok {
			return nil, s.unknown(k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	seen := make(map[string]string, len(keys))
	for _, k := range keys {
		key := canonicalKey(k)
		if first, dup := seen[key]; dup {
			s.log.Warn("option given twice", slog.String("key", key), slog.String("as", first), slog.String("and", k))
			return nil, fmt.Errorf("%w: %q and %q both set %q", ErrInvalidValue, first, k, key)
		}
		seen[key] = k
	}
	return keys, nil
}

func (s *Service) unknown(key string) error {
	s.log.Warn("unknown option", slog.String("key", key))
	return fmt.Errorf("%w: %q", ErrUnknownOption, key)
}

// unwind undoes one frame, latest key first.
func (s *Service) unwind(f frame) {
	for i := len(f.applied) - 1; i >= 0; i-- {
		key := f.applied[i]
		if err := s.options[key].set(f.prior[key]); err != nil {
			s.log.Error("restore option", slog.String("key", key), slog.Any("err", err))
		}
	}
}

// Restore undoes every pending override frame, newest first.
func (s *Service) Restore() {
	for len(s.frames) > 0 {
		f := s.frames[len(s.frames)-1]
		s.frames = s.frames[:len(s.frames)-1]
		s.unwind(f)
	}
}

func (s *Service) dialogueComplete() {
	s.tel.Event(telemetry.EventDialogueComplete, map[string]any{"pages": s.box.PageCount()})
	call(s.onDialogueComplete)
}

// closed runs when the box is disabled. The onClose in effect during the
// dialogue is captured first, then overrides are restored, then it runs.
func (s *Service) closed() {
	userClose := s.onClose
	s.Restore()
	call(userClose)
}

// Close dismisses the open dialogue, if any.
func (s *Service) Close() { s.box.Disable() }

// Update advances the open dialogue by one frame.
func (s *Service) Update() { s.box.Update() }

// Draw renders the open dialogue at the configured position.
func (s *Service) Draw(r dialogue.Renderer) {
	s.box.Draw(r, float32(s.x), float32(s.y))
}
