/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dialoguebox/internal/config"
	"dialoguebox/internal/input"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/say"
	"dialoguebox/internal/stylepack"
	"dialoguebox/internal/telemetry"
	"dialoguebox/internal/textlayout"
	"dialoguebox/internal/ui"
)

// app bundles what every command needs: the loaded config and a say
// service bound to a fresh input stack.
type app struct {
	cfg      config.AppConfig
	stack    *input.Stack
	svc      *say.Service
	queue    *say.Queue
	bindings ui.Bindings
	tel      *telemetry.Client
	log      *slog.Logger
}

func newApp(cfg config.AppConfig) (*app, error) {
	fonts, err := loadFonts(cfg.Font)
	if err != nil {
		return nil, err
	}
	bindings, err := ui.ParseBindings(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("input bindings: %w", err)
	}
	a := &app{
		cfg:      cfg,
		stack:    &input.Stack{},
		bindings: bindings,
		tel:      telemetry.New(telemetry.FromConfig(cfg.Telemetry)),
		log:      applog.WithComponent("cli"),
	}
	a.svc = say.New(say.Config{
		Width:      cfg.Box.Width,
		Height:     cfg.Box.Height,
		X:          cfg.Box.X,
		Y:          cfg.Box.Y,
		Padding:    cfg.Box.Padding,
		Speed:      cfg.Box.Speed,
		FastFactor: cfg.Box.FastFactor,
		Input:      a.stack,
		Fonts:      fonts,
		FontSize:   cfg.Font.SizePt,
		DPI:        cfg.Font.DPI,
		Leading:    cfg.Box.Leading,
		Telemetry:  a.tel,
	})
	if err := a.svc.Set(say.KeyFont, cfg.Font.Family); err != nil {
		return nil, fmt.Errorf("font %q: %w", cfg.Font.Family, err)
	}
	if cfg.Box.StylePack != "" {
		pack, err := stylepack.Load(cfg.Box.StylePack)
		if err != nil {
			return nil, err
		}
		if err := pack.Apply(a.svc); err != nil {
			return nil, err
		}
	}
	a.queue = say.NewQueue(a.svc)
	return a, nil
}

// loadFonts fills a library with the Go fonts and, when regular is set,
// with the configured TTF files under the configured family name.
func loadFonts(fc config.FontConfig) (*textlayout.FontLibrary, error) {
	lib := textlayout.NewFontLibrary()
	if err := lib.LoadGoFonts(); err != nil {
		return nil, err
	}
	if fc.Regular == "" {
		return lib, nil
	}
	paths := map[textlayout.Style]string{
		textlayout.Normal: fc.Regular,
		textlayout.Bold:   fc.Bold,
		textlayout.Italic: fc.Italic,
	}
	for _, st := range textlayout.ListStyles() {
		if paths[st] == "" {
			continue
		}
		if err := lib.LoadTTF(fc.Family, st, paths[st]); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// state describes the box for crash reports.
// telemetry returns the client built from the config, nil before setup.
func (a *app) telemetry() *telemetry.Client {
	if a == nil {
		return nil
	}
	return a.tel
}

func (a *app) state() string {
	if a == nil || a.svc == nil {
		return ""
	}
	b := a.svc.Box()
	return fmt.Sprintf("active=%v page=%d/%d depth=%d queued=%d text=%q",
		a.svc.Active(), b.Page()+1, b.PageCount(), a.svc.Depth(), a.queue.Len(), b.Text())
}

func (a *app) close() {
	a.tel.Flush(context.Background())
	a.tel.Close()
}

// loadText reads a plain-text dialogue into the box.
func (a *app) loadText(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	a.svc.Box().SetText(string(data))
	a.log.Info("text loaded", slog.String("file", filepath.Base(path)), slog.Int("pages", a.svc.Box().PageCount()))
	return nil
}
