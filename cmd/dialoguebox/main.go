/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dialoguebox/internal/config"
	"dialoguebox/internal/crash"
	"dialoguebox/internal/export"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/script"
	"dialoguebox/internal/scripting"
	"dialoguebox/internal/stylepack"
	"dialoguebox/internal/telemetry"
	"dialoguebox/internal/ui"
	"dialoguebox/internal/version"
)

// maxHeadlessFrames stops a headless run whose dialogue never closes.
const maxHeadlessFrames = 1_000_000

func usage() {
	fmt.Println("dialoguebox — paginated, typewriter-style dialogue boxes")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dialoguebox version|-v|--version          Show version")
	fmt.Println("  dialoguebox config                        Show the effective settings and their env overrides")
	fmt.Println("  dialoguebox pages <file>                  Print the pages of a text file")
	fmt.Println("  dialoguebox png <file> <dir>              Render each page to <dir>/page-<n>.png")
	fmt.Println("  dialoguebox pdf <file> <out.pdf>          Write a PDF proof sheet, one page per dialogue page")
	fmt.Println("  dialoguebox export <file> <dir> [preset]  Batch export with preset screen|proof")
	fmt.Println("  dialoguebox pack <dir> <out.zip>          Zip a style pack directory (stylepack.yaml + images)")
	fmt.Println("  dialoguebox run <script.js|file.dlg>      Play a script headless, confirming each page")
	fmt.Println("  dialoguebox play <script.js|file.dlg>     Play a script in a window (build with -tags ebiten)")
}

func main() {
	cfg, cfgErr := config.Load("")
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config ignored", slog.Any("err", cfgErr))
		cfg = config.Defaults()
	}

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}
	cmd := args[1]
	if cmd == "version" || cmd == "--version" || cmd == "-v" {
		fmt.Println("dialoguebox")
		fmt.Println(version.String())
		return
	}

	if cmd == "config" {
		printSettings(cfg)
		return
	}

	if cmd == "pack" {
		if len(args) < 4 {
			fmt.Println("pack requires <dir> and <out.zip>")
			usage()
			os.Exit(2)
		}
		if err := stylepack.Export(args[2], args[3]); err != nil {
			l.Error("pack failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote", args[3])
		return
	}

	var a *app
	defer crash.Recover(crash.Context{
		Command:   cmd,
		State:     func() string { return a.state() },
		Telemetry: func() *telemetry.Client { return a.telemetry() },
	})

	need := map[string]int{"pages": 1, "png": 2, "pdf": 2, "export": 2, "run": 1, "play": 1}
	n, ok := need[cmd]
	if !ok {
		usage()
		os.Exit(2)
	}
	if len(args) < 2+n {
		fmt.Printf("%s requires %d argument(s)\n", cmd, n)
		usage()
		os.Exit(2)
	}

	var err error
	a, err = newApp(cfg)
	if err != nil {
		l.Error("setup failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	l.Debug("start", slog.String("cmd", cmd), slog.Int("args", len(args)))

	switch cmd {
	case "pages":
		err = cmdPages(a, args[2])
	case "png":
		err = cmdPNG(a, args[2], args[3])
	case "pdf":
		err = cmdPDF(a, args[2], args[3])
	case "export":
		preset := export.PresetScreen
		if len(args) > 4 {
			preset = export.PresetName(args[4])
		}
		err = cmdExport(a, args[2], args[3], preset)
	case "run":
		err = cmdRun(a, args[2])
	case "play":
		err = cmdPlay(a, args[2])
	}
	a.close()
	if err != nil {
		l.Error(cmd+" failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func cmdPages(a *app, path string) error {
	if err := a.loadText(path); err != nil {
		return err
	}
	pages := a.svc.Box().Pages()
	for i, p := range pages {
		fmt.Printf("--- page %d/%d (%d chars)\n", i+1, len(pages), p.Len())
		fmt.Println(p.Text())
	}
	return nil
}

func cmdPNG(a *app, path, dir string) error {
	if err := a.loadText(path); err != nil {
		return err
	}
	files, err := export.PagesPNG(a.svc.Box(), dir, export.PNGOptions{})
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d page image(s) to %s\n", len(files), dir)
	return nil
}

func cmdPDF(a *app, path, out string) error {
	if err := a.loadText(path); err != nil {
		return err
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := export.PagesPDF(a.svc.Box(), out, export.PDFOptions{Title: title}); err != nil {
		return err
	}
	fmt.Println("Wrote", out)
	return nil
}

func cmdExport(a *app, path, dir string, preset export.PresetName) error {
	if err := a.loadText(path); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	files, err := export.Batch(a.svc.Box(), export.BatchOptions{Preset: preset, OutDir: dir, Name: name})
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println("Wrote", f)
	}
	return nil
}

// enqueue fills the queue from a JS script or a plain dialogue script.
func enqueue(a *app, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".js") {
		host := scripting.New(a.svc, a.queue, scripting.Options{})
		_, err := host.Run(string(data), filepath.Base(path))
		return err
	}
	sc, errs := script.Parse(string(data))
	if len(errs) > 0 {
		for _, e := range errs {
			a.log.Warn("script error", slog.String("file", path), slog.Any("err", e))
		}
		return fmt.Errorf("%s: %w", path, errs[0])
	}
	for _, e := range sc.Entries() {
		a.queue.Enqueue(e.Text, e.Options)
	}
	a.log.Info("script loaded", slog.Int("scenes", len(sc.Scenes)), slog.Int("dialogues", a.queue.Len()))
	return nil
}

// cmdRun plays the queue without a window, tapping confirm whenever a page
// is fully shown, and prints each page as it completes.
func cmdRun(a *app, path string) error {
	if err := enqueue(a, path); err != nil {
		return err
	}
	loop := &ui.Loop{Stack: a.stack, Queue: a.queue, Bindings: a.bindings}
	auto := &ui.AutoConfirm{Service: a.svc, Bindings: a.bindings}
	defer applog.SetFrame(0)

	type shown struct{ dialogue, page int }
	last := shown{-1, -1}
	for !a.queue.Idle() || loop.Frame() == 0 {
		if loop.Frame() >= maxHeadlessFrames {
			return errors.New("dialogue did not finish")
		}
		b := a.svc.Box()
		if a.svc.Active() && b.LineComplete() {
			if cur := (shown{a.queue.Started(), b.Page()}); cur != last {
				last = cur
				fmt.Printf("--- dialogue %d, page %d/%d\n", cur.dialogue, cur.page+1, b.PageCount())
				fmt.Println(b.VisibleText())
			}
		}
		auto.Next()
		loop.Step(auto)
	}
	a.log.Info("run finished", slog.Int("dialogues", a.queue.Started()), slog.Int64("frames", loop.Frame()))
	return nil
}

func cmdPlay(a *app, path string) error {
	if err := enqueue(a, path); err != nil {
		return err
	}
	return ui.Run(ui.RunOptions{
		Service:      a.svc,
		Queue:        a.queue,
		Stack:        a.stack,
		Bindings:     a.bindings,
		Title:        "dialoguebox — " + filepath.Base(path),
		QuitWhenIdle: true,
	})
}

// printSettings writes one "key = value" line per overridable setting and
// names the environment variable that set it.
func printSettings(cfg config.AppConfig) {
	for _, s := range config.Settings(cfg) {
		line := fmt.Sprintf("%-17s = %s", s.Key, s.Value)
		if s.Env != "" {
			line += "  (" + s.Env + ")"
		}
		fmt.Println(line)
	}
}
