/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dialoguebox/internal/say"
	"dialoguebox/internal/vector"
)

func writePNG(t *testing.T, p string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", p, err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", p, err)
	}
}

func packDir(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writePNG(t, filepath.Join(dir, "img", "frame.png"), 24, 24)
	writePNG(t, filepath.Join(dir, "arrow.png"), 6, 4)
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

const parchment = `name: parchment
background: "#f4e4bc"
border: "#5a3a1aff"
text: "#2a1a0a80"
border_width: 3
nineslice:
  image: img/frame.png
  left: 8
  top: 8
  right: 8
  bottom: 8
prompt_icon: arrow.png
font: basic
`

func TestExportLoadApply(t *testing.T) {
	dir := packDir(t, parchment)
	zipPath := filepath.Join(t.TempDir(), "packs", "parchment.zip")
	if err := Export(dir, zipPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	_ = r.Close()
	if len(names) != 3 || !strings.Contains(strings.Join(names, ","), "img/frame.png") {
		t.Fatalf("unexpected entries %v", names)
	}

	p, err := Load(zipPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "parchment" || p.Style.BorderWidth != 3 {
		t.Fatalf("unexpected pack %+v", p)
	}
	if p.Style.Background != (vector.Color{R: 0xf4, G: 0xe4, B: 0xbc, A: 0xff}) || p.Style.Text.A != 0x80 {
		t.Fatalf("colors not decoded: %+v", p.Style)
	}
	if p.NineSlice == nil || p.NineSlice.Insets.Left != 8 || p.NineSlice.Image.Bounds().Dx() != 24 {
		t.Fatalf("nineslice not decoded: %+v", p.NineSlice)
	}
	if p.PromptIcon == nil || p.PromptIcon.Bounds().Dx() != 6 {
		t.Fatalf("prompt icon not decoded")
	}

	svc := say.New(say.Config{})
	if err := p.Apply(svc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	b := svc.Box()
	if b.NineSlice() != p.NineSlice || b.PromptIcon() == nil || b.Style() != p.Style {
		t.Fatalf("pack not applied to box")
	}
}

func TestExport_RequiresManifest(t *testing.T) {
	if err := Export(t.TempDir(), filepath.Join(t.TempDir(), "x.zip")); err == nil {
		t.Fatalf("expected error without manifest")
	}
	if err := Export("", "x.zip"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"missing image": "name: x\nprompt_icon: nope.png\n",
		"bad color":     "name: x\nbackground: \"#12\"\n",
		"negative":      "name: x\nborder_width: -1\n",
		"bad yaml":      "name: [x\n",
	}
	for name, manifest := range cases {
		t.Run(name, func(t *testing.T) {
			zipPath := filepath.Join(t.TempDir(), "p.zip")
			if err := Export(packDir(t, manifest), zipPath); err != nil {
				t.Fatalf("export: %v", err)
			}
			if _, err := Load(zipPath); err == nil {
				t.Fatalf("expected load error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.zip")); err == nil {
		t.Fatalf("expected error for missing archive")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#102030")
	if err != nil || c != (vector.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Fatalf("got %+v, %v", c, err)
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("expected error for non-hex color")
	}
}
