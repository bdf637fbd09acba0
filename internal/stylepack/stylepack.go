/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack bundles a dialogue box look into a single .zip: a
// stylepack.yaml manifest plus the PNG images it references.
package stylepack

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dialoguebox/internal/dialogue"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/say"
	"dialoguebox/internal/vector"
)

// ManifestName is the manifest file at the root of every pack.
const ManifestName = "stylepack.yaml"

// Manifest is the YAML form of a pack. Colors are "#rrggbb" or "#rrggbbaa";
// empty fields keep the box defaults.
type Manifest struct {
	Name        string          `yaml:"name"`
	Background  string          `yaml:"background,omitempty"`
	Border      string          `yaml:"border,omitempty"`
	Text        string          `yaml:"text,omitempty"`
	BorderWidth *float32        `yaml:"border_width,omitempty"`
	NineSlice   *NineSliceEntry `yaml:"nineslice,omitempty"`
	PromptIcon  string          `yaml:"prompt_icon,omitempty"`
	Font        string          `yaml:"font,omitempty"`
}

type NineSliceEntry struct {
	Image  string  `yaml:"image"`
	Left   float32 `yaml:"left"`
	Top    float32 `yaml:"top"`
	Right  float32 `yaml:"right"`
	Bottom float32 `yaml:"bottom"`
}

// Pack is a decoded style pack.
type Pack struct {
	Name       string
	Style      dialogue.Style
	NineSlice  *dialogue.NineSlice
	PromptIcon image.Image
	// Font is a family name resolved by the say service; empty keeps the current font.
	Font string
}

// Export zips the pack directory dir into destZipPath. dir must hold a
// manifest; every other regular file is stored under its relative path.
func Export(dir, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "export").With(slog.String("dir", dir))
	if strings.TrimSpace(dir) == "" {
		return errors.New("pack dir is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
		return fmt.Errorf("pack manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	added := 0
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("style pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// Load reads and decodes a pack archive. Nothing is extracted to disk.
func Load(zipPath string) (*Pack, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "load").With(slog.String("zip", zipPath))
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files[path.Clean(f.Name)] = f
	}
	mf, ok := files[ManifestName]
	if !ok {
		return nil, fmt.Errorf("pack has no %s", ManifestName)
	}
	raw, err := readEntry(mf)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	p, err := m.decode(func(name string) (image.Image, error) {
		f, ok := files[path.Clean(name)]
		if !ok {
			return nil, fmt.Errorf("image %q not in pack", name)
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	l.Info("style pack loaded", slog.String("name", p.Name))
	return p, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func (m Manifest) decode(open func(name string) (image.Image, error)) (*Pack, error) {
	p := &Pack{Name: m.Name, Style: dialogue.DefaultStyle(), Font: strings.TrimSpace(m.Font)}
	for _, c := range []struct {
		field string
		src   string
		dst   *vector.Color
	}{
		{"background", m.Background, &p.Style.Background},
		{"border", m.Border, &p.Style.Border},
		{"text", m.Text, &p.Style.Text},
	} {
		if c.src == "" {
			continue
		}
		col, err := ParseColor(c.src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.field, err)
		}
		*c.dst = col
	}
	if m.BorderWidth != nil {
		if *m.BorderWidth < 0 {
			return nil, fmt.Errorf("border_width: must not be negative")
		}
		p.Style.BorderWidth = *m.BorderWidth
	}
	if m.NineSlice != nil {
		img, err := open(m.NineSlice.Image)
		if err != nil {
			return nil, fmt.Errorf("nineslice: %w", err)
		}
		p.NineSlice = &dialogue.NineSlice{Image: img, Insets: vector.Insets{
			Left: m.NineSlice.Left, Top: m.NineSlice.Top, Right: m.NineSlice.Right, Bottom: m.NineSlice.Bottom,
		}}
	}
	if m.PromptIcon != "" {
		img, err := open(m.PromptIcon)
		if err != nil {
			return nil, fmt.Errorf("prompt_icon: %w", err)
		}
		p.PromptIcon = img
	}
	return p, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (vector.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return vector.Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return vector.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return vector.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Apply makes the pack the service's base look. The box style is set
// directly; the skin, prompt icon and font go through the option table.
func (p *Pack) Apply(svc *say.Service) error {
	opts := map[string]any{
		say.KeySkin:       p.NineSlice,
		say.KeyPromptIcon: p.PromptIcon,
	}
	if p.Font != "" {
		opts[say.KeyFont] = p.Font
	}
	if err := svc.Setup(opts); err != nil {
		return fmt.Errorf("apply pack %q: %w", p.Name, err)
	}
	svc.Box().SetStyle(p.Style)
	return nil
}
