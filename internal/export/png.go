/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders paginated dialogue to files: one PNG per page, or a
// PDF proof sheet with one PDF page per dialogue page.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"dialoguebox/internal/dialogue"
	"dialoguebox/internal/raster"
	"dialoguebox/internal/vector"
)

// PNGOptions controls PNG export behavior.
// - Scale: integer pixel scale applied after rendering, 1 if zero
// - Margin: transparent border around the box in unscaled pixels
// - Background: canvas colour behind the box; transparent if zero
// - Pages: zero-based page indexes; if empty, export all
type PNGOptions struct {
	Scale      int
	Margin     int
	Background vector.Color
	Pages      []int
}

// PagesPNG renders every selected page of b fully revealed and writes
// page-<n>.png files (n is 1-based) into outDir. b itself is not changed.
func PagesPNG(b *dialogue.Box, outDir string, opt PNGOptions) ([]string, error) {
	if b == nil {
		return nil, fmt.Errorf("dialogue box is nil")
	}
	if b.PageCount() == 0 {
		return nil, fmt.Errorf("dialogue has no pages")
	}
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}

	view := b.Clone()
	view.Enable()
	w := int(b.Width()) + 2*opt.Margin
	h := int(b.Height()) + 2*opt.Margin

	var written []string
	for _, idx := range pageIndexes(b.PageCount(), opt.Pages) {
		if idx < 0 || idx >= b.PageCount() {
			continue
		}
		showPage(view, idx)
		c := raster.New(w, h, opt.Background)
		view.Draw(c, float32(opt.Margin), float32(opt.Margin))
		img := image.Image(c.Image())
		if opt.Scale > 1 {
			img = upscale(c.Image(), opt.Scale)
		}
		name := filepath.Join(outDir, fmt.Sprintf("page-%d.png", idx+1))
		if err := writePNG(name, img); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

// showPage moves view to page idx and reveals all of it.
func showPage(view *dialogue.Box, idx int) {
	view.RestartDialogue()
	for i := 0; i < idx; i++ {
		view.NextPage()
	}
	view.FinishLine()
}

func upscale(src *image.RGBA, scale int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func pageIndexes(total int, specific []int) []int {
	if len(specific) == 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return specific
}
