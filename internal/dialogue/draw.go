/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import (
	"image"
	"strings"

	"dialoguebox/internal/textlayout"
	"dialoguebox/internal/vector"
)

// Renderer is the drawing surface a box paints onto.
type Renderer interface {
	FillRect(r vector.Rect, c vector.Color)
	StrokeRect(r vector.Rect, width float32, c vector.Color)
	FillTriangle(a, b, c vector.Pt, col vector.Color)
	// DrawText draws a single line with its baseline at y.
	DrawText(s string, x, y float32, f *textlayout.Font, c vector.Color)
	// DrawImage scales the src region of img onto dst.
	DrawImage(img image.Image, src, dst vector.Rect)
}

// DrawFunc paints one layer of the box whose top-left corner is at x,y.
type DrawFunc func(r Renderer, b *Box, x, y float32)

// Hooks customize drawing and observe the box lifecycle.
// Nil draw functions fall back to the defaults; nil callbacks are skipped.
type Hooks struct {
	DrawBackground DrawFunc
	DrawText       DrawFunc
	DrawPrompt     DrawFunc

	OnOpen             func()
	OnPageComplete     func()
	OnDialogueComplete func()
	OnClose            func()
}

// Style holds the colours of the default drawing.
type Style struct {
	Background  vector.Color
	Border      vector.Color
	Text        vector.Color
	BorderWidth float32
}

// DefaultStyle is black text in a white box with a 2px black border.
func DefaultStyle() Style {
	return Style{Background: vector.White, Border: vector.Black, Text: vector.Black, BorderWidth: 2}
}

// NineSlice is a background skin stretched around fixed borders.
type NineSlice struct {
	Image  image.Image
	Insets vector.Insets
}

// Bounds returns the rectangle the box occupies when drawn at x,y.
func (b *Box) Bounds(x, y float32) vector.Rect {
	return vector.R(x, y, float32(b.width), float32(b.height))
}

// Draw paints the background, the revealed text and, once the page is
// complete, the prompt. It only reads state and does nothing while the box
// is disabled or has no pages.
func (b *Box) Draw(r Renderer, x, y float32) {
	if !b.enabled || len(b.pages) == 0 {
		return
	}
	pick := func(f, def DrawFunc) DrawFunc {
		if f != nil {
			return f
		}
		return def
	}
	pick(b.hooks.DrawBackground, DefaultDrawBackground)(r, b, x, y)
	pick(b.hooks.DrawText, DefaultDrawText)(r, b, x, y)
	if b.engine.LineComplete() {
		pick(b.hooks.DrawPrompt, DefaultDrawPrompt)(r, b, x, y)
	}
}

// DefaultDrawBackground draws the nine-slice skin if one is set, otherwise a
// filled and outlined rectangle.
func DefaultDrawBackground(r Renderer, b *Box, x, y float32) {
	bounds := b.Bounds(x, y)
	if b.skin != nil && b.skin.Image != nil {
		sb := b.skin.Image.Bounds()
		src := vector.R(float32(sb.Min.X), float32(sb.Min.Y), float32(sb.Dx()), float32(sb.Dy()))
		for _, p := range vector.NineSlice(src, bounds, b.skin.Insets) {
			r.DrawImage(b.skin.Image, p.Src, p.Dst)
		}
		return
	}
	r.FillRect(bounds, b.style.Background)
	if b.style.BorderWidth > 0 {
		r.StrokeRect(bounds, b.style.BorderWidth, b.style.Border)
	}
}

// DefaultDrawText draws the revealed text line by line inside the padding.
func DefaultDrawText(r Renderer, b *Box, x, y float32) {
	pad := float32(b.padding)
	lh := float32(b.font.LineHeight())
	baseline := y + pad + float32(b.font.Ascent())
	for i, line := range strings.Split(b.VisibleText(), textlayout.LineBreak) {
		if line == "" {
			continue
		}
		r.DrawText(line, x+pad, baseline+float32(i)*lh, b.font, b.style.Text)
	}
}

// promptSize is the edge length of the default triangle prompt.
const promptSize = 8

// DefaultDrawPrompt draws the prompt icon, or a small downward triangle, in
// the bottom-right corner inside the padding.
func DefaultDrawPrompt(r Renderer, b *Box, x, y float32) {
	pad := float32(b.padding)
	right := x + float32(b.width) - pad
	bottom := y + float32(b.height) - pad
	if b.promptIcon != nil {
		ib := b.promptIcon.Bounds()
		w, h := float32(ib.Dx()), float32(ib.Dy())
		src := vector.R(float32(ib.Min.X), float32(ib.Min.Y), w, h)
		r.DrawImage(b.promptIcon, src, vector.R(right-w, bottom-h, w, h))
		return
	}
	top := bottom - promptSize*0.75
	r.FillTriangle(
		vector.Pt{X: right - promptSize, Y: top},
		vector.Pt{X: right, Y: top},
		vector.Pt{X: right - promptSize/2, Y: bottom},
		b.style.Text,
	)
}
