/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Abstractions for text measurement used by the dialogue layout pipeline.
// All measurement goes through Metrics so that layout stays a pure function
// of (text, box size, metrics) and can be tested without a real font.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Metrics measures rendered text in pixels.
type Metrics interface {
	// Width returns the advance width of s on a single line.
	Width(s string) float64
	// LineHeight returns the distance between two baselines (height + leading).
	LineHeight() float64
}

// Font wraps a font.Face with an extra leading and satisfies Metrics.
// The same Font is used for measuring and for drawing so that both agree.
type Font struct {
	face    font.Face
	leading float64
}

// NewFont returns a Font for face. Leading is added to the face height.
func NewFont(face font.Face, leading float64) *Font {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Font{face: face, leading: leading}
}

// Basic returns the built-in 7x13 bitmap font. Its metrics are fixed, which
// makes it the default for tests and for boxes created without a font.
func Basic() *Font { return NewFont(basicfont.Face7x13, 0) }

// Face exposes the underlying face for glyph drawing.
func (f *Font) Face() font.Face { return f.face }

// Leading returns the extra line spacing in pixels.
func (f *Font) Leading() float64 { return f.leading }

// WithLeading returns a copy of f using a different leading.
func (f *Font) WithLeading(leading float64) *Font { return &Font{face: f.face, leading: leading} }

func (f *Font) Width(s string) float64 {
	return toPx(font.MeasureString(f.face, s))
}

func (f *Font) LineHeight() float64 {
	return toPx(f.face.Metrics().Height) + f.leading
}

// Ascent is the distance from the top of a line to its baseline.
func (f *Font) Ascent() float64 {
	return toPx(f.face.Metrics().Ascent)
}

func toPx(v fixed.Int26_6) float64 { return float64(v) / 64 }

// FixedMetrics is a monospace Metrics with a constant advance per rune.
// It is handy when a layout must not depend on any font data.
type FixedMetrics struct {
	Advance float64
	Line    float64
}

func (m FixedMetrics) Width(s string) float64 {
	n := 0
	for range s {
		n++
	}
	return float64(n) * m.Advance
}

func (m FixedMetrics) LineHeight() float64 { return m.Line }
