/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package raster

import (
	"image"
	"image/color"
	"testing"

	"dialoguebox/internal/dialogue"
	"dialoguebox/internal/textlayout"
	"dialoguebox/internal/vector"
)

var _ dialogue.Renderer = (*Canvas)(nil)

var red = vector.Color{R: 255, A: 255}

func TestFillAndStrokeRect(t *testing.T) {
	c := New(20, 20, vector.White)
	c.FillRect(vector.R(5, 5, 10, 10), red)
	if got := c.Image().RGBAAt(10, 10); got != red.RGBA() {
		t.Fatalf("inside fill = %v", got)
	}
	if got := c.Image().RGBAAt(2, 2); got != vector.White.RGBA() {
		t.Fatalf("outside fill = %v", got)
	}

	c = New(20, 20, vector.White)
	c.StrokeRect(vector.R(0, 0, 20, 20), 2, vector.Black)
	if got := c.Image().RGBAAt(1, 10); got != vector.Black.RGBA() {
		t.Fatalf("left border = %v", got)
	}
	if got := c.Image().RGBAAt(10, 10); got != vector.White.RGBA() {
		t.Fatalf("stroke painted the interior: %v", got)
	}
}

func TestFillTriangle(t *testing.T) {
	c := New(20, 20, vector.Transparent)
	c.FillTriangle(vector.Pt{X: 0, Y: 0}, vector.Pt{X: 20, Y: 0}, vector.Pt{X: 10, Y: 20}, red)
	if got := c.Image().RGBAAt(10, 5); got != red.RGBA() {
		t.Fatalf("centre = %v", got)
	}
	if got := c.Image().RGBAAt(1, 18); got.A != 0 {
		t.Fatalf("corner outside the triangle was painted: %v", got)
	}
}

func TestDrawTextPaintsPixels(t *testing.T) {
	c := New(80, 20, vector.White)
	f := textlayout.Basic()
	c.DrawText("Hi", 2, float32(f.Ascent())+2, f, vector.Black)
	dark := 0
	b := c.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.Image().RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("no glyph pixels drawn")
	}
}

func TestDrawImageScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	c := New(10, 10, vector.White)
	c.DrawImage(src, vector.R(0, 0, 2, 2), vector.R(2, 2, 6, 6))
	if got := c.Image().RGBAAt(7, 7); got.G != 255 || got.R != 0 {
		t.Fatalf("scaled pixel = %v", got)
	}
	if got := c.Image().RGBAAt(9, 9); got != vector.White.RGBA() {
		t.Fatalf("outside destination = %v", got)
	}
}

func TestDrawBoxEndToEnd(t *testing.T) {
	b := dialogue.NewBox("Hello world", 120, 30, dialogue.Options{})
	b.Enable()
	b.FinishLine()
	c := New(140, 50, vector.Transparent)
	b.Draw(c, 10, 10)
	if got := c.Image().RGBAAt(10, 10); got != vector.Black.RGBA() {
		t.Fatalf("border corner = %v", got)
	}
	if got := c.Image().RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("outside the box = %v", got)
	}
}
