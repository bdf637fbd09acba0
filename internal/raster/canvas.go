/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster draws dialogue boxes into in-memory RGBA images. It backs the
// PNG exporter and headless runs where no window is available.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"dialoguebox/internal/textlayout"
	"dialoguebox/internal/vector"
)

// Canvas is a software renderer over an *image.RGBA.
type Canvas struct {
	img *image.RGBA
}

// New returns a canvas of w×h pixels filled with bg.
func New(w, h int, bg vector.Color) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	if !bg.IsZero() {
		draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: bg.RGBA()}, image.Point{}, draw.Src)
	}
	return c
}

// Wrap draws onto an existing image.
func Wrap(img *image.RGBA) *Canvas { return &Canvas{img: img} }

func (c *Canvas) Image() *image.RGBA { return c.img }

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col vector.Color) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col.RGBA()}, image.Point{}, draw.Src)
}

func pixelRect(r vector.Rect) image.Rectangle {
	x0 := int(math.Round(float64(r.X)))
	y0 := int(math.Round(float64(r.Y)))
	x1 := int(math.Round(float64(r.X + r.W)))
	y1 := int(math.Round(float64(r.Y + r.H)))
	return image.Rect(x0, y0, x1, y1)
}

// FillRect blends col over the rectangle.
func (c *Canvas) FillRect(r vector.Rect, col vector.Color) {
	if r.Empty() || col.A == 0 {
		return
	}
	dst := pixelRect(r).Intersect(c.img.Bounds())
	draw.Draw(c.img, dst, &image.Uniform{C: col.RGBA()}, image.Point{}, draw.Over)
}

// StrokeRect draws a border of the given width inside the rectangle.
func (c *Canvas) StrokeRect(r vector.Rect, width float32, col vector.Color) {
	if r.Empty() || width <= 0 || col.A == 0 {
		return
	}
	w := width
	if w > r.W/2 {
		w = r.W / 2
	}
	if w > r.H/2 {
		w = r.H / 2
	}
	c.FillRect(vector.R(r.X, r.Y, r.W, w), col)
	c.FillRect(vector.R(r.X, r.Y+r.H-w, r.W, w), col)
	c.FillRect(vector.R(r.X, r.Y+w, w, r.H-2*w), col)
	c.FillRect(vector.R(r.X+r.W-w, r.Y+w, w, r.H-2*w), col)
}

// FillTriangle fills the triangle abc by testing pixel centres.
func (c *Canvas) FillTriangle(a, b, p vector.Pt, col vector.Color) {
	if col.A == 0 {
		return
	}
	minX := math.Floor(float64(min(a.X, b.X, p.X)))
	minY := math.Floor(float64(min(a.Y, b.Y, p.Y)))
	maxX := math.Ceil(float64(max(a.X, b.X, p.X)))
	maxY := math.Ceil(float64(max(a.Y, b.Y, p.Y)))
	box := image.Rect(int(minX), int(minY), int(maxX), int(maxY)).Intersect(c.img.Bounds())
	src := col.RGBA()
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			pt := vector.Pt{X: float32(x) + 0.5, Y: float32(y) + 0.5}
			if inTriangle(pt, a, b, p) {
				c.blend(x, y, src)
			}
		}
	}
}

func (c *Canvas) blend(x, y int, src color.RGBA) {
	if src.A == 255 {
		c.img.SetRGBA(x, y, src)
		return
	}
	dst := c.img.RGBAAt(x, y)
	inv := 255 - uint32(src.A)
	mix := func(s, d uint8) uint8 { return uint8(uint32(s) + uint32(d)*inv/255) }
	c.img.SetRGBA(x, y, color.RGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: mix(src.A, dst.A),
	})
}

func edge(a, b, p vector.Pt) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func inTriangle(p, a, b, c vector.Pt) bool {
	d1, d2, d3 := edge(a, b, p), edge(b, c, p), edge(c, a, p)
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

// DrawText draws s with its baseline at y.
func (c *Canvas) DrawText(s string, x, y float32, f *textlayout.Font, col vector.Color) {
	if s == "" || f == nil {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  &image.Uniform{C: col.RGBA()},
		Face: f.Face(),
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}

// DrawImage scales the src region of img onto dst.
func (c *Canvas) DrawImage(img image.Image, src, dst vector.Rect) {
	if img == nil || src.Empty() || dst.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(c.img, pixelRect(dst), img, pixelRect(src), xdraw.Over, nil)
}
