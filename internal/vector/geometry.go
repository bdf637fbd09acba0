/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry shared by the software and ebiten renderers.
// Float values use float32 to align with ebiten's vector API.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float32 }

// Size is a width/height pair.
type Size struct{ W, H float32 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float32
	W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Insets are the fixed borders of a nine-slice image, in source pixels.
type Insets struct {
	Left, Top, Right, Bottom float32
}

// Patch pairs a source region of a nine-slice image with its destination.
type Patch struct {
	Src, Dst Rect
}

// NineSlice splits src into a 3x3 grid by ins and maps each cell onto dst so
// that corners keep their size, edges stretch along one axis and the center
// stretches along both. Cells that end up empty are omitted.
func NineSlice(src, dst Rect, ins Insets) []Patch {
	// Shrink the corners proportionally when dst is smaller than the borders.
	l, r, t, b := ins.Left, ins.Right, ins.Top, ins.Bottom
	if s := l + r; s > dst.W && s > 0 {
		k := dst.W / s
		l, r = l*k, r*k
	}
	if s := t + b; s > dst.H && s > 0 {
		k := dst.H / s
		t, b = t*k, b*k
	}
	sx := [4]float32{src.X, src.X + ins.Left, src.X + src.W - ins.Right, src.X + src.W}
	sy := [4]float32{src.Y, src.Y + ins.Top, src.Y + src.H - ins.Bottom, src.Y + src.H}
	dx := [4]float32{dst.X, dst.X + l, dst.X + dst.W - r, dst.X + dst.W}
	dy := [4]float32{dst.Y, dst.Y + t, dst.Y + dst.H - b, dst.Y + dst.H}

	patches := make([]Patch, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			p := Patch{
				Src: Rect{X: sx[col], Y: sy[row], W: sx[col+1] - sx[col], H: sy[row+1] - sy[row]},
				Dst: Rect{X: dx[col], Y: dy[row], W: dx[col+1] - dx[col], H: dy[row+1] - dy[row]},
			}
			if p.Src.Empty() || p.Dst.Empty() {
				continue
			}
			patches = append(patches, p)
		}
	}
	return patches
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float32, places int) float32 {
	if places < 0 {
		return v
	}
	pow := float32(math.Pow(10, float64(places)))
	return float32(math.Round(float64(v*pow))) / pow
}
