//go:build ebiten

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	ebvector "github.com/hajimehoshi/ebiten/v2/vector"

	applog "dialoguebox/internal/log"
	"dialoguebox/internal/textlayout"
	"dialoguebox/internal/vector"
)

var ebitenKeys = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[k.String()] = k
	}
	return m
}()

type keyboard struct{}

func (keyboard) JustPressed(name string) bool {
	k, ok := ebitenKeys[name]
	return ok && inpututil.IsKeyJustPressed(k)
}

func (keyboard) JustReleased(name string) bool {
	k, ok := ebitenKeys[name]
	return ok && inpututil.IsKeyJustReleased(k)
}

type game struct {
	opts   RunOptions
	loop   *Loop
	canvas *screenRenderer
	log    *slog.Logger
}

func (g *game) Update() error {
	g.loop.Step(keyboard{})
	if g.opts.QuitWhenIdle && g.opts.Queue.Idle() {
		g.log.Info("queue finished", slog.Int64("frames", g.loop.Frame()))
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background.RGBA())
	g.canvas.dst = screen
	g.opts.Service.Draw(g.canvas)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.opts.ScreenWidth, g.opts.ScreenHeight
}

// Run opens the dialogue window and plays the queue until the window is
// closed, or until the queue runs dry when QuitWhenIdle is set.
func Run(opts RunOptions) error {
	if opts.Service == nil || opts.Queue == nil || opts.Stack == nil {
		return errors.New("ui: service, queue and input stack are required")
	}
	opts.defaults()
	for _, k := range append(append([]string{}, opts.Bindings.Confirm...), opts.Bindings.Secondary...) {
		if _, ok := ebitenKeys[k]; !ok {
			return fmt.Errorf("ui: key %q has no keyboard mapping", k)
		}
	}
	g := &game{
		opts:   opts,
		loop:   &Loop{Stack: opts.Stack, Queue: opts.Queue, Bindings: opts.Bindings},
		canvas: newScreenRenderer(),
		log:    applog.WithComponent("ui"),
	}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.ScreenWidth*opts.Scale, opts.ScreenHeight*opts.Scale)
	g.log.Info("window open", slog.Int("width", opts.ScreenWidth), slog.Int("height", opts.ScreenHeight))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// screenRenderer paints boxes onto an ebiten image.
type screenRenderer struct {
	dst    *ebiten.Image
	white  *ebiten.Image
	images map[image.Image]*ebiten.Image
}

func newScreenRenderer() *screenRenderer {
	w := ebiten.NewImage(3, 3)
	w.Fill(color.White)
	return &screenRenderer{
		white:  w.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		images: make(map[image.Image]*ebiten.Image),
	}
}

func (s *screenRenderer) FillRect(r vector.Rect, c vector.Color) {
	ebvector.DrawFilledRect(s.dst, r.X, r.Y, r.W, r.H, c.RGBA(), false)
}

// StrokeRect keeps the stroke inside r like the raster canvas does.
func (s *screenRenderer) StrokeRect(r vector.Rect, width float32, c vector.Color) {
	in := r.Inset(width/2, width/2)
	ebvector.StrokeRect(s.dst, in.X, in.Y, in.W, in.H, width, c.RGBA(), false)
}

func (s *screenRenderer) FillTriangle(a, b, p vector.Pt, c vector.Color) {
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	vs := make([]ebiten.Vertex, 0, 3)
	for _, pt := range []vector.Pt{a, b, p} {
		vs = append(vs, ebiten.Vertex{
			DstX: pt.X, DstY: pt.Y,
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	s.dst.DrawTriangles(vs, []uint16{0, 1, 2}, s.white, &ebiten.DrawTrianglesOptions{})
}

func (s *screenRenderer) DrawText(str string, x, y float32, f *textlayout.Font, c vector.Color) {
	if f == nil {
		f = textlayout.Basic()
	}
	text.Draw(s.dst, str, f.Face(), int(x), int(y), c.RGBA())
}

func (s *screenRenderer) DrawImage(img image.Image, src, dst vector.Rect) {
	if img == nil || src.Empty() || dst.Empty() {
		return
	}
	eimg, ok := s.images[img]
	if !ok {
		eimg = ebiten.NewImageFromImage(img)
		s.images[img] = eimg
	}
	// src is in img coordinates; the ebiten copy starts at the origin.
	sr := image.Rect(int(src.X), int(src.Y), int(src.X+src.W), int(src.Y+src.H)).Sub(img.Bounds().Min)
	sub := eimg.SubImage(sr).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.W/src.W), float64(dst.H/src.H))
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	s.dst.DrawImage(sub, op)
}
