/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dialogue implements the dialogue box: it lays source text out into
// pages, reveals them character by character and reacts to controller input.
// Drawing goes through a Renderer so the box works with ebiten on screen and
// with a software canvas in tools and tests.
package dialogue

import (
	"image"
	"log/slog"

	"dialoguebox/internal/input"
	applog "dialoguebox/internal/log"
	"dialoguebox/internal/reveal"
	"dialoguebox/internal/textlayout"
)

const (
	// DefaultSpeed is the number of characters revealed per tick.
	DefaultSpeed = 0.5
	// DefaultFastFactor multiplies the speed while confirm is held.
	DefaultFastFactor = 4
	// DefaultPadding is the inner margin between the border and the text.
	DefaultPadding = 4
	// HandlerName is the name under which a box installs its input handlers.
	HandlerName = "dialogue"
)

// Binder installs and removes named handler sets; *input.Stack implements it.
type Binder interface {
	Push(name string, h input.Handlers, mask bool)
	Pop(name string) bool
}

// Options configures a new Box. Zero values select the defaults.
type Options struct {
	Padding    float64
	Speed      float64
	FastFactor float64
	Font       *textlayout.Font
	Family     *textlayout.Family
	Style      Style
	Skin       *NineSlice
	PromptIcon image.Image
	Hooks      Hooks
	Input      Binder
}

// Box is a paginated, typewriter-style dialogue box. It is driven from a
// single frame loop: input handlers, then Update, then Draw.
type Box struct {
	width, height, padding float64

	text    string
	hasText bool
	pages   []textlayout.Page

	font   *textlayout.Font
	family *textlayout.Family

	speed      float64
	fastFactor float64
	engine     *reveal.Engine

	style      Style
	skin       *NineSlice
	promptIcon image.Image
	hooks      Hooks
	input      Binder

	enabled bool
	log     *slog.Logger
}

// NewBox creates a disabled box of the given pixel size. An empty text leaves
// the page set empty until SetText is called.
func NewBox(text string, width, height float64, opts Options) *Box {
	b := &Box{
		width:      width,
		height:     height,
		padding:    opts.Padding,
		font:       opts.Font,
		family:     opts.Family,
		speed:      opts.Speed,
		fastFactor: opts.FastFactor,
		style:      opts.Style,
		skin:       opts.Skin,
		promptIcon: opts.PromptIcon,
		hooks:      opts.Hooks,
		input:      opts.Input,
		log:        applog.WithComponent("dialogue"),
	}
	if b.family != nil && b.font == nil {
		b.font = b.family.Variant(textlayout.Normal)
	}
	if b.font == nil {
		b.font = textlayout.Basic()
	}
	if b.padding == 0 {
		b.padding = DefaultPadding
	}
	if b.speed <= 0 {
		b.speed = DefaultSpeed
	}
	if b.fastFactor <= 0 {
		b.fastFactor = DefaultFastFactor
	}
	if b.style == (Style{}) {
		b.style = DefaultStyle()
	}
	b.engine = reveal.New(b.speed)
	if text != "" {
		b.SetText(text)
	}
	return b
}

// Clone returns a disabled copy with the same text, geometry and drawing
// setup. Lifecycle hooks and the input binder are not copied.
func (b *Box) Clone() *Box {
	c := *b
	c.enabled = false
	c.input = nil
	c.hooks = Hooks{
		DrawBackground: b.hooks.DrawBackground,
		DrawText:       b.hooks.DrawText,
		DrawPrompt:     b.hooks.DrawPrompt,
	}
	c.pages = append([]textlayout.Page(nil), b.pages...)
	c.engine = reveal.New(b.speed)
	lengths := make([]int, len(c.pages))
	for i, p := range c.pages {
		lengths[i] = p.Len()
	}
	c.engine.SetPages(lengths)
	return &c
}

// SetText lays text out into a fresh page set and restarts the reveal.
func (b *Box) SetText(text string) {
	b.text = text
	b.hasText = true
	b.relayout()
}

// relayout rebuilds the page set from the stored text. Reveal progress is
// discarded.
func (b *Box) relayout() {
	if !b.hasText {
		return
	}
	width := b.width - 2*b.padding
	height := b.height - 2*b.padding
	b.pages = textlayout.Layout(b.text, width, height, b.font)
	lengths := make([]int, len(b.pages))
	for i, p := range b.pages {
		lengths[i] = p.Len()
	}
	b.engine.SetPages(lengths)
	b.log.Debug("layout",
		slog.Int("pages", len(b.pages)),
		slog.Int("rows", textlayout.Rows(height, b.font)),
		slog.Float64("wrap_width", width))
}

func (b *Box) Text() string             { return b.text }
func (b *Box) Pages() []textlayout.Page { return b.pages }
func (b *Box) Width() float64           { return b.width }
func (b *Box) Height() float64          { return b.height }
func (b *Box) Padding() float64         { return b.padding }
func (b *Box) Font() *textlayout.Font   { return b.font }

// Family returns the font family last set, or nil when a single font is used.
func (b *Box) Family() *textlayout.Family { return b.family }

func (b *Box) SetWidth(w float64) {
	b.width = w
	b.relayout()
}

func (b *Box) SetHeight(h float64) {
	b.height = h
	b.relayout()
}

func (b *Box) SetPadding(p float64) {
	b.padding = p
	b.relayout()
}

// SetFont switches to a single font. A nil font selects the built-in one.
func (b *Box) SetFont(f *textlayout.Font) {
	if f == nil {
		f = textlayout.Basic()
	}
	b.font = f
	b.family = nil
	b.relayout()
}

// SetFontFamily switches to a family and uses its normal variant.
func (b *Box) SetFontFamily(fam *textlayout.Family) {
	b.family = fam
	b.font = fam.Variant(textlayout.Normal)
	b.relayout()
}

func (b *Box) Speed() float64 { return b.speed }

// SetSpeed sets the default reveal speed in characters per tick.
func (b *Box) SetSpeed(speed float64) {
	b.speed = speed
	b.engine.SetSpeed(speed)
}

func (b *Box) FastFactor() float64 { return b.fastFactor }

func (b *Box) SetFastFactor(f float64) {
	if f <= 0 {
		f = DefaultFastFactor
	}
	b.fastFactor = f
}

func (b *Box) Style() Style              { return b.style }
func (b *Box) SetStyle(s Style)          { b.style = s }
func (b *Box) NineSlice() *NineSlice     { return b.skin }
func (b *Box) SetNineSlice(s *NineSlice) { b.skin = s }
func (b *Box) PromptIcon() image.Image   { return b.promptIcon }
func (b *Box) SetPromptIcon(img image.Image) {
	b.promptIcon = img
}
func (b *Box) Hooks() Hooks     { return b.hooks }
func (b *Box) SetHooks(h Hooks) { b.hooks = h }

// SetInput changes where Enable installs the input handlers.
func (b *Box) SetInput(in Binder) { b.input = in }

func (b *Box) Enabled() bool { return b.enabled }

// Enable activates the box, restarts the dialogue at its first page and
// installs the input handlers. Enabling an active box does nothing.
func (b *Box) Enable() {
	if b.enabled {
		return
	}
	b.enabled = true
	b.RestartDialogue()
	if b.input != nil {
		b.input.Push(HandlerName, b.Handlers(), true)
	}
	b.log.Debug("open", slog.Int("pages", len(b.pages)))
	if b.hooks.OnOpen != nil {
		b.hooks.OnOpen()
	}
}

// Disable deactivates the box and removes its input handlers. The reveal
// cursor is kept as is; the speed returns to its default.
func (b *Box) Disable() {
	if !b.enabled {
		return
	}
	b.enabled = false
	b.engine.SetSpeed(b.speed)
	if b.input != nil {
		b.input.Pop(HandlerName)
	}
	b.log.Debug("close", slog.Int("page", b.engine.Page()))
	if b.hooks.OnClose != nil {
		b.hooks.OnClose()
	}
}

// Update advances the reveal by one tick. It does nothing while the box is
// disabled or has no pages.
func (b *Box) Update() {
	if !b.enabled || len(b.pages) == 0 {
		return
	}
	b.fire(b.engine.Tick())
}

func (b *Box) fire(ev reveal.Event) {
	if ev.Has(reveal.PageComplete) && b.hooks.OnPageComplete != nil {
		b.hooks.OnPageComplete()
	}
	if ev.Has(reveal.DialogueComplete) && b.hooks.OnDialogueComplete != nil {
		b.hooks.OnDialogueComplete()
	}
}

// FinishLine reveals the rest of the current page at once. Completion is
// reported from here: OnPageComplete, and OnDialogueComplete on the last
// page, run before FinishLine returns and are not repeated by the next
// Update. Calling it on a page that is already complete reports nothing.
func (b *Box) FinishLine() { b.fire(b.engine.FinishLine()) }

// NextPage moves to the next page; it is a no-op on the last one.
func (b *Box) NextPage() bool { return b.engine.NextPage() }

// PreviousPage moves to the previous page; it is a no-op on the first one.
func (b *Box) PreviousPage() bool { return b.engine.PreviousPage() }

// RestartDialogue returns to the first character of the first page.
func (b *Box) RestartDialogue() {
	b.engine.Restart()
	b.engine.SetSpeed(b.speed)
}

// Page returns the 0-based index of the current page.
func (b *Box) Page() int              { return b.engine.Page() }
func (b *Box) PageCount() int         { return len(b.pages) }
func (b *Box) LineComplete() bool     { return b.engine.LineComplete() }
func (b *Box) DialogueComplete() bool { return b.engine.DialogueComplete() }

// RevealCount returns the fractional number of visible characters.
func (b *Box) RevealCount() float64 { return b.engine.Count() }

// CurrentSpeed is the speed in effect, which differs from Speed while the
// confirm button is held.
func (b *Box) CurrentSpeed() float64 { return b.engine.Speed() }

// VisibleText returns the part of the current page that is revealed.
func (b *Box) VisibleText() string {
	if len(b.pages) == 0 {
		return ""
	}
	text := b.pages[b.engine.Page()].Text()
	if b.engine.LineComplete() {
		return text
	}
	n := b.engine.Visible()
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
