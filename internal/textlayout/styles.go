/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "strings"

// Style selects a variant of a font family.
type Style int

const (
	Normal Style = iota
	Bold
	Italic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "normal"
	}
}

// ParseStyle maps "normal", "regular", "bold" and "italic" to a Style.
// The second return value is false for anything else.
func ParseStyle(name string) (Style, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal", "regular":
		return Normal, true
	case "bold":
		return Bold, true
	case "italic":
		return Italic, true
	}
	return Normal, false
}

// ListStyles lists the known styles in stable order.
func ListStyles() []Style { return []Style{Normal, Bold, Italic} }

// Family is a table of font variants keyed by style.
// Missing variants fall back to Normal.
type Family struct {
	Normal *Font
	Bold   *Font
	Italic *Font
}

// BasicFamily uses the built-in bitmap font for every style.
func BasicFamily() *Family {
	f := Basic()
	return &Family{Normal: f, Bold: f, Italic: f}
}

// WithLeading returns a copy of fam whose variants use leading.
func (fam *Family) WithLeading(leading float64) *Family {
	out := &Family{}
	for _, st := range ListStyles() {
		if f := fam.variant(st); f != nil {
			out.set(st, f.WithLeading(leading))
		}
	}
	return out
}

// Styled returns a family that draws every style with the style variant of
// fam, for boxes set entirely in bold or italic.
func (fam *Family) Styled(style Style) *Family {
	f := fam.Variant(style)
	return &Family{Normal: f, Bold: f, Italic: f}
}

func (fam *Family) variant(style Style) *Font {
	if fam == nil {
		return nil
	}
	switch style {
	case Bold:
		return fam.Bold
	case Italic:
		return fam.Italic
	default:
		return fam.Normal
	}
}

func (fam *Family) set(style Style, f *Font) {
	switch style {
	case Bold:
		fam.Bold = f
	case Italic:
		fam.Italic = f
	default:
		fam.Normal = f
	}
}

// Variant returns the font for style, or Normal when that variant is absent.
func (fam *Family) Variant(style Style) *Font {
	f := fam.variant(style)
	if f == nil {
		f = fam.variant(Normal)
	}
	if f == nil {
		return Basic()
	}
	return f
}
