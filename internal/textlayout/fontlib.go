/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts by family and style.
// Faces are created on demand for a given size and DPI.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	style  Style
}

// GoFamilyName is the family registered by LoadGoFonts.
const GoFamilyName = "go"

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given family/style.
func (fl *FontLibrary) LoadTTF(family string, style Style, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.LoadBytes(family, style, data); err != nil {
		return fmt.Errorf("font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses TTF/OTF data and registers it under family/style.
func (fl *FontLibrary) LoadBytes(family string, style Style, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	fl.fonts[fontKey{family: family, style: style}] = f
	return nil
}

// LoadGoFonts registers the Go font family (regular, bold, italic) that ships
// with x/image, so a library is usable without any font files on disk.
func (fl *FontLibrary) LoadGoFonts() error {
	for style, data := range map[Style][]byte{Normal: goregular.TTF, Bold: gobold.TTF, Italic: goitalic.TTF} {
		if err := fl.LoadBytes(GoFamilyName, style, data); err != nil {
			return fmt.Errorf("go font %s: %w", style, err)
		}
	}
	return nil
}

// Has reports whether a variant is registered.
func (fl *FontLibrary) Has(family string, style Style) bool {
	if fl == nil || fl.fonts == nil {
		return false
	}
	_, ok := fl.fonts[fontKey{family: family, style: style}]
	return ok
}

// Face creates a face for the given variant at sizePt and dpi (72 if zero).
func (fl *FontLibrary) Face(family string, style Style, sizePt, dpi float64) (font.Face, error) {
	if fl == nil || fl.fonts == nil {
		return nil, fmt.Errorf("font %s/%s not loaded", family, style)
	}
	f, ok := fl.fonts[fontKey{family: family, style: style}]
	if !ok {
		return nil, fmt.Errorf("font %s/%s not loaded", family, style)
	}
	if sizePt <= 0 {
		sizePt = 12
	}
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePt, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %s/%s: %w", family, style, err)
	}
	return face, nil
}

// Family builds a Family for family. The normal variant is required;
// bold and italic are optional and fall back to normal.
func (fl *FontLibrary) Family(family string, sizePt, dpi, leading float64) (*Family, error) {
	normal, err := fl.Face(family, Normal, sizePt, dpi)
	if err != nil {
		return nil, err
	}
	fam := &Family{Normal: NewFont(normal, leading)}
	for _, st := range ListStyles() {
		if st == Normal || !fl.Has(family, st) {
			continue
		}
		if face, err := fl.Face(family, st, sizePt, dpi); err == nil {
			fam.set(st, NewFont(face, leading))
		}
	}
	return fam, nil
}
