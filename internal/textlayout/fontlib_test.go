/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontLibrary_GoFamily(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadGoFonts(); err != nil {
		t.Fatalf("LoadGoFonts: %v", err)
	}
	fam, err := fl.Family(GoFamilyName, 16, 72, 2)
	if err != nil {
		t.Fatalf("Family: %v", err)
	}
	for _, st := range ListStyles() {
		if fam.Variant(st) == nil {
			t.Fatalf("missing variant %s", st)
		}
	}
	n := fam.Variant(Normal)
	if n.Width("Hello") <= 0 || n.LineHeight() <= 2 {
		t.Fatalf("unexpected metrics: width=%v lh=%v", n.Width("Hello"), n.LineHeight())
	}
	if fam.Variant(Bold) == n {
		t.Fatalf("bold variant should differ from normal")
	}
}

func TestFontLibrary_LoadTTFAndFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	fl := NewFontLibrary()
	if err := fl.LoadTTF("custom", Normal, path); err != nil {
		t.Fatalf("LoadTTF: %v", err)
	}
	fam, err := fl.Family("custom", 12, 0, 0)
	if err != nil {
		t.Fatalf("Family: %v", err)
	}
	if fam.Variant(Italic) != fam.Normal {
		t.Fatalf("missing italic should fall back to normal")
	}
	if _, err := fl.Family("missing", 12, 72, 0); err == nil {
		t.Fatalf("expected error for unknown family")
	}
	if err := fl.LoadBytes("bad", Normal, []byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{"Bold": Bold, "italic": Italic, "regular": Normal, "": Normal} {
		got, ok := ParseStyle(in)
		if !ok || got != want {
			t.Fatalf("ParseStyle(%q) = %v,%v", in, got, ok)
		}
	}
	if _, ok := ParseStyle("oblique"); ok {
		t.Fatalf("expected unknown style to fail")
	}
	var fam *Family
	if fam.Variant(Bold) == nil {
		t.Fatalf("nil family should still return a font")
	}
}

func TestFamily_WithLeadingAndStyled(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadGoFonts(); err != nil {
		t.Fatalf("LoadGoFonts: %v", err)
	}
	fam, err := fl.Family(GoFamilyName, 12, 72, 0)
	if err != nil {
		t.Fatalf("Family: %v", err)
	}
	spaced := fam.WithLeading(6)
	for _, st := range ListStyles() {
		if got := spaced.Variant(st).LineHeight(); got != fam.Variant(st).LineHeight()+6 {
			t.Fatalf("%s line height = %v", st, got)
		}
	}
	if fam.Variant(Normal).Leading() != 0 {
		t.Fatalf("WithLeading changed the original family")
	}
	italic := fam.Styled(Italic)
	if italic.Variant(Normal) != fam.Italic || italic.Variant(Bold) != fam.Italic {
		t.Fatalf("Styled should use the italic face for every style")
	}
	if b := BasicFamily().WithLeading(3); b.Italic == nil || b.Italic.Leading() != 3 {
		t.Fatalf("basic family variants lost: %+v", b)
	}
}
