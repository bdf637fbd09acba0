/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestBasicFont_Metrics(t *testing.T) {
	f := Basic()
	if got := f.Width("Hello world"); got != 77 {
		t.Fatalf("Width = %v, want 77 for 11 glyphs of 7px", got)
	}
	if got := f.LineHeight(); got != 13 {
		t.Fatalf("LineHeight = %v, want 13", got)
	}
	if got := f.WithLeading(2).LineHeight(); got != 15 {
		t.Fatalf("LineHeight with leading = %v, want 15", got)
	}
	if f.Ascent() <= 0 || f.Face() == nil {
		t.Fatalf("expected positive ascent and a face")
	}
}

func TestFixedMetrics_CountsRunes(t *testing.T) {
	m := FixedMetrics{Advance: 2, Line: 10}
	if got := m.Width("héllo"); got != 10 {
		t.Fatalf("Width = %v, want 10", got)
	}
}

func TestLayout_HelloWorldSinglePage(t *testing.T) {
	pages := Layout("Hello world", 390, 100, Basic())
	if len(pages) != 1 || pages[0].Text() != "Hello world" {
		t.Fatalf("unexpected pages: %#v", pages)
	}
}

func TestLayout_NormalizesComposedCharacters(t *testing.T) {
	// "e" followed by a combining acute accent becomes a single rune.
	pages := Layout("Cafe\u0301", 390, 100, Basic())
	if len(pages) != 1 || pages[0].Len() != 4 {
		t.Fatalf("expected one page of 4 characters, got %#v", pages)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog.\n\nA second paragraph that is long enough to wrap twice."
	a := Texts(Layout(text, 120, 40, Basic()))
	b := Texts(Layout(text, 120, 40, Basic()))
	if len(a) != len(b) {
		t.Fatalf("page count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("page %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}
