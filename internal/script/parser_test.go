/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"
)

func TestParseBasicScenesAndDialogue(t *testing.T) {
	input := `# Opening Scene
alice: Hello, world!
  And a continuation line.

; a note that is never shown

# Second Scene
CAPTION: Meanwhile, elsewhere...
BOB: Hi, Alice.`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(s.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(s.Scenes))
	}
	if s.Scenes[0].Title != "Opening Scene" {
		t.Fatalf("unexpected scene 1 title: %q", s.Scenes[0].Title)
	}
	l0 := s.Scenes[0].Lines[0]
	if l0.Type != LineDialogue || l0.Speaker != "ALICE" {
		t.Fatalf("expected first line to be ALICE dialogue, got %+v", l0)
	}
	if l0.Text != "Hello, world!\nAnd a continuation line." {
		t.Fatalf("unexpected dialogue text: %q", l0.Text)
	}
	if s.Scenes[0].Lines[1].Type != LineNote {
		t.Fatalf("expected note, got %+v", s.Scenes[0].Lines[1])
	}

	if s.Scenes[1].Title != "Second Scene" || len(s.Scenes[1].Lines) != 2 {
		t.Fatalf("unexpected scene 2: %+v", s.Scenes[1])
	}
	if s.Scenes[1].Lines[0].Type != LineCaption {
		t.Fatalf("expected caption, got %+v", s.Scenes[1].Lines[0])
	}
}

func TestImplicitSceneAndUnknownLines(t *testing.T) {
	input := `This is a cold open without a scene header.
CAPTION: A caption.
Some freeform line`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(s.Scenes) != 1 || s.Scenes[0].Title != "Untitled" {
		t.Fatalf("expected implicit Untitled scene, got %+v", s.Scenes)
	}
	if len(s.Scenes[0].Lines) != 3 {
		t.Fatalf("expected 3 lines in scene, got %d", len(s.Scenes[0].Lines))
	}
}

func TestParseOptionsAndPageBreaks(t *testing.T) {
	input := `# S
@ width=300 speed=1.5
@ font-family=go
ALICE: First page
  --
  Second page
BOB: No options here
@ bogus
@ x=12
CAPTION: Low`

	s, errs := Parse(input)
	if len(errs) != 1 || errs[0].Line != 8 {
		t.Fatalf("expected one error on line 8, got %+v", errs)
	}
	lines := s.Scenes[0].Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	alice := lines[0]
	if alice.Text != "First page\n\nSecond page" {
		t.Fatalf("page break not kept: %q", alice.Text)
	}
	if alice.Options["width"] != 300.0 || alice.Options["speed"] != 1.5 || alice.Options["font-family"] != "go" {
		t.Fatalf("unexpected options %#v", alice.Options)
	}
	if lines[1].Options != nil {
		t.Fatalf("options leaked to the next line: %#v", lines[1].Options)
	}
	if lines[2].Options["x"] != 12.0 {
		t.Fatalf("caption options %#v", lines[2].Options)
	}
}

func TestEntries(t *testing.T) {
	s, _ := Parse(`# Intro
NARRATION: Long ago.
; skip me
KING: Rise.`)
	got := s.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %+v", got)
	}
	if got[0].Text != "Long ago." || got[1].Text != "KING: Rise." || got[1].Scene != "Intro" {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestParseJSONOptions(t *testing.T) {
	input := `# S
@ {"width": 240, "font": "go"}
@ speed=2
ALICE: Hello
@ {"colour": "red"}
@ {"speed": -1}
@ {"x": 5
BOB: Plain`

	s, errs := Parse(input)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %+v", errs)
	}
	if errs[0].Line != 5 || !strings.Contains(errs[0].Message, "unknown option") {
		t.Fatalf("unknown key not reported: %+v", errs[0])
	}
	if errs[1].Line != 6 || !strings.Contains(errs[1].Message, "invalid option value") {
		t.Fatalf("negative speed not reported: %+v", errs[1])
	}
	if errs[2].Line != 7 || errs[2].Column != 1 {
		t.Fatalf("malformed JSON not reported: %+v", errs[2])
	}
	lines := s.Scenes[0].Lines
	alice := lines[0].Options
	if alice["width"] != 240.0 || alice["font"] != "go" || alice["speed"] != 2.0 {
		t.Fatalf("unexpected options %#v", alice)
	}
	if lines[1].Options != nil {
		t.Fatalf("rejected directives leaked options: %#v", lines[1].Options)
	}
}
