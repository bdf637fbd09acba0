/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a parsed dialogue script: scenes of speaker lines, captions and
// author notes.
type Script struct {
	Scenes []Scene
}

type Scene struct {
	Title string
	Lines []Line
}

// LineType indicates the kind of a script line.
// Dialogue: NAME: text
// Caption:  CAPTION: text or NARRATION: text, shown without a speaker
// Note:     lines starting with ";" are author notes and never shown
type LineType int

const (
	LineUnknown LineType = iota
	LineDialogue
	LineCaption
	LineNote
)

// Line is one logical line with its continuations joined by "\n". Options
// come from "@ key=value" directives directly above the line and are passed
// to the say facade when the line is shown.
type Line struct {
	Type    LineType
	Speaker string
	Text    string
	Options map[string]any
	LineNo  int // 1-based starting line number in the source
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message) }
