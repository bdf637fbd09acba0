/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"dialoguebox/internal/say"
)

// PageBreak is a continuation line that ends the current box page.
const PageBreak = "--"

var (
	reScene    = regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSceneAlt = regexp.MustCompile(`^(?i)\s*Scene:\s*(.+)$`)
	reName     = regexp.MustCompile(`^([A-Za-z0-9_\- ]{1,64})\s*:\s*(.*)$`)
	reOption   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_\-]*)=(\S+)$`)
)

// Parse parses a dialogue script.
// Supported syntax:
// - Scene headings: lines starting with "#" or "Scene:".
// - Dialogue: NAME: text. NAME is upper-cased.
//   - Continuation lines indented by 2+ spaces are appended to the previous
//     dialogue or caption; an indented "--" inserts a page break.
//
// - Caption: CAPTION: text or NARRATION: text
// - Options: "@ width=300 speed=1.5" applies to the next dialogue or caption.
//   The JSON form "@ {"width": 300, "font": "go"}" is checked against the
//   say option schema while parsing.
// - Notes: lines starting with ';'.
//
// Malformed option directives are reported as errors and skipped.
func Parse(input string) (Script, []Error) {
	s := Script{Scenes: []Scene{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	currentScene := Scene{}
	var lastLine *Line
	var pending map[string]any

	flushScene := func() {
		if strings.TrimSpace(currentScene.Title) != "" || len(currentScene.Lines) > 0 {
			s.Scenes = append(s.Scenes, currentScene)
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		if strings.HasPrefix(line, "  ") && lastLine != nil && (lastLine.Type == LineDialogue || lastLine.Type == LineCaption) {
			cont := strings.TrimSpace(line)
			switch cont {
			case "":
			case PageBreak:
				lastLine.Text += "\n"
			default:
				lastLine.Text += "\n" + cont
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			lastLine = nil
			continue
		}

		if m := reScene.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[2])}
			lastLine, pending = nil, nil
			continue
		}
		if m := reSceneAlt.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[1])}
			lastLine, pending = nil, nil
			continue
		}

		if strings.HasPrefix(trim, "@") {
			opts, err := directive(strings.TrimSpace(strings.TrimPrefix(trim, "@")))
			if err != nil {
				errs = append(errs, Error{Line: lineNo, Column: strings.Index(line, "@") + 1, Message: err.Error()})
				continue
			}
			if pending == nil {
				pending = map[string]any{}
			}
			for k, v := range opts {
				pending[k] = v
			}
			lastLine = nil
			continue
		}

		if strings.HasPrefix(trim, ";") {
			currentScene.Lines = append(currentScene.Lines, Line{Type: LineNote, Text: strings.TrimSpace(strings.TrimPrefix(trim, ";")), LineNo: lineNo})
			lastLine = nil
			continue
		}

		if len(s.Scenes) == 0 && strings.TrimSpace(currentScene.Title) == "" && len(currentScene.Lines) == 0 {
			currentScene.Title = "Untitled"
		}

		ln := Line{Type: LineUnknown, Text: trim, LineNo: lineNo}
		if m := reName.FindStringSubmatch(trim); m != nil {
			upper := strings.ToUpper(strings.TrimSpace(m[1]))
			ln = Line{Type: LineDialogue, Speaker: upper, Text: strings.TrimSpace(m[2]), LineNo: lineNo}
			if upper == "CAPTION" || upper == "NARRATION" {
				ln.Type = LineCaption
			}
			ln.Options, pending = pending, nil
		}
		// Unknown lines are kept so no text is lost.
		currentScene.Lines = append(currentScene.Lines, ln)
		lastLine = &currentScene.Lines[len(currentScene.Lines)-1]
		if ln.Type == LineUnknown {
			lastLine = nil
		}
	}
	flushScene()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

type optionError string

func (e optionError) Error() string { return string(e) }

func directive(src string) (map[string]any, error) {
	if strings.HasPrefix(src, "{") {
		return say.ParseOptionsJSON([]byte(src))
	}
	return parseOptions(src)
}

// parseOptions reads space separated key=value pairs. Numeric values become
// float64, everything else stays a string.
func parseOptions(src string) (map[string]any, error) {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		return nil, optionError("empty option directive")
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		m := reOption.FindStringSubmatch(f)
		if m == nil {
			return nil, optionError("malformed option " + strconv.Quote(f))
		}
		if n, err := strconv.ParseFloat(m[2], 64); err == nil {
			out[m[1]] = n
		} else {
			out[m[1]] = m[2]
		}
	}
	return out, nil
}

// Dialogue renders a line as the text shown in the box: "NAME: text" for
// dialogue, the bare text for captions. Notes render as "".
func Dialogue(l Line) string {
	switch l.Type {
	case LineDialogue:
		return l.Speaker + ": " + l.Text
	case LineCaption, LineUnknown:
		return l.Text
	default:
		return ""
	}
}

// Entry is one box dialogue produced from a script.
type Entry struct {
	Scene   string
	Text    string
	Options map[string]any
}

// Entries flattens the script into the dialogues to show, in order.
func (s Script) Entries() []Entry {
	var out []Entry
	for _, sc := range s.Scenes {
		for _, l := range sc.Lines {
			if text := Dialogue(l); text != "" {
				out = append(out, Entry{Scene: sc.Title, Text: text, Options: l.Options})
			}
		}
	}
	return out
}
