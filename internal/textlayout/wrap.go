/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitLines splits raw text into logical lines on explicit newlines.
// Blank lines are kept as empty strings; they act as page separators.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Wrap greedily breaks every logical line into lines narrower than width.
//
// A line that is empty or already fits is emitted unchanged. Otherwise its
// whitespace-separated words are accumulated until adding the next word (with
// a single space) would reach width; the buffer is then flushed and the word
// starts a new line. A word wider than width is placed on a line of its own
// and never split. Whitespace too wide for the box has no words and emits
// nothing.
func Wrap(lines []string, width float64, m Metrics) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" || m.Width(line) <= width {
			out = append(out, line)
			continue
		}
		var buf string
		for _, word := range strings.Fields(line) {
			if buf == "" {
				buf = word
				continue
			}
			candidate := buf + " " + word
			if m.Width(candidate) >= width {
				out = append(out, buf)
				buf = word
				continue
			}
			buf = candidate
		}
		if buf != "" {
			out = append(out, buf)
		}
	}
	return out
}

// Layout runs the whole pipeline for one source text: normalization, line
// splitting, wrapping to width and pagination to height.
func Layout(text string, width, height float64, m Metrics) []Page {
	text = norm.NFC.String(text)
	return Paginate(Wrap(SplitLines(text), width, m), height, m)
}
