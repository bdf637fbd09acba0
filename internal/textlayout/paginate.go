/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// LineBreak joins the lines of a page into one displayable block.
const LineBreak = "\n"

// Page is a block of wrapped lines shown in the box at the same time.
type Page []string

// Text returns the lines joined by LineBreak.
func (p Page) Text() string { return strings.Join(p, LineBreak) }

// Len returns the number of characters of Text, line breaks included.
// The reveal cursor counts in the same unit.
func (p Page) Len() int { return utf8.RuneCountInString(p.Text()) }

// Rows returns how many lines fit into height. It never returns less than one
// so that a box shorter than a single line still makes progress.
func Rows(height float64, m Metrics) int {
	lh := m.LineHeight()
	if lh <= 0 {
		return 1
	}
	rows := int(math.Floor(height / lh))
	if rows < 1 {
		return 1
	}
	return rows
}

// Paginate groups wrapped lines into pages of at most Rows(height) lines.
// An empty line closes the current page and is itself dropped. A line of
// spaces is content, not a separator.
func Paginate(lines []string, height float64, m Metrics) []Page {
	rows := Rows(height, m)
	var pages []Page
	var cur Page
	flush := func() {
		if len(cur) > 0 {
			pages = append(pages, cur)
			cur = nil
		}
	}
	for _, line := range lines {
		if line == "" {
			flush()
			continue
		}
		if len(cur) >= rows {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return pages
}

// Texts returns the displayable text of every page.
func Texts(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Text()
	}
	return out
}
