/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"dialoguebox/internal/dialogue"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetScreen writes 2× PNG frames for previews.
	PresetScreen PresetName = "screen"
	// PresetProof writes a PDF proof sheet and 1× PNG frames.
	PresetProof PresetName = "proof"
)

// BatchOptions controls batch export across formats.
//
// Path semantics:
//   - PNG frames go to <OutDir>/png/page-<n>.png.
//   - The PDF goes to <OutDir>/<Name>.pdf; Name defaults to "dialogue".
//
// Pages applies to both formats.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: pdf, png; empty means preset defaults
	Pages   []int    // zero-based indices; empty means all pages
	Scale   int      // when > 0 overrides the preset PNG scale
	OutDir  string
	Name    string
}

// Batch runs exports according to the given preset and returns the files written.
func Batch(b *dialogue.Box, opt BatchOptions) ([]string, error) {
	if b == nil {
		return nil, fmt.Errorf("dialogue box is nil")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	outDir := opt.OutDir
	if outDir == "" {
		outDir = string(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "dialogue"
	}
	scale := presetScale(opt.Preset)
	if opt.Scale > 0 {
		scale = opt.Scale
	}

	var written []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "pdf":
			out := filepath.Join(outDir, name+".pdf")
			if err := PagesPDF(b, out, PDFOptions{Title: name, Footer: true, Pages: opt.Pages}); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, out)
		case "png":
			files, err := PagesPNG(b, filepath.Join(outDir, "png"), PNGOptions{Scale: scale, Pages: opt.Pages})
			written = append(written, files...)
			if err != nil {
				return written, fmt.Errorf("png: %w", err)
			}
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetScreen:
		return []string{"png"}
	case PresetProof:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetScale(p PresetName) int {
	if p == PresetScreen {
		return 2
	}
	return 1
}
