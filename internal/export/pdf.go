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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"dialoguebox/internal/dialogue"
	"dialoguebox/internal/vector"
)

// PDFOptions controls the proof sheet.
// Units are points; one box pixel maps to one point.
//
// Each PDF page shows one dialogue page inside the box outline, followed by
// a "page i/n" footer. Text uses the built-in Courier font so nothing has to
// be embedded; characters outside cp1252 are not representable.
type PDFOptions struct {
	Title    string
	FontSize float64 // 0 selects 10pt
	Margin   float64 // 0 selects 24pt
	Footer   bool
	Pages    []int // zero-based; if empty, export all pages
}

// PagesPDF writes the pages of b to a single PDF at outPath.
func PagesPDF(b *dialogue.Box, outPath string, opt PDFOptions) error {
	if b == nil {
		return fmt.Errorf("dialogue box is nil")
	}
	if b.PageCount() == 0 {
		return fmt.Errorf("dialogue has no pages")
	}
	if opt.FontSize <= 0 {
		opt.FontSize = 10
	}
	if opt.Margin <= 0 {
		opt.Margin = 24
	}
	if opt.Title == "" {
		opt.Title = "Dialogue proof"
	}

	boxW, boxH := b.Width(), b.Height()
	pageW := boxW + 2*opt.Margin
	pageH := boxH + 2*opt.Margin + opt.FontSize*2

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetTitle(opt.Title, true)
	pdf.SetAuthor("dialoguebox", false)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	style := b.Style()
	pad := b.Padding()
	lh := b.Font().LineHeight()
	pages := b.Pages()
	indexes := pageIndexes(len(pages), opt.Pages)
	for _, idx := range indexes {
		if idx < 0 || idx >= len(pages) {
			continue
		}
		pdf.AddPage()

		setFillColor(pdf, style.Background)
		setDrawColor(pdf, style.Border)
		pdf.SetLineWidth(float64(style.BorderWidth))
		mode := "F"
		if style.BorderWidth > 0 {
			mode = "FD"
		}
		pdf.Rect(opt.Margin, opt.Margin, boxW, boxH, mode)

		setTextColor(pdf, style.Text)
		pdf.SetFont("Courier", "", opt.FontSize)
		y := opt.Margin + pad + b.Font().Ascent()
		for _, line := range pages[idx] {
			pdf.Text(opt.Margin+pad, y, tr(line))
			y += lh
		}

		if opt.Footer {
			pdf.SetTextColor(128, 128, 128)
			pdf.SetFont("Helvetica", "", opt.FontSize*0.8)
			pdf.Text(opt.Margin, pageH-opt.FontSize, fmt.Sprintf("page %d/%d", idx+1, len(pages)))
		}
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
