// Package export writes boards out as a PDF, one landscape page per board
// that has ink on it.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"SlideBoard/internal/render"
	"SlideBoard/internal/state"
	"SlideBoard/internal/view"
)

var ErrNothingToExport = errors.New("all boards are empty")

const (
	pageMargin = 10.0 // mm
	labelSize  = 9.0  // pt
)

// pageRaster is the pixel size each board is rendered at before embedding.
var pageRaster = view.Viewport{W: state.SurfaceW, H: state.SurfaceH}

// WritePDF renders every non-empty board of s to w and returns the page count.
func WritePDF(w io.Writer, s *state.Store) (int, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("SlideBoard", true)
	pdf.SetCreator("SlideBoard", true)
	pdf.SetFont("Helvetica", "", labelSize)

	pageW, pageH := pdf.GetPageSize()
	imgW := pageW - 2*pageMargin
	imgH := imgW * state.SurfaceH / state.SurfaceW
	top := (pageH - imgH) / 2

	r := render.New(render.DisplayProfile, nil)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i := 0; i < state.NumBoards; i++ {
		b := s.Board(i)
		if b.Empty() {
			continue
		}

		var buf bytes.Buffer
		sc := render.Scene{Board: b, Transform: view.Fit(pageRaster), Viewport: pageRaster, Zoom: 1}
		if err := r.EncodePNG(&buf, sc); err != nil {
			return 0, fmt.Errorf("render board %d: %w", i+1, err)
		}

		name := fmt.Sprintf("board-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.Text(pageMargin, top-2, fmt.Sprintf("Board %d", i+1))
		pdf.ImageOptions(name, pageMargin, top, imgW, imgH, false, opts, 0, "")
	}

	pages := pdf.PageCount()
	if pages == 0 {
		return 0, ErrNothingToExport
	}
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	return pages, nil
}
