// Package layout draws the floor plan with each table colored by its
// availability flag.
package layout

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// ErrEmptyLayout is returned when the plan has no size
var ErrEmptyLayout = errors.New("layout: empty floor plan")

var (
	Background  = color.NRGBA{R: 245, G: 245, B: 240, A: 255}
	Available   = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	Unavailable = color.NRGBA{R: 207, G: 34, B: 46, A: 255}
	Unknown     = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	border      = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
)

const borderWidth = 2

type Renderer struct {
	width  int
	height int
	tables []domain.TableLayout
}

func NewRenderer(width, height int, tables []domain.TableLayout) *Renderer {
	return &Renderer{width: width, height: height, tables: tables}
}

// Render writes a PNG of the plan. Tables missing from availability are
// drawn gray.
func (r *Renderer) Render(w io.Writer, availability map[int]bool) error {
	img, err := r.Draw(availability)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("layout: encode png: %w", err)
	}
	return nil
}

// Draw builds the plan image.
func (r *Renderer) Draw(availability map[int]bool) (*image.NRGBA, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, ErrEmptyLayout
	}

	canvas := imaging.New(r.width, r.height, Background)
	for _, t := range r.tables {
		if t.Width <= 2*borderWidth || t.Height <= 2*borderWidth {
			continue
		}

		fill := Unknown
		if available, ok := availability[t.Number]; ok {
			fill = Unavailable
			if available {
				fill = Available
			}
		}

		frame := imaging.New(t.Width, t.Height, border)
		inner := imaging.New(t.Width-2*borderWidth, t.Height-2*borderWidth, fill)
		frame = imaging.Paste(frame, inner, image.Pt(borderWidth, borderWidth))
		canvas = imaging.Paste(canvas, frame, image.Pt(t.X, t.Y))
	}
	return canvas, nil
}
