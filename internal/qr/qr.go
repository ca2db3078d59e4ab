// Package qr encodes data as a QR code and renders it in one of the output
// formats.
package qr

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/mdp/qrterminal/v3"
	"golang.org/x/image/bmp"
	rscqr "rsc.io/qr"

	"qrit/internal/format"
)

// Error correction levels.
const (
	Low      = rscqr.L
	Medium   = rscqr.M
	Quartile = rscqr.Q
	High     = rscqr.H
)

const (
	defaultScale   = 8
	termQuietZone  = 2
	imageQuietZone = 4
	jpegQuality    = 95

	// MaxScale is the largest pixels-per-module accepted for image formats.
	// A version 40 code at this scale stays under maxPixels.
	MaxScale  = 64
	maxPixels = 16384
)

var ErrTooLarge = errors.New("image too large")

var palette = color.Palette{color.White, color.Black}

type Option func(*renderer)

type renderer struct {
	level rscqr.Level
	scale int
}

// WithLevel sets the error correction level (default Medium).
func WithLevel(l rscqr.Level) Option { return func(r *renderer) { r.level = l } }

// WithScale sets the number of pixels per module for image formats (default 8).
// Values below 1 are ignored; Write rejects values above MaxScale.
func WithScale(px int) Option {
	return func(r *renderer) {
		if px > 0 {
			r.scale = px
		}
	}
}

// ParseLevel maps l, m, q, h (either case) to an error correction level.
func ParseLevel(s string) (rscqr.Level, error) {
	switch s {
	case "l", "L":
		return Low, nil
	case "m", "M":
		return Medium, nil
	case "q", "Q":
		return Quartile, nil
	case "h", "H":
		return High, nil
	default:
		return Medium, fmt.Errorf("invalid level: %s (must be 'l', 'm', 'q', or 'h')", s)
	}
}

// Write renders data in format f to w.
func Write(w io.Writer, f format.Format, data []byte, opts ...Option) error {
	r := renderer{level: Medium, scale: defaultScale}
	for _, opt := range opts {
		opt(&r)
	}

	// qrterminal does not report encoding failures, so encode up front for
	// every format.
	code, err := rscqr.Encode(string(data), r.level)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	if f == format.Term {
		return r.term(w, data)
	}
	if err := r.checkSize(code); err != nil {
		return err
	}
	if f == format.SVG {
		return r.svg(w, code)
	}

	img := r.raster(code)
	switch f {
	case format.PNG:
		err = png.Encode(w, img)
	case format.JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case format.GIF:
		err = gif.Encode(w, img, nil)
	case format.BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", format.ErrUnknown, f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}

func (r renderer) term(w io.Writer, data []byte) error {
	sw := &stickyWriter{w: w}
	cfg := qrterminal.Config{
		Level:     r.level,
		Writer:    sw,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: termQuietZone,
	}
	qrterminal.GenerateWithConfig(string(data), cfg)
	return sw.err
}

// checkSize rejects scales whose image side would exceed maxPixels. The
// scale is bounded first so the multiplication cannot overflow.
func (r renderer) checkSize(code *rscqr.Code) error {
	side := code.Size + 2*imageQuietZone
	if r.scale > MaxScale || side*r.scale > maxPixels {
		return fmt.Errorf("%w: scale %d (max %d)", ErrTooLarge, r.scale, MaxScale)
	}
	return nil
}

// raster draws code as a two-colour paletted image with a quiet zone.
func (r renderer) raster(code *rscqr.Code) *image.Paletted {
	n := (code.Size + 2*imageQuietZone) * r.scale
	img := image.NewPaletted(image.Rect(0, 0, n, n), palette)
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if !code.Black(x, y) {
				continue
			}
			px := (x + imageQuietZone) * r.scale
			py := (y + imageQuietZone) * r.scale
			draw.Draw(img, image.Rect(px, py, px+r.scale, py+r.scale), image.Black, image.Point{}, draw.Src)
		}
	}
	return img
}

// svg emits one rect per horizontal run of dark modules, in module units.
func (r renderer) svg(w io.Writer, code *rscqr.Code) error {
	n := code.Size + 2*imageQuietZone
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`+"\n",
		n*r.scale, n*r.scale, n, n)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", n, n)
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; {
			if !code.Black(x, y) {
				x++
				continue
			}
			start := x
			for x < code.Size && code.Black(x, y) {
				x++
			}
			fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="1" fill="#000000"/>`+"\n",
				start+imageQuietZone, y+imageQuietZone, x-start)
		}
	}
	fmt.Fprintf(bw, "</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// stickyWriter keeps the first write error, since qrterminal discards them.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = fmt.Errorf("write term: %w", err)
	}
	return n, err
}
