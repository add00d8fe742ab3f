// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termscreen implements a 2D display.Drawer that outputs to a
// terminal using ANSI color codes.
//
// It stands in for the OLED panel when running the monitor on a development
// machine: every frame pushed to it is redrawn in place, one character cell
// per pixel.
package termscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	W       int
	H       int
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is a monochrome panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	rect    image.Rectangle

	pixels *image.NRGBA
	buf    bytes.Buffer
	frames int
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes its frames to w.
func NewWriter(w io.Writer, opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, errors.New("termscreen: invalid size")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	r := image.Rect(0, 0, opts.W, opts.H)
	return &Dev{
		w:       w,
		palette: *p,
		rect:    r,
		pixels:  image.NewNRGBA(r),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermScreen{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not left colored.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	draw.Draw(d.pixels, r, src, sp, draw.Src)
	return d.refresh()
}

// Frames returns the number of frames written so far.
func (d *Dev) Frames() int {
	return d.frames
}

// At returns the color of a pixel of the last frame.
func (d *Dev) At(x, y int) color.NRGBA {
	return d.pixels.NRGBAAt(x, y)
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	// Cursor home, redraw in place.
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for y := d.rect.Min.Y; y < d.rect.Max.Y; y++ {
		for x := d.rect.Min.X; x < d.rect.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.pixels.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	d.frames++
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
