// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package statusscreen

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"periph.io/x/conn/v3/display"
)

// FontID selects one of the faces loaded by the canvas.
type FontID int

const (
	// FontSmall is a 7x13 bitmap face.
	FontSmall FontID = iota
	// FontMedium is Go Medium at 16px.
	FontMedium
	// FontLarge is Go Bold at 32px, for the reading.
	FontLarge
	// FontLargeCompact is Go Bold at 24px, for readings of five digits.
	FontLargeCompact
	// FontText is Go Medium at 12px, for the status line.
	FontText
)

// Glyph identifies an icon drawn by DrawGlyph.
type Glyph int

const (
	// GlyphPerson is a 48x48 head and shoulders silhouette.
	GlyphPerson Glyph = iota
)

// GlyphSize is the width and height of every glyph.
const GlyphSize = 48

var (
	// ErrNoFrame is returned by drawing calls made outside of
	// BeginFrame/EndFrame.
	ErrNoFrame = errors.New("statusscreen: no frame in progress")
	// ErrColorIndex is returned for a color index other than 0 or 1.
	ErrColorIndex = errors.New("statusscreen: color index must be 0 or 1")
	// ErrNotOpen is returned by EndFrame when a deferred canvas was not
	// initialized.
	ErrNotOpen = errors.New("statusscreen: display not open")
)

// Canvas is a double buffered drawing surface in front of a display.Drawer.
type Canvas struct {
	dst   display.Drawer
	open  func() (display.Drawer, error)
	dc    *gg.Context
	faces map[FontID]font.Face

	font    FontID
	x, y    int
	fg      int
	inFrame bool
}

// New returns a Canvas sized to dst.
func New(dst display.Drawer) (*Canvas, error) {
	b := dst.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("statusscreen: %s has empty bounds", dst)
	}
	c, err := newCanvas(b)
	if err != nil {
		return nil, err
	}
	c.dst = dst
	return c, nil
}

// NewDeferred returns a Canvas of the given size whose display is obtained
// by calling open from Init. A panel that does not answer is then reported by
// Init instead of at construction.
func NewDeferred(bounds image.Rectangle, open func() (display.Drawer, error)) (*Canvas, error) {
	if bounds.Empty() {
		return nil, errors.New("statusscreen: empty bounds")
	}
	c, err := newCanvas(bounds)
	if err != nil {
		return nil, err
	}
	c.open = open
	return c, nil
}

func newCanvas(b image.Rectangle) (*Canvas, error) {
	faces := map[FontID]font.Face{FontSmall: basicfont.Face7x13}
	for _, f := range []struct {
		id   FontID
		ttf  []byte
		size float64
	}{
		{FontMedium, gomedium.TTF, 16},
		{FontLarge, gobold.TTF, 32},
		{FontLargeCompact, gobold.TTF, 24},
		{FontText, gomedium.TTF, 12},
	} {
		face, err := loadFace(f.ttf, f.size)
		if err != nil {
			return nil, err
		}
		faces[f.id] = face
	}
	return &Canvas{
		dc:    gg.NewContext(b.Dx(), b.Dy()),
		faces: faces,
		fg:    1,
	}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("statusscreen: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

func (c *Canvas) String() string {
	if c.dst == nil {
		return "statusscreen.Canvas{not open}"
	}
	return fmt.Sprintf("statusscreen.Canvas{%s}", c.dst)
}

// Halt implements conn.Resource. It halts the underlying display.
func (c *Canvas) Halt() error {
	if c.dst == nil {
		return nil
	}
	return c.dst.Halt()
}

// Bounds returns the drawing area.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.dc.Width(), c.dc.Height())
}

// Init opens the display of a deferred canvas, then blanks the panel.
func (c *Canvas) Init() error {
	if c.dst == nil {
		if c.open == nil {
			return ErrNotOpen
		}
		d, err := c.open()
		if err != nil {
			return fmt.Errorf("statusscreen: open display: %w", err)
		}
		if b := d.Bounds(); b.Dx() != c.dc.Width() || b.Dy() != c.dc.Height() {
			return fmt.Errorf("statusscreen: %s is %dx%d, expected %dx%d", d, b.Dx(), b.Dy(), c.dc.Width(), c.dc.Height())
		}
		c.dst = d
	}
	c.BeginFrame()
	return c.EndFrame()
}

// BeginFrame clears the buffer and resets the drawing state: FontSmall,
// cursor at the origin, color index 1.
func (c *Canvas) BeginFrame() {
	c.dc.SetColor(color.Black)
	c.dc.Clear()
	c.font = FontSmall
	c.x, c.y = 0, 0
	c.fg = 1
	c.inFrame = true
}

// EndFrame pushes the buffer to the display.
func (c *Canvas) EndFrame() error {
	if !c.inFrame {
		return ErrNoFrame
	}
	c.inFrame = false
	if c.dst == nil {
		return ErrNotOpen
	}
	return c.dst.Draw(c.dst.Bounds(), c.dc.Image(), image.Point{})
}

// SetFont selects the face used by Print.
func (c *Canvas) SetFont(id FontID) error {
	if _, ok := c.faces[id]; !ok {
		return fmt.Errorf("statusscreen: unknown font %d", id)
	}
	c.font = id
	return nil
}

// SetCursor moves the text cursor. y is the baseline.
func (c *Canvas) SetCursor(x, y int) {
	c.x, c.y = x, y
}

// Cursor returns the text cursor.
func (c *Canvas) Cursor() (x, y int) {
	return c.x, c.y
}

// SetColorIndex selects the color used by Print and DrawGlyph: 1 lights
// pixels, 0 clears them, which punches text out of what was drawn before.
func (c *Canvas) SetColorIndex(i int) error {
	if i != 0 && i != 1 {
		return ErrColorIndex
	}
	c.fg = i
	return nil
}

// Print draws v at the cursor and advances the cursor past it.
func (c *Canvas) Print(v interface{}) error {
	if !c.inFrame {
		return ErrNoFrame
	}
	s := fmt.Sprint(v)
	c.dc.SetFontFace(c.faces[c.font])
	c.dc.SetColor(c.color())
	c.dc.DrawString(s, float64(c.x), float64(c.y))
	w, _ := c.dc.MeasureString(s)
	c.x += int(w + 0.5)
	return nil
}

// FitCursor places the cursor at (x, y), moved left as needed for s to end
// inside the panel when printed with the current font.
func (c *Canvas) FitCursor(x, y int, s string) {
	w := int(math.Ceil(c.measure(c.font, s)))
	if limit := c.dc.Width() - w; x > limit {
		x = limit
	}
	if x < 0 {
		x = 0
	}
	c.SetCursor(x, y)
}

func (c *Canvas) measure(id FontID, s string) float64 {
	c.dc.SetFontFace(c.faces[id])
	w, _ := c.dc.MeasureString(s)
	return w
}

// DrawGlyph draws g with its bottom left corner at (x, y).
func (c *Canvas) DrawGlyph(x, y int, g Glyph) error {
	if !c.inFrame {
		return ErrNoFrame
	}
	c.dc.SetColor(c.color())
	left, top := float64(x), float64(y-GlyphSize)
	switch g {
	case GlyphPerson:
		c.dc.DrawRectangle(left, top, GlyphSize, GlyphSize)
		c.dc.Clip()
		c.dc.DrawCircle(left+24, top+15, 11)
		c.dc.Fill()
		c.dc.DrawEllipse(left+24, top+GlyphSize, 21, 19)
		c.dc.Fill()
		c.dc.ResetClip()
	default:
		return fmt.Errorf("statusscreen: unknown glyph %d", g)
	}
	return nil
}

func (c *Canvas) color() color.Color {
	if c.fg == 0 {
		return color.Black
	}
	return color.White
}

var _ fmt.Stringer = &Canvas{}
