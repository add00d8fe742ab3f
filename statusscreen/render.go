// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package statusscreen

import (
	"fmt"

	"github.com/GermanBionicSystems/airguard/alert"
)

// Layout of the status page, in pixels on the 128x64 panel. Y coordinates are
// baselines.
const (
	iconX, iconY = 1, 48
	// The reading moves left once it needs a fourth digit.
	numeralX, numeralWideX, numeralY = 57, 49, 42
	labelX, labelY                   = 14, 35
	subscriptX, subscriptY           = 33, 22
	textX, alarmTextX, textY         = 15, 48, 62
	noticeY, noticeStep              = 24, 16
)

// numeralLayout returns the face and x position of the reading.
func numeralLayout(ppm alert.PPM) (FontID, int) {
	switch {
	case ppm >= 10000:
		return FontLargeCompact, numeralWideX
	case ppm >= 1000:
		return FontLarge, numeralWideX
	default:
		return FontLarge, numeralX
	}
}

// Render draws the status page for cmd into the current frame: the person
// icon, the reading in large digits, a "CO2" label punched out of the icon,
// and the status text.
func (c *Canvas) Render(cmd alert.DisplayCommand) error {
	if err := c.DrawGlyph(iconX, iconY, GlyphPerson); err != nil {
		return err
	}

	id, x := numeralLayout(cmd.PPM)
	reading := fmt.Sprint(int(cmd.PPM))
	_ = c.SetFont(id)
	c.FitCursor(x, numeralY, reading)
	if err := c.Print(reading); err != nil {
		return err
	}

	_ = c.SetColorIndex(0)
	_ = c.SetFont(FontMedium)
	c.SetCursor(labelX, labelY)
	if err := c.Print("CO"); err != nil {
		return err
	}
	_ = c.SetFont(FontSmall)
	c.SetCursor(subscriptX, subscriptY)
	if err := c.Print("2"); err != nil {
		return err
	}

	_ = c.SetColorIndex(1)
	_ = c.SetFont(FontText)
	x = textX
	if cmd.State == alert.Critical {
		x = alarmTextX
	}
	c.FitCursor(x, textY, cmd.Text)
	return c.Print(cmd.Text)
}

// Notice draws one line of text per argument into the current frame, from
// the top left of the panel.
func (c *Canvas) Notice(lines ...string) error {
	_ = c.SetColorIndex(1)
	_ = c.SetFont(FontText)
	for i, l := range lines {
		c.FitCursor(0, noticeY+i*noticeStep, l)
		if err := c.Print(l); err != nil {
			return err
		}
	}
	return nil
}
