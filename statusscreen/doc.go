// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package statusscreen draws the monitor status page on a 128x64 monochrome
// panel.
//
// Canvas offers a page based drawing protocol: BeginFrame clears an off
// screen buffer, the drawing calls (SetFont, SetCursor, Print, DrawGlyph,
// SetColorIndex) fill it, and EndFrame pushes the whole buffer to the
// display.Drawer in one call. Any periph display.Drawer works, e.g. an
// ssd1306.Dev or a termscreen.Dev.
//
// Text is rasterized by github.com/fogleman/gg using Go fonts parsed with
// github.com/golang/freetype.
package statusscreen
