// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor runs the air quality monitor: a one time startup with a
// fixed self test, then an endless loop of
//
//	read CO2 → classify → drive indicators and buzzer → redraw the screen
//
// in that order, on a single goroutine. The sensor, actuators and display are
// passed to New, so tests can substitute fakes for the hardware.
package monitor
