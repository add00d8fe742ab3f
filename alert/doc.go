// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package alert maps a CO2 concentration to an air quality State and to the
// indicator, buzzer and display output implied by that state.
//
// Everything in this package is a pure function of its arguments, so it can
// be exercised without any hardware attached.
//
// # Thresholds
//
//	ppm == 0         Warming   sensor has not produced a valid reading yet
//	1 ≤ ppm ≤ 400    Good
//	401 ≤ ppm ≤ 999  Stuffy    ventilation advised
//	ppm ≥ 1000       Critical  audible alarm
package alert
