// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airguard is a CO2 air quality monitor for single board computers.
//
// A CO2 sensor (SCD4x over I²C or MH-Z19 over UART) is read in a loop. Each
// reading is classified as warming up, good, stuffy or critical, and the
// result drives a red/yellow/green indicator bank, a buzzer and a 128x64
// monochrome status screen.
//
// Packages:
//
//   - alert: classification of a reading and the outputs it maps to.
//   - scd4x, mhz19: sensor drivers.
//   - actuator: indicator LEDs, buzzer, eye LEDs, light sensor and arm button.
//   - statusscreen: the status screen layout, drawn on any display.Drawer.
//   - termscreen: a display.Drawer rendering to an ANSI terminal.
//   - monitor: startup, self test and the control loop.
//
// The program lives in cmd/airguard.
package airguard
