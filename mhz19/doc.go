// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mhz19 provides a driver for the Winsen MH-Z19 family of NDIR CO2
// sensors on their UART interface (9600 8N1).
//
// Every exchange is a 9 byte request answered by a 9 byte response:
//
//	request:  0xff 0x01 cmd p0 p1 p2 p3 p4 checksum
//	response: 0xff cmd  d0  d1 d2 d3 d4 d5 checksum
//
// The checksum is the two's complement of the sum of bytes 1 to 7.
//
// The driver talks to a conn.Conn. Use NewConn to wrap a serial port, or Sim
// to run without a sensor.
//
// # Datasheet
//
// https://www.winsen-sensor.com/d/files/infrared-gas-sensor/mh-z19b-co2-ver1_0.pdf
package mhz19
