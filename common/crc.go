// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the checksums shared by the CO2 sensor drivers.
package common

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. The SCD4x protects every 16 bit word it exchanges with
// this CRC (polynomial 0x31, initial value 0xff).
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// SumComplement returns the two's complement of the 8-bit sum of bytes. This
// is the checksum used by the MH-Z19 family on its UART frames, computed over
// bytes 1 through 7 of the 9 byte frame.
func SumComplement(bytes []byte) byte {
	var sum byte
	for _, val := range bytes {
		sum += val
	}
	return 0xff - sum + 1
}
