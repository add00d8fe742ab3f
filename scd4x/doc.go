// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scd4x provides a driver for the Sensirion SCD4x CO2 sensors, used
// as the CO2 source of the monitor when the board carries an I²C sensor.
//
// The device is put in periodic measurement mode when opened. ReadCO2 blocks
// until the sensor reports a new sample, which happens every 5 seconds.
// Automatic self calibration can be switched on with EnableAutoCalibration;
// the setting is not persisted to EEPROM.
//
// Refer to the datasheet for more information.
//
// https://sensirion.com/media/documents/48C4B7FB/66E05452/CD_DS_SCD4x_Datasheet_D1.pdf
package scd4x
