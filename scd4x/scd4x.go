// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scd4x

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/airguard/common"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// PPM=Parts Per Million. Units of measure for CO2 concentration.
type PPM int

const (
	// These devices only support this i2c address.
	SensorAddress uint16 = 0x62
)

// ErrNotReady is returned when the sensor did not flag a new sample within
// the data ready timeout.
var ErrNotReady = errors.New("scd4x: timeout waiting for data ready status")

type cmd uint16

// Structure to simplify sending commands to the device.
type command struct {
	// The 16-bit command words.
	cmdWord cmd
	// The expected number of bytes returned. 0, 3, or 9.
	responseSize int
	// True if this command is permitted while the sensor is running in
	// acquisition mode.
	whileSensing bool
}

var cmdStartMeasurement = command{
	cmdWord: 0x21b1,
}

var cmdReadMeasurement = command{
	cmdWord:      0xec05,
	responseSize: 9,
	whileSensing: true,
}

var cmdStopMeasurement = command{
	cmdWord:      0x3f86,
	whileSensing: true,
}

var cmdSetASCEnabled = command{
	cmdWord: 0x2416,
}

var cmdGetASCEnabled = command{
	cmdWord:      0x2313,
	responseSize: 3,
}

var cmdGetDataReadyStatus = command{
	cmdWord:      0xe4b8,
	responseSize: 3,
	whileSensing: true,
}

var cmdWakeUp = command{
	cmdWord: 0x36f6,
}

// Time the sensor needs after stop_periodic_measurement before it accepts
// other commands.
const stopDelay = 550 * time.Millisecond

// Dev represents an SCD4x device.
type Dev struct {
	// The i2c bus device.
	d  *i2c.Dev
	mu sync.Mutex
	// True if the device is in periodic measurement mode.
	sensing bool
	// How long Sense waits for the data ready flag.
	readyTimeout time.Duration
	// Pause between two data ready polls.
	pollInterval time.Duration
}

func (ppm PPM) String() string {
	return fmt.Sprintf("%d PPM", int(ppm))
}

// The sensor reading. Returns CO2 PPM, Temperature, and Humidity.
type Env struct {
	physic.Env
	CO2 PPM
}

// Return the sensor readings in string format.
func (e *Env) String() string {
	return fmt.Sprintf("Temperature: %s Humidity: %s CO2: %s", e.Temperature.String(), e.Humidity.String(), e.CO2.String())
}

// NewI2C creates a new SCD4x sensor using the supplied bus and address. The
// constant value SensorAddress should be supplied as the value for addr.
//
// No I/O is done; call Start to begin periodic measurement.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	return &Dev{
		d:            &i2c.Dev{Bus: b, Addr: addr},
		readyTimeout: 6 * time.Second,
		pollInterval: time.Second,
	}, nil
}

// Start puts the sensor in periodic measurement mode. It is a no-op when the
// sensor is already measuring.
func (d *Dev) Start() error {
	return d.start()
}

// EnableAutoCalibration turns on automatic self calibration.
func (d *Dev) EnableAutoCalibration() error {
	return d.SetAutoCalibration(true)
}

// SetAutoCalibration switches automatic self calibration on or off. The
// sensor only accepts the setting while idle, so measurement is stopped and
// resumed around the write.
func (d *Dev) SetAutoCalibration(enabled bool) error {
	wasSensing := d.sensing
	if err := d.Halt(); err != nil {
		return err
	}
	w := []uint16{0}
	if enabled {
		w[0] = 1
	}
	d.mu.Lock()
	_, err := d.sendCommand(cmdSetASCEnabled, w)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	if wasSensing {
		return d.start()
	}
	return nil
}

// AutoCalibration reports whether automatic self calibration is enabled. It
// stops periodic measurement; call Start to resume.
func (d *Dev) AutoCalibration() (bool, error) {
	if err := d.Halt(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	words, err := d.sendCommand(cmdGetASCEnabled, nil)
	if err != nil {
		return false, err
	}
	return words[0] != 0, nil
}

// Halt stops periodic measurement if enabled.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sensing {
		d.sensing = false
		_, err := d.sendCommand(cmdStopMeasurement, nil)
		time.Sleep(stopDelay)
		if err != nil {
			return err
		}
	}
	return nil
}

// makeWriteData converts the slice of word values into byte values with the
// CRC following.
func makeWriteData(data []uint16) []byte {
	bytes := make([]byte, len(data)*3)
	for ix, val := range data {
		bytes[ix*3] = byte((val >> 8) & 0xff)
		bytes[ix*3+1] = byte(val & 0xff)
		bytes[ix*3+2] = common.CRC8(bytes[ix*3 : ix*3+2])
	}
	return bytes
}

// All commands to read or write to the sensor go through this function. The
// caller must hold d.mu.
func (d *Dev) sendCommand(cmd command, writeData []uint16) ([]uint16, error) {
	if d.sensing && !cmd.whileSensing {
		return nil, fmt.Errorf("scd4x cmd 0x%x: not permitted during periodic measurement", cmd.cmdWord)
	}

	w := []byte{byte(cmd.cmdWord >> 8), byte(cmd.cmdWord)}
	if writeData != nil {
		w = append(w, makeWriteData(writeData)...)
	}
	var r []byte
	if cmd.responseSize > 0 {
		r = make([]byte, cmd.responseSize)
	}

	if err := d.d.Tx(w, r); err != nil {
		return nil, fmt.Errorf("scd4x cmd 0x%x: %w", cmd.cmdWord, err)
	}
	if cmd.responseSize == 0 {
		return nil, nil
	}

	// Convert the bytes into a slice of words and verify the CRC as we go.
	result := make([]uint16, cmd.responseSize/3)
	for ix := range len(result) {
		if r[ix*3+2] != common.CRC8(r[ix*3:ix*3+2]) {
			return nil, fmt.Errorf("scd4x cmd 0x%x: invalid crc", cmd.cmdWord)
		}
		result[ix] = uint16(r[ix*3])<<8 | uint16(r[ix*3+1])
	}
	return result, nil
}

// start periodic measurement.
func (d *Dev) start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sensing {
		return nil
	}

	if _, err := d.sendCommand(cmdWakeUp, nil); err != nil {
		// A sensor left in measurement mode by a previous run rejects
		// wake_up. Stop it and give it time to settle.
		_, _ = d.sendCommand(cmdStopMeasurement, nil)
		time.Sleep(stopDelay)
	}
	time.Sleep(50 * time.Millisecond)

	_, err := d.sendCommand(cmdStartMeasurement, nil)
	if err == nil {
		d.sensing = true
	}
	return err
}

// countToTemp converts a device count to Temperature
func countToTemp(count uint16) physic.Temperature {
	frac := float64(count) / 65535.0
	result := -45 + 175*frac
	return physic.ZeroCelsius + physic.Temperature(float64(physic.Celsius)*result)
}

func countToHumidity(count uint16) physic.RelativeHumidity {
	frac := float64(count) / 65535.0
	return physic.RelativeHumidity(frac * 100.0 * float64(physic.PercentRH))
}

// Sense returns readings (Temperature, Humidity, and CO2 concentration in PPM)
// from the device. In periodic measurement mode a new sample is available
// every 5 seconds; Sense blocks until it is.
func (d *Dev) Sense(env *Env) error {
	env.Temperature = 0
	env.Humidity = 0
	env.CO2 = 0
	env.Pressure = 0

	if err := d.start(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	mask := uint16(1<<11 - 1)
	deadline := time.Now().Add(d.readyTimeout)
	for {
		words, err := d.sendCommand(cmdGetDataReadyStatus, nil)
		if err == nil && words[0]&mask != 0 {
			break
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}
		time.Sleep(d.pollInterval)
	}
	words, err := d.sendCommand(cmdReadMeasurement, nil)
	if err != nil {
		return err
	}
	env.CO2 = PPM(words[0])
	env.Temperature = countToTemp(words[1])
	env.Humidity = countToHumidity(words[2])
	return nil
}

// ReadCO2 blocks until the next sample and returns its CO2 concentration.
// The sensor reports 0 until its first measurement after power up is done.
func (d *Dev) ReadCO2() (int, error) {
	env := Env{}
	if err := d.Sense(&env); err != nil {
		return 0, err
	}
	return int(env.CO2), nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("scd4x: %s", d.d.String())
}
