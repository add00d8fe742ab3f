// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mhz19

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/airguard/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Baud is the only UART speed supported by the sensor.
const Baud = 9600 * physic.Hertz

const frameSize = 9

const (
	_START       byte = 0xff
	_SENSOR      byte = 0x01
	_CMD_READ    byte = 0x86
	_CMD_ABC     byte = 0x79
	_CMD_VERSION byte = 0xa0
	_ABC_ON      byte = 0xa0
	_ABC_OFF     byte = 0x00
)

var (
	// ErrChecksum is returned when a response fails checksum verification.
	ErrChecksum = errors.New("mhz19: invalid checksum")
	// ErrShortResponse is returned when the sensor sent less than a frame.
	ErrShortResponse = errors.New("mhz19: short response")
	// ErrUnexpectedResponse is returned when the response does not echo the
	// command or does not start with 0xff.
	ErrUnexpectedResponse = errors.New("mhz19: unexpected response")
)

// Dev is a handle to an MH-Z19 sensor.
type Dev struct {
	c  conn.Conn
	mu sync.Mutex
}

// New returns a Dev talking over c. No I/O is done until Start or one of the
// read functions is called.
func New(c conn.Conn) *Dev {
	return &Dev{c: c}
}

func (d *Dev) String() string {
	return fmt.Sprintf("mhz19{%s}", d.c)
}

// Halt implements conn.Resource. The sensor measures continuously and has
// nothing to stop.
func (d *Dev) Halt() error {
	return nil
}

// Start verifies that a sensor answers by reading its firmware version.
func (d *Dev) Start() error {
	_, err := d.FirmwareVersion()
	return err
}

// FirmwareVersion returns the 4 character firmware version, e.g. "0502".
func (d *Dev) FirmwareVersion() (string, error) {
	r, err := d.exchange(_CMD_VERSION, [5]byte{})
	if err != nil {
		return "", err
	}
	return string(r[2:6]), nil
}

// ReadCO2 returns the current CO2 concentration in ppm. During the first
// minutes after power up the sensor reports a fixed placeholder or 0.
func (d *Dev) ReadCO2() (int, error) {
	r, err := d.exchange(_CMD_READ, [5]byte{})
	if err != nil {
		return 0, err
	}
	return int(r[2])<<8 | int(r[3]), nil
}

// EnableAutoCalibration turns on the automatic baseline correction.
func (d *Dev) EnableAutoCalibration() error {
	return d.SetAutoCalibration(true)
}

// SetAutoCalibration switches the automatic baseline correction. The sensor
// does not acknowledge this command.
func (d *Dev) SetAutoCalibration(enabled bool) error {
	p := [5]byte{_ABC_OFF}
	if enabled {
		p[0] = _ABC_ON
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.c.Tx(makeRequest(_CMD_ABC, p), nil); err != nil {
		return fmt.Errorf("mhz19 cmd 0x%x: %w", _CMD_ABC, err)
	}
	return nil
}

func (d *Dev) exchange(cmd byte, payload [5]byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := make([]byte, frameSize)
	if err := d.c.Tx(makeRequest(cmd, payload), r); err != nil {
		return nil, fmt.Errorf("mhz19 cmd 0x%x: %w", cmd, err)
	}
	if err := checkResponse(cmd, r); err != nil {
		return nil, fmt.Errorf("mhz19 cmd 0x%x: %w", cmd, err)
	}
	return r, nil
}

func makeRequest(cmd byte, payload [5]byte) []byte {
	w := make([]byte, frameSize)
	w[0] = _START
	w[1] = _SENSOR
	w[2] = cmd
	copy(w[3:8], payload[:])
	w[8] = common.SumComplement(w[1:8])
	return w
}

func checkResponse(cmd byte, r []byte) error {
	if len(r) < frameSize {
		return ErrShortResponse
	}
	if r[0] != _START || r[1] != cmd {
		return ErrUnexpectedResponse
	}
	if sum := common.SumComplement(r[1:8]); sum != r[8] {
		return fmt.Errorf("%w: received 0x%02x, expected 0x%02x", ErrChecksum, r[8], sum)
	}
	return nil
}

var _ conn.Resource = &Dev{}
