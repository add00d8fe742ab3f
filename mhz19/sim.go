// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mhz19

import (
	"errors"
	"sync"
	"time"

	"github.com/GermanBionicSystems/airguard/common"
	"periph.io/x/conn/v3"
)

// Sim is a conn.Conn that answers like an MH-Z19. Each read command returns
// the next value of Readings, the last one repeats forever.
//
// Use it with New to run the monitor on a bench without a sensor.
type Sim struct {
	// Readings returned by successive read commands.
	Readings []int
	// Firmware version reported, 4 characters. Defaults to "0502".
	Version string
	// Interval delays every read command, standing in for the measurement
	// period of a real sensor. Zero answers immediately.
	Interval time.Duration

	mu    sync.Mutex
	next  int
	abc   bool
	reads int
}

var errSimCommand = errors.New("mhz19 sim: unsupported command")

func (s *Sim) String() string {
	return "mhz19-sim"
}

func (s *Sim) Duplex() conn.Duplex {
	return conn.Full
}

// AutoCalibration reports the last value written by an ABC command.
func (s *Sim) AutoCalibration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abc
}

// Reads returns the number of read commands served.
func (s *Sim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Tx implements conn.Conn.
func (s *Sim) Tx(w, r []byte) error {
	if len(w) != frameSize || w[0] != _START || w[8] != common.SumComplement(w[1:8]) {
		return ErrChecksum
	}
	if w[2] == _CMD_READ && s.Interval > 0 {
		time.Sleep(s.Interval)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := make([]byte, frameSize)
	resp[0] = _START
	resp[1] = w[2]
	switch w[2] {
	case _CMD_READ:
		v := 0
		if len(s.Readings) != 0 {
			v = s.Readings[s.next]
			if s.next < len(s.Readings)-1 {
				s.next++
			}
		}
		s.reads++
		resp[2] = byte(v >> 8)
		resp[3] = byte(v)
	case _CMD_VERSION:
		v := s.Version
		if len(v) != 4 {
			v = "0502"
		}
		copy(resp[2:6], v)
	case _CMD_ABC:
		s.abc = w[3] == _ABC_ON
		return nil
	default:
		return errSimCommand
	}
	resp[8] = common.SumComplement(resp[1:8])
	copy(r, resp)
	return nil
}
