// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mhz19

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3"
)

// maxEmptyReads bounds the number of consecutive zero byte reads tolerated
// while waiting for a response. Serial ports configured with a read timeout
// return (0, nil) when it expires.
const maxEmptyReads = 3

// maxSkipped bounds the stale bytes discarded while looking for the start of
// a response.
const maxSkipped = 4 * frameSize

// inputResetter is implemented by serial ports able to drop unread input,
// e.g. go.bug.st/serial.Port.
type inputResetter interface {
	ResetInputBuffer() error
}

// NewConn wraps a byte stream, typically a serial port opened at Baud, into a
// conn.Conn suitable for New.
//
// Before each request, input left over from a late reply is dropped when rw
// supports it, and the response is aligned on its 0xff start byte.
func NewConn(rw io.ReadWriter, name string) conn.Conn {
	return &stream{rw: rw, name: name}
}

type stream struct {
	rw   io.ReadWriter
	name string
}

func (s *stream) String() string {
	return s.name
}

func (s *stream) Duplex() conn.Duplex {
	return conn.Full
}

// Tx writes w then reads a full response into r, starting at a 0xff byte.
func (s *stream) Tx(w, r []byte) error {
	if len(w) != 0 {
		if rs, ok := s.rw.(inputResetter); ok {
			if err := rs.ResetInputBuffer(); err != nil {
				return fmt.Errorf("%s: reset input: %w", s.name, err)
			}
		}
		if _, err := s.rw.Write(w); err != nil {
			return err
		}
	}
	if len(r) == 0 {
		return nil
	}
	if err := s.sync(r[:1]); err != nil {
		return err
	}
	return s.readFull(r, 1)
}

// sync reads byte by byte until the frame start is found.
func (s *stream) sync(b []byte) error {
	for skipped := 0; ; skipped++ {
		if err := s.readFull(b, 0); err != nil {
			return err
		}
		if b[0] == _START {
			return nil
		}
		if skipped == maxSkipped {
			return fmt.Errorf("%w: no frame start in %d bytes", ErrUnexpectedResponse, skipped+1)
		}
	}
}

// readFull fills r[n:].
func (s *stream) readFull(r []byte, n int) error {
	empty := 0
	for n < len(r) {
		c, err := s.rw.Read(r[n:])
		n += c
		if err != nil && (err != io.EOF || n < len(r)) {
			return fmt.Errorf("%w: %d of %d bytes: %v", ErrShortResponse, n, len(r), err)
		}
		if c == 0 {
			if empty++; empty >= maxEmptyReads {
				return fmt.Errorf("%w: %d of %d bytes", ErrShortResponse, n, len(r))
			}
			continue
		}
		empty = 0
	}
	return nil
}
