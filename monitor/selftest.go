// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"context"
	"fmt"
	"time"
)

// EyeIntensity is the brightness of the eyes once the self test is done.
const EyeIntensity uint8 = 200

// step is one entry of a timed output sequence: apply, then hold.
type step struct {
	name  string
	apply func(a Actuators) error
	hold  time.Duration
}

// selfTest is played once at power up. The eyes stay lit afterwards.
var selfTest = []step{
	{name: "indicators on", apply: func(a Actuators) error { return a.SetIndicators(true, true, true) }, hold: time.Second},
	{name: "indicators off", apply: func(a Actuators) error { return a.SetIndicators(false, false, false) }, hold: 500 * time.Millisecond},
	{name: "chirp low", apply: func(a Actuators) error { return a.SetBuzzer(127) }, hold: 200 * time.Millisecond},
	{name: "chirp high", apply: func(a Actuators) error { return a.SetBuzzer(200) }, hold: 800 * time.Millisecond},
	{name: "buzzer off", apply: func(a Actuators) error { return a.SetBuzzer(0) }},
	{name: "eyes on", apply: func(a Actuators) error { return a.SetEyes(EyeIntensity) }},
}

// Blink pattern used to signal a startup failure, 30 × (on 500ms, off 500ms).
const (
	failureBlinks = 30
	failurePeriod = 500 * time.Millisecond
)

var (
	redOnly    = [3]bool{true, false, false}
	yellowOnly = [3]bool{false, true, false}
)

// SelfTest plays the power up sequence: indicators on then off, a two tone
// chirp, then the eyes light up.
func (m *Monitor) SelfTest(ctx context.Context) error {
	return m.play(ctx, selfTest)
}

func (m *Monitor) play(ctx context.Context, steps []step) error {
	for _, s := range steps {
		if err := s.apply(m.actuators); err != nil {
			return fmt.Errorf("monitor: %s: %w", s.name, err)
		}
		if s.hold == 0 {
			continue
		}
		if err := m.sleep(ctx, s.hold); err != nil {
			return err
		}
	}
	return nil
}

// blinkFailure blinks the given indicators. Errors are ignored, there is
// nothing left to report them to.
func (m *Monitor) blinkFailure(ctx context.Context, on [3]bool) {
	steps := make([]step, 0, 2*failureBlinks)
	for range failureBlinks {
		steps = append(steps,
			step{name: "failure on", apply: func(a Actuators) error { return a.SetIndicators(on[0], on[1], on[2]) }, hold: failurePeriod},
			step{name: "failure off", apply: func(a Actuators) error { return a.SetIndicators(false, false, false) }, hold: failurePeriod},
		)
	}
	if err := m.play(ctx, steps); err != nil {
		m.log.WithError(err).Debug("failure blink interrupted")
	}
}
