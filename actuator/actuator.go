// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package actuator drives the outputs of the monitor: three indicator LEDs,
// a buzzer, and the two "eye" LEDs, and samples its two inputs, an ambient
// light sensor and the arm button.
//
// Intensities are 0-255. 0 drives the pin low, 255 drives it high and values
// in between are emitted as PWM at the configured frequency.
package actuator

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/airguard/alert"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Indicator identifies one LED of the tri-color bank.
type Indicator int

const (
	Red Indicator = iota
	Yellow
	Green
)

func (i Indicator) String() string {
	switch i {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
}

// Pins lists the hardware pins of the bank. Red, Yellow, Green and Buzzer are
// required.
type Pins struct {
	Red    gpio.PinOut
	Yellow gpio.PinOut
	Green  gpio.PinOut
	Buzzer gpio.PinOut
	// Optional PWM capable eye LEDs.
	LeftEye  gpio.PinOut
	RightEye gpio.PinOut
	// Optional ambient light sensor. Sampled, never acted upon.
	Light analog.PinADC
	// Optional arm button, active low with pull up.
	Arm gpio.PinIn
}

// Opts holds the PWM frequencies.
type Opts struct {
	BuzzerFrequency physic.Frequency
	EyeFrequency    physic.Frequency
}

// DefaultOpts drives both PWM outputs at 5kHz.
var DefaultOpts = Opts{
	BuzzerFrequency: 5 * physic.KiloHertz,
	EyeFrequency:    5 * physic.KiloHertz,
}

// ErrNoLight is returned by AmbientLight when no light sensor is wired.
var ErrNoLight = errors.New("actuator: no ambient light sensor")

var errMissingPin = errors.New("actuator: missing required pin")

// Bank is the set of outputs of the monitor.
type Bank struct {
	pins Pins
	opts Opts

	indicators [3]bool
	buzzer     uint8
	eyes       uint8
}

// New returns a Bank. Pins are not touched until Configure is called.
func New(pins *Pins, opts *Opts) (*Bank, error) {
	if pins.Red == nil || pins.Yellow == nil || pins.Green == nil || pins.Buzzer == nil {
		return nil, errMissingPin
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Bank{pins: *pins, opts: *opts}, nil
}

func (b *Bank) String() string {
	return fmt.Sprintf("actuator.Bank{red: %s, yellow: %s, green: %s, buzzer: %s}", b.pins.Red, b.pins.Yellow, b.pins.Green, b.pins.Buzzer)
}

// Configure drives every output low and sets up the inputs.
func (b *Bank) Configure() error {
	for _, p := range b.outputs() {
		if err := p.Out(gpio.Low); err != nil {
			return wrap(p, err)
		}
	}
	b.indicators = [3]bool{}
	b.buzzer = 0
	b.eyes = 0
	if b.pins.Arm != nil {
		if err := b.pins.Arm.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return wrap(b.pins.Arm, err)
		}
	}
	return nil
}

// Halt implements conn.Resource. It drives every output low.
func (b *Bank) Halt() error {
	var first error
	for _, p := range b.outputs() {
		if err := p.Out(gpio.Low); err != nil && first == nil {
			first = wrap(p, err)
		}
	}
	b.indicators = [3]bool{}
	b.buzzer = 0
	b.eyes = 0
	return first
}

// SetIndicator switches a single indicator.
func (b *Bank) SetIndicator(i Indicator, on bool) error {
	var p gpio.PinOut
	switch i {
	case Red:
		p = b.pins.Red
	case Yellow:
		p = b.pins.Yellow
	case Green:
		p = b.pins.Green
	default:
		return fmt.Errorf("actuator: invalid indicator %s", i)
	}
	if err := p.Out(gpio.Level(on)); err != nil {
		return wrap(p, err)
	}
	b.indicators[i] = on
	return nil
}

// SetIndicators switches the three indicators at once.
func (b *Bank) SetIndicators(red, yellow, green bool) error {
	for i, on := range [3]bool{red, yellow, green} {
		if err := b.SetIndicator(Indicator(i), on); err != nil {
			return err
		}
	}
	return nil
}

// Indicators returns the last state written to the red, yellow and green
// indicators.
func (b *Bank) Indicators() (red, yellow, green bool) {
	return b.indicators[Red], b.indicators[Yellow], b.indicators[Green]
}

// SetBuzzer sets the buzzer intensity, 0 silences it.
func (b *Bank) SetBuzzer(intensity uint8) error {
	if err := setIntensity(b.pins.Buzzer, intensity, b.opts.BuzzerFrequency); err != nil {
		return err
	}
	b.buzzer = intensity
	return nil
}

// Buzzer returns the last intensity written to the buzzer.
func (b *Bank) Buzzer() uint8 {
	return b.buzzer
}

// SetEyes sets the intensity of both eye LEDs. It is a no-op when the board
// has none.
func (b *Bank) SetEyes(intensity uint8) error {
	for _, p := range []gpio.PinOut{b.pins.LeftEye, b.pins.RightEye} {
		if p == nil {
			continue
		}
		if err := setIntensity(p, intensity, b.opts.EyeFrequency); err != nil {
			return err
		}
	}
	b.eyes = intensity
	return nil
}

// Eyes returns the last intensity written to the eye LEDs.
func (b *Bank) Eyes() uint8 {
	return b.eyes
}

// Apply writes an alert.ActuatorCommand to the indicators and the buzzer.
// The eyes are left alone.
func (b *Bank) Apply(c alert.ActuatorCommand) error {
	if err := b.SetIndicators(c.Red, c.Yellow, c.Green); err != nil {
		return err
	}
	return b.SetBuzzer(c.Buzzer)
}

// AmbientLight samples the light sensor.
func (b *Bank) AmbientLight() (analog.Sample, error) {
	if b.pins.Light == nil {
		return analog.Sample{}, ErrNoLight
	}
	s, err := b.pins.Light.Read()
	if err != nil {
		return analog.Sample{}, wrap(b.pins.Light, err)
	}
	return s, nil
}

// ArmPressed reports whether the arm button is held. The button pulls the
// line low.
func (b *Bank) ArmPressed() bool {
	return b.pins.Arm != nil && b.pins.Arm.Read() == gpio.Low
}

func (b *Bank) outputs() []gpio.PinOut {
	out := []gpio.PinOut{b.pins.Red, b.pins.Yellow, b.pins.Green, b.pins.Buzzer}
	for _, p := range []gpio.PinOut{b.pins.LeftEye, b.pins.RightEye} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Duty converts a 0-255 intensity to a gpio.Duty.
func Duty(intensity uint8) gpio.Duty {
	return gpio.Duty(int64(intensity) * int64(gpio.DutyMax) / 0xff)
}

func setIntensity(p gpio.PinOut, intensity uint8, f physic.Frequency) error {
	var err error
	switch intensity {
	case 0:
		err = p.Out(gpio.Low)
	case 0xff:
		err = p.Out(gpio.High)
	default:
		err = p.PWM(Duty(intensity), f)
	}
	return wrap(p, err)
}

func wrap(p fmt.Stringer, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("actuator: %s: %w", p, err)
}

var _ conn.Resource = &Bank{}
