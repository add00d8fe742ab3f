// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package actuator

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/airguard/alert"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

type testPins struct {
	red, yellow, green, buzzer, left, right, arm *gpiotest.Pin
	light                                        *fakeADC
}

func newTestBank(t *testing.T) (*Bank, *testPins) {
	tp := &testPins{
		red:    &gpiotest.Pin{N: "RED", L: gpio.High},
		yellow: &gpiotest.Pin{N: "YELLOW", L: gpio.High},
		green:  &gpiotest.Pin{N: "GREEN", L: gpio.High},
		buzzer: &gpiotest.Pin{N: "BUZZER", L: gpio.High},
		left:   &gpiotest.Pin{N: "LEFT_EYE", L: gpio.High},
		right:  &gpiotest.Pin{N: "RIGHT_EYE", L: gpio.High},
		arm:    &gpiotest.Pin{N: "ARM"},
		light:  &fakeADC{s: analog.Sample{V: 1200 * physic.MilliVolt, Raw: 1489}},
	}
	b, err := New(&Pins{
		Red:      tp.red,
		Yellow:   tp.yellow,
		Green:    tp.green,
		Buzzer:   tp.buzzer,
		LeftEye:  tp.left,
		RightEye: tp.right,
		Light:    tp.light,
		Arm:      tp.arm,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Configure(); err != nil {
		t.Fatal(err)
	}
	return b, tp
}

func TestNewMissingPin(t *testing.T) {
	_, err := New(&Pins{Red: &gpiotest.Pin{}, Yellow: &gpiotest.Pin{}, Green: &gpiotest.Pin{}}, nil)
	if err == nil {
		t.Error("New() without buzzer expected error")
	}
}

func TestConfigure(t *testing.T) {
	_, tp := newTestBank(t)
	for _, p := range []*gpiotest.Pin{tp.red, tp.yellow, tp.green, tp.buzzer, tp.left, tp.right} {
		if p.L != gpio.Low {
			t.Errorf("%s not driven low by Configure()", p.N)
		}
	}
}

func TestApply(t *testing.T) {
	b, tp := newTestBank(t)
	for _, ppm := range []alert.PPM{0, 400, 401, 999, 1000} {
		cmd, _ := alert.CommandsFor(alert.Classify(ppm), ppm)
		if err := b.Apply(cmd); err != nil {
			t.Fatal(err)
		}
		got := [3]gpio.Level{tp.red.L, tp.yellow.L, tp.green.L}
		want := [3]gpio.Level{gpio.Level(cmd.Red), gpio.Level(cmd.Yellow), gpio.Level(cmd.Green)}
		if got != want {
			t.Errorf("%d ppm: indicator levels %v expected %v", ppm, got, want)
		}
		r, y, g := b.Indicators()
		if r != cmd.Red || y != cmd.Yellow || g != cmd.Green {
			t.Errorf("%d ppm: Indicators()=%t,%t,%t", ppm, r, y, g)
		}
		if b.Buzzer() != cmd.Buzzer {
			t.Errorf("%d ppm: Buzzer()=%d expected %d", ppm, b.Buzzer(), cmd.Buzzer)
		}
		if cmd.Buzzer == 0 && tp.buzzer.L != gpio.Low {
			t.Errorf("%d ppm: buzzer not silenced", ppm)
		}
	}
	// The last command was Critical.
	if tp.buzzer.D != Duty(alert.AlarmIntensity) || tp.buzzer.F != DefaultOpts.BuzzerFrequency {
		t.Errorf("buzzer PWM duty=%s f=%s", tp.buzzer.D, tp.buzzer.F)
	}
}

func TestSetBuzzerFullScale(t *testing.T) {
	b, tp := newTestBank(t)
	if err := b.SetBuzzer(0xff); err != nil {
		t.Fatal(err)
	}
	if tp.buzzer.L != gpio.High {
		t.Error("intensity 255 expected a steady high level")
	}
	if err := b.SetBuzzer(0); err != nil {
		t.Fatal(err)
	}
	if tp.buzzer.L != gpio.Low {
		t.Error("intensity 0 expected a steady low level")
	}
}

func TestSetEyes(t *testing.T) {
	b, tp := newTestBank(t)
	if err := b.SetEyes(200); err != nil {
		t.Fatal(err)
	}
	for _, p := range []*gpiotest.Pin{tp.left, tp.right} {
		if p.D != Duty(200) {
			t.Errorf("%s duty=%s expected %s", p.N, p.D, Duty(200))
		}
	}
	if b.Eyes() != 200 {
		t.Errorf("Eyes()=%d", b.Eyes())
	}

	// Boards without eyes.
	noEyes, err := New(&Pins{Red: tp.red, Yellow: tp.yellow, Green: tp.green, Buzzer: tp.buzzer}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := noEyes.SetEyes(200); err != nil {
		t.Error(err)
	}
}

func TestDuty(t *testing.T) {
	for _, tc := range []struct {
		in   uint8
		want gpio.Duty
	}{
		{0, 0},
		{0xff, gpio.DutyMax},
		{127, gpio.Duty(int64(127) * int64(gpio.DutyMax) / 255)},
	} {
		if got := Duty(tc.in); got != tc.want {
			t.Errorf("Duty(%d)=%d expected %d", tc.in, got, tc.want)
		}
	}
	if Duty(200) <= gpio.DutyHalf {
		t.Error("Duty(200) expected above half")
	}
}

func TestInputs(t *testing.T) {
	b, tp := newTestBank(t)
	s, err := b.AmbientLight()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 1489 {
		t.Errorf("AmbientLight().Raw=%d expected 1489", s.Raw)
	}

	tp.arm.L = gpio.High
	if b.ArmPressed() {
		t.Error("ArmPressed() with line high")
	}
	tp.arm.L = gpio.Low
	if !b.ArmPressed() {
		t.Error("ArmPressed() with line low")
	}

	tp.light.err = errors.New("adc fault")
	if _, err := b.AmbientLight(); err == nil {
		t.Error("AmbientLight() expected error")
	}

	bare, _ := New(&Pins{Red: tp.red, Yellow: tp.yellow, Green: tp.green, Buzzer: tp.buzzer}, nil)
	if _, err := bare.AmbientLight(); !errors.Is(err, ErrNoLight) {
		t.Errorf("AmbientLight() expected ErrNoLight, received %v", err)
	}
	if bare.ArmPressed() {
		t.Error("ArmPressed() without a button")
	}
}

func TestHalt(t *testing.T) {
	b, tp := newTestBank(t)
	_ = b.SetIndicators(true, true, true)
	_ = b.SetBuzzer(0xff)
	_ = b.SetEyes(0xff)
	if err := b.Halt(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []*gpiotest.Pin{tp.red, tp.yellow, tp.green, tp.buzzer, tp.left, tp.right} {
		if p.L != gpio.Low {
			t.Errorf("%s not driven low by Halt()", p.N)
		}
	}
	if r, y, g := b.Indicators(); r || y || g || b.Buzzer() != 0 || b.Eyes() != 0 {
		t.Error("Halt() did not reset the cached state")
	}
}

func TestPinError(t *testing.T) {
	bad := &failPin{Pin: gpiotest.Pin{N: "BAD"}}
	b, err := New(&Pins{Red: bad, Yellow: &gpiotest.Pin{}, Green: &gpiotest.Pin{}, Buzzer: &gpiotest.Pin{}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Configure(); !errors.Is(err, errPin) {
		t.Errorf("Configure() expected errPin, received %v", err)
	}
	if err := b.SetIndicator(Red, true); !errors.Is(err, errPin) {
		t.Errorf("SetIndicator() expected errPin, received %v", err)
	}
	if err := b.SetIndicator(Indicator(7), true); err == nil {
		t.Error("SetIndicator() with an invalid indicator expected error")
	}
}

var errPin = errors.New("pin fault")

type failPin struct {
	gpiotest.Pin
}

func (f *failPin) Out(gpio.Level) error {
	return errPin
}

type fakeADC struct {
	s   analog.Sample
	err error
}

func (f *fakeADC) String() string   { return "LIGHT" }
func (f *fakeADC) Halt() error      { return nil }
func (f *fakeADC) Name() string     { return "LIGHT" }
func (f *fakeADC) Number() int      { return 34 }
func (f *fakeADC) Function() string { return "ADC" }

func (f *fakeADC) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{V: 3300 * physic.MilliVolt, Raw: 4095}
}

func (f *fakeADC) Read() (analog.Sample, error) {
	return f.s, f.err
}
