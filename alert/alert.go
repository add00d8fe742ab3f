// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package alert

import "fmt"

// PPM=Parts Per Million. Units of measure for CO2 concentration.
type PPM int

func (p PPM) String() string {
	return fmt.Sprintf("%d PPM", int(p))
}

// State is the air quality classification of a single reading.
type State int

const (
	// Warming is reported while the sensor returns 0.
	Warming State = iota
	Good
	Stuffy
	Critical
)

// The classification boundaries. They are calibrated values; 400/401 and
// 999/1000 must stay exactly where they are.
const (
	GoodMax     PPM = 400
	CriticalMin PPM = 1000
)

// AlarmIntensity is the buzzer intensity used for Critical.
const AlarmIntensity uint8 = 200

func (s State) String() string {
	switch s {
	case Warming:
		return "warming"
	case Good:
		return "good"
	case Stuffy:
		return "stuffy"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ActuatorCommand is the state of the indicator bank and the buzzer.
type ActuatorCommand struct {
	Red    bool
	Yellow bool
	Green  bool
	// Buzzer intensity, 0 is silent.
	Buzzer uint8
}

// DisplayCommand is what the status screen shows.
type DisplayCommand struct {
	State State
	Text  string
	PPM   PPM
}

// Evaluation bundles everything derived from one reading.
type Evaluation struct {
	PPM       PPM
	State     State
	Actuators ActuatorCommand
	Display   DisplayCommand
}

type output struct {
	actuators ActuatorCommand
	text      string
}

var outputs = map[State]output{
	Warming:  {actuators: ActuatorCommand{Green: true}, text: "Sensor warming up"},
	Good:     {actuators: ActuatorCommand{Green: true}, text: "GOOD AIR!"},
	Stuffy:   {actuators: ActuatorCommand{Yellow: true}, text: "OPEN WINDOW!"},
	Critical: {actuators: ActuatorCommand{Buzzer: AlarmIntensity}, text: "AARRGH!"},
}

// Classify returns the State of a reading. Negative values are outside of
// what a sensor can return and are treated like a sensor that is not ready.
func Classify(ppm PPM) State {
	switch {
	case ppm <= 0:
		return Warming
	case ppm <= GoodMax:
		return Good
	case ppm < CriticalMin:
		return Stuffy
	default:
		return Critical
	}
}

// CommandsFor returns the actuator and display output for state. Unknown
// states get the Warming output.
func CommandsFor(state State, ppm PPM) (ActuatorCommand, DisplayCommand) {
	o, ok := outputs[state]
	if !ok {
		state = Warming
		o = outputs[Warming]
	}
	return o.actuators, DisplayCommand{State: state, Text: o.text, PPM: ppm}
}

// Evaluate classifies ppm and derives its commands.
func Evaluate(ppm PPM) Evaluation {
	s := Classify(ppm)
	a, d := CommandsFor(s, ppm)
	return Evaluation{PPM: ppm, State: s, Actuators: a, Display: d}
}
