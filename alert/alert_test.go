// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package alert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyRanges(t *testing.T) {
	for _, tc := range []struct {
		name     string
		from, to PPM
		want     State
	}{
		{name: "warming", from: 0, to: 0, want: Warming},
		{name: "good", from: 1, to: 400, want: Good},
		{name: "stuffy", from: 401, to: 999, want: Stuffy},
		{name: "critical", from: 1000, to: 40000, want: Critical},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for ppm := tc.from; ppm <= tc.to; ppm++ {
				if got := Classify(ppm); got != tc.want {
					t.Fatalf("Classify(%d)=%s expected %s", ppm, got, tc.want)
				}
			}
		})
	}
}

// Every reading falls in exactly one range.
func TestClassifyPartition(t *testing.T) {
	ranges := []struct {
		match func(PPM) bool
		state State
	}{
		{func(p PPM) bool { return p == 0 }, Warming},
		{func(p PPM) bool { return p >= 1 && p <= 400 }, Good},
		{func(p PPM) bool { return p >= 401 && p <= 999 }, Stuffy},
		{func(p PPM) bool { return p >= 1000 }, Critical},
	}
	for ppm := PPM(0); ppm <= 5000; ppm++ {
		matches := 0
		for _, r := range ranges {
			if r.match(ppm) {
				matches++
				if got := Classify(ppm); got != r.state {
					t.Fatalf("Classify(%d)=%s expected %s", ppm, got, r.state)
				}
			}
		}
		if matches != 1 {
			t.Fatalf("%d matched %d ranges", ppm, matches)
		}
	}
}

func TestClassifyOutOfDomain(t *testing.T) {
	for _, ppm := range []PPM{-1, -1000} {
		if got := Classify(ppm); got != Warming {
			t.Errorf("Classify(%d)=%s expected %s", ppm, got, Warming)
		}
	}
	if got := Classify(PPM(1 << 30)); got != Critical {
		t.Errorf("Classify(1<<30)=%s expected %s", got, Critical)
	}
}

func TestScenarios(t *testing.T) {
	for _, tc := range []struct {
		ppm  PPM
		want Evaluation
	}{
		{
			ppm: 0,
			want: Evaluation{
				PPM:       0,
				State:     Warming,
				Actuators: ActuatorCommand{Green: true},
				Display:   DisplayCommand{State: Warming, Text: "Sensor warming up", PPM: 0},
			},
		},
		{
			ppm: 400,
			want: Evaluation{
				PPM:       400,
				State:     Good,
				Actuators: ActuatorCommand{Green: true},
				Display:   DisplayCommand{State: Good, Text: "GOOD AIR!", PPM: 400},
			},
		},
		{
			ppm: 401,
			want: Evaluation{
				PPM:       401,
				State:     Stuffy,
				Actuators: ActuatorCommand{Yellow: true},
				Display:   DisplayCommand{State: Stuffy, Text: "OPEN WINDOW!", PPM: 401},
			},
		},
		{
			ppm: 999,
			want: Evaluation{
				PPM:       999,
				State:     Stuffy,
				Actuators: ActuatorCommand{Yellow: true},
				Display:   DisplayCommand{State: Stuffy, Text: "OPEN WINDOW!", PPM: 999},
			},
		},
		{
			ppm: 1000,
			want: Evaluation{
				PPM:       1000,
				State:     Critical,
				Actuators: ActuatorCommand{Buzzer: 200},
				Display:   DisplayCommand{State: Critical, Text: "AARRGH!", PPM: 1000},
			},
		},
	} {
		t.Run(tc.ppm.String(), func(t *testing.T) {
			if diff := cmp.Diff(Evaluate(tc.ppm), tc.want); diff != "" {
				t.Errorf("Evaluate(%d) difference (-got +want):\n%s", tc.ppm, diff)
			}
		})
	}
}

func TestCommandsForIdempotent(t *testing.T) {
	for _, s := range []State{Warming, Good, Stuffy, Critical} {
		a1, d1 := CommandsFor(s, 777)
		a2, d2 := CommandsFor(s, 777)
		if diff := cmp.Diff(a1, a2); diff != "" {
			t.Errorf("%s actuators differ:\n%s", s, diff)
		}
		if diff := cmp.Diff(d1, d2); diff != "" {
			t.Errorf("%s display differs:\n%s", s, diff)
		}
	}
}

func TestIndicatorExclusive(t *testing.T) {
	for _, s := range []State{Warming, Good, Stuffy, Critical} {
		a, _ := CommandsFor(s, 500)
		lit := 0
		for _, on := range []bool{a.Red, a.Yellow, a.Green} {
			if on {
				lit++
			}
		}
		if s == Critical {
			if lit != 0 {
				t.Errorf("%s: %d indicators lit, expected none", s, lit)
			}
			if a.Buzzer == 0 {
				t.Errorf("%s: buzzer silent", s)
			}
			continue
		}
		if lit != 1 {
			t.Errorf("%s: %d indicators lit, expected 1", s, lit)
		}
		if a.Buzzer != 0 {
			t.Errorf("%s: buzzer=%d expected 0", s, a.Buzzer)
		}
	}
}

func TestCommandsForUnknownState(t *testing.T) {
	a, d := CommandsFor(State(42), 10)
	if diff := cmp.Diff(a, ActuatorCommand{Green: true}); diff != "" {
		t.Errorf("actuators difference (-got +want):\n%s", diff)
	}
	if d.State != Warming || d.Text != "Sensor warming up" {
		t.Errorf("unexpected display command %#v", d)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Warming:   "warming",
		Good:      "good",
		Stuffy:    "stuffy",
		Critical:  "critical",
		State(17): "State(17)",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String()=%q expected %q", int(s), got, want)
		}
	}
}
