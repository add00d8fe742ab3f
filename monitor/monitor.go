// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/GermanBionicSystems/airguard/alert"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/analog"
)

// Sensor is the CO2 source. scd4x.Dev and mhz19.Dev implement it.
type Sensor interface {
	Start() error
	EnableAutoCalibration() error
	// ReadCO2 returns the concentration in ppm, 0 while warming up.
	ReadCO2() (int, error)
}

// Actuators is the output bank. actuator.Bank implements it.
type Actuators interface {
	Configure() error
	SetIndicators(red, yellow, green bool) error
	SetBuzzer(intensity uint8) error
	SetEyes(intensity uint8) error
	Apply(c alert.ActuatorCommand) error
	AmbientLight() (analog.Sample, error)
	Halt() error
}

// Display is the page based status screen. statusscreen.Canvas implements
// it.
type Display interface {
	Init() error
	BeginFrame()
	Render(c alert.DisplayCommand) error
	// Notice draws free text lines, used for startup failures.
	Notice(lines ...string) error
	EndFrame() error
}

// Opts holds the optional settings of a Monitor.
type Opts struct {
	// Diag receives the raw reading of every iteration as a decimal line.
	// Nil disables it.
	Diag io.Writer
	// Log defaults to the logrus standard logger.
	Log logrus.FieldLogger
	// StartAttempts is the number of tries to get an answer from the sensor.
	StartAttempts int
	// StartRetryDelay is the pause between two tries.
	StartRetryDelay time.Duration
}

// DefaultOpts are the settings used when New is passed nil.
var DefaultOpts = Opts{
	StartAttempts:   3,
	StartRetryDelay: 500 * time.Millisecond,
}

// Monitor owns the hardware handles and runs the control loop.
type Monitor struct {
	sensor    Sensor
	actuators Actuators
	display   Display
	diag      io.Writer
	log       logrus.FieldLogger
	opts      Opts

	// sleep blocks for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Monitor. Nothing is done to the hardware until Startup.
func New(s Sensor, a Actuators, d Display, opts *Opts) *Monitor {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.StartAttempts <= 0 {
		o.StartAttempts = 1
	}
	l := o.Log
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Monitor{
		sensor:    s,
		actuators: a,
		display:   d,
		diag:      o.Diag,
		log:       l,
		opts:      o,
		sleep:     sleepContext,
	}
}

// Startup configures the outputs, initializes the display, starts the sensor
// with automatic self calibration and plays the self test.
//
// When the display or the sensor cannot be brought up, the matching
// indicator blinks (red for the display, yellow for the sensor) before the
// error is returned. A sensor failure is also written on the display.
func (m *Monitor) Startup(ctx context.Context) error {
	if err := m.actuators.Configure(); err != nil {
		return fmt.Errorf("monitor: configure outputs: %w", err)
	}
	if err := m.display.Init(); err != nil {
		m.log.WithError(err).Error("display not responding")
		m.blinkFailure(ctx, redOnly)
		return fmt.Errorf("monitor: display init: %w", err)
	}
	if err := m.startSensor(ctx); err != nil {
		m.log.WithError(err).Error("CO2 sensor not responding")
		m.notice("CO2 sensor", "not responding")
		m.blinkFailure(ctx, yellowOnly)
		return err
	}
	if err := m.sensor.EnableAutoCalibration(); err != nil {
		// Calibration is the sensor's business. Keep going.
		m.log.WithError(err).Warn("enabling automatic self calibration failed")
	}
	m.log.Info("hardware ready, running self test")
	return m.SelfTest(ctx)
}

// notice shows lines on the display. Failures are only logged.
func (m *Monitor) notice(lines ...string) {
	m.display.BeginFrame()
	err := m.display.Notice(lines...)
	if err == nil {
		err = m.display.EndFrame()
	}
	if err != nil {
		m.log.WithError(err).Warn("showing notice failed")
	}
}

func (m *Monitor) startSensor(ctx context.Context) error {
	var err error
	for i := 0; i < m.opts.StartAttempts; i++ {
		if i != 0 {
			if serr := m.sleep(ctx, m.opts.StartRetryDelay); serr != nil {
				return serr
			}
		}
		if err = m.sensor.Start(); err == nil {
			return nil
		}
		m.log.WithError(err).WithField("attempt", i+1).Debug("sensor not responding")
	}
	return fmt.Errorf("monitor: CO2 sensor not responding: %w", err)
}

// Step runs one iteration of the loop and returns what it derived from the
// reading. It never fails: a sensor error is reported as a 0 reading, output
// errors are logged.
func (m *Monitor) Step() alert.Evaluation {
	raw, err := m.sensor.ReadCO2()
	if err != nil {
		m.log.WithError(err).Warn("reading CO2 failed")
		raw = 0
	}
	if m.diag != nil {
		_, _ = fmt.Fprintf(m.diag, "%d\n", raw)
	}
	fields := logrus.Fields{"ppm": raw}
	if light, err := m.actuators.AmbientLight(); err == nil {
		fields["light"] = light.Raw
	}

	ev := alert.Evaluate(alert.PPM(raw))
	fields["state"] = ev.State.String()
	m.log.WithFields(fields).Debug("reading")

	if err := m.actuators.Apply(ev.Actuators); err != nil {
		m.log.WithError(err).Error("applying outputs failed")
	}
	m.display.BeginFrame()
	if err := m.display.Render(ev.Display); err != nil {
		m.log.WithError(err).Error("rendering status failed")
	}
	if err := m.display.EndFrame(); err != nil {
		m.log.WithError(err).Error("pushing frame failed")
	}
	return ev
}

// Run loops over Step until ctx is canceled, then switches the outputs off.
func (m *Monitor) Run(ctx context.Context) error {
	var last alert.State = -1
	for ctx.Err() == nil {
		ev := m.Step()
		if ev.State != last {
			m.log.WithFields(logrus.Fields{"ppm": int(ev.PPM), "state": ev.State.String()}).Info("air quality changed")
			last = ev.State
		}
	}
	m.log.Info("stopping")
	return m.actuators.Halt()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
