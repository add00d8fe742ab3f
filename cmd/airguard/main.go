// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// airguard runs the CO2 monitor: it reads the sensor, drives the indicator
// LEDs and the buzzer and shows the air quality on the display.
package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/airguard/actuator"
	"github.com/GermanBionicSystems/airguard/mhz19"
	"github.com/GermanBionicSystems/airguard/monitor"
	"github.com/GermanBionicSystems/airguard/scd4x"
	"github.com/GermanBionicSystems/airguard/statusscreen"
	"github.com/GermanBionicSystems/airguard/termscreen"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// serialTimeout bounds a single read of the MH-Z19 UART.
const serialTimeout = 100 * time.Millisecond

// Light sensor divider on the ADS1115: 3.3V full scale, sampled at most once
// per second.
const (
	lightMax  = 3300 * physic.MilliVolt
	lightRate = physic.Hertz
)

var lightChannels = []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

// hw tracks what was opened so it can be released on exit.
type hw struct {
	log     logrus.FieldLogger
	bus     i2c.BusCloser
	closers []io.Closer
}

func (h *hw) i2cBus(name string) (i2c.Bus, error) {
	if h.bus != nil {
		return h.bus, nil
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	h.bus = b
	h.closers = append(h.closers, b)
	return b, nil
}

func (h *hw) close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			h.log.WithError(err).Warn("closing")
		}
	}
}

func (h *hw) openSensor(cfg *Config) (monitor.Sensor, error) {
	switch cfg.Sensor {
	case sensorSCD4x:
		b, err := h.i2cBus(cfg.I2CBus)
		if err != nil {
			return nil, err
		}
		return scd4x.NewI2C(b, scd4x.SensorAddress)
	case sensorMHZ19:
		p, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: int(mhz19.Baud / physic.Hertz)})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.SerialPort, err)
		}
		h.closers = append(h.closers, p)
		if err := p.SetReadTimeout(serialTimeout); err != nil {
			return nil, err
		}
		return mhz19.New(mhz19.NewConn(p, cfg.SerialPort)), nil
	default:
		return mhz19.New(&mhz19.Sim{Readings: cfg.SimReadings, Interval: cfg.SimInterval}), nil
	}
}

// openLight returns the ambient light input, an ADS1115 channel on the I²C
// bus, or nil when none is configured.
func (h *hw) openLight(cfg *Config) (analog.PinADC, error) {
	if cfg.LightChannel < 0 {
		return nil, nil
	}
	b, err := h.i2cBus(cfg.I2CBus)
	if err != nil {
		return nil, err
	}
	adc, err := ads1x15.NewADS1115(b, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, err
	}
	p, err := adc.PinForChannel(lightChannels[cfg.LightChannel], lightMax, lightRate, ads1x15.BestQuality)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", adc, err)
	}
	return p, nil
}

func outPin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no pin %q", name)
	}
	return p, nil
}

// openBank looks up the pins by name. light may be nil.
func openBank(cfg *Config, light analog.PinADC) (*actuator.Bank, error) {
	pins := actuator.Pins{Light: light}
	for _, o := range []struct {
		name string
		dst  *gpio.PinOut
	}{
		{cfg.Pins.Red, &pins.Red},
		{cfg.Pins.Yellow, &pins.Yellow},
		{cfg.Pins.Green, &pins.Green},
		{cfg.Pins.Buzzer, &pins.Buzzer},
		{cfg.Pins.LeftEye, &pins.LeftEye},
		{cfg.Pins.RightEye, &pins.RightEye},
	} {
		p, err := outPin(o.name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			*o.dst = p
		}
	}
	if cfg.Pins.Arm != "" {
		p, err := outPin(cfg.Pins.Arm)
		if err != nil {
			return nil, err
		}
		pins.Arm = p
	}
	return actuator.New(&pins, &actuator.Opts{
		BuzzerFrequency: physic.Frequency(cfg.BuzzerHz) * physic.Hertz,
		EyeFrequency:    physic.Frequency(cfg.EyeHz) * physic.Hertz,
	})
}

// openDisplay returns the status canvas. The OLED is only brought up by the
// canvas Init, so a dead panel is reported during startup.
func (h *hw) openDisplay(cfg *Config) (*statusscreen.Canvas, error) {
	if cfg.Display == displayTerminal {
		term, err := termscreen.New(&termscreen.Opts{W: 128, H: 64})
		if err != nil {
			return nil, err
		}
		return statusscreen.New(term)
	}
	opts := ssd1306.DefaultOpts
	return statusscreen.NewDeferred(image.Rect(0, 0, opts.W, opts.H), func() (display.Drawer, error) {
		b, err := h.i2cBus(cfg.I2CBus)
		if err != nil {
			return nil, err
		}
		return ssd1306.NewI2C(b, &opts)
	})
}

func diagWriter(cfg *Config) io.Writer {
	switch cfg.Diag {
	case diagStdout:
		return os.Stdout
	case diagStderr:
		return os.Stderr
	default:
		return nil
	}
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func mainImpl() error {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if _, err := host.Init(); err != nil {
		return err
	}
	h := &hw{log: log}
	defer h.close()

	light, err := h.openLight(cfg)
	if err != nil {
		return fmt.Errorf("light sensor: %w", err)
	}
	bank, err := openBank(cfg, light)
	if err != nil {
		return err
	}
	sensor, err := h.openSensor(cfg)
	if err != nil {
		return fmt.Errorf("CO2 sensor: %w", err)
	}
	canvas, err := h.openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	defer canvas.Halt()
	log.WithFields(logrus.Fields{"sensor": sensor, "display": canvas, "outputs": bank}).Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := monitor.New(sensor, bank, canvas, &monitor.Opts{
		Diag:            diagWriter(cfg),
		Log:             log,
		StartAttempts:   monitor.DefaultOpts.StartAttempts,
		StartRetryDelay: monitor.DefaultOpts.StartRetryDelay,
	})
	if err := m.Startup(ctx); err != nil {
		return err
	}
	return m.Run(ctx)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "airguard: %s.\n", err)
		os.Exit(1)
	}
}
