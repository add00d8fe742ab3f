// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Pins names the GPIO lines as known to gpioreg.
type Pins struct {
	Red      string `yaml:"red"`
	Yellow   string `yaml:"yellow"`
	Green    string `yaml:"green"`
	Buzzer   string `yaml:"buzzer"`
	LeftEye  string `yaml:"left_eye"`
	RightEye string `yaml:"right_eye"`
	Arm      string `yaml:"arm"`
}

// Config is the runtime configuration. Values are taken from the defaults,
// then the YAML file, then the command line.
type Config struct {
	File string `yaml:"-"`

	LogLevel    string        `yaml:"log_level"`
	Sensor      string        `yaml:"sensor"`
	I2CBus      string        `yaml:"i2c_bus"`
	SerialPort  string        `yaml:"serial_port"`
	SimReadings []int         `yaml:"sim_readings"`
	SimInterval time.Duration `yaml:"sim_interval"`
	Display     string        `yaml:"display"`
	Diag        string        `yaml:"diag"`
	BuzzerHz    int           `yaml:"buzzer_hz"`
	EyeHz       int           `yaml:"eye_hz"`
	Pins        Pins          `yaml:"pins"`

	// LightChannel is the ADS1115 input of the light sensor, -1 for none.
	LightChannel int `yaml:"light_channel"`
}

const (
	sensorSCD4x = "scd4x"
	sensorMHZ19 = "mhz19"
	sensorSim   = "sim"

	displaySSD1306  = "ssd1306"
	displayTerminal = "terminal"

	diagNone   = ""
	diagStdout = "stdout"
	diagStderr = "stderr"
)

func defaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Sensor:       sensorSCD4x,
		SerialPort:   "/dev/serial0",
		SimReadings:  []int{0, 0, 380, 650, 1200, 800, 400},
		SimInterval:  2 * time.Second,
		Display:      displaySSD1306,
		BuzzerHz:     5000,
		EyeHz:        5000,
		LightChannel: -1,
		Pins: Pins{
			Red:      "GPIO33",
			Yellow:   "GPIO25",
			Green:    "GPIO26",
			Buzzer:   "GPIO32",
			LeftEye:  "GPIO23",
			RightEye: "GPIO19",
			Arm:      "GPIO35",
		},
	}
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("airguard", flag.ContinueOnError)
	fs.StringVar(&cfg.File, "config", cfg.File, "YAML configuration file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Sensor, "sensor", cfg.Sensor, "CO2 sensor: scd4x, mhz19 or sim")
	fs.StringVar(&cfg.I2CBus, "i2c", cfg.I2CBus, "I²C bus to use, empty for the first one")
	fs.StringVar(&cfg.SerialPort, "serial", cfg.SerialPort, "UART of the mhz19 sensor")
	fs.DurationVar(&cfg.SimInterval, "sim-interval", cfg.SimInterval, "delay of every simulated reading")
	fs.StringVar(&cfg.Display, "display", cfg.Display, "display: ssd1306 or terminal")
	fs.StringVar(&cfg.Diag, "diag", cfg.Diag, "print raw readings to stdout or stderr")
	fs.IntVar(&cfg.BuzzerHz, "buzzer-hz", cfg.BuzzerHz, "buzzer PWM frequency")
	fs.IntVar(&cfg.EyeHz, "eye-hz", cfg.EyeHz, "eyes PWM frequency")
	fs.StringVar(&cfg.Pins.Red, "red", cfg.Pins.Red, "red indicator pin")
	fs.StringVar(&cfg.Pins.Yellow, "yellow", cfg.Pins.Yellow, "yellow indicator pin")
	fs.StringVar(&cfg.Pins.Green, "green", cfg.Pins.Green, "green indicator pin")
	fs.StringVar(&cfg.Pins.Buzzer, "buzzer", cfg.Pins.Buzzer, "buzzer pin")
	fs.StringVar(&cfg.Pins.LeftEye, "left-eye", cfg.Pins.LeftEye, "left eye pin, empty when absent")
	fs.StringVar(&cfg.Pins.RightEye, "right-eye", cfg.Pins.RightEye, "right eye pin, empty when absent")
	fs.IntVar(&cfg.LightChannel, "light-channel", cfg.LightChannel, "ADS1115 channel of the light sensor, -1 when absent")
	fs.StringVar(&cfg.Pins.Arm, "arm", cfg.Pins.Arm, "arm button pin, empty when absent")
	return fs
}

// parseConfig builds the Config from the command line arguments.
func parseConfig(args []string) (*Config, error) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	if cfg.File != "" {
		if err := cfg.load(cfg.File); err != nil {
			return nil, err
		}
		// Flags win over the file.
		if err := newFlagSet(&cfg).Parse(args); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

var errConfig = errors.New("invalid configuration")

func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", errConfig, err)
	}
	switch c.Sensor {
	case sensorSCD4x, sensorMHZ19:
	case sensorSim:
		if len(c.SimReadings) == 0 {
			return fmt.Errorf("%w: sim sensor needs sim_readings", errConfig)
		}
		if c.SimInterval < 0 {
			return fmt.Errorf("%w: negative sim_interval", errConfig)
		}
	default:
		return fmt.Errorf("%w: unknown sensor %q", errConfig, c.Sensor)
	}
	switch c.Display {
	case displaySSD1306, displayTerminal:
	default:
		return fmt.Errorf("%w: unknown display %q", errConfig, c.Display)
	}
	switch c.Diag {
	case diagNone, diagStdout, diagStderr:
	default:
		return fmt.Errorf("%w: unknown diag output %q", errConfig, c.Diag)
	}
	if c.Diag == diagStdout && c.Display == displayTerminal {
		return fmt.Errorf("%w: diag and the terminal display both write to stdout", errConfig)
	}
	if c.LightChannel < -1 || c.LightChannel > 3 {
		return fmt.Errorf("%w: light channel %d not in -1..3", errConfig, c.LightChannel)
	}
	if c.BuzzerHz <= 0 || c.EyeHz <= 0 {
		return fmt.Errorf("%w: PWM frequencies must be positive", errConfig)
	}
	p := c.Pins
	if p.Red == "" || p.Yellow == "" || p.Green == "" || p.Buzzer == "" {
		return fmt.Errorf("%w: indicator and buzzer pins are required", errConfig)
	}
	return nil
}
