// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "airguard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*cfg, defaultConfig()); diff != "" {
		t.Errorf("defaults difference (-got +want):\n%s", diff)
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{"-sensor", "sim", "-display", "terminal", "-diag", "stderr", "-left-eye", ""})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sensor != sensorSim || cfg.Display != displayTerminal || cfg.Diag != diagStderr || cfg.Pins.LeftEye != "" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
sensor: mhz19
serial_port: /dev/ttyUSB0
buzzer_hz: 2000
sim_interval: 500ms
light_channel: 1
pins:
  red: GPIO5
  arm: ""
`)
	cfg, err := parseConfig([]string{"-config", path, "-serial", "/dev/ttyAMA0"})
	if err != nil {
		t.Fatal(err)
	}
	want := defaultConfig()
	want.File = path
	want.LogLevel = "debug"
	want.Sensor = sensorMHZ19
	want.SerialPort = "/dev/ttyAMA0"
	want.BuzzerHz = 2000
	want.SimInterval = 500 * time.Millisecond
	want.LightChannel = 1
	want.Pins.Red = "GPIO5"
	want.Pins.Arm = ""
	if diff := cmp.Diff(*cfg, want); diff != "" {
		t.Errorf("config difference (-got +want):\n%s", diff)
	}
}

func TestParseConfigErrors(t *testing.T) {
	data := []struct {
		name string
		args []string
	}{
		{"level", []string{"-log-level", "loud"}},
		{"sensor", []string{"-sensor", "bme280"}},
		{"display", []string{"-display", "hd44780"}},
		{"diag", []string{"-diag", "/tmp/x"}},
		{"stdout", []string{"-diag", "stdout", "-display", "terminal"}},
		{"frequency", []string{"-buzzer-hz", "0"}},
		{"pins", []string{"-red", ""}},
		{"light", []string{"-light-channel", "4"}},
		{"interval", []string{"-sensor", "sim", "-sim-interval", "-1s"}},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			if _, err := parseConfig(line.args); !errors.Is(err, errConfig) {
				t.Errorf("parseConfig(%q) expected errConfig, received %v", line.args, err)
			}
		})
	}
	if _, err := parseConfig([]string{"extra"}); err == nil {
		t.Error("parseConfig() with a positional argument expected error")
	}
	if _, err := parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("parseConfig() with a missing file expected error")
	}
	if _, err := parseConfig([]string{"-config", writeConfig(t, "sensor: [")}); err == nil {
		t.Error("parseConfig() with bad YAML expected error")
	}
	if _, err := parseConfig([]string{"-config", writeConfig(t, "sensor: sim\nsim_readings: []\n")}); !errors.Is(err, errConfig) {
		t.Errorf("parseConfig() with no sim readings expected errConfig, received %v", err)
	}
}
