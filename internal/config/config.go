/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the per-user YAML configuration, applies VV_*
// environment overrides and keeps the service token in the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigVersion is bumped when the file layout changes incompatibly.
const ConfigVersion = 1

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // dark | light
}

type ServiceConfig struct {
	// BaseURL of a remote numeric service; empty computes in process.
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Listen    string `yaml:"listen"`
}

type RenderConfig struct {
	CanvasWidth       int     `yaml:"canvas_width"`
	CanvasHeight      int     `yaml:"canvas_height"`
	MinScale          float64 `yaml:"min_scale"`
	MaxScale          float64 `yaml:"max_scale"`
	FrameBudgetMs     int     `yaml:"frame_budget_ms"`
	AutofitMargin     float64 `yaml:"autofit_margin"`
	AutofitDurationMs int     `yaml:"autofit_duration_ms"`
	Animate           bool    `yaml:"animate"`
	HeadRatio         float64 `yaml:"head_ratio"`
	MinHeadLength     float64 `yaml:"min_head_length"`
	ArcRadiusFactor   float64 `yaml:"arc_radius_factor"`
	DirectionFactor   float64 `yaml:"direction_factor"`
	// FontFile is an optional TTF for labels; the built-in face is used otherwise.
	FontFile string `yaml:"font_file"`
}

type HistoryConfig struct {
	Driver     string `yaml:"driver"` // sqlite | postgres
	DSN        string `yaml:"dsn"`    // file path for sqlite; empty means <config dir>/history.db
	MaxEntries int    `yaml:"max_entries"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the user-editable configuration. The service token is not part
// of it; see Load and Save.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Service       ServiceConfig `yaml:"service"`
	Render        RenderConfig  `yaml:"render"`
	History       HistoryConfig `yaml:"history"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: ConfigVersion,
		General:       GeneralConfig{Theme: "dark"},
		Service:       ServiceConfig{TimeoutMs: 10000, Listen: ":8000"},
		Render: RenderConfig{
			CanvasWidth:       800,
			CanvasHeight:      600,
			MinScale:          0.01,
			MaxScale:          10000,
			FrameBudgetMs:     16,
			AutofitMargin:     0.2,
			AutofitDurationMs: 800,
			Animate:           true,
			HeadRatio:         0.15,
			MinHeadLength:     0.3,
			ArcRadiusFactor:   0.4,
			DirectionFactor:   0.3,
		},
		History: HistoryConfig{Driver: "sqlite", MaxEntries: 10},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Timeout is the service request timeout.
func (s ServiceConfig) Timeout() time.Duration { return time.Duration(s.TimeoutMs) * time.Millisecond }

// FrameBudget is the redraw coalescing window.
func (r RenderConfig) FrameBudget() time.Duration {
	return time.Duration(r.FrameBudgetMs) * time.Millisecond
}

// AutofitDuration is the autofit animation length.
func (r RenderConfig) AutofitDuration() time.Duration {
	return time.Duration(r.AutofitDurationMs) * time.Millisecond
}

// EnvConfigDir relocates the config directory, mostly for tests and CI.
const EnvConfigDir = "VV_CONFIG_DIR"

// Dir returns the per-user config directory.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv(EnvConfigDir)); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, "vectorviz"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// HistoryDSN resolves the history location; the sqlite default lives next to the config.
func (c AppConfig) HistoryDSN() (string, error) {
	if c.History.DSN != "" || c.History.Driver == "postgres" {
		return c.History.DSN, nil
	}
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// Load reads the config file over the defaults and applies environment
// overrides. It also returns the service token from the keyring, empty when
// none is stored. A missing file is not an error; a malformed one is.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, "", err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), "", fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, "", fmt.Errorf("read config: %w", err)
	}
	normalize(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, "", err
	}
	tok, err := LoadToken()
	if err != nil {
		return cfg, "", err
	}
	return cfg, tok, nil
}

// Save writes the config YAML and, when token is non-empty, stores it in the keyring.
func Save(cfg AppConfig, token string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	cfg.ConfigVersion = ConfigVersion
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if token != "" {
		return StoreToken(token)
	}
	return nil
}

// normalize replaces out-of-range values with defaults.
func normalize(c *AppConfig) {
	d := Defaults()
	c.General.Theme = strings.ToLower(strings.TrimSpace(c.General.Theme))
	if c.General.Theme != "light" {
		c.General.Theme = d.General.Theme
	}
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.TimeoutMs <= 0 {
		c.Service.TimeoutMs = d.Service.TimeoutMs
	}
	if strings.TrimSpace(c.Service.Listen) == "" {
		c.Service.Listen = d.Service.Listen
	}
	r, dr := &c.Render, d.Render
	if r.CanvasWidth <= 0 || r.CanvasHeight <= 0 {
		r.CanvasWidth, r.CanvasHeight = dr.CanvasWidth, dr.CanvasHeight
	}
	if r.MinScale <= 0 || r.MaxScale <= r.MinScale {
		r.MinScale, r.MaxScale = dr.MinScale, dr.MaxScale
	}
	if r.FrameBudgetMs <= 0 {
		r.FrameBudgetMs = dr.FrameBudgetMs
	}
	if r.AutofitMargin <= 0 {
		r.AutofitMargin = dr.AutofitMargin
	}
	if r.AutofitDurationMs <= 0 {
		r.AutofitDurationMs = dr.AutofitDurationMs
	}
	if r.HeadRatio <= 0 {
		r.HeadRatio = dr.HeadRatio
	}
	if r.MinHeadLength <= 0 {
		r.MinHeadLength = dr.MinHeadLength
	}
	if r.ArcRadiusFactor <= 0 {
		r.ArcRadiusFactor = dr.ArcRadiusFactor
	}
	if r.DirectionFactor <= 0 {
		r.DirectionFactor = dr.DirectionFactor
	}
	c.History.Driver = strings.ToLower(strings.TrimSpace(c.History.Driver))
	if c.History.Driver == "" {
		c.History.Driver = d.History.Driver
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
