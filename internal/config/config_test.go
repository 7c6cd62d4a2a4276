/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func setup(t *testing.T) string {
	t.Helper()
	keyring.MockInit()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	for _, o := range overrides {
		t.Setenv(o.env, "")
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	setup(t)
	cfg, tok, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "" {
		t.Fatalf("expected no token, got %q", tok)
	}
	if cfg.Render.MinScale != 0.01 || cfg.Render.MaxScale != 10000 || cfg.History.MaxEntries != 10 || !cfg.Render.Animate {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTripKeepsTokenOutOfYAML(t *testing.T) {
	dir := setup(t)
	cfg := Defaults()
	cfg.Service.BaseURL = "http://calc.local:8000/"
	cfg.General.Theme = "light"
	if err := Save(cfg, "s3cret"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) == "" || strings.Contains(string(data), "s3cret") {
		t.Fatalf("token must not be written to the config file:\n%s", data)
	}
	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "s3cret" || got.Service.BaseURL != "http://calc.local:8000" || got.General.Theme != "light" {
		t.Fatalf("round trip mismatch: %+v tok=%q", got.Service, tok)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if tok, _ := LoadToken(); tok != "" {
		t.Fatalf("token should be gone")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := setup(t)
	yml := "render:\n  canvas_width: 1024\n  max_scale: -1\nhistory:\n  driver: POSTGRES\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.CanvasWidth != 1024 || cfg.Render.CanvasHeight != 600 {
		t.Fatalf("partial render section not merged: %+v", cfg.Render)
	}
	if cfg.Render.MaxScale != 10000 || !cfg.Render.Animate {
		t.Fatalf("invalid or missing values should fall back to defaults: %+v", cfg.Render)
	}
	if cfg.History.Driver != "postgres" {
		t.Fatalf("driver should be normalized, got %q", cfg.History.Driver)
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	dir := setup(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("render: [1, 2"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Load(); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	setup(t)
	t.Setenv(EnvServiceURL, "https://example.test:8443/")
	t.Setenv(EnvTelemetryOptIn, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvAnimate, "false")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.BaseURL != "https://example.test:8443" || !cfg.General.TelemetryOptIn || cfg.Logging.Level != "debug" || cfg.Render.Animate {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if env, ok := EnvOverrideFor("service.base_url"); !ok || env != EnvServiceURL {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("history.dsn"); ok {
		t.Fatalf("history.dsn is not overridden")
	}

	t.Setenv(EnvServiceTimeoutMs, "soon")
	if _, _, err := Load(); err == nil {
		t.Fatalf("expected an error for a bad timeout")
	}
}

func TestHistoryDSNDefaultsNextToConfig(t *testing.T) {
	dir := setup(t)
	dsn, err := Defaults().HistoryDSN()
	if err != nil || dsn != filepath.Join(dir, "history.db") {
		t.Fatalf("unexpected dsn %q %v", dsn, err)
	}
}
