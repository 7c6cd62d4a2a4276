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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Env var names used as overrides.
const (
	EnvServiceURL       = "VV_SERVICE_URL"
	EnvServiceTimeoutMs = "VV_SERVICE_TIMEOUT_MS"
	EnvServiceListen    = "VV_SERVICE_LISTEN"
	EnvTelemetryOptIn   = "VV_TELEMETRY_OPT_IN"
	EnvTheme            = "VV_THEME"
	EnvHistoryDriver    = "VV_HISTORY_DRIVER"
	EnvHistoryDSN       = "VV_HISTORY_DSN"
	EnvAnimate          = "VV_ANIMATE"
	EnvLogLevel         = "VV_LOG_LEVEL"
	EnvLogFormat        = "VV_LOG_FORMAT"
	EnvLogSource        = "VV_LOG_SOURCE"
	EnvLogFile          = "VV_LOG_FILE"
)

type override struct {
	env   string
	key   string
	apply func(c *AppConfig, v string) error
}

var overrides = []override{
	{EnvServiceURL, "service.base_url", func(c *AppConfig, v string) error {
		c.Service.BaseURL = strings.TrimRight(v, "/")
		return nil
	}},
	{EnvServiceTimeoutMs, "service.timeout_ms", func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("not a positive integer: %q", v)
		}
		c.Service.TimeoutMs = n
		return nil
	}},
	{EnvServiceListen, "service.listen", func(c *AppConfig, v string) error { c.Service.Listen = v; return nil }},
	{EnvTelemetryOptIn, "general.telemetry_opt_in", func(c *AppConfig, v string) error {
		c.General.TelemetryOptIn = truthy(v)
		return nil
	}},
	{EnvTheme, "general.theme", func(c *AppConfig, v string) error {
		v = strings.ToLower(v)
		if v != "dark" && v != "light" {
			return fmt.Errorf("theme must be dark or light, got %q", v)
		}
		c.General.Theme = v
		return nil
	}},
	{EnvHistoryDriver, "history.driver", func(c *AppConfig, v string) error { c.History.Driver = strings.ToLower(v); return nil }},
	{EnvHistoryDSN, "history.dsn", func(c *AppConfig, v string) error { c.History.DSN = v; return nil }},
	{EnvAnimate, "render.animate", func(c *AppConfig, v string) error { c.Render.Animate = truthy(v); return nil }},
	{EnvLogLevel, "logging.level", func(c *AppConfig, v string) error { c.Logging.Level = strings.ToLower(v); return nil }},
	{EnvLogFormat, "logging.format", func(c *AppConfig, v string) error { c.Logging.Format = strings.ToLower(v); return nil }},
	{EnvLogSource, "logging.source", func(c *AppConfig, v string) error { c.Logging.Source = truthy(v); return nil }},
	{EnvLogFile, "logging.file", func(c *AppConfig, v string) error { c.Logging.File = v; return nil }},
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(c *AppConfig) error {
	for _, o := range overrides {
		v := strings.TrimSpace(os.Getenv(o.env))
		if v == "" {
			continue
		}
		if err := o.apply(c, v); err != nil {
			return fmt.Errorf("%s: %w", o.env, err)
		}
	}
	return nil
}

// EnvOverrideFor reports the env var currently overriding a config key such
// as "service.base_url".
func EnvOverrideFor(key string) (string, bool) {
	for _, o := range overrides {
		if o.key == key && os.Getenv(o.env) != "" {
			return o.env, true
		}
	}
	return "", false
}
