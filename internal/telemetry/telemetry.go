/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, opt-in usage events and crash reports.
// Nothing is sent unless VV_TELEMETRY_OPT_IN is set and an endpoint is
// configured. Events never carry vector values.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "vectorviz/internal/log"
	"vectorviz/internal/version"
)

// Event names.
const (
	EventCalculation = "calculation"
	EventRenderPass  = "render_pass"
	EventStarted     = "started"
)

// Config holds runtime configuration for telemetry and crash uploads.
//
// FromEnv reads:
//   - VV_TELEMETRY_OPT_IN: 1, true, yes or on
//   - VV_TELEMETRY_URL: endpoint for JSON events
//   - VV_CRASH_UPLOAD_URL: endpoint for crash reports
//   - VV_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
//   - VV_TELEMETRY_DEBUG: log send attempts
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("VV_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("VV_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("VV_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("VV_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("VV_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil && v > 0 {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client queues events and posts them from one background goroutine.
// A full queue drops events; callers never block.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	q       chan map[string]any
	pending sync.WaitGroup
	once    sync.Once
	closed  chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process client, created from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault replaces the process client, closing the previous one.
func SetDefault(c *Client) {
	defaultMu.Lock()
	old := defaultClient
	defaultClient = c
	defaultMu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
}

// New starts a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan map[string]any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events are sent at all.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Event queues a JSON event. props must not contain user data.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	c.pending.Add(1)
	select {
	case c.q <- payload:
	default:
		c.pending.Done()
	}
}

// Calculation records one service round trip.
func (c *Client) Calculation(op string, vectors int, ok bool, dur time.Duration) {
	c.Event(EventCalculation, map[string]any{
		"operation": op,
		"vectors":   vectors,
		"ok":        ok,
		"dur_ms":    dur.Milliseconds(),
	})
}

// RenderPass records the outcome of one render pass.
func (c *Client) RenderPass(op string, primitives, stageErrors, degenerate int) {
	c.Event(EventRenderPass, map[string]any{
		"operation":    op,
		"primitives":   primitives,
		"stage_errors": stageErrors,
		"degenerate":   degenerate,
	})
}

// Flush waits until queued events were sent or ctx ends.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the background goroutine. Queued events are dropped.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.closed) })
}

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.post(c.cfg.EventsURL, "application/json", mustJSON(item), "event")
			c.pending.Done()
		}
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func (c *Client) post(url, contentType string, body []byte, what string) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.String("kind", what), slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry sent", slog.String("kind", what), slog.Int("status", resp.StatusCode))
	}
}

// UploadCrash posts a crash report synchronously; the process is about to exit.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", report, "crash")
}
