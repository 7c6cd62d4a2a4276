/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger. Console output is a
// compact column format for humans; the optional rotating file gets JSON.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"vectorviz/internal/version"
)

// Options controls logger initialization. FromEnv fills it from
//   - VV_LOG_LEVEL=debug|info|warn|error
//   - VV_LOG_FORMAT=console|json
//   - VV_LOG_FILE=<path> (rotated JSON file in addition to the console)
//   - VV_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string
	AddSource bool
	File      string
	// Writer replaces stderr for the console handler.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	rotator *lj.Logger
)

// L returns the application logger, initializing it from the environment on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init replaces the application logger and slog's default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		console = &consoleHandler{level: lvl, source: opts.AddSource, w: out, mu: &sync.Mutex{}}
	}

	var rot *lj.Logger
	h := console
	if f := strings.TrimSpace(opts.File); f != "" {
		rot = &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = fanout{console, slog.NewJSONHandler(rot, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})}
	}

	l := slog.New(h).With(
		slog.String("app", "vectorviz"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	mu.Lock()
	old := rotator
	current, rotator = l, rot
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	slog.SetDefault(l)
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	r := rotator
	rotator = nil
	mu.Unlock()
	if r == nil {
		return nil
	}
	return r.Close()
}

// FromEnv reads Options from VV_LOG_* variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("VV_LOG_LEVEL", "info"),
		Format:    getenv("VV_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("VV_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("VV_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger tagged with the owning package.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates l with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// fanout sends every record to each handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// consoleHandler prints one line per record:
//
//	15:04:05.000 INF [render] render pass seq=3 primitives=41
//
// The component attribute is pulled into the bracket column; the static
// app/ver/ts_init attributes are omitted.
type consoleHandler struct {
	level     slog.Level
	source    bool
	w         io.Writer
	mu        *sync.Mutex
	component string
	prefix    string
	attrs     []string
}

var quietKeys = map[string]bool{"app": true, "ver": true, "ts_init": true}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	if h.component != "" {
		b.WriteString(" [")
		b.WriteString(h.component)
		b.WriteByte(']')
	}
	if r.Message != "" {
		b.WriteByte(' ')
		b.WriteString(r.Message)
	}
	for _, a := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	if h.source && r.PC != 0 {
		if src := recordSource(r); src != nil {
			b.WriteString(" src=")
			b.WriteString(src.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(src.Line))
		}
	}
	b.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]string(nil), h.attrs...)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == "component" {
			nh.component = a.Value.String()
			continue
		}
		if h.prefix == "" && quietKeys[a.Key] {
			continue
		}
		var b strings.Builder
		appendAttr(&b, h.prefix, a)
		if s := strings.TrimPrefix(b.String(), " "); s != "" {
			nh.attrs = append(nh.attrs, s)
		}
	}
	return &nh
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(valueString(v))
}

func levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DBG"
	case l < slog.LevelWarn:
		return "INF"
	case l < slog.LevelError:
		return "WRN"
	}
	return "ERR"
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	}
	s := v.String()
	if strings.ContainsAny(s, " \t\n") {
		return strconv.Quote(s)
	}
	return s
}

// recordSource resolves the call site of r. Record.Source only exists on
// newer toolchains, older ones go through the program counter.
func recordSource(r slog.Record) *slog.Source {
	if rs, ok := any(r).(interface{ Source() *slog.Source }); ok {
		return rs.Source()
	}
	f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if f.File == "" {
		return nil
	}
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}
