/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package app connects the vector form to the numeric service, the renderer
// and the history store. It holds no UI code; the fyne front end and the CLI
// both drive a Session.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"vectorviz/internal/calc"
	"vectorviz/internal/crash"
	"vectorviz/internal/domain"
	"vectorviz/internal/history"
	applog "vectorviz/internal/log"
	"vectorviz/internal/render"
	"vectorviz/internal/telemetry"
	"vectorviz/internal/vector"
)

// Renderer draws a result tagged with a sequence number. *render.Orchestrator
// implements it.
type Renderer interface {
	Render(seq uint64, res domain.Result) (render.Report, error)
}

// Listener receives session events. Callbacks run through Dispatch; nil
// callbacks are skipped.
type Listener struct {
	// Pending is true while at least one calculation is in flight.
	Pending func(bool)
	Result  func(Outcome)
	Error   func(error)
	History func([]history.Entry)
}

// Outcome is a completed calculation.
type Outcome struct {
	Seq    uint64
	Result domain.Result
	Report render.Report
	// Stale is set when a newer result was already on screen, so this one
	// was not drawn.
	Stale bool
}

// SessionOptions wires a Session. Computer and Renderer are required.
type SessionOptions struct {
	Computer  calc.Computer
	Renderer  Renderer
	History   history.Store
	Telemetry *telemetry.Client
	// Dispatch runs fn on the UI goroutine and returns after it ran.
	// Nil runs fn on the calling goroutine.
	Dispatch func(fn func())
	Listener Listener
	Now      func() time.Time
}

// Session runs calculations. Every request gets a sequence number; results
// are rendered last-result-wins, so a slow response never replaces a newer one.
type Session struct {
	opts     SessionOptions
	log      *slog.Logger
	seq      atomic.Uint64
	inflight atomic.Int32
}

func NewSession(opts SessionOptions) *Session {
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{opts: opts, log: applog.WithComponent("app")}
}

// Calculate validates vs, computes op and, on success, renders the result and
// records it in history. On failure the previous drawing stays untouched and
// the error is returned: a *domain.ValidationError before any service call,
// or the service error.
func (s *Session) Calculate(ctx context.Context, op domain.Operation, vs []vector.Vec2) (Outcome, error) {
	if err := domain.CheckCount(len(vs)); err != nil {
		s.fail(err)
		return Outcome{}, err
	}
	if err := domain.CheckFinite(vs); err != nil {
		s.fail(err)
		return Outcome{}, err
	}
	seq := s.seq.Add(1)
	l := applog.WithOperation(s.log, "calculate").With(slog.Uint64("seq", seq), slog.String("operation", string(op)))
	crash.Annotate("last_operation", string(op))
	crash.Annotate("last_seq", strconv.FormatUint(seq, 10))

	s.pending(+1)
	start := s.opts.Now()
	res, err := s.opts.Computer.Compute(ctx, op, vs)
	dur := s.opts.Now().Sub(start)
	s.pending(-1)
	s.opts.Telemetry.Calculation(string(op), len(vs), err == nil, dur)
	if err != nil {
		l.Warn("calculation failed", slog.Any("err", err), slog.Duration("dur", dur))
		s.fail(err)
		return Outcome{Seq: seq}, err
	}
	l.Debug("calculation done", slog.Duration("dur", dur))

	out := Outcome{Seq: seq, Result: res}
	var rerr error
	s.opts.Dispatch(func() {
		out.Report, rerr = s.opts.Renderer.Render(seq, res)
	})
	switch {
	case errors.Is(rerr, render.ErrStaleResult):
		out.Stale = true
		l.Debug("newer result already shown")
	case rerr != nil:
		return out, fmt.Errorf("render: %w", rerr)
	default:
		s.opts.Telemetry.RenderPass(string(op), out.Report.Primitives, len(out.Report.Errors), len(out.Report.Degenerate))
	}

	s.record(ctx, l, res)
	if cb := s.opts.Listener.Result; cb != nil {
		s.opts.Dispatch(func() { cb(out) })
	}
	return out, nil
}

// CalculateAsync runs Calculate on a new goroutine and reports through the
// Listener. done, if set, is called on the worker goroutine.
func (s *Session) CalculateAsync(ctx context.Context, op domain.Operation, vs []vector.Vec2, done func(Outcome, error)) {
	go func() {
		out, err := s.Calculate(ctx, op, vs)
		if done != nil {
			done(out, err)
		}
	}()
}

// Pending reports whether a calculation is in flight.
func (s *Session) Pending() bool { return s.inflight.Load() > 0 }

// History returns the stored entries, newest first; empty without a store.
func (s *Session) History(ctx context.Context) ([]history.Entry, error) {
	if s.opts.History == nil {
		return nil, nil
	}
	return s.opts.History.List(ctx)
}

// ClearHistory empties the store and notifies the listener.
func (s *Session) ClearHistory(ctx context.Context) error {
	if s.opts.History == nil {
		return nil
	}
	if err := s.opts.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if cb := s.opts.Listener.History; cb != nil {
		s.opts.Dispatch(func() { cb(nil) })
	}
	return nil
}

func (s *Session) record(ctx context.Context, l *slog.Logger, res domain.Result) {
	if s.opts.History == nil {
		return
	}
	e := history.Entry{Timestamp: s.opts.Now(), Operation: res.Operation, Inputs: res.Inputs, Result: res}
	if err := s.opts.History.Add(ctx, e); err != nil {
		// history is a convenience; the result is already on screen
		l.Warn("history add failed", slog.Any("err", err))
		return
	}
	cb := s.opts.Listener.History
	if cb == nil {
		return
	}
	entries, err := s.opts.History.List(ctx)
	if err != nil {
		l.Warn("history list failed", slog.Any("err", err))
		return
	}
	s.opts.Dispatch(func() { cb(entries) })
}

func (s *Session) pending(delta int32) {
	n := s.inflight.Add(delta)
	cb := s.opts.Listener.Pending
	if cb == nil {
		return
	}
	if (delta > 0 && n == 1) || (delta < 0 && n == 0) {
		busy := n > 0
		s.opts.Dispatch(func() { cb(busy) })
	}
}

func (s *Session) fail(err error) {
	if cb := s.opts.Listener.Error; cb != nil {
		s.opts.Dispatch(func() { cb(err) })
	}
}
