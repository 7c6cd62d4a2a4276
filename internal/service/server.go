/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package service exposes the calculator over HTTP and provides the matching
// client. Requests accept the legacy two-vector body {Ax, Ay, Bx, By} or an
// n-ary {"vectors": [...]} list; every response uses the same envelope.
package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"vectorviz/internal/calc"
	"vectorviz/internal/domain"
	applog "vectorviz/internal/log"
	"vectorviz/internal/vector"
	"vectorviz/internal/version"
)

//go:embed schema/request.schema.json
var requestSchema []byte

const maxBody = 1 << 20

// Options configures a Server.
type Options struct {
	Addr string // http bind address, e.g. ":8000"
	// Secret enables bearer token checks on /api routes when non-empty.
	Secret   string
	Computer calc.Computer
	Now      func() time.Time
}

// Envelope is the response body of every /api route.
type Envelope struct {
	Success bool           `json:"success"`
	Result  *domain.Result `json:"result,omitempty"`
	Detail  string         `json:"detail,omitempty"`
}

// Request is a decoded calculation body.
type Request struct {
	Ax      *float64      `json:"Ax,omitempty"`
	Ay      *float64      `json:"Ay,omitempty"`
	Bx      *float64      `json:"Bx,omitempty"`
	By      *float64      `json:"By,omitempty"`
	Vectors []vector.Vec2 `json:"vectors,omitempty"`
}

// Inputs returns the vectors in order regardless of body style.
func (r Request) Inputs() []vector.Vec2 {
	if len(r.Vectors) > 0 {
		return r.Vectors
	}
	get := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return []vector.Vec2{{X: get(r.Ax), Y: get(r.Ay)}, {X: get(r.Bx), Y: get(r.By)}}
}

// Server serves the calculator API.
type Server struct {
	opts   Options
	schema *gojsonschema.Schema
	mux    *http.ServeMux
	log    *slog.Logger
}

// NewServer compiles the request schema and registers routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = ":8000"
	}
	if opts.Computer == nil {
		opts.Computer = calc.Local{}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(requestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	s := &Server{opts: opts, schema: schema, mux: http.NewServeMux(), log: applog.WithComponent("service")}

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(version.String()))
	})
	for _, op := range domain.Operations {
		s.mux.HandleFunc("POST /api/"+string(op), s.withAuth(s.handleCompute(op)))
	}
	return s, nil
}

func (s *Server) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

// Handler returns the routed handler wrapped with CORS and access logging.
func (s *Server) Handler() http.Handler { return s.logRequests(cors(s.mux)) }

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", slog.String("addr", s.opts.Addr), slog.Bool("auth", s.opts.Secret != ""))
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleCompute(op domain.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		_ = r.Body.Close()
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, Envelope{Detail: "read body: " + err.Error()})
			return
		}
		req, err := s.decode(body)
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, Envelope{Detail: err.Error()})
			return
		}
		res, err := s.opts.Computer.Compute(r.Context(), op, req.Inputs())
		if err != nil {
			status := http.StatusInternalServerError
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				status = http.StatusBadRequest
			}
			s.log.Warn("compute failed", slog.String("op", string(op)), slog.Any("err", err))
			writeEnvelope(w, status, Envelope{Detail: err.Error()})
			return
		}
		writeEnvelope(w, http.StatusOK, Envelope{Success: true, Result: &res, Detail: res.Detail})
	}
}

// decode validates body against the schema before unmarshalling it.
func (s *Server) decode(body []byte) (Request, error) {
	var req Request
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return req, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return req, fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

// cors allows any origin, as the browser frontend of the calculator expects.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("dur", time.Since(start)))
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
