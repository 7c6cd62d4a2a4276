/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
)

// Error is a failure reported by the service itself (success=false or a
// non-2xx status), as opposed to a transport error.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service: status %d", e.Status)
	}
	return fmt.Sprintf("service: %s (status %d)", e.Detail, e.Status)
}

// Client talks to a calculator Server. It implements calc.Computer.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a client. baseURL may include a trailing slash; a zero
// timeout defaults to 10s.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Compute posts the vectors to /api/<op>.
func (c *Client) Compute(ctx context.Context, op domain.Operation, vs []vector.Vec2) (domain.Result, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/"+string(op), Request{Vectors: vs}, &env); err != nil {
		return domain.Result{}, err
	}
	if !env.Success || env.Result == nil {
		return domain.Result{}, &Error{Status: http.StatusOK, Detail: env.Detail}
	}
	return *env.Result, nil
}

// Health returns nil when /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &Error{Status: resp.StatusCode, Detail: resp.Status}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env Envelope
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if json.Unmarshal(b, &env) == nil && env.Detail != "" {
			return &Error{Status: resp.StatusCode, Detail: env.Detail}
		}
		return &Error{Status: resp.StatusCode, Detail: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return &Error{Status: resp.StatusCode, Detail: "empty response"}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
