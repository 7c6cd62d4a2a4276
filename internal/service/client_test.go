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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
)

func TestClient_MapsFailureEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, Envelope{Success: false, Detail: "backend down"})
	}))
	defer ts.Close()
	_, err := NewClient(ts.URL, "", time.Second).Compute(context.Background(), domain.OpSum, []vector.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}})
	var se *Error
	if !errors.As(err, &se) || se.Detail != "backend down" {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()
	_, err := NewClient(ts.URL, "", time.Second).Compute(context.Background(), domain.OpDot, []vector.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}})
	var se *Error
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway || se.Detail != "boom" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	_, err := NewClient(url, "", 200*time.Millisecond).Compute(context.Background(), domain.OpSum, []vector.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}})
	var se *Error
	if err == nil || errors.As(err, &se) {
		t.Fatalf("expected a transport error, got %v", err)
	}
}
