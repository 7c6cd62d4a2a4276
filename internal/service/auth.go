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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type tokenClaims struct {
	Sub string `json:"sub"`
	Exp int64  `json:"exp"` // unix seconds
}

// SignToken issues an HMAC signed bearer token for subject valid until exp.
func SignToken(secret, subject string, exp time.Time) (string, error) {
	b, err := json.Marshal(tokenClaims{Sub: subject, Exp: exp.Unix()})
	if err != nil {
		return "", err
	}
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write(b)
	return base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

// VerifyToken checks signature and expiry at now and returns the subject.
func VerifyToken(secret, token string, now time.Time) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid token format")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid token payload")
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid token signature")
	}
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write(payload)
	if !hmac.Equal(h.Sum(nil), sig) {
		return "", fmt.Errorf("bad signature")
	}
	var c tokenClaims
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", fmt.Errorf("bad claims")
	}
	if c.Exp < now.Unix() {
		return "", fmt.Errorf("token expired")
	}
	if c.Sub == "" {
		c.Sub = "anonymous"
	}
	return c.Sub, nil
}

// withAuth guards next with a bearer token check. An empty secret disables it.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.opts.Secret == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		const prefix = "bearer "
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(auth), prefix) {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{Detail: "missing bearer token"})
			return
		}
		if _, err := VerifyToken(s.opts.Secret, strings.TrimSpace(auth[len(prefix):]), s.now()); err != nil {
			writeEnvelope(w, http.StatusUnauthorized, Envelope{Detail: "invalid token: " + err.Error()})
			return
		}
		next(w, r)
	}
}
