/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history persists the most recent calculations. Two backends share
// one contract: an embedded SQLite file for the desktop app and PostgreSQL for
// shared deployments.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vectorviz/internal/domain"
	"vectorviz/internal/numfmt"
	"vectorviz/internal/vector"
)

// DefaultMaxEntries is how many calculations are kept.
const DefaultMaxEntries = 10

// ErrUnknownDriver is returned by Open for unsupported drivers.
var ErrUnknownDriver = errors.New("history: unknown driver")

// Entry is one recorded calculation.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Operation domain.Operation
	Inputs    []vector.Vec2
	Result    domain.Result
}

// Store keeps at most its configured number of entries, newest first.
type Store interface {
	Add(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
	Close() error
}

// Open selects a backend by driver name ("sqlite" or "postgres").
// For sqlite, dsn is a file path.
func Open(ctx context.Context, driver, dsn string, limit int) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return OpenSQLite(dsn, limit)
	case "postgres", "pgx":
		return OpenPostgres(ctx, dsn, limit)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
}

// Summary is the one-line text for the history list, e.g.
// "12:04:05 sum A(3.00, 4.00) B(-1.00, 2.00) → Vector: (2.00, 6.00)".
func Summary(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Timestamp.Local().Format("15:04:05"))
	b.WriteString(" ")
	b.WriteString(string(e.Operation))
	for i, v := range e.Inputs {
		b.WriteString(" ")
		b.WriteString(domain.VectorName(i))
		b.WriteString(numfmt.Pair(v.X, v.Y))
	}
	b.WriteString(" → ")
	b.WriteString(e.Result.Summary())
	return b.String()
}

func encodeEntry(e Entry) (inputs, result []byte, err error) {
	if inputs, err = json.Marshal(e.Inputs); err != nil {
		return nil, nil, fmt.Errorf("encode inputs: %w", err)
	}
	if result, err = json.Marshal(e.Result); err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return inputs, result, nil
}

func decodeEntry(e *Entry, inputs, result []byte) error {
	if err := json.Unmarshal(inputs, &e.Inputs); err != nil {
		return fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal(result, &e.Result); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func normalizeLimit(n int) int {
	if n <= 0 {
		return DefaultMaxEntries
	}
	return n
}
