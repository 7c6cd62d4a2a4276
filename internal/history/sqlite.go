/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vectorviz/internal/domain"
	applog "vectorviz/internal/log"
	"vectorviz/internal/version"
)

const schemaVersion = 1

// SQLiteStore keeps history in a local SQLite file.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	limit int
	log   *slog.Logger
}

// OpenSQLite opens or creates the history database at path. A file that
// fails the integrity check is moved aside and recreated.
func OpenSQLite(path string, limit int) (*SQLiteStore, error) {
	l := applog.WithOperation(applog.WithComponent("history"), "sqlite_open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := openSQLiteDB(path)
	if err == nil && !healthy(db) {
		_ = db.Close()
		err = errors.New("integrity check failed")
	}
	if err != nil {
		l.Warn("history database unusable; recreating", slog.Any("err", err))
		backupFile(path)
		_ = os.Remove(path)
		if db, err = openSQLiteDB(path); err != nil {
			l.Error("sqlite open failed", slog.Any("err", err))
			return nil, err
		}
	}
	l.Debug("history ready")
	return &SQLiteStore{db: db, path: path, limit: normalizeLimit(limit), log: applog.WithComponent("history")}, nil
}

func openSQLiteDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			operation  TEXT NOT NULL,
			inputs     TEXT NOT NULL,
			result     TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func healthy(db *sql.DB) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(chk), "ok")
}

// backupFile copies path into a timestamped .bak next to it.
func backupFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	stamp := time.Now().Format("20060102-150405")
	_ = os.WriteFile(fmt.Sprintf("%s.%s.bak", path, stamp), data, 0o644)
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Add(ctx context.Context, e Entry) error {
	inputs, result, err := encodeEntry(e)
	if err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO history (created_at, operation, inputs, result) VALUES(?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), string(e.Operation), string(inputs), string(result)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`, s.limit); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("trim history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("history add", slog.String("op", string(e.Operation)))
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, operation, inputs, result FROM history ORDER BY id DESC LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.log.Warn("rows close", slog.Any("err", err))
		}
	}()
	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			ts, op         string
			inputs, result string
		)
		if err := rows.Scan(&e.ID, &ts, &op, &inputs, &result); err != nil {
			return nil, err
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		e.Operation = domain.Operation(op)
		if err := decodeEntry(&e, []byte(inputs), []byte(result)); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
