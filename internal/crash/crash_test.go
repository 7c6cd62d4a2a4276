/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReportIncludesAnnotations(t *testing.T) {
	dir := t.TempDir()
	Annotate("last_operation", "angle")
	path, report, err := writeReport(dir, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report should be written to %s, got %s", dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	for _, want := range []string{"vectorviz crash report", "last_operation: angle", "Panic: boom", "stacktrace"} {
		if !strings.Contains(s, want) {
			t.Fatalf("report missing %q:\n%s", want, s)
		}
	}
	if string(report) != s {
		t.Fatalf("returned report differs from the file")
	}
}

func TestRecover_WritesReportAndExits(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	func() {
		defer Recover(dir)
		panic("render loop exploded")
	}()

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 1 || !strings.HasPrefix(files[0].Name(), "crash-") {
		t.Fatalf("expected one crash report in %s, got %v", dir, files)
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	exitFn = func(int) { t.Fatalf("exit must not be called without a panic") }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover(t.TempDir())
	}()
}
