/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in main into a crash report file and a clean
// exit. Other packages annotate the report with the state they were in.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	applog "vectorviz/internal/log"
	"vectorviz/internal/telemetry"
	"vectorviz/internal/version"
)

var exitFn = os.Exit

var (
	notesMu sync.Mutex
	notes   = map[string]string{}
)

// Annotate records a key/value pair that is written into any later crash
// report, for example the last operation that was rendered.
func Annotate(key, value string) {
	notesMu.Lock()
	notes[key] = value
	notesMu.Unlock()
}

// Recover handles a panic: it logs the stack, writes crash-<stamp>.log to dir
// (the temp dir when empty), uploads it when telemetry allows and exits with
// code 2.
//
// Usage: defer crash.Recover(dir)
func Recover(dir string) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	path, report, err := writeReport(dir, r, stack)
	if err != nil {
		l.Error("write crash report", slog.Any("err", err))
	}
	telemetry.Default().UploadCrash(report)
	fmt.Fprintf(os.Stderr, "vectorviz crashed. A report was saved to: %s\nVersion: %s\nOS/Arch: %s/%s\n",
		path, version.String(), runtime.GOOS, runtime.GOARCH)
	_ = applog.Close()
	exitFn(2)
}

func writeReport(dir string, panicVal any, stack []byte) (string, []byte, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "vectorviz crash report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	notesMu.Lock()
	keys := make([]string, 0, len(notes))
	for k := range notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s: %s\n", k, notes[k])
	}
	notesMu.Unlock()
	fmt.Fprintf(&buf, "\nPanic: %v\n\nStack:\n%s\n", panicVal, stack)

	path := filepath.Join(dir, "crash-"+time.Now().Format("20060102-150405.000")+".log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, buf.Bytes(), err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, buf.Bytes(), err
	}
	return path, buf.Bytes(), nil
}
