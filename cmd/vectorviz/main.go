/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"vectorviz/internal/config"
	"vectorviz/internal/crash"
	applog "vectorviz/internal/log"
	"vectorviz/internal/telemetry"
)

func main() {
	defer crash.Recover(crashDir())
	code := 0
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		code = 1
	}
	telemetry.Default().Close()
	_ = applog.Close()
	if code != 0 {
		os.Exit(code)
	}
}

// crashDir keeps reports next to the config; the temp dir is the fallback.
func crashDir() string {
	d, err := config.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(d, "crash")
}
