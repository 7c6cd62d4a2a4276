/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

// ErrUnknownFormat is returned for an output extension with no exporter.
var ErrUnknownFormat = errors.New("export: unknown format")

// Scene is a frozen copy of what a surface shows, in device pixels.
type Scene struct {
	Width, Height float64
	Background    vector.Color
	Title         string
	// Primitives are in paint order.
	Primitives []render.Primitive
}

// Snapshot copies the current contents of rec.
func Snapshot(rec *render.Recorder, bg vector.Color, title string) Scene {
	w, h := rec.Size()
	return Scene{Width: w, Height: h, Background: bg, Title: title, Primitives: rec.Primitives()}
}

// WriteFile exports sc to path, picking the format from the extension
// (.svg, .png or .pdf). Parent directories are created.
func WriteFile(sc Scene, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		err = WriteSVG(f, sc)
	case ".png":
		err = WritePNG(f, sc, PNGOptions{})
	case ".pdf":
		err = WritePDF(f, sc)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", filepath.Base(path), cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
