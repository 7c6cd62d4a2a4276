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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls a batch export of one scene.
//
// Files are written to OutDir (created if missing) as <Name>.<format>;
// raster outputs above scale 1 get an @<n>x suffix.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: svg, png, pdf; empty means preset defaults
	OutDir  string
	Name    string // base file name, "scene" if empty
	Scale   float64
	PNG     PNGOptions
}

// Batch exports sc in every format of the preset and returns the written paths.
func Batch(sc Scene, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "scene"
	}
	if opt.OutDir == "" {
		opt.OutDir = string(opt.Preset)
	}
	if err := os.MkdirAll(opt.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = presetScale(opt.Preset)
	}

	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		var out string
		var err error
		switch f {
		case "svg", "pdf":
			out = filepath.Join(opt.OutDir, name+"."+f)
			err = WriteFile(sc, out)
		case "png":
			po := opt.PNG
			po.Scale = scale
			out = filepath.Join(opt.OutDir, name+".png")
			if scale != 1 {
				out = filepath.Join(opt.OutDir, fmt.Sprintf("%s@%gx.png", name, scale))
			}
			err = writePNGFile(sc, out, po)
		default:
			return written, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
		}
		if err != nil {
			return written, fmt.Errorf("%s: %w", f, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func writePNGFile(sc Scene, path string, po PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, sc, po); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"svg", "png"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"svg"}
	}
}

func presetScale(p PresetName) float64 {
	if p == PresetPrint {
		return 2
	}
	return 1
}
