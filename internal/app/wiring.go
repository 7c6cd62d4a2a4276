/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package app

import (
	"context"
	"fmt"
	"log/slog"

	"vectorviz/internal/autofit"
	"vectorviz/internal/calc"
	"vectorviz/internal/config"
	"vectorviz/internal/history"
	applog "vectorviz/internal/log"
	"vectorviz/internal/render"
	"vectorviz/internal/service"
	"vectorviz/internal/textlayout"
	"vectorviz/internal/vector"
	"vectorviz/internal/view"
)

// RenderOptions maps the render and general config sections onto orchestrator options.
func RenderOptions(cfg config.AppConfig) render.Options {
	rc := cfg.Render
	o := render.DefaultOptions()
	o.View = view.Options{
		MinScale:    rc.MinScale,
		MaxScale:    rc.MaxScale,
		FrameBudget: rc.FrameBudget(),
		Width:       float64(rc.CanvasWidth),
		Height:      float64(rc.CanvasHeight),
		Initial:     view.DefaultOptions().Initial,
	}
	o.Arrow = vector.ArrowOptions{MinHeadLength: rc.MinHeadLength, HeadRatio: rc.HeadRatio, Epsilon: vector.DefaultArrowOptions().Epsilon}
	o.Arc.RadiusFactor = rc.ArcRadiusFactor
	o.DirectionFactor = rc.DirectionFactor
	o.Autofit = autofit.Options{Margin: rc.AutofitMargin}
	o.Animate = rc.Animate
	o.AutofitDuration = rc.AutofitDuration()
	o.Theme = render.ThemeByName(cfg.General.Theme)
	if rc.FontFile != "" {
		lib := textlayout.NewFontLibrary()
		if err := lib.LoadTTF(o.Font.Family, rc.FontFile); err != nil {
			applog.WithComponent("app").Warn("label font not loaded, using built-in face",
				slog.String("file", rc.FontFile), slog.Any("err", err))
		} else {
			o.Fonts = textlayout.OTProvider{Lib: lib}
		}
	}
	return o
}

// NewComputer returns the remote service client when a base URL is
// configured and the in-process calculator otherwise.
func NewComputer(cfg config.AppConfig, token string) calc.Computer {
	if cfg.Service.BaseURL == "" {
		return calc.Local{}
	}
	return service.NewClient(cfg.Service.BaseURL, token, cfg.Service.Timeout())
}

// OpenHistory opens the configured history store.
func OpenHistory(ctx context.Context, cfg config.AppConfig) (history.Store, error) {
	dsn, err := cfg.HistoryDSN()
	if err != nil {
		return nil, err
	}
	st, err := history.Open(ctx, cfg.History.Driver, dsn, cfg.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("open history (%s): %w", cfg.History.Driver, err)
	}
	return st, nil
}
