//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	vapp "vectorviz/internal/app"
	"vectorviz/internal/config"
	"vectorviz/internal/domain"
	"vectorviz/internal/export"
	"vectorviz/internal/history"
	applog "vectorviz/internal/log"
	"vectorviz/internal/render"
	"vectorviz/internal/telemetry"
	"vectorviz/internal/version"
	"vectorviz/internal/view"
)

// variantTheme pins the default fyne theme to one variant so the widgets
// match the plane colors.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

func fyneVariant(name string) fyne.ThemeVariant {
	if name == "light" {
		return theme.VariantLight
	}
	return theme.VariantDark
}

// Run opens the main window and blocks until it is closed.
func Run(cfg config.AppConfig, token string) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := fyneapp.NewWithID("vectorviz")
	a.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: fyneVariant(cfg.General.Theme)})
	w := a.NewWindow("Vector Visualizer")
	prefs := a.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	ropts := vapp.RenderOptions(cfg)
	plane := NewPlaneCanvas(ropts.View.Width, ropts.View.Height, ropts.Theme.Background)
	orch := render.New(plane.Surface(), view.TimerScheduler{Wrap: fyne.Do}, ropts)
	plane.OnResize = func(w, h float64) { orch.Controller().Resize(w, h) }

	store, err := vapp.OpenHistory(ctx, cfg)
	if err != nil {
		l.Warn("history unavailable", slog.Any("err", err))
	}

	status := widget.NewLabel("Ready")
	scaleLbl := widget.NewLabel("")
	busy := widget.NewProgressBarInfinite()
	busy.Hide()
	orch.OnViewChange(func(t view.Transform) {
		txt := fmt.Sprintf("%.2f px/unit", t.Scale)
		fyne.Do(func() { scaleLbl.SetText(txt) })
	})

	form := newVectorForm()
	resultLbl := widget.NewLabel("")
	resultLbl.Wrapping = fyne.TextWrapWord
	errLbl := widget.NewLabel("")
	errLbl.Wrapping = fyne.TextWrapWord
	errLbl.Importance = widget.DangerImportance

	var entries []history.Entry
	histList := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(history.Summary(entries[i]))
		},
	)

	var opButtons []*widget.Button
	session := vapp.NewSession(vapp.SessionOptions{
		Computer:  vapp.NewComputer(cfg, token),
		Renderer:  orch,
		History:   store,
		Telemetry: telemetry.Default(),
		Dispatch:  fyne.DoAndWait,
		Listener: vapp.Listener{
			Pending: func(p bool) {
				for _, b := range opButtons {
					if p {
						b.Disable()
					} else {
						b.Enable()
					}
				}
				if p {
					busy.Show()
					status.SetText("Calculating…")
				} else {
					busy.Hide()
					status.SetText("Ready")
				}
			},
			Result: func(out vapp.Outcome) {
				if out.Stale {
					return
				}
				errLbl.SetText("")
				resultLbl.SetText(resultText(out))
			},
			Error: func(err error) {
				errLbl.SetText(err.Error())
				var ve *domain.ValidationError
				if !errors.As(err, &ve) {
					dialog.ShowError(err, w)
				}
			},
			History: func(es []history.Entry) {
				entries = es
				histList.UnselectAll()
				histList.Refresh()
			},
		},
	})

	run := func(op domain.Operation) {
		vs, err := vapp.ValidateForm(form.rows())
		if err != nil {
			errLbl.SetText(err.Error())
			return
		}
		l.Info("calculate", slog.String("operation", string(op)), slog.Int("vectors", len(vs)))
		session.CalculateAsync(ctx, op, vs, nil)
	}
	for _, op := range domain.Operations {
		opButtons = append(opButtons, widget.NewButton(op.Title(), func() { run(op) }))
	}
	histList.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(entries) {
			return
		}
		e := entries[id]
		form.set(vapp.FormRows(e.Inputs))
		run(e.Operation)
	}

	quick := widget.NewEntry()
	quick.SetPlaceHolder("A=(3,4); B=(-1,2)")
	quick.OnSubmitted = func(s string) {
		vs, err := vapp.ParseVectors(s)
		if err != nil {
			errLbl.SetText(err.Error())
			return
		}
		errLbl.SetText("")
		form.set(vapp.FormRows(vs))
	}

	opsBox := container.NewGridWithColumns(2)
	for _, b := range opButtons {
		opsBox.Add(b)
	}
	clearHist := widget.NewButton("Clear history", func() {
		if err := session.ClearHistory(ctx); err != nil {
			dialog.ShowError(err, w)
		}
	})
	left := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Vectors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			form.box,
			container.NewGridWithColumns(2, form.addBtn, form.removeBtn),
			quick,
			opsBox,
			widget.NewLabelWithStyle("Result", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			resultLbl,
			errLbl,
			widget.NewSeparator(),
			container.NewBorder(nil, nil, widget.NewLabelWithStyle("History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), clearHist),
		),
		nil, nil, nil,
		histList,
	)

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() { orch.Back() }),
		widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() { orch.Forward() }),
		widget.NewButtonWithIcon("", theme.ZoomFitIcon(), orch.ResetView),
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { orch.Zoom(ropts.WheelZoom) }),
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { orch.Zoom(1 / ropts.WheelZoom) }),
		scaleLbl,
	)
	bottom := container.NewBorder(nil, nil, status, nil, busy)

	split := container.NewHSplit(container.NewVScroll(left), container.NewBorder(toolbar, nil, nil, nil, plane))
	split.SetOffset(0.3)
	w.SetContent(container.NewBorder(nil, bottom, nil, nil, split))

	exportItem := func(label, ext string) *fyne.MenuItem {
		return fyne.NewMenuItem(label, func() {
			save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if uc == nil {
					return
				}
				outPath := uc.URI().Path()
				_ = uc.Close()
				sc := export.Snapshot(plane.Recorder(), ropts.Theme.Background, "Vector Visualizer")
				if err := export.WriteFile(sc, outPath); err != nil {
					dialog.ShowError(err, w)
					return
				}
				l.Info("exported", slog.String("path", outPath))
				status.SetText("Exported to " + outPath)
			}, w)
			save.SetFileName("plane" + ext)
			save.SetFilter(fstorage.NewExtensionFileFilter([]string{ext}))
			save.Show()
		})
	}
	fileMenu := fyne.NewMenu("File",
		exportItem("Export SVG…", ".svg"),
		exportItem("Export PNG…", ".png"),
		exportItem("Export PDF…", ".pdf"),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Back", func() { orch.Back() }),
		fyne.NewMenuItem("Forward", func() { orch.Forward() }),
		fyne.NewMenuItem("Reset view", orch.ResetView),
		fyne.NewMenuItem("Clear drawing", orch.Clear),
	)
	aboutItem := fyne.NewMenuItem("About Vector Visualizer", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Vector Visualizer\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, fyne.NewMenu("Help", aboutItem)))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	if store != nil {
		if es, err := store.List(ctx); err == nil {
			entries = es
			histList.Refresh()
		} else {
			l.Warn("history list failed", slog.Any("err", err))
		}
	}

	w.ShowAndRun()

	if store != nil {
		if err := store.Close(); err != nil {
			l.Warn("history close failed", slog.Any("err", err))
		}
	}
	fctx, fcancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer fcancel()
	telemetry.Default().Flush(fctx)
	return nil
}

func resultText(out vapp.Outcome) string {
	lines := out.Result.Lines()
	if out.Result.Detail != "" {
		lines = append(lines, out.Result.Detail)
	}
	lines = append(lines, out.Report.Degenerate...)
	return strings.Join(lines, "\n")
}

// vectorForm is the list of x/y entry rows.
type vectorForm struct {
	box       *fyne.Container
	xs, ys    []*widget.Entry
	addBtn    *widget.Button
	removeBtn *widget.Button
}

func newVectorForm() *vectorForm {
	f := &vectorForm{box: container.NewVBox()}
	f.addBtn = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() { f.resize(len(f.xs) + 1) })
	f.removeBtn = widget.NewButtonWithIcon("Remove", theme.ContentRemoveIcon(), func() { f.resize(len(f.xs) - 1) })
	f.set([][2]string{{"3", "4"}, {"-1", "2"}})
	return f
}

func (f *vectorForm) rows() [][2]string {
	out := make([][2]string, len(f.xs))
	for i := range f.xs {
		out[i] = [2]string{f.xs[i].Text, f.ys[i].Text}
	}
	return out
}

func (f *vectorForm) set(rows [][2]string) {
	f.resize(len(rows))
	for i, r := range rows {
		f.xs[i].SetText(r[0])
		f.ys[i].SetText(r[1])
	}
}

// resize keeps between MinVectors and MaxVectors rows, preserving existing text.
func (f *vectorForm) resize(n int) {
	n = max(domain.MinVectors, min(domain.MaxVectors, n))
	for len(f.xs) < n {
		x, y := widget.NewEntry(), widget.NewEntry()
		x.SetPlaceHolder("x")
		y.SetPlaceHolder("y")
		f.xs = append(f.xs, x)
		f.ys = append(f.ys, y)
	}
	f.xs, f.ys = f.xs[:n], f.ys[:n]
	f.box.RemoveAll()
	for i := range f.xs {
		name := widget.NewLabel(domain.VectorName(i))
		name.TextStyle.Bold = true
		f.box.Add(container.NewBorder(nil, nil, name, nil, container.NewGridWithColumns(2, f.xs[i], f.ys[i])))
	}
	setEnabled(f.addBtn, n < domain.MaxVectors)
	setEnabled(f.removeBtn, n > domain.MinVectors)
}

func setEnabled(b *widget.Button, on bool) {
	if b == nil {
		return
	}
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
