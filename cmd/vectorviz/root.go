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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	vapp "vectorviz/internal/app"
	"vectorviz/internal/calc"
	"vectorviz/internal/config"
	"vectorviz/internal/domain"
	"vectorviz/internal/export"
	"vectorviz/internal/history"
	applog "vectorviz/internal/log"
	"vectorviz/internal/render"
	"vectorviz/internal/service"
	"vectorviz/internal/telemetry"
	"vectorviz/internal/ui"
	"vectorviz/internal/version"
	"vectorviz/internal/view"
)

// EnvServiceSecret holds the token signing secret of the serve command.
const EnvServiceSecret = "VV_SERVICE_SECRET"

// cli carries the loaded configuration into the subcommands.
type cli struct {
	cfg   config.AppConfig
	token string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "vectorviz",
		Short: "2D vector calculator and plane visualizer",
		Long: `Computes sums, dot products, magnitudes and angles of 2D vectors and draws
them on a zoomable coordinate plane.

Examples:
  vectorviz calc --op sum --vectors "A=(3,4); B=(-1,2)"
  vectorviz calc --op angle --vectors "(1,0) (0,1)" --out angle.svg
  vectorviz serve --addr :8000
  vectorviz ui`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, token, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg, c.token = cfg, token
			applog.Init(applog.Options{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.Source,
				File:      cfg.Logging.File,
				Writer:    cmd.ErrOrStderr(),
			})
			tcfg := telemetry.FromEnv()
			tcfg.OptIn = tcfg.OptIn || cfg.General.TelemetryOptIn
			telemetry.SetDefault(telemetry.New(tcfg))
			telemetry.Default().Event(telemetry.EventStarted, map[string]any{"command": cmd.Name()})
			applog.WithComponent("cli").Debug("start", slog.String("command", cmd.CommandPath()))
			return nil
		},
	}
	root.AddCommand(c.calcCmd(), c.serveCmd(), c.historyCmd(), c.uiCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "vectorviz", version.String())
			return nil
		},
	}
}

type calcFlags struct {
	op      string
	vectors string
	remote  bool
	asJSON  bool
	out     string
	preset  string
	outDir  string
	width   float64
	height  float64
}

func (c *cli) calcCmd() *cobra.Command {
	f := &calcFlags{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute one operation and optionally export the drawing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runCalc(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.op, "op", "sum", "operation: sum, dot, magnitude or angle")
	fl.StringVar(&f.vectors, "vectors", "", `vectors, e.g. "A=(3,4); B=(-1,2)"`)
	fl.BoolVar(&f.remote, "remote", false, "use the configured service instead of the local calculator")
	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	fl.StringVar(&f.out, "out", "", "write the drawing to this .svg, .png or .pdf file")
	fl.StringVar(&f.preset, "preset", "", "export preset (web or print) into --out-dir")
	fl.StringVar(&f.outDir, "out-dir", ".", "directory for preset exports")
	fl.Float64Var(&f.width, "width", 0, "canvas width in pixels (config default when 0)")
	fl.Float64Var(&f.height, "height", 0, "canvas height in pixels (config default when 0)")
	_ = cmd.MarkFlagRequired("vectors")
	return cmd
}

func (c *cli) runCalc(ctx context.Context, w io.Writer, f *calcFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	op, err := domain.ParseOperation(f.op)
	if err != nil {
		return err
	}
	vs, err := vapp.ParseVectors(f.vectors)
	if err != nil {
		return err
	}

	cfg := c.cfg
	if f.width > 0 {
		cfg.Render.CanvasWidth = int(f.width)
	}
	if f.height > 0 {
		cfg.Render.CanvasHeight = int(f.height)
	}
	ropts := vapp.RenderOptions(cfg)
	// the headless drawing lands on its fitted view at once
	ropts.Animate = false
	rec := render.NewRecorder(ropts.View.Width, ropts.View.Height)
	sched := &view.ManualScheduler{}
	orch := render.New(rec, sched, ropts)

	var computer calc.Computer = calc.Local{}
	if f.remote {
		if cfg.Service.BaseURL == "" {
			return errors.New("--remote needs service.base_url or " + config.EnvServiceURL)
		}
		computer = vapp.NewComputer(cfg, c.token)
	}
	store, err := vapp.OpenHistory(ctx, cfg)
	if err != nil {
		applog.WithComponent("cli").Warn("history unavailable", slog.Any("err", err))
	} else {
		defer store.Close()
	}

	s := vapp.NewSession(vapp.SessionOptions{
		Computer:  computer,
		Renderer:  orch,
		History:   store,
		Telemetry: telemetry.Default(),
	})
	out, err := s.Calculate(ctx, op, vs)
	if err != nil {
		return err
	}
	sched.Drain(8)

	if f.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.Result); err != nil {
			return err
		}
	} else {
		for _, line := range out.Result.Lines() {
			fmt.Fprintln(w, line)
		}
		if out.Result.Detail != "" {
			fmt.Fprintln(w, out.Result.Detail)
		}
		for _, note := range out.Report.Degenerate {
			fmt.Fprintln(w, "note:", note)
		}
	}
	for _, se := range out.Report.Errors {
		fmt.Fprintln(w, "warning:", se.Error())
	}

	if f.out == "" && f.preset == "" {
		return nil
	}
	sc := export.Snapshot(rec, ropts.Theme.Background, op.Title())
	if f.out != "" {
		if err := export.WriteFile(sc, f.out); err != nil {
			return err
		}
		fmt.Fprintln(w, "wrote", f.out)
	}
	if f.preset != "" {
		paths, err := export.Batch(sc, export.BatchOptions{Preset: export.PresetName(f.preset), OutDir: f.outDir, Name: string(op)})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(w, "wrote", p)
		}
	}
	return nil
}

func (c *cli) serveCmd() *cobra.Command {
	var addr, secret, issue string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP calculation service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.cfg.Service.Listen
			}
			if issue != "" {
				if secret == "" {
					return fmt.Errorf("--issue-token needs --secret or %s", EnvServiceSecret)
				}
				tok, err := service.SignToken(secret, issue, time.Now().Add(ttl))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			}
			srv, err := service.NewServer(service.Options{Addr: addr, Secret: secret, Computer: calc.Local{}})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", "", "listen address (service.listen when empty)")
	fl.StringVar(&secret, "secret", os.Getenv(EnvServiceSecret), "token signing secret; enables bearer auth")
	fl.StringVar(&issue, "issue-token", "", "print a token for this subject and exit")
	fl.DurationVar(&ttl, "ttl", 24*time.Hour, "lifetime of an issued token")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear the calculation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := vapp.OpenHistory(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if clear {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}
			entries, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.TrimSpace(history.Summary(e)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "remove every entry")
	return cmd
}

func (c *cli) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Launch the desktop UI (build with -tags fyne)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ui.Run(c.cfg, c.token)
		},
	}
}
