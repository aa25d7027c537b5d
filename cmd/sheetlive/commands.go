package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajack/sheetlive"
	"github.com/javajack/sheetlive/internal/config"
	"github.com/javajack/sheetlive/internal/logging"
	"github.com/javajack/sheetlive/internal/server"
	"github.com/javajack/sheetlive/preset"
	"github.com/javajack/sheetlive/source"
	"github.com/javajack/sheetlive/surface"
)

// app is everything a command needs, built from one configuration file.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	closeLog io.Closer
	source   sheetlive.Source
	board    *surface.Board
	updater  *sheetlive.Updater
}

func build(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	src, err := source.New(cfg.SourceConfig())
	if err != nil {
		closeLog.Close()
		return nil, err
	}
	board := surface.NewBoard(cfg.Overlay.Elements...)

	u, err := sheetlive.New(cfg.UpdaterSettings(), src, board, cfg.Options(log)...)
	if err != nil {
		closeLog.Close()
		return nil, fmt.Errorf("compile settings: %w", err)
	}

	return &app{cfg: cfg, log: log, closeLog: closeLog, source: src, board: board, updater: u}, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the overlay and poll the sheet until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(configPath)
			if err != nil {
				return err
			}
			defer a.closeLog.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, issue := range checkPlan(a) {
				a.log.Warn(issue.String())
			}

			srv := server.NewServer(ctx, a.cfg.Server, a.updater, a.board, a.log)
			if a.cfg.Poll.AutoStart {
				if err := a.updater.Start(ctx); err != nil {
					return err
				}
			} else {
				a.log.Info("auto_start is off; POST /api/start to begin polling")
			}
			return srv.Run(ctx, a.cfg.Server.Addr)
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the compiled plan, the request URL and any configuration issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(configPath)
			if err != nil {
				return err
			}
			defer a.closeLog.Close()

			out := cmd.OutOrStdout()
			plan := a.updater.Plan()
			fmt.Fprint(out, plan.Describe())
			fmt.Fprintf(out, "Request: %s\n", requestTarget(a.source, plan.Range))

			issues := checkPlan(a)
			failed := false
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
				if issue.Severity == sheetlive.SeverityError {
					failed = true
				}
			}
			if failed {
				return errors.New("plan has errors")
			}
			return nil
		},
	}
}

func onceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single update cycle and print the resulting elements as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(configPath)
			if err != nil {
				return err
			}
			defer a.closeLog.Close()

			updateErr := a.updater.Update(cmd.Context())
			if errors.Is(updateErr, sheetlive.ErrFetchFailed) || errors.Is(updateErr, sheetlive.ErrDecodeFailed) {
				return updateErr
			}

			data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(a.board.Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return updateErr
		},
	}
}

func checkPlan(a *app) []sheetlive.Issue {
	plan := a.updater.Plan()
	issues := sheetlive.Validate(plan, a.updater.Registry())
	return append(issues, preset.Check(plan)...)
}

func requestTarget(src sheetlive.Source, rng sheetlive.BoundingRange) string {
	switch s := src.(type) {
	case *source.Sheets:
		return s.RedactedURL(rng)
	case *source.Feed:
		return s.URL()
	case *source.Workbook:
		return s.String() + " " + rng.String()
	}
	return rng.String()
}
