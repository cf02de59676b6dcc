/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	houseplanner "github.com/Nick-Sullivan/house-planner"
	"github.com/Nick-Sullivan/house-planner/api"
	"github.com/Nick-Sullivan/house-planner/config"
	"github.com/Nick-Sullivan/house-planner/planner"
	"github.com/Nick-Sullivan/house-planner/seed"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "House planner - commute accessibility scoring",
	Long: `The house planner scores every tile of a city against commute requirements
and combines several requirements into one map of where a household can live.`,
	Version:      houseplanner.Version,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := loadApp(ctx)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              app.Config.HTTP.Addr,
			Handler:           api.NewServer(app.Planner, app.Store, app.Registry, app.Logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			app.Logger.Info("listening", "addr", srv.Addr, "backend", app.Config.Backend)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if stderrors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		app.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [request.json]",
	Short: "Score a requirement read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var req planner.RequirementRequest
		if err := json.NewDecoder(in).Decode(&req); err != nil {
			return fmt.Errorf("failed to parse requirement: %w", err)
		}

		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		item, err := app.Planner.ScoreRequirement(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), item.MapTiles)
	},
}

var (
	mapCity string
	mapIDs  []string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Combine stored requirements into a composite map",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(mapIDs))
		for _, raw := range mapIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid requirement id %q: %w", raw, err)
			}
			ids = append(ids, id)
		}

		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		composite, err := app.Planner.Aggregate(cmd.Context(), mapCity, ids)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), composite)
	},
}

var (
	seedDistances string
	seedHouses    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load spatial distance and house CSV files into the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		loader := seed.NewLoader(app.Store, app.Logger)
		if seedDistances != "" {
			n, err := loader.SpatialDistancesFile(cmd.Context(), seedDistances)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d spatial distances\n", n)
		}
		if seedHouses != "" {
			n, err := loader.HousesFile(cmd.Context(), seedHouses)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d houses\n", n)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := houseplanner.GetVersionInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "House planner %s\n", info.Version)
		if info.GitCommit != "unknown" {
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
		}
		if info.BuildDate != "unknown" {
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
		}
		fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	mapCmd.Flags().StringVar(&mapCity, "city", "", "city code")
	mapCmd.Flags().StringSliceVar(&mapIDs, "id", nil, "requirement id (repeatable)")
	_ = mapCmd.MarkFlagRequired("city")

	seedCmd.Flags().StringVar(&seedDistances, "distances", "", "spatial distances CSV")
	seedCmd.Flags().StringVar(&seedHouses, "houses", "", "houses CSV")

	rootCmd.AddCommand(serveCmd, scoreCmd, mapCmd, seedCmd, versionCmd)
}

func loadApp(ctx context.Context) (*houseplanner.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return houseplanner.NewApp(ctx, cfg, logger)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
