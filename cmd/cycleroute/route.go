package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cycle_router/pkg/config"
	"cycle_router/pkg/logger"
	"cycle_router/pkg/pipeline"
)

var (
	sourceNode int64
	goalNode   int64
	resultPath string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Compute the route and write the polyline result file",
	RunE:  runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	addRouteFlags(routeCmd)
}

func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&sourceNode, "source", 0, "Source OSM node id (overrides config)")
	cmd.Flags().Int64Var(&goalNode, "goal", 0, "Goal OSM node id (overrides config)")
	cmd.Flags().StringVarP(&resultPath, "output", "o", "", "Result file (overrides config)")
}

func runRoute(cmd *cobra.Command, args []string) error {
	log := logger.Get()

	if sourceNode != 0 {
		cfg.Source = config.Endpoint{Node: sourceNode}
	}
	if goalNode != 0 {
		cfg.Goal = config.Endpoint{Node: goalNode}
	}
	if resultPath != "" {
		cfg.ResultPath = resultPath
	}
	if err := cfg.Validate(); err != nil {
		exitWithError("invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting route computation",
		zap.Stringer("source", cfg.Source),
		zap.Stringer("goal", cfg.Goal),
		zap.String("result", cfg.ResultPath),
	)

	summary, err := pipeline.Run(ctx, cfg)
	if err != nil {
		exitWithError("route computation failed", err)
	}

	log.Info("Done",
		zap.Int64("source", int64(summary.Source)),
		zap.Int64("goal", int64(summary.Goal)),
		zap.Float64("km", float64(summary.DistanceMM)/1e6),
		zap.Int("route_nodes", summary.RouteNodes),
		zap.Duration("elapsed", summary.Elapsed.Round(time.Millisecond)),
	)
	return nil
}
