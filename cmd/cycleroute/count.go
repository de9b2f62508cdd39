package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cycle_router/pkg/logger"
	"cycle_router/pkg/metrics"
	osmparser "cycle_router/pkg/osm"
)

var countCmd = &cobra.Command{
	Use:   "count <input.osm.pbf>",
	Short: "Count nodes, ways, relations and way segments in a PBF file",
	Args:  cobra.ExactArgs(1),
	Run:   runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) {
	log := logger.Get()

	f, err := os.Open(args[0])
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer f.Close()

	start := time.Now()
	counts, err := osmparser.Count(context.Background(), f, cfg.DecodeWorkers)
	if err != nil {
		exitWithError("count failed", err)
	}

	log.Info("Count complete",
		append([]zap.Field{
			zap.String("input", args[0]),
			zap.Int64("nodes", counts.Nodes),
			zap.Int64("ways", counts.Ways),
			zap.Int64("relations", counts.Relations),
			zap.Int64("segments", counts.Segments),
			zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
		}, metrics.Memory().Fields()...)...)
}
