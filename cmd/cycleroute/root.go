package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cycle_router/pkg/config"
	"cycle_router/pkg/logger"
)

var (
	cfg     *config.Config
	cfgPath string
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "cycleroute",
	Short: "Shortest cyclable route over an OpenStreetMap extract",
	Long: `cycleroute computes the shortest route between two points using only
roads a bicycle may use, and writes it as an encoded polyline.

On first run the extract is downloaded (if missing), filtered and turned into
a graph, which is cached as two JSON files. Later runs load the cache.

Without a subcommand, cycleroute runs "route".`,
	// The configuration file may set verbose and log_file, so it is read
	// before the logger starts.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		if cfg.LogFile != "" {
			logger.InitWithFile(cfg.Verbose, cfg.LogFile)
		} else {
			logger.Init(cfg.Verbose)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runRoute,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging, JSON format (overrides config)")
	addRouteFlags(rootCmd)
}

// loadConfig returns the defaults, or the file named by --config on top of
// them, with the logging flags applied last.
func loadConfig() (*config.Config, error) {
	c := config.Default()
	if cfgPath != "" {
		var err error
		if c, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}
	if verbose {
		c.Verbose = true
	}
	if logFile != "" {
		c.LogFile = logFile
	}
	return c, nil
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	logger.Sync()
	os.Exit(1)
}
