package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vhive-serverless/hwlottery/pkg/config"

	log "github.com/sirupsen/logrus"
)

var (
	configPath string
	verbosity  string
	stage      string
)

var rootCmd = &cobra.Command{
	Use:   "lottery",
	Short: "Analyse the CPU hardware lottery of FaaS benchmark logs",
	Long: `lottery parses the benchmark logs collected from AWS Lambda, Azure Functions,
Google Cloud Functions and Alibaba Function Compute, and quantifies how much
the CPU an invocation lands on changes its performance.

  lottery export  --config cmd/config.json
  lottery summary --config cmd/config.json --stage b
  lottery plot    --config cmd/config.json`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cmd/config.json", "Path to analyzer configuration file")
	rootCmd.PersistentFlags().StringVar(&verbosity, "verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
	rootCmd.PersistentFlags().StringVar(&stage, "stage", "", "Only analyse this stage (a, b or c), overrides the configuration")

	rootCmd.AddCommand(exportCmd, summaryCmd, plotCmd)
}

func initLogging() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func readConfiguration() config.AnalyzerConfiguration {
	cfg := config.ReadConfigurationFile(configPath)
	if stage != "" {
		cfg.Stage = stage
	}

	log.Debugf("Configuration: %+v", cfg)
	return cfg
}
