package main

import (
	"github.com/spf13/cobra"
	"github.com/vhive-serverless/hwlottery/pkg/metric"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Describe, ANOVA and lottery slowdown per provider and benchmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfiguration()

		records, err := prepareRecords(&cfg)
		if err != nil {
			return err
		}

		exporter := metric.NewExporter()
		if err := summarise(records, cfg.Factors, exporter); err != nil {
			return err
		}

		_, err = exporter.FinishAndSave(cfg.OutputPathPrefix)
		return err
	},
}
