package main

import (
	"github.com/spf13/cobra"
	"github.com/vhive-serverless/hwlottery/pkg/common"
	"github.com/vhive-serverless/hwlottery/pkg/metric"
	"github.com/vhive-serverless/hwlottery/pkg/store"

	log "github.com/sirupsen/logrus"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the cleaned invocations to CSV and optionally to SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfiguration()

		records, err := prepareRecords(&cfg)
		if err != nil {
			return err
		}

		exporter := metric.NewExporter()
		exporter.ReportRecords(records)

		if _, err := exporter.FinishAndSave(cfg.OutputPathPrefix); err != nil {
			return err
		}

		if cfg.DatabasePath == "" {
			return nil
		}

		db, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Insert(cmd.Context(), records); err != nil {
			return err
		}

		total, err := db.Count(cmd.Context())
		if err != nil {
			return err
		}
		log.Infof("%s now holds %d invocations", cfg.DatabasePath, total)

		for _, provider := range common.KnownProviders {
			counts, err := db.CPUTypes(cmd.Context(), string(provider))
			if err != nil {
				return err
			}
			for _, count := range counts {
				log.Debugf("%s: %s served %d invocations", provider, count.CPUType, count.Invocations)
			}
		}

		return nil
	},
}
