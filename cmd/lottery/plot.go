package main

import (
	"github.com/spf13/cobra"

	log "github.com/sirupsen/logrus"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw ECDF, box and CPU share plots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfiguration()

		records, err := prepareRecords(&cfg)
		if err != nil {
			return err
		}

		files, err := plotAll(records, cfg.PlotPath, cfg.Stage)
		log.Infof("Wrote %d plots to %s", len(files), cfg.PlotPath)
		return err
	},
}
