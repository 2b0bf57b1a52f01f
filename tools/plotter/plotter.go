package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
	"github.com/vhive-serverless/hwlottery/pkg/common"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	log "github.com/sirupsen/logrus"
)

// Plots how the expected lottery slowdown of every provider and benchmark
// changes with the configured memory size, from an exported records CSV.
func main() {
	var (
		inputFile  = flag.String("i", "data/out/lottery_records.csv", "Path to the exported records CSV")
		outputDir  = flag.String("o", "figs", "Path to the directory for output figures")
		debugLevel = flag.String("d", "info", "Debug level: info, debug")
	)
	flag.Parse()
	log.SetOutput(os.Stdout)

	switch *debugLevel {
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode is enabled")
	}

	records, err := readRecords(*inputFile)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Read %d invocations from %s", len(records), *inputFile)

	if err := plotFig(*outputDir, memorySweep(records)); err != nil {
		log.Fatal(err)
	}
}

func readRecords(path string) ([]common.BenchmarkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()

	var records []common.BenchmarkRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", path)
	}

	return records, nil
}

// memorySweep returns, per provider and benchmark, the expected slowdown at
// every memory size, ordered by memory size.
func memorySweep(records []common.BenchmarkRecord) map[string]plotter.XYs {
	result := make(map[string]plotter.XYs)

	series := lo.GroupBy(records, func(r common.BenchmarkRecord) string {
		return fmt.Sprintf("%s-%s", r.Provider, r.BenchmarkType)
	})
	for name, group := range series {
		metric := analysis.MetricForBenchmark(group[0].BenchmarkType)

		var pts plotter.XYs
		for memory, invocations := range lo.GroupBy(group, func(r common.BenchmarkRecord) int { return r.MemorySizeMB }) {
			lottery, err := analysis.LotterySlowdown(invocations, metric)
			if err != nil {
				log.Debugf("Skipping %s at %d MB: %v", name, memory, err)
				continue
			}
			pts = append(pts, plotter.XY{X: float64(memory), Y: lottery.ExpectedSlowdown})
		}
		if len(pts) == 0 {
			continue
		}

		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		result[name] = pts
	}

	return result
}

func plotFig(outputDir string, series map[string]plotter.XYs) error {
	if len(series) == 0 {
		return analysis.ErrNoData
	}

	if _, err := os.Stat(outputDir); errors.Is(err, os.ErrNotExist) {
		log.Info("Creating the output directory")
		if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
			return err
		}
	}

	p := plot.New()

	p.Title.Text = "Hardware lottery by memory size"
	p.X.Label.Text = "Memory size [MB]"
	p.Y.Label.Text = "Expected slowdown"
	p.Y.Min = 1

	names := lo.Keys(series)
	sort.Strings(names)

	var lines []interface{}
	for _, name := range names {
		lines = append(lines, name, series[name])
		log.Debug("Plotting ", name, series[name])
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(outputDir, "memory_sweep.png"))
}
