package main

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
	"github.com/vhive-serverless/hwlottery/pkg/benchlog"
	"github.com/vhive-serverless/hwlottery/pkg/chart"
	"github.com/vhive-serverless/hwlottery/pkg/common"
	"github.com/vhive-serverless/hwlottery/pkg/config"
	"github.com/vhive-serverless/hwlottery/pkg/metric"

	log "github.com/sirupsen/logrus"
)

// benchmarkGroup holds the invocations of one provider, benchmark and memory
// size. This is the unit every statistic is computed on.
type benchmarkGroup struct {
	Name      string
	Provider  string
	Benchmark string
	Metric    string
	Records   []common.BenchmarkRecord
}

func groupName(record common.BenchmarkRecord) string {
	return fmt.Sprintf("%s-%s-%d", record.Provider, record.BenchmarkType, record.MemorySizeMB)
}

func splitGroups(records []common.BenchmarkRecord) []benchmarkGroup {
	grouped := lo.GroupBy(records, groupName)

	result := make([]benchmarkGroup, 0, len(grouped))
	for name, group := range grouped {
		result = append(result, benchmarkGroup{
			Name:      name,
			Provider:  group[0].Provider,
			Benchmark: group[0].BenchmarkType,
			Metric:    analysis.MetricForBenchmark(group[0].BenchmarkType),
			Records:   group,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func prepareRecords(cfg *config.AnalyzerConfiguration) ([]common.BenchmarkRecord, error) {
	records, err := benchlog.NewDirectoryParser(cfg.DataPath).Parse()
	if err != nil {
		return nil, err
	}
	log.Infof("Parsed %d invocations from %s", len(records), cfg.DataPath)

	records = analysis.Select(records, cfg.Filter())
	log.Debugf("%d invocations match the selection", len(records))

	if cfg.Deduplicate {
		before := len(records)
		records = analysis.DeduplicateByUUID(records)
		log.Debugf("Removed %d duplicated invocations", before-len(records))
	}

	if cfg.FullLifecycleOnly {
		records = analysis.FilterFullLifecycle(records, cfg.RemoveCold)
		log.Debugf("%d invocations belong to instances with a full lifecycle", len(records))
	}

	if cfg.TrimOutliers {
		var trimmed []common.BenchmarkRecord
		for _, group := range splitGroups(records) {
			trimmed = append(trimmed, analysis.TrimOnBenchmark(group.Records, cfg.GroupOnTimestamp, group.Benchmark)...)
		}
		log.Debugf("Trimmed %d outliers", len(records)-len(trimmed))
		records = trimmed
	}

	if len(records) == 0 {
		return nil, errors.Wrapf(analysis.ErrNoData, "no invocations left in %s", cfg.DataPath)
	}

	log.Infof("Analysing %d invocations", len(records))
	return records, nil
}

func cpuTypeKey(record common.BenchmarkRecord) string {
	return record.CPUType
}

func providerKey(record common.BenchmarkRecord) string {
	return record.Provider
}

// summarise runs the per group statistics concurrently and reports them to
// the exporter.
func summarise(records []common.BenchmarkRecord, factors []string, exporter *metric.Exporter) error {
	exporter.ReportShares(analysis.CPUShare(records, providerKey))

	groups := splitGroups(records)
	workers := common.MaxOf(1, common.MinOf(len(groups), runtime.NumCPU()))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	var mutex sync.Mutex
	var failed []string

	for _, group := range groups {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(group benchmarkGroup) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := summariseGroup(group, factors, exporter); err != nil {
				log.Errorf("Failed to summarise %s: %v", group.Name, err)

				mutex.Lock()
				failed = append(failed, group.Name)
				mutex.Unlock()
			}
		}(group)
	}
	wg.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return errors.Errorf("failed to summarise %s", strings.Join(failed, ", "))
	}
	return nil
}

func summariseGroup(group benchmarkGroup, factors []string, exporter *metric.Exporter) error {
	summaries := analysis.DescribeBy(group.Records, group.Metric, cpuTypeKey)
	for i := range summaries {
		summaries[i].Group = group.Name + "/" + summaries[i].Group
	}
	exporter.ReportSummaries(summaries)

	anova, err := analysis.OneWayANOVA(analysis.GroupValues(group.Records, group.Metric, cpuTypeKey))
	switch {
	case errors.Is(err, analysis.ErrInsufficientGroups):
		log.Infof("%s: %d CPU type(s), %d observations, no ANOVA", group.Name, anova.Groups, anova.Observations)
	case err != nil:
		return err
	default:
		exporter.ReportANOVA(metric.ANOVARecord{Group: group.Name, Metric: group.Metric, ANOVAResult: anova})
		log.Infof("%s: F=%.2f p=%.3g, the CPU type explains %.1f%% of the variance",
			group.Name, anova.F, anova.PValue, 100*anova.EtaSquared)
	}

	components, err := analysis.DecomposeVariance(group.Records, group.Metric, factors)
	if err != nil {
		return err
	}
	for i := range components {
		components[i].Group = group.Name
	}
	exporter.ReportVariance(components)

	lottery, err := analysis.LotterySlowdown(group.Records, group.Metric)
	if errors.Is(err, analysis.ErrNoData) {
		log.Warnf("%s: no invocation reported %s", group.Name, group.Metric)
		return nil
	} else if err != nil {
		return err
	}
	for i := range lottery.Rows {
		lottery.Rows[i].Group = group.Name
	}
	exporter.ReportSlowdowns(lottery.Rows)

	log.Infof("%s: fastest CPU %s, expected slowdown %.3f, worst %.3f",
		group.Name, lottery.Fastest, lottery.ExpectedSlowdown, lottery.MaxSlowdown)
	return nil
}

// plotAll draws the ECDF and box plot of every group and the CPU share of
// every provider. It returns the files it wrote.
func plotAll(records []common.BenchmarkRecord, plotPath, stage string) ([]string, error) {
	var written []string

	for _, group := range splitGroups(records) {
		values := analysis.GroupValues(group.Records, group.Metric, cpuTypeKey)
		if len(values) == 0 {
			log.Warnf("%s: nothing to plot", group.Name)
			continue
		}

		ecdfPath := chart.OutputPath(plotPath, stage, group.Name+"-ecdf")
		if err := chart.PlotECDF(ecdfPath, group.Name, group.Metric, values); err != nil {
			return written, err
		}
		written = append(written, ecdfPath)

		boxPath := chart.OutputPath(plotPath, stage, group.Name+"-box")
		if err := chart.PlotBox(boxPath, group.Name, group.Metric, values); err != nil {
			return written, err
		}
		written = append(written, boxPath)
	}

	shares := lo.GroupBy(analysis.CPUShare(records, providerKey), func(row analysis.ShareRow) string { return row.Group })
	for _, provider := range lo.Keys(shares) {
		sharePath := chart.OutputPath(plotPath, stage, provider+"-cpu-share")
		if err := chart.PlotShare(sharePath, provider, shares[provider]); err != nil {
			return written, err
		}
		written = append(written, sharePath)
	}

	sort.Strings(written)
	return written, nil
}
