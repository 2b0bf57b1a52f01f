/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package metric collects the tables produced by an analysis run and writes
// them as CSV files.
package metric

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
	"github.com/vhive-serverless/hwlottery/pkg/common"

	log "github.com/sirupsen/logrus"
)

const (
	RecordsSuffix  = "_records.csv"
	SummarySuffix  = "_summary.csv"
	ANOVASuffix    = "_anova.csv"
	VarianceSuffix = "_variance.csv"
	ShareSuffix    = "_share.csv"
	SlowdownSuffix = "_slowdown.csv"
)

// ANOVARecord is the CPU type ANOVA of one provider/benchmark group.
type ANOVARecord struct {
	Group  string `csv:"group"`
	Metric string `csv:"metric"`
	analysis.ANOVAResult
}

type Exporter struct {
	mutex sync.Mutex

	records   []common.BenchmarkRecord
	summaries []analysis.Summary
	anovas    []ANOVARecord
	variance  []analysis.VarianceComponent
	shares    []analysis.ShareRow
	slowdowns []analysis.SlowdownRow
}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (ep *Exporter) ReportRecords(records []common.BenchmarkRecord) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.records = append(ep.records, records...)
}

func (ep *Exporter) ReportSummaries(summaries []analysis.Summary) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.summaries = append(ep.summaries, summaries...)
}

func (ep *Exporter) ReportANOVA(record ANOVARecord) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.anovas = append(ep.anovas, record)
}

func (ep *Exporter) ReportVariance(components []analysis.VarianceComponent) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.variance = append(ep.variance, components...)
}

func (ep *Exporter) ReportShares(rows []analysis.ShareRow) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.shares = append(ep.shares, rows...)
}

func (ep *Exporter) ReportSlowdowns(rows []analysis.SlowdownRow) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.slowdowns = append(ep.slowdowns, rows...)
}

func (ep *Exporter) GetRecordLen() int {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return len(ep.records)
}

// FinishAndSave writes every non-empty table to {outputPathPrefix}{suffix}
// and returns the files it created.
func (ep *Exporter) FinishAndSave(outputPathPrefix string) ([]string, error) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if dir := filepath.Dir(outputPathPrefix); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
		}
	}

	var written []string
	save := func(suffix string, rows interface{}, n int) error {
		if n == 0 {
			return nil
		}

		path := outputPathPrefix + suffix
		if err := writeCSV(path, rows); err != nil {
			return err
		}

		log.Infof("Wrote %d rows to %s", n, path)
		written = append(written, path)
		return nil
	}

	for _, table := range []struct {
		suffix string
		rows   interface{}
		n      int
	}{
		{RecordsSuffix, &ep.records, len(ep.records)},
		{SummarySuffix, &ep.summaries, len(ep.summaries)},
		{ANOVASuffix, &ep.anovas, len(ep.anovas)},
		{VarianceSuffix, &ep.variance, len(ep.variance)},
		{ShareSuffix, &ep.shares, len(ep.shares)},
		{SlowdownSuffix, &ep.slowdowns, len(ep.slowdowns)},
	} {
		if err := save(table.suffix, table.rows, table.n); err != nil {
			return written, err
		}
	}

	return written, nil
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}
