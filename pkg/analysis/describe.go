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

package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/common"
	"github.com/vhive-serverless/hwlottery/pkg/cpu"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Group  string  `csv:"group"`
	Metric string  `csv:"metric"`
	Count  int     `csv:"count"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"std"`
	CV     float64 `csv:"cv"`
	Min    float64 `csv:"min"`
	P5     float64 `csv:"p5"`
	P25    float64 `csv:"p25"`
	Median float64 `csv:"median"`
	P75    float64 `csv:"p75"`
	P95    float64 `csv:"p95"`
	P99    float64 `csv:"p99"`
	Max    float64 `csv:"max"`
}

// Describe summarises a sample. The standard deviation is the sample
// (n-1) estimate; it is NaN for a single observation.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoData
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	data := stats.Float64Data(sorted)
	median, _ := data.Median()
	min, _ := data.Min()
	max, _ := data.Max()

	mean := stat.Mean(sorted, nil)
	std := math.NaN()
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}

	cv := math.NaN()
	if mean != 0 {
		cv = std / mean
	}

	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		CV:     cv,
		Min:    min,
		P5:     sortedQuantile(sorted, 0.05),
		P25:    sortedQuantile(sorted, 0.25),
		Median: median,
		P75:    sortedQuantile(sorted, 0.75),
		P95:    sortedQuantile(sorted, 0.95),
		P99:    sortedQuantile(sorted, 0.99),
		Max:    max,
	}, nil
}

// KeyFunc assigns a record to a group.
type KeyFunc func(record common.BenchmarkRecord) string

// FactorKey returns the grouping function of a named factor.
func FactorKey(factor string) (KeyFunc, error) {
	switch factor {
	case common.FactorCPUType:
		return func(r common.BenchmarkRecord) string { return r.CPUType }, nil
	case common.FactorVendor:
		return func(r common.BenchmarkRecord) string { return cpu.Vendor(r.CPUType) }, nil
	case common.FactorRegion:
		return func(r common.BenchmarkRecord) string { return r.Region }, nil
	case common.FactorTimestamp:
		return func(r common.BenchmarkRecord) string { return r.Timestamp.UTC().Format("2006-01-02T15:04:05Z") }, nil
	case common.FactorInstance:
		return func(r common.BenchmarkRecord) string { return r.InstanceID }, nil
	case common.FactorMemory:
		return func(r common.BenchmarkRecord) string { return strconv.Itoa(r.MemorySizeMB) }, nil
	case common.FactorProvider:
		return func(r common.BenchmarkRecord) string { return r.Provider }, nil
	default:
		return nil, ErrUnknownFactor
	}
}

// KeyBy combines several factors into a single "a/b/c" group key.
func KeyBy(factors ...string) (KeyFunc, error) {
	keys := make([]KeyFunc, 0, len(factors))
	for _, factor := range factors {
		key, err := FactorKey(factor)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return func(r common.BenchmarkRecord) string {
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = key(r)
		}
		return strings.Join(parts, "/")
	}, nil
}

// GroupValues buckets the metric values of records by key. Records that did
// not report the metric are ignored.
func GroupValues(records []common.BenchmarkRecord, metric string, key KeyFunc) map[string][]float64 {
	result := make(map[string][]float64)
	for i := range records {
		if v, ok := MetricValue(&records[i], metric); ok {
			k := key(records[i])
			result[k] = append(result[k], v)
		}
	}
	return result
}

// DescribeBy returns one summary per group, sorted by group name.
func DescribeBy(records []common.BenchmarkRecord, metric string, key KeyFunc) []Summary {
	groups := GroupValues(records, metric, key)

	names := lo.Keys(groups)
	sort.Strings(names)

	result := make([]Summary, 0, len(names))
	for _, name := range names {
		summary, err := Describe(groups[name])
		if err != nil {
			continue
		}
		summary.Group = name
		summary.Metric = metric
		result = append(result, summary)
	}

	return result
}
