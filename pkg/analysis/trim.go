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
	"time"

	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

type trimKey struct {
	cpuType   string
	timestamp time.Time
}

// TrimOnBenchmark removes the slowest percent of invocations per CPU type,
// and per run when groupOnTimestamp is set. Rows whose benchmark metric is
// missing are dropped.
func TrimOnBenchmark(records []common.BenchmarkRecord, groupOnTimestamp bool, benchmark string) []common.BenchmarkRecord {
	metric := MetricForBenchmark(benchmark)

	keyOf := func(record common.BenchmarkRecord) trimKey {
		key := trimKey{cpuType: record.CPUType}
		if groupOnTimestamp {
			key.timestamp = record.Timestamp.UTC()
		}
		return key
	}

	thresholds := make(map[trimKey]float64)
	for key, group := range lo.GroupBy(records, keyOf) {
		values := Values(group, metric)
		if len(values) == 0 {
			continue
		}
		thresholds[key] = Quantile(values, common.OutlierQuantile)
	}

	return lo.Filter(records, func(record common.BenchmarkRecord, _ int) bool {
		value, ok := MetricValue(&record, metric)
		if !ok {
			return false
		}
		high, ok := thresholds[keyOf(record)]
		return ok && value <= high
	})
}

// Quantile uses linear interpolation between the closest ranks, the default
// of numpy and pandas (Hyndman & Fan type 7). values does not need to be sorted.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return sortedQuantile(sorted, p)
}

func sortedQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	h := float64(len(sorted)-1) * math.Max(0, math.Min(1, p))
	lower := math.Floor(h)
	i := int(lower)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	return sorted[i] + (h-lower)*(sorted[i+1]-sorted[i])
}
