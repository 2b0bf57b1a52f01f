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

// Package analysis computes the hardware-lottery statistics over parsed
// benchmark records: outlier trimming, lifecycle filtering, descriptive
// statistics, ECDFs and variance decomposition.
package analysis

import (
	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

var (
	ErrUnknownMetric      = errors.New("unknown metric")
	ErrUnknownFactor      = errors.New("unknown grouping factor")
	ErrInsufficientGroups = errors.New("at least two groups with residual degrees of freedom are required")
	ErrNoData             = errors.New("no observations")
)

var benchmarkMetrics = map[string]string{
	common.BenchmarkGemm:   common.MetricMultiplicationTime,
	common.BenchmarkAesCtr: common.MetricEncryptTime,
	common.BenchmarkGzip:   common.MetricCompressTime,
	common.BenchmarkSha256: common.MetricHashTime,
	common.BenchmarkJSON:   common.MetricJSONTime,
}

// MetricForBenchmark returns the column that measures the benchmark kernel
// itself, falling back to the whole function runtime.
func MetricForBenchmark(benchmarkType string) string {
	if metric, ok := benchmarkMetrics[benchmarkType]; ok {
		return metric
	}
	return common.MetricRuntime
}

func IsKnownMetric(metric string) bool {
	switch metric {
	case common.MetricRuntime, common.MetricUserRuntime, common.MetricFrameworkRuntime,
		common.MetricMultiplicationTime, common.MetricEncryptTime, common.MetricCompressTime,
		common.MetricHashTime, common.MetricJSONTime:
		return true
	}
	return false
}

// MetricValue reads a metric column of a record. The second return value is
// false when the record did not report it.
func MetricValue(record *common.BenchmarkRecord, metric string) (float64, bool) {
	var value *float64

	switch metric {
	case common.MetricRuntime:
		value = record.RuntimeMs
	case common.MetricUserRuntime:
		value = record.UserRuntimeMs
	case common.MetricFrameworkRuntime:
		value = record.FrameworkRuntimeMs
	case common.MetricMultiplicationTime:
		value = record.MultiplicationTimeMs
	case common.MetricEncryptTime:
		value = record.EncryptTimeMs
	case common.MetricCompressTime:
		value = record.CompressTimeMs
	case common.MetricHashTime:
		value = record.HashTimeMs
	case common.MetricJSONTime:
		value = record.JSONTimeMs
	}

	if value == nil {
		return 0, false
	}
	return *value, true
}

// Values collects the reported values of metric, in record order.
func Values(records []common.BenchmarkRecord, metric string) []float64 {
	result := make([]float64, 0, len(records))
	for i := range records {
		if v, ok := MetricValue(&records[i], metric); ok {
			result = append(result, v)
		}
	}
	return result
}
