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
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

var (
	runA = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	runB = time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
)

func gemmRecord(cpuType, instance string, invocation int, value float64) common.BenchmarkRecord {
	return common.BenchmarkRecord{
		Timestamp:            runA,
		Provider:             "aws",
		Region:               "us-east-1",
		MemorySizeMB:         1024,
		CPUType:              cpuType,
		InstanceID:           instance,
		UUID:                 common.Unknown,
		InvocationCount:      common.Int(invocation),
		BenchmarkType:        common.BenchmarkGemm,
		MultiplicationTimeMs: common.Float64(value),
		RuntimeMs:            common.Float64(value + 5),
	}
}

func TestMetricForBenchmark(t *testing.T) {
	assert.Equal(t, common.MetricMultiplicationTime, MetricForBenchmark("gemm"))
	assert.Equal(t, common.MetricEncryptTime, MetricForBenchmark("aesCtr"))
	assert.Equal(t, common.MetricCompressTime, MetricForBenchmark("gzip"))
	assert.Equal(t, common.MetricHashTime, MetricForBenchmark("sha256"))
	assert.Equal(t, common.MetricJSONTime, MetricForBenchmark("json"))
	assert.Equal(t, common.MetricRuntime, MetricForBenchmark("fibonacci"))
}

func TestMetricValue(t *testing.T) {
	record := gemmRecord("Intel", "i-1", 1, 10)

	v, ok := MetricValue(&record, common.MetricMultiplicationTime)
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)

	_, ok = MetricValue(&record, common.MetricHashTime)
	assert.False(t, ok)

	_, ok = MetricValue(&record, "latency")
	assert.False(t, ok)
	assert.False(t, IsKnownMetric("latency"))
	assert.True(t, IsKnownMetric(common.MetricJSONTime))
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.0, Quantile(values, 0), 1e-12)
	assert.InDelta(t, 4.0, Quantile(values, 1), 1e-12)
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-12)
	assert.InDelta(t, 3.97, Quantile(values, 0.99), 1e-12)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	// Input order is preserved.
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestTrimOnBenchmark(t *testing.T) {
	var records []common.BenchmarkRecord
	for i := 1; i <= 100; i++ {
		records = append(records, gemmRecord("Intel", fmt.Sprintf("i-%d", i), 1, float64(i)))
	}
	records = append(records, gemmRecord("AMD", "a-1", 1, 1000))
	records = append(records, common.BenchmarkRecord{CPUType: "Intel", BenchmarkType: common.BenchmarkGemm})

	trimmed := TrimOnBenchmark(records, false, common.BenchmarkGemm)

	// The 0.99 quantile of 1..100 is 99.01, so only 100 goes. A single AMD
	// observation is its own quantile and stays, the record without a
	// measurement is dropped.
	require.Len(t, trimmed, 100)
	assert.Equal(t, 1.0, *trimmed[0].MultiplicationTimeMs)
	assert.Equal(t, 99.0, *trimmed[98].MultiplicationTimeMs)
	assert.Equal(t, "AMD", trimmed[99].CPUType)
}

func TestTrimOnBenchmarkPerTimestamp(t *testing.T) {
	var records []common.BenchmarkRecord
	for i := 1; i <= 10; i++ {
		records = append(records, gemmRecord("Intel", "i", 1, float64(i)))

		late := gemmRecord("Intel", "i", 1, float64(100+i))
		late.Timestamp = runB
		records = append(records, late)
	}

	assert.Len(t, TrimOnBenchmark(records, true, common.BenchmarkGemm), 18)

	// Pooled across runs the first run keeps all its rows.
	pooled := TrimOnBenchmark(records, false, common.BenchmarkGemm)
	assert.Len(t, pooled, 19)
}

func TestFilterFullLifecycle(t *testing.T) {
	var records []common.BenchmarkRecord
	for i := 1; i <= 4; i++ {
		records = append(records, gemmRecord("Intel", "complete", i, 10))
	}
	for i := 1; i <= 3; i++ {
		records = append(records, gemmRecord("Intel", "partial", i, 10))
	}
	for i := 1; i <= 5; i++ {
		records = append(records, gemmRecord("Intel", "extra", i, 10))
	}

	full := FilterFullLifecycle(records, false)
	require.Len(t, full, 4)
	for _, record := range full {
		assert.Equal(t, "complete", record.InstanceID)
	}

	warm := FilterFullLifecycle(records, true)
	require.Len(t, warm, 3)
	for _, record := range warm {
		assert.Greater(t, *record.InvocationCount, 1)
	}
}

func TestFilterFullLifecycleWithoutCounter(t *testing.T) {
	var records []common.BenchmarkRecord
	for i := 0; i < 4; i++ {
		record := gemmRecord("Intel", "i", 0, 10)
		record.InvocationCount = nil
		records = append(records, record)
	}

	assert.Len(t, FilterFullLifecycle(records, false), 4)
	assert.Empty(t, FilterFullLifecycle(records, true))
}

func TestDeduplicateByUUID(t *testing.T) {
	a := gemmRecord("Intel", "i", 1, 10)
	a.UUID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	retry := a
	retry.Retries = 1
	b := gemmRecord("Intel", "i", 2, 10)
	c := gemmRecord("Intel", "i", 3, 10)

	result := DeduplicateByUUID([]common.BenchmarkRecord{a, retry, b, c})
	require.Len(t, result, 3)
	assert.Equal(t, 0, result[0].Retries)
}

func TestSelect(t *testing.T) {
	a := gemmRecord("Intel", "i", 1, 10)
	b := gemmRecord("Intel", "i", 1, 10)
	b.Provider = "gcp"
	b.MemorySizeMB = 2048
	c := gemmRecord("Intel", "i", 1, 10)
	c.BenchmarkType = common.BenchmarkSha256
	c.Stage = "b"

	records := []common.BenchmarkRecord{a, b, c}

	assert.Len(t, Select(records, Filter{}), 3)
	assert.Len(t, Select(records, Filter{Providers: []string{"aws"}}), 2)
	assert.Len(t, Select(records, Filter{MemorySizes: []int{2048}}), 1)
	assert.Len(t, Select(records, Filter{Benchmarks: []string{"gemm"}, Regions: []string{"us-east-1"}}), 2)
	assert.Len(t, Select(records, Filter{Stage: "b"}), 1)
	assert.Empty(t, Select(records, Filter{Regions: []string{"eu-west-1"}}))
}

func TestDescribe(t *testing.T) {
	summary, err := Describe([]float64{5, 1, 4, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Count)
	assert.InDelta(t, 3.0, summary.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), summary.StdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5)/3, summary.CV, 1e-12)
	assert.Equal(t, 1.0, summary.Min)
	assert.InDelta(t, 1.2, summary.P5, 1e-12)
	assert.InDelta(t, 2.0, summary.P25, 1e-12)
	assert.Equal(t, 3.0, summary.Median)
	assert.InDelta(t, 4.0, summary.P75, 1e-12)
	assert.InDelta(t, 4.96, summary.P99, 1e-12)
	assert.Equal(t, 5.0, summary.Max)

	single, err := Describe([]float64{7})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(single.StdDev))

	_, err = Describe(nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestDescribeBy(t *testing.T) {
	records := []common.BenchmarkRecord{
		gemmRecord("Intel", "i", 1, 10),
		gemmRecord("Intel", "i", 2, 20),
		gemmRecord("AMD", "a", 1, 5),
	}

	key, err := FactorKey(common.FactorCPUType)
	require.NoError(t, err)

	summaries := DescribeBy(records, common.MetricMultiplicationTime, key)
	require.Len(t, summaries, 2)
	assert.Equal(t, "AMD", summaries[0].Group)
	assert.Equal(t, 1, summaries[0].Count)
	assert.Equal(t, "Intel", summaries[1].Group)
	assert.InDelta(t, 15.0, summaries[1].Mean, 1e-12)
	assert.Equal(t, common.MetricMultiplicationTime, summaries[1].Metric)
}

func TestKeyBy(t *testing.T) {
	key, err := KeyBy(common.FactorProvider, common.FactorRegion, common.FactorMemory)
	require.NoError(t, err)
	assert.Equal(t, "aws/us-east-1/1024", key(gemmRecord("Intel", "i", 1, 1)))

	vendor, err := FactorKey(common.FactorVendor)
	require.NoError(t, err)
	assert.Equal(t, "AMD", vendor(gemmRecord("AMD EPYC 2.65GHz", "i", 1, 1)))

	timestamp, err := FactorKey(common.FactorTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T10:00:00Z", timestamp(gemmRecord("Intel", "i", 1, 1)))

	_, err = KeyBy(common.FactorCPUType, "colour")
	assert.True(t, errors.Is(err, ErrUnknownFactor))
}

func TestECDF(t *testing.T) {
	ecdf := NewECDF([]float64{3, 1, 2, 2})

	assert.Equal(t, []float64{1, 2, 2, 3}, ecdf.X)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, ecdf.Y)
	assert.Equal(t, 4, ecdf.Len())

	assert.Equal(t, 0.0, ecdf.At(0.5))
	assert.Equal(t, 0.25, ecdf.At(1))
	assert.Equal(t, 0.75, ecdf.At(2.5))
	assert.Equal(t, 1.0, ecdf.At(10))

	assert.Equal(t, 0.0, NewECDF(nil).At(1))
}

func TestOneWayANOVA(t *testing.T) {
	// Group means 2, 5 and 8 around a grand mean of 5: SSB = 54, SSW = 6.
	result, err := OneWayANOVA(map[string][]float64{
		"a": {1, 2, 3},
		"b": {4, 5, 6},
		"c": {7, 8, 9},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Groups)
	assert.Equal(t, 9, result.Observations)
	assert.InDelta(t, 54.0, result.SSBetween, 1e-9)
	assert.InDelta(t, 6.0, result.SSWithin, 1e-9)
	assert.Equal(t, 2, result.DFBetween)
	assert.Equal(t, 6, result.DFWithin)
	assert.InDelta(t, 27.0, result.F, 1e-9)
	assert.InDelta(t, 0.000999, result.PValue, 1e-5)
	assert.InDelta(t, 0.9, result.EtaSquared, 1e-9)
	assert.InDelta(t, (54.0-2*1.0)/(60.0+1.0), result.OmegaSquared, 1e-9)
}

func TestOneWayANOVAEdgeCases(t *testing.T) {
	_, err := OneWayANOVA(map[string][]float64{"a": {1, 2, 3}})
	assert.True(t, errors.Is(err, ErrInsufficientGroups))

	_, err = OneWayANOVA(map[string][]float64{"a": {1}, "b": {2}})
	assert.True(t, errors.Is(err, ErrInsufficientGroups))

	_, err = OneWayANOVA(map[string][]float64{"a": {1, 2}, "b": {}})
	assert.True(t, errors.Is(err, ErrInsufficientGroups))

	same, err := OneWayANOVA(map[string][]float64{"a": {1, 1}, "b": {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, same.F)
	assert.Equal(t, 1.0, same.PValue)
	assert.Equal(t, 0.0, same.EtaSquared)

	separated, err := OneWayANOVA(map[string][]float64{"a": {1, 1}, "b": {2, 2}})
	require.NoError(t, err)
	assert.True(t, math.IsInf(separated.F, 1))
	assert.Equal(t, 0.0, separated.PValue)
	assert.Equal(t, 1.0, separated.EtaSquared)
}

func TestDecomposeVariance(t *testing.T) {
	var records []common.BenchmarkRecord
	for i := 0; i < 5; i++ {
		records = append(records, gemmRecord("Intel", fmt.Sprintf("i-%d", i), 1, 100+float64(i)))
		records = append(records, gemmRecord("AMD", fmt.Sprintf("a-%d", i), 1, 50+float64(i)))
	}

	components, err := DecomposeVariance(records, common.MetricMultiplicationTime,
		[]string{common.FactorCPUType, common.FactorRegion, common.FactorVendor})
	require.NoError(t, err)

	// Region has a single level and is left out.
	require.Len(t, components, 2)
	assert.Equal(t, common.FactorCPUType, components[0].Factor)
	assert.Greater(t, components[0].EtaSquared, 0.95)
	assert.Less(t, components[0].PValue, 0.001)
	assert.Equal(t, common.FactorVendor, components[1].Factor)

	_, err = DecomposeVariance(records, "latency", []string{common.FactorCPUType})
	assert.True(t, errors.Is(err, ErrUnknownMetric))

	_, err = DecomposeVariance(records, common.MetricRuntime, []string{"colour"})
	assert.True(t, errors.Is(err, ErrUnknownFactor))
}

func TestCPUShare(t *testing.T) {
	records := []common.BenchmarkRecord{
		gemmRecord("Intel", "i-1", 1, 10),
		gemmRecord("Intel", "i-1", 2, 10),
		gemmRecord("Intel", "i-2", 1, 10),
		gemmRecord("AMD", "a-1", 1, 10),
	}
	other := gemmRecord("AMD", "a-9", 1, 10)
	other.Region = "eu-west-1"
	records = append(records, other)

	key, err := FactorKey(common.FactorRegion)
	require.NoError(t, err)

	rows := CPUShare(records, key)
	require.Len(t, rows, 3)

	assert.Equal(t, ShareRow{Group: "eu-west-1", CPUType: "AMD", Invocations: 1, Instances: 1, Share: 1, InstanceShare: 1}, rows[0])
	assert.Equal(t, "us-east-1", rows[1].Group)
	assert.Equal(t, "Intel", rows[1].CPUType)
	assert.InDelta(t, 0.75, rows[1].Share, 1e-12)
	assert.Equal(t, 2, rows[1].Instances)
	assert.InDelta(t, 2.0/3, rows[1].InstanceShare, 1e-12)
	assert.Equal(t, "AMD", rows[2].CPUType)
	assert.InDelta(t, 0.25, rows[2].Share, 1e-12)
}

func TestLotterySlowdown(t *testing.T) {
	records := []common.BenchmarkRecord{
		gemmRecord("Fast", "f", 1, 10),
		gemmRecord("Fast", "f", 2, 10),
		gemmRecord("Fast", "f", 3, 10),
		gemmRecord("Slow", "s", 1, 20),
	}

	lottery, err := LotterySlowdown(records, common.MetricMultiplicationTime)
	require.NoError(t, err)

	assert.Equal(t, "Fast", lottery.Fastest)
	require.Len(t, lottery.Rows, 2)
	assert.Equal(t, "Fast", lottery.Rows[0].CPUType)
	assert.Equal(t, 1.0, lottery.Rows[0].Slowdown)
	assert.Equal(t, "Slow", lottery.Rows[1].CPUType)
	assert.Equal(t, 2.0, lottery.Rows[1].Slowdown)
	assert.InDelta(t, 0.25, lottery.Rows[1].Share, 1e-12)
	assert.InDelta(t, 1.25, lottery.ExpectedSlowdown, 1e-12)
	assert.Equal(t, 2.0, lottery.MaxSlowdown)

	_, err = LotterySlowdown(records, common.MetricHashTime)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = LotterySlowdown(records, "latency")
	assert.True(t, errors.Is(err, ErrUnknownMetric))
}
