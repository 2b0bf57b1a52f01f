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

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

// ShareRow is how often a CPU type was drawn within a group.
type ShareRow struct {
	Group         string  `csv:"group"`
	CPUType       string  `csv:"cpu_type"`
	Invocations   int     `csv:"invocations"`
	Instances     int     `csv:"instances"`
	Share         float64 `csv:"share"`
	InstanceShare float64 `csv:"instance_share"`
}

// CPUShare computes, per group, the fraction of invocations and of distinct
// instances that ran on each CPU type. Rows are ordered by group and then by
// decreasing share.
func CPUShare(records []common.BenchmarkRecord, key KeyFunc) []ShareRow {
	var result []ShareRow

	groups := lo.GroupBy(records, func(r common.BenchmarkRecord) string { return key(r) })
	names := lo.Keys(groups)
	sort.Strings(names)

	for _, name := range names {
		group := groups[name]
		totalInstances := len(lo.Uniq(lo.Map(group, func(r common.BenchmarkRecord, _ int) string { return r.InstanceID })))

		var rows []ShareRow
		for cpuType, invocations := range lo.GroupBy(group, func(r common.BenchmarkRecord) string { return r.CPUType }) {
			instances := len(lo.UniqBy(invocations, func(r common.BenchmarkRecord) string { return r.InstanceID }))
			rows = append(rows, ShareRow{
				Group:         name,
				CPUType:       cpuType,
				Invocations:   len(invocations),
				Instances:     instances,
				Share:         float64(len(invocations)) / float64(len(group)),
				InstanceShare: float64(instances) / float64(totalInstances),
			})
		}

		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Share != rows[j].Share {
				return rows[i].Share > rows[j].Share
			}
			return rows[i].CPUType < rows[j].CPUType
		})
		result = append(result, rows...)
	}

	return result
}

// SlowdownRow is the median performance of one CPU type relative to the
// fastest CPU type seen for the same benchmark.
type SlowdownRow struct {
	Group       string  `csv:"group"`
	Metric      string  `csv:"metric"`
	CPUType     string  `csv:"cpu_type"`
	Invocations int     `csv:"invocations"`
	Share       float64 `csv:"share"`
	Median      float64 `csv:"median"`
	Slowdown    float64 `csv:"slowdown"`
}

type Lottery struct {
	Rows    []SlowdownRow
	Fastest string
	// ExpectedSlowdown is the slowdown an invocation should expect when the
	// CPU is drawn with the observed shares.
	ExpectedSlowdown float64
	MaxSlowdown      float64
}

// LotterySlowdown quantifies the hardware lottery for a metric where lower
// values are better. Only records that reported the metric are considered.
func LotterySlowdown(records []common.BenchmarkRecord, metric string) (Lottery, error) {
	if !IsKnownMetric(metric) {
		return Lottery{}, errors.Wrapf(ErrUnknownMetric, "%s", metric)
	}

	groups := GroupValues(records, metric, func(r common.BenchmarkRecord) string { return r.CPUType })
	total := lo.SumBy(lo.Values(groups), func(values []float64) int { return len(values) })
	if total == 0 {
		return Lottery{}, ErrNoData
	}

	lottery := Lottery{MaxSlowdown: 1}
	fastest := math.Inf(1)
	for cpuType, values := range groups {
		median, err := stats.Median(values)
		if err != nil {
			return Lottery{}, err
		}

		lottery.Rows = append(lottery.Rows, SlowdownRow{
			Metric:      metric,
			CPUType:     cpuType,
			Invocations: len(values),
			Share:       float64(len(values)) / float64(total),
			Median:      median,
		})

		if median < fastest || (median == fastest && cpuType < lottery.Fastest) {
			fastest = median
			lottery.Fastest = cpuType
		}
	}

	sort.Slice(lottery.Rows, func(i, j int) bool {
		if lottery.Rows[i].Median != lottery.Rows[j].Median {
			return lottery.Rows[i].Median < lottery.Rows[j].Median
		}
		return lottery.Rows[i].CPUType < lottery.Rows[j].CPUType
	})

	for i := range lottery.Rows {
		row := &lottery.Rows[i]
		row.Slowdown = 1
		if fastest > 0 {
			row.Slowdown = row.Median / fastest
		}
		lottery.ExpectedSlowdown += row.Share * row.Slowdown
		lottery.MaxSlowdown = math.Max(lottery.MaxSlowdown, row.Slowdown)
	}

	return lottery, nil
}
