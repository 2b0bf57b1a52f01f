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
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

// Filter selects records. Empty fields match everything.
type Filter struct {
	Stage       string
	Providers   []string
	Regions     []string
	Benchmarks  []string
	MemorySizes []int
}

func (f *Filter) Match(record *common.BenchmarkRecord) bool {
	if f.Stage != "" && record.Stage != f.Stage {
		return false
	}
	if len(f.Providers) > 0 && !lo.Contains(f.Providers, record.Provider) {
		return false
	}
	if len(f.Regions) > 0 && !lo.Contains(f.Regions, record.Region) {
		return false
	}
	if len(f.Benchmarks) > 0 && !lo.Contains(f.Benchmarks, record.BenchmarkType) {
		return false
	}
	if len(f.MemorySizes) > 0 && !lo.Contains(f.MemorySizes, record.MemorySizeMB) {
		return false
	}
	return true
}

func Select(records []common.BenchmarkRecord, filter Filter) []common.BenchmarkRecord {
	return lo.Filter(records, func(record common.BenchmarkRecord, _ int) bool {
		return filter.Match(&record)
	})
}

// FilterFullLifecycle keeps the invocations of instances that served the
// complete sequence of common.FullLifecycleInvocations requests. With
// removeCold the first invocation of every instance is dropped as well.
func FilterFullLifecycle(records []common.BenchmarkRecord, removeCold bool) []common.BenchmarkRecord {
	perInstance := lo.CountValuesBy(records, func(record common.BenchmarkRecord) string {
		return record.InstanceID
	})

	return lo.Filter(records, func(record common.BenchmarkRecord, _ int) bool {
		if perInstance[record.InstanceID] != common.FullLifecycleInvocations {
			return false
		}
		if removeCold {
			return record.InvocationCount != nil && *record.InvocationCount > 1
		}
		return true
	})
}

// DeduplicateByUUID drops repeated invocations caused by collector retries.
// Records without a UUID are always kept.
func DeduplicateByUUID(records []common.BenchmarkRecord) []common.BenchmarkRecord {
	seen := make(map[string]struct{}, len(records))

	return lo.Filter(records, func(record common.BenchmarkRecord, _ int) bool {
		if record.UUID == common.Unknown || record.UUID == "" {
			return true
		}
		if _, ok := seen[record.UUID]; ok {
			return false
		}
		seen[record.UUID] = struct{}{}
		return true
	})
}
