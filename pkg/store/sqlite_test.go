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

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

func TestInsertAndQuery(t *testing.T) {
	ctx := context.Background()

	s, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer s.Close()

	record := func(provider, cpuType string) common.BenchmarkRecord {
		return common.BenchmarkRecord{
			Timestamp:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Provider:        provider,
			Region:          "us-east-1",
			CPUType:         cpuType,
			CPUFlags:        common.FlagList{"fpu"},
			RuntimeMs:       common.Float64(12),
			InvocationCount: common.Int(1),
			BenchmarkType:   common.BenchmarkGemm,
		}
	}

	require.NoError(t, s.Insert(ctx, []common.BenchmarkRecord{
		record("aws", "Intel Xeon 2.50GHz"),
		record("aws", "AMD EPYC 2.65GHz"),
		record("aws", "AMD EPYC 2.65GHz"),
		record("gcp", "Model 85 (Intel)"),
	}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	cpus, err := s.CPUTypes(ctx, "aws")
	require.NoError(t, err)
	assert.Equal(t, []CPUCount{
		{CPUType: "AMD EPYC 2.65GHz", Invocations: 2},
		{CPUType: "Intel Xeon 2.50GHz", Invocations: 1},
	}, cpus)

	cpus, err = s.CPUTypes(ctx, "azure")
	require.NoError(t, err)
	assert.Empty(t, cpus)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Insert(context.Background(), []common.BenchmarkRecord{{Provider: "aws"}}))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	n, err := second.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
