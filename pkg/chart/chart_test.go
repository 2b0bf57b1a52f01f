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

package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
)

var groups = map[string][]float64{
	"Intel Xeon 2.50GHz": {101, 99, 120, 97, 110},
	"AMD EPYC 2.65GHz":   {80, 82, 79, 90},
}

func requireFile(t *testing.T, path string) {
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("plots", "a", "ecdf.png"), OutputPath("plots", "a", "ecdf"))
	assert.Equal(t, filepath.Join("plots", "all", "ecdf.png"), OutputPath("plots", "", "ecdf"))
}

func TestPlotECDF(t *testing.T) {
	path := OutputPath(t.TempDir(), "a", "aws-gemm-ecdf")
	require.NoError(t, PlotECDF(path, "aws gemm", "multiplication_time_ms", groups))
	requireFile(t, path)
}

func TestPlotBox(t *testing.T) {
	path := OutputPath(t.TempDir(), "b", "aws-gemm-box")
	require.NoError(t, PlotBox(path, "aws gemm", "multiplication_time_ms", groups))
	requireFile(t, path)
}

func TestPlotShare(t *testing.T) {
	path := OutputPath(t.TempDir(), "c", "aws-share")
	rows := []analysis.ShareRow{
		{Group: "aws", CPUType: "Intel Xeon 2.50GHz", Share: 0.7},
		{Group: "aws", CPUType: "AMD EPYC 2.65GHz", Share: 0.3},
	}
	require.NoError(t, PlotShare(path, "aws", rows))
	requireFile(t, path)
}

func TestPlotWithoutData(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, errors.Is(PlotECDF(filepath.Join(dir, "a.png"), "", "", nil), analysis.ErrNoData))
	assert.True(t, errors.Is(PlotBox(filepath.Join(dir, "b.png"), "", "", nil), analysis.ErrNoData))
	assert.True(t, errors.Is(PlotShare(filepath.Join(dir, "c.png"), "", nil), analysis.ErrNoData))
}
