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

package common

const (
	Unknown = "unknown"

	LogFileExtension = ".log"
	// SkippedDirectoryName holds collector stdout/stderr, never benchmark output.
	SkippedDirectoryName = "logs"
)

type Provider string

const (
	AWS     Provider = "aws"
	Azure   Provider = "azure"
	GCP     Provider = "gcp"
	Alibaba Provider = "alibaba"
)

var KnownProviders = []Provider{AWS, Azure, GCP, Alibaba}

func IsKnownProvider(p string) bool {
	for _, known := range KnownProviders {
		if string(known) == p {
			return true
		}
	}
	return false
}

const (
	BenchmarkGemm   = "gemm"
	BenchmarkAesCtr = "aesCtr"
	BenchmarkGzip   = "gzip"
	BenchmarkSha256 = "sha256"
	BenchmarkJSON   = "json"
)

var BenchmarkTypes = []string{BenchmarkGemm, BenchmarkAesCtr, BenchmarkGzip, BenchmarkSha256, BenchmarkJSON}

// Metric names double as CSV column names of BenchmarkRecord.
const (
	MetricRuntime            = "runtime_ms"
	MetricUserRuntime        = "user_runtime_ms"
	MetricFrameworkRuntime   = "framework_runtime_ms"
	MetricMultiplicationTime = "multiplication_time_ms"
	MetricEncryptTime        = "encrypt_time_ms"
	MetricCompressTime       = "compress_time_ms"
	MetricHashTime           = "hash_time_ms"
	MetricJSONTime           = "json_time_ms"
)

const (
	// FullLifecycleInvocations is the number of invocations the collector
	// sends to every instance during a run.
	FullLifecycleInvocations = 4

	OutlierQuantile = 0.99
)

// Grouping factors understood by the variance decomposition.
const (
	FactorCPUType   = "cpu_type"
	FactorVendor    = "vendor"
	FactorRegion    = "region"
	FactorTimestamp = "timestamp"
	FactorInstance  = "instance_id"
	FactorMemory    = "memory_size_mb"
	FactorProvider  = "provider"
)

var DefaultFactors = []string{FactorCPUType, FactorRegion, FactorTimestamp, FactorInstance}
