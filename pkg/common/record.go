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

import (
	"strings"
	"time"
)

// FlagList is written to CSV as a single space separated column.
type FlagList []string

func (f FlagList) MarshalCSV() (string, error) {
	return strings.Join(f, " "), nil
}

func (f *FlagList) UnmarshalCSV(s string) error {
	*f = strings.Fields(s)
	return nil
}

func (f FlagList) Has(flag string) bool {
	for _, v := range f {
		if v == flag {
			return true
		}
	}
	return false
}

// BenchmarkRecord is a single benchmark invocation. Optional measurements are
// nil when the function did not report them, and stay nil when read back from
// an exported CSV.
type BenchmarkRecord struct {
	Timestamp              time.Time `csv:"timestamp"`
	Stage                  string    `csv:"stage"`
	Provider               string    `csv:"provider"`
	Region                 string    `csv:"region"`
	Function               string    `csv:"function"`
	MemorySizeMB           int       `csv:"memory_size_mb"`
	ParallelRequests       int       `csv:"parallel_requests"`
	IterationsPerBenchmark int       `csv:"iterations_per_benchmark"`
	Retries                int       `csv:"retries"`

	CPUType         string   `csv:"cpu_type"`
	CPUModelNumber  string   `csv:"cpu_model_number"`
	CPUFrequencyMHz *float64 `csv:"cpu_frequency,omitempty"`
	CPUFlags        FlagList `csv:"flags"`

	RuntimeMs          *float64 `csv:"runtime_ms,omitempty"`
	UserRuntimeMs      *float64 `csv:"user_runtime_ms,omitempty"`
	FrameworkRuntimeMs *float64 `csv:"framework_runtime_ms,omitempty"`

	ContainerID     string `csv:"container_id"`
	NewContainer    *bool  `csv:"new_container,omitempty"`
	InvocationCount *int   `csv:"invocation_count,omitempty"`
	InstanceID      string `csv:"instance_id"`
	UUID            string `csv:"uuid"`
	RequestID       string `csv:"request_id"`

	BenchmarkType        string   `csv:"benchmark_type"`
	MatrixSize           *int     `csv:"matrix_size,omitempty"`
	MultiplicationTimeMs *float64 `csv:"multiplication_time_ms,omitempty"`
	KeySize              *int     `csv:"key_size,omitempty"`
	EncryptSizeMB        *float64 `csv:"encrypt_size_mb,omitempty"`
	EncryptTimeMs        *float64 `csv:"encrypt_time_ms,omitempty"`
	CompressSizeMB       *float64 `csv:"compress_size_mb,omitempty"`
	CompressTimeMs       *float64 `csv:"compress_time_ms,omitempty"`
	HashSizeMB           *float64 `csv:"hash_size_mb,omitempty"`
	HashTimeMs           *float64 `csv:"hash_time_ms,omitempty"`
	JSONTimeMs           *float64 `csv:"json_time_ms,omitempty"`

	SourceFile string `csv:"source_file"`
}
