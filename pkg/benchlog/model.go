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

package benchlog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// The benchmark functions are written in different runtimes and not all of
// them agree on whether numbers are quoted, so the wire types accept both.
// Optional values that are null, empty or unparsable stay unset instead of
// failing the whole invocation line.

type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s, ok := unquote(data)
	if !ok {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Debugf("Ignoring invalid number %s", data)
		return nil
	}

	f.value, f.valid = v, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.valid {
		return nil
	}
	v := f.value
	return &v
}

type flexInt struct {
	value int
	valid bool
}

func (i *flexInt) UnmarshalJSON(data []byte) error {
	s, ok := unquote(data)
	if !ok {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Debugf("Ignoring invalid integer %s", data)
		return nil
	}

	i.value, i.valid = int(v), true
	return nil
}

func (i flexInt) ptr() *int {
	if !i.valid {
		return nil
	}
	v := i.value
	return &v
}

func (i flexInt) or(fallback int) int {
	if !i.valid {
		return fallback
	}
	return i.value
}

type flexBool struct {
	value bool
	valid bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s, ok := unquote(data)
	if !ok {
		return nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		log.Debugf("Ignoring invalid boolean %s", data)
		return nil
	}

	b.value, b.valid = v, true
	return nil
}

func (b flexBool) ptr() *bool {
	if !b.valid {
		return nil
	}
	v := b.value
	return &v
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	v, _ := unquote(data)
	*s = flexString(v)
	return nil
}

func (s *flexString) or(fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return string(*s)
}

// flexList accepts either a JSON array or a space separated string.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			log.Debugf("Ignoring invalid flag list %s", data)
			return nil
		}
		*l = values
		return nil
	}

	s, _ := unquote(data)
	*l = strings.Fields(s)
	return nil
}

// unquote returns the text of a scalar JSON value. The second return value
// is false for null and empty values.
func unquote(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", false
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	return string(data), len(data) > 0
}

// metadata is the first line of every benchmark log.
type metadata struct {
	Timestamp              string  `json:"timestamp"`
	Provider               string  `json:"provider"`
	Region                 string  `json:"region"`
	Function               string  `json:"function"`
	MemorySize             flexInt `json:"memorySize"`
	ParallelRequests       flexInt `json:"parallel-requests"`
	IterationsPerBenchmark flexInt `json:"iterationsPerBenchmark"`
	Retries                flexInt `json:"retries"`
}

type invocation struct {
	Body   *invocationBody       `json:"body"`
	Header map[string]flexString `json:"header"`
}

type invocationBody struct {
	Benchmark benchmarkResult `json:"benchmark"`

	CPUType         flexString  `json:"cpuType"`
	CPUModel        *flexString `json:"cpuModel"`
	CPUFrequencyMHz flexFloat   `json:"cpuFrequencyMHz"`
	CPUFlags        flexList    `json:"cpuFlags"`

	Runtime          flexFloat `json:"runtime"`
	UserRuntime      flexFloat `json:"userRuntime"`
	FrameworkRuntime flexFloat `json:"frameworkRuntime"`

	ContainerID     *flexString `json:"containerID"`
	NewContainer    flexBool    `json:"newcontainer"`
	InvocationCount flexInt     `json:"invocationCount"`
	InstanceID      *flexString `json:"instanceId"`
	UUID            *flexString `json:"uuid"`
}

type benchmarkResult struct {
	Type flexString `json:"type"`

	MatrixSize           flexInt   `json:"matrixSize"`
	MultiplicationTimeMs flexFloat `json:"multiplicationTimeMs"`

	KeySize       flexInt   `json:"keySize"`
	EncryptSizeMB flexFloat `json:"encryptSizeMB"`
	EncryptTimeMs flexFloat `json:"encryptTimeMs"`

	CompressSizeMB flexFloat `json:"compressSizeMB"`
	CompressTimeMs flexFloat `json:"compressTimeMS"`

	HashSizeMB flexFloat `json:"hashSizeMB"`
	HashTimeMs flexFloat `json:"hashTimeMs"`

	JSONTimeMs flexFloat `json:"jsonTimeMs"`
}

// Header carrying the provider's own request identifier.
var requestIDHeaders = map[string]string{
	"aws":     "aws-request-id",
	"azure":   "azure-invocation-id",
	"gcp":     "function-execution-id",
	"alibaba": "ali-request-id",
}
