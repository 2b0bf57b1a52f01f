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

// Package benchlog turns the raw benchmark logs written by the collector into
// flat benchmark records.
package benchlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/vhive-serverless/hwlottery/pkg/common"
	"github.com/vhive-serverless/hwlottery/pkg/cpu"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidMetadata    = errors.New("invalid metadata line")
	ErrUnrecognisedLayout = errors.New("path does not follow the benchmark data layout")
)

// Invocation lines embed the full cpuinfo flag list and can get long.
var maxLineSize = 16 * 1024 * 1024

// Timestamps written by the collectors. The layouts without an offset are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type Parser interface {
	Parse() ([]common.BenchmarkRecord, error)
}

type FileParser struct {
	Path string
}

func NewFileParser(path string) *FileParser {
	return &FileParser{Path: path}
}

func (p *FileParser) Parse() ([]common.BenchmarkRecord, error) {
	return ParseLogFile(p.Path)
}

// ParseLogFile reads one benchmark log. The first line holds the run
// metadata, every following line one invocation. Lines that are not valid
// JSON are skipped. When the file is stored in the data/stage_x layout, its
// stage is recorded and the path supplies the provider, region and memory
// size the metadata line leaves out.
func ParseLogFile(path string) ([]common.BenchmarkRecord, error) {
	layout, err := ParseLogPath(path)
	if err != nil {
		log.Tracef("No layout information for %s: %v", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open benchmark log %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		return nil, nil
	}

	base, err := parseMetadata(scanner.Bytes(), layout)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	base.SourceFile = path

	provider := base.Provider
	if !common.IsKnownProvider(provider) {
		log.Warnf("Unknown provider '%s' in %s", provider, path)
	}

	var records []common.BenchmarkRecord
	lineNumber := 1
	for scanner.Scan() {
		lineNumber++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var inv invocation
		if err := json.Unmarshal(line, &inv); err != nil {
			log.Debugf("Skipping invalid JSON on line %d of %s: %v", lineNumber, path, err)
			continue
		}

		if inv.Body == nil {
			log.Warnf("Error parsing line %d in %s: missing body", lineNumber, path)
			continue
		}

		records = append(records, newRecord(base, provider, &inv))
	}

	if err := scanner.Err(); err != nil {
		return records, errors.Wrapf(err, "failed to read %s", path)
	}

	log.Debugf("Parsed %d records from %s", len(records), path)

	return records, nil
}

func parseMetadata(line []byte, layout LogPath) (common.BenchmarkRecord, error) {
	var meta metadata
	if err := json.Unmarshal(line, &meta); err != nil {
		return common.BenchmarkRecord{}, errors.Wrap(ErrInvalidMetadata, err.Error())
	}

	timestamp, err := parseTimestamp(meta.Timestamp)
	if err != nil {
		return common.BenchmarkRecord{}, errors.Wrap(ErrInvalidMetadata, err.Error())
	}

	provider, _ := lo.Coalesce(strings.TrimSpace(meta.Provider), layout.Platform)
	region, _ := lo.Coalesce(strings.TrimSpace(meta.Region), layout.Region)

	return common.BenchmarkRecord{
		Timestamp:              timestamp,
		Stage:                  layout.Stage,
		Provider:               orUnknown(strings.ToLower(provider)),
		Region:                 orUnknown(region),
		Function:               orUnknown(meta.Function),
		MemorySizeMB:           meta.MemorySize.or(layout.File.MemoryMB),
		ParallelRequests:       meta.ParallelRequests.or(0),
		IterationsPerBenchmark: meta.IterationsPerBenchmark.or(0),
		Retries:                meta.Retries.or(0),
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Errorf("invalid timestamp %q", value)
}

func newRecord(base common.BenchmarkRecord, provider string, inv *invocation) common.BenchmarkRecord {
	body := inv.Body
	bench := body.Benchmark

	record := base
	record.CPUModelNumber = body.CPUModel.or(common.Unknown)
	record.CPUFrequencyMHz = body.CPUFrequencyMHz.ptr()
	record.CPUType = cpu.Resolve(provider, string(body.CPUType), record.CPUModelNumber, record.CPUFrequencyMHz)
	record.CPUFlags = common.FlagList(body.CPUFlags)

	record.RuntimeMs = body.Runtime.ptr()
	record.UserRuntimeMs = body.UserRuntime.ptr()
	record.FrameworkRuntimeMs = body.FrameworkRuntime.ptr()

	record.ContainerID = body.ContainerID.or(common.Unknown)
	record.NewContainer = body.NewContainer.ptr()
	record.InvocationCount = body.InvocationCount.ptr()
	record.InstanceID = body.InstanceID.or(common.Unknown)
	record.UUID = canonicalUUID(body.UUID.or(common.Unknown))
	record.RequestID = requestID(provider, inv.Header)

	record.BenchmarkType = orUnknown(string(bench.Type))
	switch string(bench.Type) {
	case common.BenchmarkGemm:
		record.MatrixSize = bench.MatrixSize.ptr()
		record.MultiplicationTimeMs = bench.MultiplicationTimeMs.ptr()
	case common.BenchmarkAesCtr:
		record.KeySize = bench.KeySize.ptr()
		record.EncryptSizeMB = bench.EncryptSizeMB.ptr()
		record.EncryptTimeMs = bench.EncryptTimeMs.ptr()
	case common.BenchmarkGzip:
		record.CompressSizeMB = bench.CompressSizeMB.ptr()
		record.CompressTimeMs = bench.CompressTimeMs.ptr()
	case common.BenchmarkSha256:
		record.HashSizeMB = bench.HashSizeMB.ptr()
		record.HashTimeMs = bench.HashTimeMs.ptr()
	case common.BenchmarkJSON:
		record.JSONTimeMs = bench.JSONTimeMs.ptr()
	}

	return record
}

func requestID(provider string, header map[string]flexString) string {
	key, ok := requestIDHeaders[provider]
	if !ok {
		return common.Unknown
	}

	value, ok := header[key]
	if !ok || value == "" {
		return common.Unknown
	}

	return string(value)
}

func canonicalUUID(value string) string {
	id, err := uuid.Parse(value)
	if err != nil {
		return value
	}
	return id.String()
}

func orUnknown(value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return common.Unknown
	}
	return value
}
