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
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

var stagePattern = regexp.MustCompile(`^stage_([a-z0-9]+)$`)

// LogFileName is the information encoded in {platform}-{benchmark}-{memory}.log.
type LogFileName struct {
	Platform  string
	Benchmark string
	MemoryMB  int
}

func ParseFileName(name string) (LogFileName, error) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, common.LogFileExtension) {
		return LogFileName{}, errors.Wrapf(ErrUnrecognisedLayout, "%s is not a log file", name)
	}

	parts := strings.Split(strings.TrimSuffix(base, common.LogFileExtension), "-")
	if len(parts) < 3 {
		return LogFileName{}, errors.Wrapf(ErrUnrecognisedLayout, "%s does not match {platform}-{benchmark}-{memory}.log", name)
	}

	memory, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return LogFileName{}, errors.Wrapf(ErrUnrecognisedLayout, "invalid memory size in %s", name)
	}

	return LogFileName{
		Platform:  parts[0],
		Benchmark: strings.Join(parts[1:len(parts)-1], "-"),
		MemoryMB:  memory,
	}, nil
}

// LogPath describes a log stored as data/stage_{x}/{timestamp}/{platform}/{region}/{file}.
type LogPath struct {
	Stage        string
	RunTimestamp string
	Platform     string
	Region       string
	File         LogFileName
}

func ParseLogPath(path string) (LogPath, error) {
	elements := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	if len(elements) < 5 {
		return LogPath{}, errors.Wrapf(ErrUnrecognisedLayout, "%s", path)
	}

	tail := elements[len(elements)-5:]
	match := stagePattern.FindStringSubmatch(tail[0])
	if match == nil {
		return LogPath{}, errors.Wrapf(ErrUnrecognisedLayout, "%s", path)
	}

	file, err := ParseFileName(tail[4])
	if err != nil {
		return LogPath{}, err
	}

	return LogPath{
		Stage:        match[1],
		RunTimestamp: tail[1],
		Platform:     tail[2],
		Region:       tail[3],
		File:         file,
	}, nil
}
