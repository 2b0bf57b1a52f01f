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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/common"

	log "github.com/sirupsen/logrus"
)

type DirectoryParser struct {
	DirectoryPath string
}

func NewDirectoryParser(directoryPath string) *DirectoryParser {
	return &DirectoryParser{DirectoryPath: directoryPath}
}

func (p *DirectoryParser) Parse() ([]common.BenchmarkRecord, error) {
	return LoadRecordsFromDirectory(p.DirectoryPath)
}

// LoadRecordsFromDirectory parses every log below dir, skipping the
// collector's own "logs" directories and files that cannot be read or carry a
// broken metadata line.
func LoadRecordsFromDirectory(dir string) ([]common.BenchmarkRecord, error) {
	var result []common.BenchmarkRecord
	files := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && d.Name() == common.SkippedDirectoryName {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), common.LogFileExtension) {
			return nil
		}

		records, err := ParseLogFile(path)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			return nil
		}

		result = append(result, records...)
		files++

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load records from %s", dir)
	}

	log.Infof("Loaded %d records from %d log files in %s", len(result), files, dir)

	return result, nil
}
