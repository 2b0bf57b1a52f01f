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

package cpu

import (
	"fmt"
	"strings"

	"github.com/vhive-serverless/hwlottery/pkg/common"

	log "github.com/sirupsen/logrus"
)

// GCP only exposes the x86 model number, so it is mapped to a vendor label.
var gcpModels = map[string]string{
	"1":   "Model 1 (AMD)",
	"17":  "Model 17 (AMD)",
	"85":  "Model 85 (Intel)",
	"106": "Model 106 (Intel)",
	"143": "Model 143 (Intel)",
	"173": "Model 173 (Intel)",
}

func GCPModelName(model string) string {
	if name, ok := gcpModels[model]; ok {
		return name
	}

	return fmt.Sprintf("Model %s (Unknown)", model)
}

const (
	AWSAMDEpyc265     = "AMD EPYC 2.65GHz"
	AWSAMDEpyc225     = "AMD EPYC 2.25GHz"
	AWSAMDEpycUnknown = "AMD EPYC unknown"
)

// ClassifyAWSAMD tells the two AMD generations on Lambda apart by their
// nominal clock, since Lambda hides the model name behind a generic string.
func ClassifyAWSAMD(frequencyMHz *float64) (string, bool) {
	if frequencyMHz != nil {
		f := *frequencyMHz
		switch {
		case f >= 2640 && f <= 2660:
			return AWSAMDEpyc265, true
		case f >= 2240 && f <= 2260:
			return AWSAMDEpyc225, true
		}
	}

	return AWSAMDEpycUnknown, false
}

// Resolve produces the CPU label of a single invocation.
func Resolve(provider, cpuType, modelNumber string, frequencyMHz *float64) string {
	if cpuType == "" {
		cpuType = common.Unknown
	}

	switch common.Provider(provider) {
	case common.GCP:
		cpuType = GCPModelName(modelNumber)
	case common.AWS:
		if strings.Contains(cpuType, "AMD") {
			label, ok := ClassifyAWSAMD(frequencyMHz)
			if !ok {
				log.Warnf("Unknown AMD CPU frequency %s on AWS, defaulting to generic name.", formatFrequency(frequencyMHz))
			}
			cpuType = label
		}
	}

	return ShortenName(cpuType)
}

func formatFrequency(frequencyMHz *float64) string {
	if frequencyMHz == nil {
		return "<missing>"
	}
	return fmt.Sprintf("%.0f MHz", *frequencyMHz)
}
