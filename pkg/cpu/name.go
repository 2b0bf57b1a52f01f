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

// Package cpu normalises the CPU descriptions reported by the benchmark
// functions so that invocations can be grouped by the hardware they ran on.
package cpu

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/vhive-serverless/hwlottery/pkg/common"
)

const (
	VendorIntel = "Intel"
	VendorAMD   = "AMD"
	VendorARM   = "ARM"
)

var (
	trademarkPattern = regexp.MustCompile(`(?i)\((r|tm)\)`)
	corePattern      = regexp.MustCompile(`(?i)^\d+-core$`)

	// Family words never identify a concrete model on their own.
	familyTokens = map[string]bool{
		"intel": true, "xeon": true, "amd": true, "epyc": true,
		"platinum": true, "gold": true, "silver": true,
	}
)

// ShortenName turns a /proc/cpuinfo model name into a compact label, e.g.
// "Intel(R) Xeon(R) Platinum 8375C CPU @ 2.90GHz" becomes
// "Intel Xeon Platinum 8375C". The nominal frequency is only kept when the
// string carries no model number.
func ShortenName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, common.Unknown) {
		return common.Unknown
	}

	raw = trademarkPattern.ReplaceAllString(raw, "")

	name, frequency, hasFrequency := strings.Cut(raw, "@")

	var tokens []string
	hasModel := false
	for _, token := range strings.Fields(name) {
		switch {
		case strings.EqualFold(token, "CPU"), strings.EqualFold(token, "Processor"):
			continue
		case corePattern.MatchString(token):
			continue
		}

		if !familyTokens[strings.ToLower(token)] && strings.IndexFunc(token, unicode.IsDigit) >= 0 {
			hasModel = true
		}
		tokens = append(tokens, token)
	}

	if hasFrequency && !hasModel {
		tokens = append(tokens, strings.Fields(frequency)...)
	}

	if len(tokens) == 0 {
		return common.Unknown
	}

	return strings.Join(tokens, " ")
}

// Vendor derives the CPU vendor from a (shortened or raw) CPU name.
func Vendor(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "intel"):
		return VendorIntel
	case strings.Contains(lower, "amd"), strings.Contains(lower, "epyc"):
		return VendorAMD
	case strings.Contains(lower, "graviton"), strings.Contains(lower, "neoverse"),
		strings.Contains(lower, "arm"), strings.Contains(lower, "aarch64"):
		return VendorARM
	default:
		return common.Unknown
	}
}
