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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vhive-serverless/hwlottery/pkg/common"
)

func TestShortenName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Intel(R) Xeon(R) Platinum 8375C CPU @ 2.90GHz", "Intel Xeon Platinum 8375C"},
		{"Intel(R) Xeon(R) CPU @ 2.50GHz", "Intel Xeon 2.50GHz"},
		{"AMD EPYC 7B13 64-Core Processor", "AMD EPYC 7B13"},
		{"Intel(R) Xeon(R) Platinum 8272CL CPU @ 2.60GHz", "Intel Xeon Platinum 8272CL"},
		{"AMD EPYC 2.65GHz", "AMD EPYC 2.65GHz"},
		{"Model 85 (Intel)", "Model 85 (Intel)"},
		{"  Intel(TM)   Xeon(tm)  Gold 6148 ", "Intel Xeon Gold 6148"},
		{"", common.Unknown},
		{"unknown", common.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortenName(tt.raw))
		})
	}
}

func TestVendor(t *testing.T) {
	assert.Equal(t, VendorIntel, Vendor("Intel Xeon Platinum 8375C"))
	assert.Equal(t, VendorAMD, Vendor("AMD EPYC 2.65GHz"))
	assert.Equal(t, VendorAMD, Vendor("Model 17 (AMD)"))
	assert.Equal(t, VendorARM, Vendor("Neoverse-N1"))
	assert.Equal(t, common.Unknown, Vendor("Model 7 (Unknown)"))
}

func TestGCPModelName(t *testing.T) {
	assert.Equal(t, "Model 85 (Intel)", GCPModelName("85"))
	assert.Equal(t, "Model 1 (AMD)", GCPModelName("1"))
	assert.Equal(t, "Model 42 (Unknown)", GCPModelName("42"))
}

func TestClassifyAWSAMD(t *testing.T) {
	label, ok := ClassifyAWSAMD(common.Float64(2650))
	assert.True(t, ok)
	assert.Equal(t, AWSAMDEpyc265, label)

	label, ok = ClassifyAWSAMD(common.Float64(2240))
	assert.True(t, ok)
	assert.Equal(t, AWSAMDEpyc225, label)

	label, ok = ClassifyAWSAMD(common.Float64(3000))
	assert.False(t, ok)
	assert.Equal(t, AWSAMDEpycUnknown, label)

	label, ok = ClassifyAWSAMD(nil)
	assert.False(t, ok)
	assert.Equal(t, AWSAMDEpycUnknown, label)
}

func TestResolve(t *testing.T) {
	t.Run("gcp uses model number", func(t *testing.T) {
		assert.Equal(t, "Model 106 (Intel)", Resolve("gcp", "Intel(R) Xeon(R) CPU @ 2.20GHz", "106", nil))
	})

	t.Run("aws amd by frequency", func(t *testing.T) {
		assert.Equal(t, AWSAMDEpyc225, Resolve("aws", "AMD EPYC", "1", common.Float64(2250)))
	})

	t.Run("aws intel is shortened", func(t *testing.T) {
		assert.Equal(t, "Intel Xeon 2.50GHz", Resolve("aws", "Intel(R) Xeon(R) Processor @ 2.50GHz", "85", common.Float64(2500)))
	})

	t.Run("amd outside aws is kept", func(t *testing.T) {
		assert.Equal(t, "AMD EPYC 7763", Resolve("azure", "AMD EPYC 7763 64-Core Processor", "1", common.Float64(2450)))
	})

	t.Run("empty type", func(t *testing.T) {
		assert.Equal(t, common.Unknown, Resolve("alibaba", "", "", nil))
	})
}
