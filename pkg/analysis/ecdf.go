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

package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ECDF is the empirical distribution of a sample. X holds the sorted
// observations and Y[i] the fraction of observations <= X[i].
type ECDF struct {
	X []float64
	Y []float64
}

func NewECDF(values []float64) *ECDF {
	x := append([]float64(nil), values...)
	sort.Float64s(x)

	y := make([]float64, len(x))
	n := float64(len(x))
	for i := range x {
		y[i] = float64(i+1) / n
	}

	return &ECDF{X: x, Y: y}
}

// At returns the fraction of observations less than or equal to q.
func (e *ECDF) At(q float64) float64 {
	if len(e.X) == 0 {
		return 0
	}
	return stat.CDF(q, stat.Empirical, e.X, nil)
}

func (e *ECDF) Len() int {
	return len(e.X)
}
