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
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

type ANOVAResult struct {
	Groups       int     `csv:"groups"`
	Observations int     `csv:"observations"`
	SSBetween    float64 `csv:"ss_between"`
	SSWithin     float64 `csv:"ss_within"`
	DFBetween    int     `csv:"df_between"`
	DFWithin     int     `csv:"df_within"`
	F            float64 `csv:"f"`
	PValue       float64 `csv:"p_value"`
	EtaSquared   float64 `csv:"eta_squared"`
	OmegaSquared float64 `csv:"omega_squared"`
}

// OneWayANOVA tests whether the group means differ and reports the share of
// the total variance that the grouping explains (eta squared) together with
// its less biased omega squared estimate. Empty groups are ignored.
func OneWayANOVA(groups map[string][]float64) (ANOVAResult, error) {
	names := lo.Keys(groups)
	sort.Strings(names)

	var samples [][]float64
	var all []float64
	for _, name := range names {
		if len(groups[name]) == 0 {
			continue
		}
		samples = append(samples, groups[name])
		all = append(all, groups[name]...)
	}

	k, n := len(samples), len(all)
	if k < 2 || n-k < 1 {
		return ANOVAResult{Groups: k, Observations: n}, ErrInsufficientGroups
	}

	grandMean := stat.Mean(all, nil)

	var ssBetween, ssWithin float64
	for _, sample := range samples {
		mean := stat.Mean(sample, nil)
		ssBetween += float64(len(sample)) * (mean - grandMean) * (mean - grandMean)

		deviations := append([]float64(nil), sample...)
		floats.AddConst(-mean, deviations)
		ssWithin += floats.Dot(deviations, deviations)
	}

	dfBetween, dfWithin := k-1, n-k
	msBetween := ssBetween / float64(dfBetween)
	msWithin := ssWithin / float64(dfWithin)

	result := ANOVAResult{
		Groups:       k,
		Observations: n,
		SSBetween:    ssBetween,
		SSWithin:     ssWithin,
		DFBetween:    dfBetween,
		DFWithin:     dfWithin,
	}

	switch {
	case msWithin == 0 && msBetween == 0:
		result.F, result.PValue = 0, 1
	case msWithin == 0:
		result.F, result.PValue = math.Inf(1), 0
	default:
		result.F = msBetween / msWithin
		result.PValue = distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}.Survival(result.F)
	}

	if total := ssBetween + ssWithin; total > 0 {
		result.EtaSquared = ssBetween / total
		result.OmegaSquared = (ssBetween - float64(dfBetween)*msWithin) / (total + msWithin)
	}

	return result, nil
}
