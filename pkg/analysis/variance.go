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
	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/common"

	log "github.com/sirupsen/logrus"
)

// VarianceComponent is the share of the metric variance explained by one
// grouping factor.
type VarianceComponent struct {
	Group  string `csv:"group"`
	Metric string `csv:"metric"`
	Factor string `csv:"factor"`
	ANOVAResult
}

// DecomposeVariance runs a one-way ANOVA of metric for each factor. Factors
// that split the data into fewer than two groups are left out. The factors
// are not orthogonal, so the explained shares do not add up to one.
func DecomposeVariance(records []common.BenchmarkRecord, metric string, factors []string) ([]VarianceComponent, error) {
	if !IsKnownMetric(metric) {
		return nil, errors.Wrapf(ErrUnknownMetric, "%s", metric)
	}

	var result []VarianceComponent
	for _, factor := range factors {
		key, err := FactorKey(factor)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", factor)
		}

		anova, err := OneWayANOVA(GroupValues(records, metric, key))
		if errors.Is(err, ErrInsufficientGroups) {
			log.Debugf("Skipping factor %s for %s: %d groups, %d observations", factor, metric, anova.Groups, anova.Observations)
			continue
		}

		result = append(result, VarianceComponent{
			Metric:      metric,
			Factor:      factor,
			ANOVAResult: anova,
		})
	}

	return result, nil
}
