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

package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/vhive-serverless/hwlottery/pkg/analysis"
	"github.com/vhive-serverless/hwlottery/pkg/common"

	log "github.com/sirupsen/logrus"
)

const EnvironmentPrefix = "LOTTERY"

type AnalyzerConfiguration struct {
	DataPath         string `mapstructure:"DataPath" json:"DataPath"`
	Stage            string `mapstructure:"Stage" json:"Stage"`
	OutputPathPrefix string `mapstructure:"OutputPathPrefix" json:"OutputPathPrefix"`
	PlotPath         string `mapstructure:"PlotPath" json:"PlotPath"`
	DatabasePath     string `mapstructure:"DatabasePath" json:"DatabasePath"`

	Providers   []string `mapstructure:"Providers" json:"Providers"`
	Benchmarks  []string `mapstructure:"Benchmarks" json:"Benchmarks"`
	MemorySizes []int    `mapstructure:"MemorySizes" json:"MemorySizes"`
	Regions     []string `mapstructure:"Regions" json:"Regions"`

	TrimOutliers      bool `mapstructure:"TrimOutliers" json:"TrimOutliers"`
	GroupOnTimestamp  bool `mapstructure:"GroupOnTimestamp" json:"GroupOnTimestamp"`
	FullLifecycleOnly bool `mapstructure:"FullLifecycleOnly" json:"FullLifecycleOnly"`
	RemoveCold        bool `mapstructure:"RemoveCold" json:"RemoveCold"`
	Deduplicate       bool `mapstructure:"Deduplicate" json:"Deduplicate"`

	// Factors used for the variance decomposition.
	Factors []string `mapstructure:"Factors" json:"Factors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DataPath", "data")
	v.SetDefault("Stage", "")
	v.SetDefault("OutputPathPrefix", "data/out/lottery")
	v.SetDefault("PlotPath", "plots")
	v.SetDefault("DatabasePath", "")
	v.SetDefault("Providers", []string{})
	v.SetDefault("Benchmarks", []string{})
	v.SetDefault("MemorySizes", []int{})
	v.SetDefault("Regions", []string{})
	v.SetDefault("TrimOutliers", true)
	v.SetDefault("GroupOnTimestamp", false)
	v.SetDefault("FullLifecycleOnly", false)
	v.SetDefault("RemoveCold", false)
	v.SetDefault("Deduplicate", true)
	v.SetDefault("Factors", common.DefaultFactors)
}

// LoadConfiguration reads a JSON configuration file. Every field can be
// overridden from the environment, e.g. LOTTERY_STAGE=b or
// LOTTERY_PROVIDERS=aws,gcp.
func LoadConfiguration(path string) (AnalyzerConfiguration, error) {
	var config AnalyzerConfiguration

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvironmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return config, errors.Wrapf(err, "failed to read configuration %s", path)
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrapf(err, "failed to decode configuration %s", path)
	}

	for _, factor := range config.Factors {
		if _, err := analysis.FactorKey(factor); err != nil {
			return config, errors.Wrapf(err, "factor %q", factor)
		}
	}

	return config, nil
}

func ReadConfigurationFile(path string) AnalyzerConfiguration {
	config, err := LoadConfiguration(path)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Filter returns the record selection described by the configuration.
func (c *AnalyzerConfiguration) Filter() analysis.Filter {
	return analysis.Filter{
		Stage:       c.Stage,
		Providers:   c.Providers,
		Regions:     c.Regions,
		Benchmarks:  c.Benchmarks,
		MemorySizes: c.MemorySizes,
	}
}
