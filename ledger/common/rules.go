// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set"
)

// Feature names an optional protocol amendment
type Feature string

const (
	FeatureMPTokensV1        Feature = "MPTokensV1"
	FeatureClawback          Feature = "Clawback"
	FeatureDepositAuth       Feature = "DepositAuth"
	FeatureDepositPreauth    Feature = "DepositPreauth"
	FeatureDeletableAccounts Feature = "DeletableAccounts"
)

// AllFeatures lists every feature known to this implementation
var AllFeatures = []Feature{
	FeatureMPTokensV1,
	FeatureClawback,
	FeatureDepositAuth,
	FeatureDepositPreauth,
	FeatureDeletableAccounts,
}

func ParseFeature(name string) (Feature, error) {
	for _, f := range AllFeatures {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feature %q", name)
}

// Rules is the set of enabled features. The zero value has nothing enabled.
type Rules struct {
	enabled mapset.Set
}

func NewRules(features ...Feature) Rules {
	enabled := mapset.NewThreadUnsafeSet()
	for _, f := range features {
		enabled.Add(f)
	}
	return Rules{enabled: enabled}
}

// AllRules enables every known feature
func AllRules() Rules {
	return NewRules(AllFeatures...)
}

func (r Rules) Enabled(f Feature) bool {
	if r.enabled == nil {
		return false
	}
	return r.enabled.Contains(f)
}

// Without returns a copy of the rules with the given features disabled
func (r Rules) Without(features ...Feature) Rules {
	ret := NewRules(r.Features()...)
	for _, f := range features {
		ret.enabled.Remove(f)
	}
	return ret
}

// Features returns the enabled features in name order
func (r Rules) Features() []Feature {
	if r.enabled == nil {
		return nil
	}
	ret := make([]Feature, 0, r.enabled.Cardinality())
	for _, item := range r.enabled.ToSlice() {
		ret = append(ret, item.(Feature))
	}
	slices.Sort(ret)
	return ret
}
