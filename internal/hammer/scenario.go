// Copyright 2025 Google LLC. All Rights Reserved.
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

package hammer

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/google/bonsai"
	"github.com/google/bonsai/monitoring"
)

// Scenario describes a hammer run in a form that can be checked in next to
// test configurations and replayed with the same seed.
type Scenario struct {
	// Hash is the name of the hash algorithm, e.g. "SHA256".
	Hash string `yaml:"Hash"`
	// Signature is the name of the signature algorithm, e.g. "ED25519".
	Signature string `yaml:"Signature"`
	// Seed drives all randomized choices; 0 picks a seed from the clock.
	Seed int64 `yaml:"Seed,omitempty"`
	// Operations is the number of operations to perform.
	Operations uint64 `yaml:"Operations"`
	// LeafSize is the size of generated leaf values and messages in bytes.
	LeafSize uint `yaml:"LeafSize"`
	// MinLeaves and MaxLeaves bound the size of built trees.
	MinLeaves int `yaml:"MinLeaves"`
	MaxLeaves int `yaml:"MaxLeaves"`
	// Verifiers is the number of concurrent proof verifier workers.
	Verifiers int `yaml:"Verifiers,omitempty"`
	// EmitSeconds is how often to log run statistics.
	EmitSeconds int `yaml:"EmitSeconds,omitempty"`
	// Bias overrides the default per-entrypoint operation weights.
	Bias map[string]int `yaml:"Bias,omitempty"`
	// InvalidChance overrides the default 1-in-N odds of performing an
	// invalid variant per entrypoint.
	InvalidChance map[string]int `yaml:"InvalidChance,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %v", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %v", err)
	}
	return &sc, nil
}

// Config converts the scenario into a runnable Config using the given
// metric factory.
func (sc *Scenario) Config(mf monitoring.MetricFactory) (Config, error) {
	hash, ok := bonsai.HashAlgorithmValue[sc.Hash]
	if !ok || hash == bonsai.UnknownHashAlgorithm {
		return Config{}, fmt.Errorf("unknown hash algorithm %q", sc.Hash)
	}
	sig, ok := bonsai.SignatureAlgorithmValue[sc.Signature]
	if !ok || sig == bonsai.UnknownSignatureAlgorithm {
		return Config{}, fmt.Errorf("unknown signature algorithm %q", sc.Signature)
	}

	bias := DefaultBias()
	for name, weight := range sc.Bias {
		ep := EntrypointName(name)
		if !IsEntrypoint(ep) {
			return Config{}, fmt.Errorf("bias names unknown entrypoint %q", name)
		}
		bias.Bias[ep] = weight
	}
	for name, chance := range sc.InvalidChance {
		ep := EntrypointName(name)
		if !IsEntrypoint(ep) {
			return Config{}, fmt.Errorf("invalid chance names unknown entrypoint %q", name)
		}
		bias.InvalidChance[ep] = chance
	}

	seed := sc.Seed
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}

	return Config{
		Hash:          hash,
		Signature:     sig,
		MetricFactory: mf,
		RandSource:    rand.NewSource(seed),
		Bias:          bias,
		LeafSize:      sc.LeafSize,
		MinLeaves:     sc.MinLeaves,
		MaxLeaves:     sc.MaxLeaves,
		Operations:    sc.Operations,
		EmitInterval:  time.Duration(sc.EmitSeconds) * time.Second,
		NumVerifiers:  sc.Verifiers,
	}, nil
}
