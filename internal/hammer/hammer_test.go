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
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/bonsai"
	"github.com/google/bonsai/monitoring"
	"github.com/google/bonsai/monitoring/testonly"
)

func validConfig(seed int64) Config {
	return Config{
		Hash:         bonsai.SHA256,
		Signature:    bonsai.ECDSA,
		RandSource:   rand.NewSource(seed),
		Bias:         DefaultBias(),
		LeafSize:     20,
		MinLeaves:    1,
		MaxLeaves:    20,
		Operations:   200,
		NumVerifiers: 2,
	}
}

func TestInProcessHammer(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		desc      string
		hash      bonsai.HashAlgorithm
		sig       bonsai.SignatureAlgorithm
		verifiers int
	}{
		{desc: "sha256-ecdsa", hash: bonsai.SHA256, sig: bonsai.ECDSA, verifiers: 2},
		{desc: "blake3-ed25519", hash: bonsai.BLAKE3, sig: bonsai.Ed25519, verifiers: 2},
		{desc: "keccak256-no-verifiers", hash: bonsai.Keccak256, sig: bonsai.ECDSA, verifiers: 0},
		{desc: "ripemd160-ed25519", hash: bonsai.RIPEMD160, sig: bonsai.Ed25519, verifiers: 1},
	}
	for i, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			cfg := validConfig(99 + int64(i))
			cfg.Hash = test.hash
			cfg.Signature = test.sig
			cfg.NumVerifiers = test.verifiers
			if err := Run(ctx, cfg); err != nil {
				t.Errorf("Run()=%v, want nil", err)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := validConfig(99)
	cfg.Operations = 1 << 40
	if err := Run(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("Run()=%v, want %v", err, context.Canceled)
	}
}

func TestRunStopsOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	cfg := validConfig(99)
	cfg.Operations = 1 << 40
	if err := Run(ctx, cfg); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run()=%v, want %v", err, context.DeadlineExceeded)
	}
}

// TestRunCountsOperations checks that every operation of a run lands in
// exactly one of the request counters.
func TestRunCountsOperations(t *testing.T) {
	ctx := context.Background()
	warmup := validConfig(123)
	warmup.NumVerifiers = 0
	warmup.Operations = 50
	// A first run guarantees the package metrics exist before they are
	// snapshotted.
	if err := Run(ctx, warmup); err != nil {
		t.Fatalf("Run()=%v, want nil", err)
	}

	label := warmup.Hash.String()
	validSnap := testonly.NewCounterSnapshot(reqs)
	invalidSnap := testonly.NewCounterSnapshot(invalidReqs)
	for _, ep := range entrypoints {
		validSnap.Record(label, string(ep))
		invalidSnap.Record(label, string(ep))
	}

	cfg := validConfig(124)
	cfg.NumVerifiers = 0
	if err := Run(ctx, cfg); err != nil {
		t.Fatalf("Run()=%v, want nil", err)
	}
	var total float64
	for _, ep := range entrypoints {
		total += validSnap.Delta(label, string(ep)) + invalidSnap.Delta(label, string(ep))
	}
	if got, want := uint64(total), cfg.Operations; got != want {
		t.Errorf("request counters moved by %d, want %d", got, want)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		desc   string
		mutate func(*Config)
	}{
		{desc: "no-rand-source", mutate: func(c *Config) { c.RandSource = nil }},
		{desc: "min-leaves-zero", mutate: func(c *Config) { c.MinLeaves = 0 }},
		{desc: "max-below-min", mutate: func(c *Config) { c.MinLeaves = 10; c.MaxLeaves = 5 }},
		{desc: "leaf-size-too-small", mutate: func(c *Config) { c.LeafSize = uint(minLeafLen - 1) }},
		{desc: "no-bias", mutate: func(c *Config) { c.Bias = Bias{} }},
		{desc: "unknown-hash", mutate: func(c *Config) { c.Hash = bonsai.HashAlgorithm(99) }},
		{desc: "unknown-signature", mutate: func(c *Config) { c.Signature = bonsai.SignatureAlgorithm(99) }},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			cfg := validConfig(1)
			test.mutate(&cfg)
			if _, err := newState(&cfg); err == nil {
				t.Errorf("newState()=nil, want error")
			}
		})
	}
}

func TestBiasChoose(t *testing.T) {
	bias := Bias{
		Bias:          map[EntrypointName]int{SignDataName: 10},
		InvalidChance: map[EntrypointName]int{SignDataName: 1},
	}
	prng := rand.New(rand.NewSource(1))
	// Entrypoints with no weight must never be chosen.
	for i := 0; i < 100; i++ {
		if got, want := bias.choose(prng), SignDataName; got != want {
			t.Fatalf("choose()=%v, want %v", got, want)
		}
	}
	if !bias.invalid(SignDataName, prng) {
		t.Errorf("invalid() with 1-in-1 odds=false, want true")
	}
	if bias.invalid(HashDataName, prng) {
		t.Errorf("invalid() with no odds set=true, want false")
	}
}

func TestDefaultBiasCoversEntrypoints(t *testing.T) {
	bias := DefaultBias()
	prng := rand.New(rand.NewSource(1))
	seen := make(map[EntrypointName]int)
	for i := 0; i < 10000; i++ {
		seen[bias.choose(prng)]++
	}
	for _, ep := range entrypoints {
		if seen[ep] == 0 {
			t.Errorf("choose() never selected %v", ep)
		}
	}
}

func TestIsEntrypoint(t *testing.T) {
	for _, ep := range entrypoints {
		if !IsEntrypoint(ep) {
			t.Errorf("IsEntrypoint(%v)=false, want true", ep)
		}
	}
	if IsEntrypoint(EntrypointName("Frobnicate")) {
		t.Errorf("IsEntrypoint(Frobnicate)=true, want false")
	}
}

func TestScenarioConfig(t *testing.T) {
	sc := Scenario{
		Hash:        "KECCAK256",
		Signature:   "ED25519",
		Seed:        42,
		Operations:  100,
		LeafSize:    24,
		MinLeaves:   2,
		MaxLeaves:   10,
		Verifiers:   3,
		EmitSeconds: 5,
		Bias:        map[string]int{"BuildTree": 50, "HashData": 0},
		InvalidChance: map[string]int{
			"VerifyProof": 2,
		},
	}
	cfg, err := sc.Config(monitoring.InertMetricFactory{})
	if err != nil {
		t.Fatalf("Config()=%v, want nil", err)
	}
	if got, want := cfg.Hash, bonsai.Keccak256; got != want {
		t.Errorf("cfg.Hash=%v, want %v", got, want)
	}
	if got, want := cfg.Signature, bonsai.Ed25519; got != want {
		t.Errorf("cfg.Signature=%v, want %v", got, want)
	}
	if got, want := cfg.Operations, uint64(100); got != want {
		t.Errorf("cfg.Operations=%d, want %d", got, want)
	}
	if got, want := cfg.LeafSize, uint(24); got != want {
		t.Errorf("cfg.LeafSize=%d, want %d", got, want)
	}
	if got, want := cfg.MinLeaves, 2; got != want {
		t.Errorf("cfg.MinLeaves=%d, want %d", got, want)
	}
	if got, want := cfg.MaxLeaves, 10; got != want {
		t.Errorf("cfg.MaxLeaves=%d, want %d", got, want)
	}
	if got, want := cfg.NumVerifiers, 3; got != want {
		t.Errorf("cfg.NumVerifiers=%d, want %d", got, want)
	}
	if got, want := cfg.EmitInterval, 5*time.Second; got != want {
		t.Errorf("cfg.EmitInterval=%v, want %v", got, want)
	}
	if cfg.RandSource == nil {
		t.Errorf("cfg.RandSource=nil, want a seeded source")
	}
	// Overridden weights are applied, the rest keep their defaults.
	if got, want := cfg.Bias.Bias[BuildTreeName], 50; got != want {
		t.Errorf("cfg.Bias.Bias[BuildTree]=%d, want %d", got, want)
	}
	if got, want := cfg.Bias.Bias[HashDataName], 0; got != want {
		t.Errorf("cfg.Bias.Bias[HashData]=%d, want %d", got, want)
	}
	if got, want := cfg.Bias.Bias[ProveLeafName], DefaultBias().Bias[ProveLeafName]; got != want {
		t.Errorf("cfg.Bias.Bias[ProveLeaf]=%d, want default %d", got, want)
	}
	if got, want := cfg.Bias.InvalidChance[VerifyProofName], 2; got != want {
		t.Errorf("cfg.Bias.InvalidChance[VerifyProof]=%d, want %d", got, want)
	}
	if got, want := cfg.Bias.InvalidChance[SignDataName], DefaultBias().InvalidChance[SignDataName]; got != want {
		t.Errorf("cfg.Bias.InvalidChance[SignData]=%d, want default %d", got, want)
	}
}

func TestScenarioConfigErrors(t *testing.T) {
	base := Scenario{
		Hash:       "SHA256",
		Signature:  "ECDSA",
		Operations: 10,
		LeafSize:   20,
		MinLeaves:  1,
		MaxLeaves:  5,
	}
	tests := []struct {
		desc   string
		mutate func(*Scenario)
	}{
		{desc: "unknown-hash", mutate: func(s *Scenario) { s.Hash = "SHA1" }},
		{desc: "hash-explicitly-unknown", mutate: func(s *Scenario) { s.Hash = "UNKNOWN" }},
		{desc: "unknown-signature", mutate: func(s *Scenario) { s.Signature = "RSA" }},
		{desc: "bias-bad-entrypoint", mutate: func(s *Scenario) { s.Bias = map[string]int{"Frobnicate": 3} }},
		{desc: "invalid-chance-bad-entrypoint", mutate: func(s *Scenario) { s.InvalidChance = map[string]int{"Frobnicate": 3} }},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			sc := base
			test.mutate(&sc)
			if _, err := sc.Config(monitoring.InertMetricFactory{}); err == nil {
				t.Errorf("Config()=nil, want error")
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	contents := `Hash: BLAKE3
Signature: ED25519
Seed: 7
Operations: 50
LeafSize: 16
MinLeaves: 1
MaxLeaves: 8
Verifiers: 1
Bias:
  VerifySignature: 15
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario()=%v, want nil", err)
	}
	if got, want := sc.Hash, "BLAKE3"; got != want {
		t.Errorf("sc.Hash=%q, want %q", got, want)
	}
	if got, want := sc.Seed, int64(7); got != want {
		t.Errorf("sc.Seed=%d, want %d", got, want)
	}
	if got, want := sc.Bias["VerifySignature"], 15; got != want {
		t.Errorf("sc.Bias[VerifySignature]=%d, want %d", got, want)
	}

	if _, err := LoadScenario(filepath.Join(dir, "no-such-file.yaml")); err == nil {
		t.Errorf("LoadScenario(missing file)=nil, want error")
	}
	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("Bias: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write scenario file: %v", err)
	}
	if _, err := LoadScenario(badPath); err == nil {
		t.Errorf("LoadScenario(malformed file)=nil, want error")
	}
}

func TestScenarioRun(t *testing.T) {
	ctx := context.Background()
	sc := Scenario{
		Hash:       "SHA256",
		Signature:  "ED25519",
		Seed:       7,
		Operations: 50,
		LeafSize:   16,
		MinLeaves:  1,
		MaxLeaves:  8,
		Verifiers:  1,
	}
	cfg, err := sc.Config(monitoring.InertMetricFactory{})
	if err != nil {
		t.Fatalf("Config()=%v, want nil", err)
	}
	if err := Run(ctx, cfg); err != nil {
		t.Errorf("Run()=%v, want nil", err)
	}
}
