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

// bonsaihammer is a stress/load test for the bonsai hashing, signing and
// Merkle tree packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/google/bonsai"
	"github.com/google/bonsai/cmd"
	"github.com/google/bonsai/internal/hammer"
	"github.com/google/bonsai/monitoring"
	"github.com/google/bonsai/monitoring/prometheus"
)

var (
	configFile      = flag.String("config", "", "Config file containing flags, file contents can be overridden by command line flags")
	hashAlgs        = flag.String("hash_algorithms", "SHA256", "Comma-separated list of hash algorithms to test")
	sigAlg          = flag.String("signature_algorithm", "ECDSA", "Signature algorithm to test")
	scenarioFile    = flag.String("scenario", "", "YAML scenario file to run; overrides the operation flags")
	metricsEndpoint = flag.String("metrics_endpoint", "", "Endpoint for serving metrics; if left empty, metrics will not be exposed")
	seed            = flag.Int64("seed", -1, "Seed for random number generation")
	operations      = flag.Uint64("operations", ^uint64(0), "Number of operations to perform")
	minLeaves       = flag.Int("min_leaves", 1, "Minimum count of leaves per built tree")
	maxLeaves       = flag.Int("max_leaves", 1024, "Maximum count of leaves per built tree")
	leafSize        = flag.Uint("leaf_size", 100, "Size of leaf values")
	verifiers       = flag.Int("verifiers", 0, "Number of proof verifier goroutines to run")
	emitInterval    = flag.Duration("emit_interval", 0, "How often to output the hammer state")
)
var (
	hashDataBias    = flag.Int("hash_data", 10, "Bias for hash-data operations")
	hashSaltBias    = flag.Int("hash_salt", 5, "Bias for hash-with-salt operations")
	signDataBias    = flag.Int("sign_data", 10, "Bias for sign-data operations")
	verifySigBias   = flag.Int("verify_sig", 10, "Bias for verify-signature operations")
	buildTreeBias   = flag.Int("build_tree", 5, "Bias for build-tree operations")
	proveLeafBias   = flag.Int("prove_leaf", 20, "Bias for prove-leaf operations")
	verifyProofBias = flag.Int("verify_proof", 20, "Bias for verify-proof operations")
	invalidChance   = flag.Int("invalid_chance", 10, "Chance of generating an invalid operation, as the N in 1-in-N (0 for never)")
)

func metricFactory() monitoring.MetricFactory {
	if *metricsEndpoint == "" {
		return monitoring.InertMetricFactory{}
	}
	http.Handle("/metrics", promhttp.Handler())
	server := http.Server{Addr: *metricsEndpoint, Handler: nil}
	klog.Infof("Serving metrics at %v", *metricsEndpoint)
	go func() {
		err := server.ListenAndServe()
		klog.Warningf("Metrics server exited: %v", err)
	}()
	return prometheus.MetricFactory{}
}

func runScenario(ctx context.Context, path string, mf monitoring.MetricFactory) {
	sc, err := hammer.LoadScenario(path)
	if err != nil {
		klog.Exitf("Failed to load scenario: %v", err)
	}
	cfg, err := sc.Config(mf)
	if err != nil {
		klog.Exitf("Invalid scenario: %v", err)
	}
	fmt.Printf("%v\n\n", cfg)
	if err := hammer.Run(ctx, cfg); err != nil {
		klog.Exitf("Scenario failed: %v", err)
	}
	klog.Info("no errors; done")
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *configFile != "" {
		if err := cmd.ParseFlagFile(*configFile); err != nil {
			klog.Exitf("Failed to load flags from config file %q: %s", *configFile, err)
		}
	}

	mf := metricFactory()
	if *scenarioFile != "" {
		runScenario(context.Background(), *scenarioFile, mf)
		return
	}

	if *seed == -1 {
		*seed = time.Now().UTC().UnixNano() & 0xFFFFFFFF
	}
	fmt.Printf("Today's test has been brought to you by the number %#x\n", *seed)

	sig, ok := bonsai.SignatureAlgorithmValue[*sigAlg]
	if !ok || sig == bonsai.UnknownSignatureAlgorithm {
		klog.Exitf("Unknown signature algorithm %q", *sigAlg)
	}
	bias := hammer.Bias{
		Bias: map[hammer.EntrypointName]int{
			hammer.HashDataName:    *hashDataBias,
			hammer.HashSaltName:    *hashSaltBias,
			hammer.SignDataName:    *signDataBias,
			hammer.VerifySigName:   *verifySigBias,
			hammer.BuildTreeName:   *buildTreeBias,
			hammer.ProveLeafName:   *proveLeafBias,
			hammer.VerifyProofName: *verifyProofBias,
		},
		InvalidChance: map[hammer.EntrypointName]int{
			hammer.HashDataName:    *invalidChance,
			hammer.HashSaltName:    0,
			hammer.SignDataName:    *invalidChance,
			hammer.VerifySigName:   *invalidChance,
			hammer.BuildTreeName:   *invalidChance,
			hammer.ProveLeafName:   *invalidChance,
			hammer.VerifyProofName: *invalidChance,
		},
	}

	algs := strings.Split(*hashAlgs, ",")
	type result struct {
		alg bonsai.HashAlgorithm
		err error
	}
	results := make(chan result, len(algs))
	var wg sync.WaitGroup
	for _, a := range algs {
		hash, ok := bonsai.HashAlgorithmValue[strings.TrimSpace(a)]
		if !ok || hash == bonsai.UnknownHashAlgorithm {
			klog.Exitf("Unknown hash algorithm %q", a)
		}
		cfg := hammer.Config{
			Hash:          hash,
			Signature:     sig,
			MetricFactory: mf,
			RandSource:    rand.NewSource(*seed),
			Bias:          bias,
			LeafSize:      *leafSize,
			MinLeaves:     *minLeaves,
			MaxLeaves:     *maxLeaves,
			Operations:    *operations,
			EmitInterval:  *emitInterval,
			NumVerifiers:  *verifiers,
		}
		fmt.Printf("%v\n\n", cfg)
		wg.Add(1)
		go func(cfg hammer.Config) {
			defer wg.Done()
			err := hammer.Run(context.Background(), cfg)
			results <- result{alg: cfg.Hash, err: err}
		}(cfg)
	}
	wg.Wait()

	klog.Infof("Completed tests on all %d algorithms:", len(algs))
	close(results)
	errCount := 0
	for e := range results {
		if e.err != nil {
			errCount++
			klog.Errorf("  %v: failed with %v", e.alg, e.err)
		}
	}
	if errCount > 0 {
		klog.Exitf("non-zero error count (%d), exiting", errCount)
	}
	klog.Info("  no errors; done")
}
