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

// Package hammer exercises the hashing, signing and Merkle tree packages
// under a randomized operation mix, checking the results as it goes. It is
// the engine behind the bonsaihammer stress test binary.
package hammer

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/google/bonsai"
	"github.com/google/bonsai/crypto"
	"github.com/google/bonsai/hashers"
	"github.com/google/bonsai/merkle"
	"github.com/google/bonsai/monitoring"
)

const (
	defaultEmitSeconds = 10
	// How far beyond the leaf count to reach when generating invalid indexes
	invalidStretch = 10000
	// Format specifier for generating leaf values
	leafFormat = "leaf-%09d"
	minLeafLen = len("leaf-") + 9 // prefix + 9 digits
	// How long a verifier waits before re-checking for a published tree
	verifierIdleWait = 5 * time.Millisecond
)

var (
	// Metrics are all per-hash-algorithm (label "alg"), and per-entrypoint (label "ep").
	once          sync.Once
	reqs          monitoring.Counter   // alg, ep => value
	errs          monitoring.Counter   // alg, ep => value
	rsps          monitoring.Counter   // alg, ep => value
	rspLatency    monitoring.Histogram // alg, ep => distribution-of-values
	invalidReqs   monitoring.Counter   // alg, ep => value
	treeSize      monitoring.Gauge     // alg => value
	proofPosition monitoring.Histogram // alg => distribution-of-values
)

// setupMetrics initializes all the exported metrics.
func setupMetrics(mf monitoring.MetricFactory) {
	reqs = mf.NewCounter("reqs", "Number of valid operations performed", "alg", "ep")
	errs = mf.NewCounter("errs", "Number of operations that failed unexpectedly", "alg", "ep")
	rsps = mf.NewCounter("rsps", "Number of operations that completed", "alg", "ep")
	rspLatency = mf.NewHistogramWithBuckets("rsp_latency", "Latency of operations in seconds", monitoring.LatencyBuckets(), "alg", "ep")
	invalidReqs = mf.NewCounter("invalid_reqs", "Number of deliberately-invalid operations performed", "alg", "ep")
	treeSize = mf.NewGauge("tree_size", "Leaf count of the most recently built tree", "alg")
	proofPosition = mf.NewHistogramWithBuckets("proof_position", "Position of proven leaves as a percentage of the leaf count", monitoring.PercentileBuckets(5), "alg")
}

// errSkip indicates that a test operation should be skipped.
type errSkip struct{}

func (e errSkip) Error() string {
	return "test operation skipped"
}

// EntrypointName identifies one core operation exercised by the hammer.
type EntrypointName string

// Constants for entrypoint names, as exposed in statistics/logging.
const (
	HashDataName    = EntrypointName("HashData")
	HashSaltName    = EntrypointName("HashWithSalt")
	SignDataName    = EntrypointName("SignData")
	VerifySigName   = EntrypointName("VerifySignature")
	BuildTreeName   = EntrypointName("BuildTree")
	ProveLeafName   = EntrypointName("ProveLeaf")
	VerifyProofName = EntrypointName("VerifyProof")
)

// Read-only entry points, safe for concurrent verifier workers.
var roEntrypoints = []EntrypointName{ProveLeafName, VerifyProofName}

// All entry points.
var entrypoints = []EntrypointName{HashDataName, HashSaltName, SignDataName, VerifySigName, BuildTreeName, ProveLeafName, VerifyProofName}

// IsEntrypoint reports whether name identifies a known operation.
func IsEntrypoint(name EntrypointName) bool {
	for _, ep := range entrypoints {
		if ep == name {
			return true
		}
	}
	return false
}

// Bias indicates the bias for selecting different operations.
type Bias struct {
	Bias  map[EntrypointName]int
	total int
	// InvalidChance gives the odds of performing an invalid operation, as the N in 1-in-N.
	InvalidChance map[EntrypointName]int
}

// DefaultBias returns the operation mix used when a run does not specify
// its own.
func DefaultBias() Bias {
	return Bias{
		Bias: map[EntrypointName]int{
			HashDataName:    10,
			HashSaltName:    5,
			SignDataName:    10,
			VerifySigName:   10,
			BuildTreeName:   5,
			ProveLeafName:   20,
			VerifyProofName: 20,
		},
		InvalidChance: map[EntrypointName]int{
			HashDataName:    10,
			HashSaltName:    0,
			SignDataName:    10,
			VerifySigName:   10,
			BuildTreeName:   10,
			ProveLeafName:   10,
			VerifyProofName: 10,
		},
	}
}

func (hb *Bias) totalBias() int {
	if hb.total == 0 {
		for _, ep := range entrypoints {
			hb.total += hb.Bias[ep]
		}
	}
	return hb.total
}

// choose randomly picks an operation to perform according to the biases.
func (hb *Bias) choose(r *rand.Rand) EntrypointName {
	which := r.Intn(hb.totalBias())
	for _, ep := range entrypoints {
		which -= hb.Bias[ep]
		if which < 0 {
			return ep
		}
	}
	panic("random choice out of range")
}

// invalid randomly chooses whether an operation should be invalid.
func (hb *Bias) invalid(ep EntrypointName, r *rand.Rand) bool {
	chance := hb.InvalidChance[ep]
	if chance <= 0 {
		return false
	}
	return r.Intn(chance) == 0
}

// Config provides configuration for a stress/load test run.
type Config struct {
	Hash          bonsai.HashAlgorithm
	Signature     bonsai.SignatureAlgorithm
	MetricFactory monitoring.MetricFactory
	RandSource    rand.Source
	Bias          Bias
	LeafSize      uint
	MinLeaves     int
	MaxLeaves     int
	Operations    uint64
	EmitInterval  time.Duration
	// NumVerifiers indicates how many separate proof verifier goroutines
	// to run. Note that the behaviour of these verifiers is not governed
	// by RandSource.
	NumVerifiers int
}

// String conforms with Stringer for Config.
func (c Config) String() string {
	return fmt.Sprintf("hash:%v signature:%v #operations:%d leaves:[%d,%d] verifiers:%d emit every:%v",
		c.Hash, c.Signature, c.Operations, c.MinLeaves, c.MaxLeaves, c.NumVerifiers, c.EmitInterval)
}

// Run performs load/stress operations according to the given config. It
// returns the first check failure encountered, or the context's error if
// the run was cancelled from outside.
func Run(ctx context.Context, cfg Config) error {
	s, err := newState(&cfg)
	if err != nil {
		return err
	}
	klog.Infof("%s: hammering with configuration %v", s.label(), cfg)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	ticker := time.NewTicker(cfg.EmitInterval)
	defer ticker.Stop()
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				klog.Info(s.String())
			}
		}
	})

	for i := 0; i < cfg.NumVerifiers; i++ {
		i := i
		g.Go(func() error {
			w := newVerifierWorker(s, i)
			klog.Infof("%s: start verifier %d", s.label(), i)
			err := w.runVerifier(gctx)
			klog.Infof("%s: verifier %d done with %v", s.label(), i, err)
			return err
		})
	}

	g.Go(func() error {
		// Stops the verifiers and the emitter once the operation budget
		// is spent.
		defer cancel()
		w := newOperationWorker(s)
		klog.Infof("%s: start operation worker", s.label())
		count, err := w.runOperations(gctx)
		klog.Infof("%s: performed %d operations", s.label(), count)
		return err
	})

	err = g.Wait()
	// Emit final statistics
	klog.Info(s.String())
	if err != nil {
		return err
	}
	return ctx.Err()
}

// sharedState publishes the most recently built tree to the verifier
// workers. Trees are immutable once built, so a reader needs no further
// locking once it holds a reference.
type sharedState struct {
	mu   sync.RWMutex
	tree *merkle.Tree
}

func (s *sharedState) publish(t *merkle.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = t
}

func (s *sharedState) current() *merkle.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// state holds everything a hammer run shares between its workers.
type state struct {
	cfg    *Config
	hasher hashers.Hasher
	scheme crypto.Scheme
	signer *crypto.Signer
	shared *sharedState
	prng   *rand.Rand

	start time.Time
}

func newState(cfg *Config) (*state, error) {
	mf := cfg.MetricFactory
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	once.Do(func() { setupMetrics(mf) })
	if cfg.EmitInterval == 0 {
		cfg.EmitInterval = defaultEmitSeconds * time.Second
	}
	if cfg.RandSource == nil {
		return nil, fmt.Errorf("no RandSource provided")
	}
	if cfg.MinLeaves < 1 {
		return nil, fmt.Errorf("invalid MinLeaves %d, a tree needs at least one leaf", cfg.MinLeaves)
	}
	if cfg.MaxLeaves < cfg.MinLeaves {
		return nil, fmt.Errorf("invalid MaxLeaves %d is less than MinLeaves %d", cfg.MaxLeaves, cfg.MinLeaves)
	}
	if int(cfg.LeafSize) < minLeafLen {
		return nil, fmt.Errorf("invalid LeafSize %d is smaller than min %d", cfg.LeafSize, minLeafLen)
	}
	if cfg.Bias.totalBias() == 0 {
		return nil, fmt.Errorf("no entrypoint has a bias, nothing to do")
	}

	hasher, err := hashers.New(cfg.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create hasher: %v", err)
	}
	scheme, err := crypto.NewScheme(cfg.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to create signature scheme: %v", err)
	}
	prng := rand.New(cfg.RandSource)
	kp, err := scheme.GenerateKey(prng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %v", err)
	}
	signer, err := crypto.NewSigner(kp)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %v", err)
	}

	return &state{
		cfg:    cfg,
		hasher: hasher,
		scheme: scheme,
		signer: signer,
		shared: &sharedState{},
		prng:   prng,
		start:  time.Now(),
	}, nil
}

func (s *state) label() string {
	return s.cfg.Hash.String()
}

func (s *state) String() string {
	interval := time.Since(s.start)
	details := ""
	totalReqs := 0
	totalInvalidReqs := 0
	totalErrs := 0
	for _, ep := range entrypoints {
		reqCount := int(reqs.Value(s.label(), string(ep)))
		totalReqs += reqCount
		if s.cfg.Bias.Bias[ep] > 0 {
			details += fmt.Sprintf(" %s=%d/%d", ep, int(rsps.Value(s.label(), string(ep))), reqCount)
		}
		totalInvalidReqs += int(invalidReqs.Value(s.label(), string(ep)))
		totalErrs += int(errs.Value(s.label(), string(ep)))
	}
	leaves := "N/A"
	if t := s.shared.current(); t != nil {
		leaves = strconv.Itoa(t.LeafCount())
	}
	return fmt.Sprintf("%s: tree.leaves=%v ops: total=%d (%f ops/sec) invalid=%d errs=%v%s", s.label(), leaves, totalReqs, float64(totalReqs)/interval.Seconds(), totalInvalidReqs, totalErrs, details)
}

// worker runs a single stream of operations. Each worker has its own PRNG,
// which makes the sequence of operations that it performs deterministic.
type worker struct {
	prng  *rand.Rand
	label string
	bias  Bias
	ops   *ops
}

func newOperationWorker(s *state) *worker {
	return &worker{
		prng:  s.prng,
		label: s.label(),
		bias:  s.cfg.Bias,
		ops:   newOps(s),
	}
}

func newVerifierWorker(s *state, idx int) *worker {
	readBias := Bias{
		Bias:          make(map[EntrypointName]int),
		InvalidChance: make(map[EntrypointName]int),
	}
	for _, ep := range roEntrypoints {
		readBias.Bias[ep] = s.cfg.Bias.Bias[ep]
		readBias.InvalidChance[ep] = s.cfg.Bias.InvalidChance[ep]
	}
	return &worker{
		prng:  rand.New(rand.NewSource(int64(idx))),
		label: s.label(),
		bias:  readBias,
		ops:   newOps(s),
	}
}

// invoke runs fn as entrypoint ep, recording metrics around it.
func (w *worker) invoke(ep EntrypointName, fn operationFn) error {
	start := time.Now()
	reqs.Inc(w.label, string(ep))
	err := fn(w.prng)
	rspLatency.Observe(time.Since(start).Seconds(), w.label, string(ep))
	switch err.(type) {
	case nil:
		rsps.Inc(w.label, string(ep))
		return nil
	case errSkip:
		return err
	default:
		errs.Inc(w.label, string(ep))
		return err
	}
}

func (w *worker) hammerOnce() error {
	ep := w.bias.choose(w.prng)
	if w.bias.invalid(ep, w.prng) {
		klog.V(3).Infof("%s: perform invalid %s operation", w.label, ep)
		invalidReqs.Inc(w.label, string(ep))
		fn, err := w.ops.invalidOp(ep)
		if err != nil {
			return err
		}
		return fn(w.prng)
	}
	fn, err := w.ops.validOp(ep)
	if err != nil {
		return err
	}
	klog.V(3).Infof("%s: perform %s operation", w.label, ep)
	return w.invoke(ep, fn)
}

// runOperations performs operations until the context is done, an error is
// encountered, or the configured number of operations have been performed.
func (w *worker) runOperations(ctx context.Context) (uint64, error) {
	count := uint64(0)
	for ; count < w.ops.cfg.Operations; count++ {
		select {
		case <-ctx.Done():
			return count, nil
		default:
		}
		if err := w.hammerOnce(); err != nil {
			if _, ok := err.(errSkip); ok {
				continue
			}
			return count, err
		}
	}
	return count, nil
}

// runVerifier continuously performs read-only proof operations until the
// context is done or an error is encountered.
func (w *worker) runVerifier(ctx context.Context) error {
	if w.bias.totalBias() == 0 {
		// All read-only entrypoints are biased out; nothing to do.
		<-ctx.Done()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := w.hammerOnce(); err != nil {
			if _, ok := err.(errSkip); ok {
				// No tree published yet; wait rather than spin.
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(verifierIdleWait):
				}
				continue
			}
			return err
		}
	}
}

func pickIntInRange(min, max int, prng *rand.Rand) int {
	delta := 1 + max - min
	return min + prng.Intn(delta)
}
