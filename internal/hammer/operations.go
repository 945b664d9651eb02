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

	"k8s.io/klog/v2"

	"github.com/google/bonsai"
	"github.com/google/bonsai/crypto"
	"github.com/google/bonsai/errors"
	"github.com/google/bonsai/hashers"
	"github.com/google/bonsai/merkle"
)

type operationFn func(prng *rand.Rand) error

// ops implements the valid and deliberately-invalid variants of every
// entrypoint. Valid variants must succeed and pass their consistency
// checks; invalid variants must be rejected in the expected way. Either
// kind of miss is returned as an error and ends the run.
type ops struct {
	cfg    *Config
	hasher hashers.Hasher
	scheme crypto.Scheme
	signer *crypto.Signer
	shared *sharedState
	label  string

	// Counter for generating unique leaf values.
	leafIdx int
	// Most recent signature, re-checked by VerifySignature operations.
	lastMsg []byte
	lastSig *crypto.Signature
}

func newOps(s *state) *ops {
	return &ops{
		cfg:    s.cfg,
		hasher: s.hasher,
		scheme: s.scheme,
		signer: s.signer,
		shared: s.shared,
		label:  s.label(),
	}
}

func (o *ops) validOp(ep EntrypointName) (operationFn, error) {
	switch ep {
	case HashDataName:
		return o.hashData, nil
	case HashSaltName:
		return o.hashWithSalt, nil
	case SignDataName:
		return o.signData, nil
	case VerifySigName:
		return o.verifySignature, nil
	case BuildTreeName:
		return o.buildTree, nil
	case ProveLeafName:
		return o.proveLeaf, nil
	case VerifyProofName:
		return o.verifyProof, nil
	default:
		return nil, fmt.Errorf("internal error: unknown operation %s", ep)
	}
}

func (o *ops) invalidOp(ep EntrypointName) (operationFn, error) {
	switch ep {
	case HashDataName:
		return o.hashUnknownAlgorithm, nil
	case SignDataName:
		return o.signWithZeroedKey, nil
	case VerifySigName:
		return o.verifyAcrossSchemes, nil
	case BuildTreeName:
		return o.buildDegenerateTree, nil
	case ProveLeafName:
		return o.proveBadIndex, nil
	case VerifyProofName:
		return o.verifyMangledProof, nil
	default:
		return nil, fmt.Errorf("internal error: no invalid variant of operation %s", ep)
	}
}

func (o *ops) randData(prng *rand.Rand) []byte {
	data := make([]byte, o.cfg.LeafSize)
	prng.Read(data)
	return data
}

func (o *ops) nextLeaf() []byte {
	o.leafIdx++
	result := make([]byte, o.cfg.LeafSize)
	copy(result, fmt.Sprintf(leafFormat, o.leafIdx))
	return result
}

func (o *ops) hashData(prng *rand.Rand) error {
	data := o.randData(prng)
	digest := o.hasher.Hash(data)
	if got, want := len(digest), o.hasher.Size(); got != want {
		return fmt.Errorf("Hash() returned %d bytes, want %d", got, want)
	}
	if again := o.hasher.Hash(data); !digest.Equal(again) {
		return fmt.Errorf("Hash() of identical data disagrees: %x vs %x", digest, again)
	}
	return nil
}

func (o *ops) hashWithSalt(prng *rand.Rand) error {
	data := o.randData(prng)
	salt := make([]byte, 1+prng.Intn(32))
	prng.Read(salt)

	digest := o.hasher.HashWithSalt(data, salt)
	if got, want := len(digest), o.hasher.Size(); got != want {
		return fmt.Errorf("HashWithSalt() returned %d bytes, want %d", got, want)
	}
	if digest.Equal(o.hasher.Hash(data)) {
		return fmt.Errorf("HashWithSalt() with a %d byte salt matches the unsalted digest", len(salt))
	}
	if again := o.hasher.HashWithSalt(data, salt); !digest.Equal(again) {
		return fmt.Errorf("HashWithSalt() of identical inputs disagrees: %x vs %x", digest, again)
	}
	// Moving a byte across the salt/data boundary must change the digest,
	// or the framing is ambiguous.
	if len(salt) > 1 {
		shifted := o.hasher.HashWithSalt(append(append([]byte(nil), salt[len(salt)-1]), data...), salt[:len(salt)-1])
		if digest.Equal(shifted) {
			return fmt.Errorf("HashWithSalt() digests collide across the salt/data boundary")
		}
	}
	return nil
}

func (o *ops) signData(prng *rand.Rand) error {
	msg := o.randData(prng)
	sig, err := o.signer.Sign(msg)
	if err != nil {
		return fmt.Errorf("failed to Sign(): %v", err)
	}
	if !o.scheme.Verify(o.signer.Public(), msg, sig) {
		return fmt.Errorf("fresh signature failed to verify")
	}
	o.lastMsg, o.lastSig = msg, sig
	return nil
}

func (o *ops) verifySignature(prng *rand.Rand) error {
	if o.lastSig == nil {
		return errSkip{}
	}
	if !o.scheme.Verify(o.signer.Public(), o.lastMsg, o.lastSig) {
		return fmt.Errorf("stored signature failed to verify")
	}
	tampered := append([]byte(nil), o.lastMsg...)
	tampered[prng.Intn(len(tampered))] ^= 0xff
	if o.scheme.Verify(o.signer.Public(), tampered, o.lastSig) {
		return fmt.Errorf("signature verified against a tampered message")
	}
	return nil
}

func (o *ops) buildTree(prng *rand.Rand) error {
	n := pickIntInRange(o.cfg.MinLeaves, o.cfg.MaxLeaves, prng)
	items := make([][]byte, n)
	for i := range items {
		items[i] = o.nextLeaf()
	}
	tree := merkle.New(o.hasher)
	if err := tree.Build(items); err != nil {
		return fmt.Errorf("failed to Build(%d leaves): %v", n, err)
	}
	root, ok := tree.Root()
	if !ok {
		return fmt.Errorf("no root available after Build(%d leaves)", n)
	}
	if got, want := len(root), o.hasher.Size(); got != want {
		return fmt.Errorf("root is %d bytes, want %d", got, want)
	}
	// The root commits to the tree contents, so signing it must produce a
	// verifiable signature.
	sig, err := o.signer.SignRoot(root)
	if err != nil {
		return fmt.Errorf("failed to SignRoot(): %v", err)
	}
	if !o.scheme.Verify(o.signer.Public(), root, sig) {
		return fmt.Errorf("root signature failed to verify")
	}
	treeSize.Set(float64(n), o.label)
	o.shared.publish(tree)
	klog.V(2).Infof("%s: built and published tree with %d leaves", o.label, n)
	return nil
}

func (o *ops) proveLeaf(prng *rand.Rand) error {
	tree := o.shared.current()
	if tree == nil {
		return errSkip{}
	}
	index := prng.Intn(tree.LeafCount())
	proof, err := tree.Prove(index)
	if err != nil {
		return fmt.Errorf("failed to Prove(%d): %v", index, err)
	}
	if !proof.Verify(o.hasher) {
		return fmt.Errorf("proof for leaf %d of %d failed to verify", index, tree.LeafCount())
	}
	leaf, err := tree.LeafHash(index)
	if err != nil {
		return fmt.Errorf("failed to LeafHash(%d): %v", index, err)
	}
	if !proof.LeafHash.Equal(leaf) {
		return fmt.Errorf("proof leaf hash %x does not match tree leaf hash %x", proof.LeafHash, leaf)
	}
	proofPosition.Observe(float64(index)*100.0/float64(tree.LeafCount()), o.label)
	return nil
}

func (o *ops) verifyProof(prng *rand.Rand) error {
	tree := o.shared.current()
	if tree == nil {
		return errSkip{}
	}
	index := prng.Intn(tree.LeafCount())
	proof, err := tree.Prove(index)
	if err != nil {
		return fmt.Errorf("failed to Prove(%d): %v", index, err)
	}
	data, err := proof.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to MarshalBinary(): %v", err)
	}
	var restored merkle.Proof
	if err := restored.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("failed to UnmarshalBinary(%d bytes): %v", len(data), err)
	}
	if !restored.Verify(o.hasher) {
		return fmt.Errorf("proof for leaf %d failed to verify after a serialization round trip", index)
	}
	return nil
}

// hashUnknownAlgorithm requests a hasher for an unregistered algorithm and
// checks the request is rejected.
func (o *ops) hashUnknownAlgorithm(prng *rand.Rand) error {
	if _, err := hashers.New(bonsai.UnknownHashAlgorithm); err == nil {
		return fmt.Errorf("unexpected success: New(%v)", bonsai.UnknownHashAlgorithm)
	} else if got, want := errors.ErrorCode(err), errors.InvalidEncoding; got != want {
		return fmt.Errorf("New(%v)=%v, got code %v, want %v", bonsai.UnknownHashAlgorithm, err, got, want)
	}
	return nil
}

// signWithZeroedKey checks that a key pair whose private half has been
// wiped can no longer sign.
func (o *ops) signWithZeroedKey(prng *rand.Rand) error {
	kp, err := o.scheme.GenerateKey(prng)
	if err != nil {
		return fmt.Errorf("failed to GenerateKey(): %v", err)
	}
	kp.Private.Zero()
	sig, err := o.scheme.Sign(kp.Private, o.randData(prng))
	if err == nil {
		return fmt.Errorf("unexpected success: Sign() with a zeroed key gave %x", sig.Bytes())
	}
	if got, want := errors.ErrorCode(err), errors.InvalidKey; got != want {
		return fmt.Errorf("Sign() with a zeroed key=%v, got code %v, want %v", err, got, want)
	}
	return nil
}

// verifyAcrossSchemes checks that a signature never verifies under a key
// pair from the other scheme.
func (o *ops) verifyAcrossSchemes(prng *rand.Rand) error {
	if o.lastSig == nil {
		return errSkip{}
	}
	otherAlg := bonsai.Ed25519
	if o.scheme.Algorithm() == bonsai.Ed25519 {
		otherAlg = bonsai.ECDSA
	}
	other, err := crypto.NewScheme(otherAlg)
	if err != nil {
		return fmt.Errorf("failed to create %v scheme: %v", otherAlg, err)
	}
	kp, err := other.GenerateKey(prng)
	if err != nil {
		return fmt.Errorf("failed to GenerateKey() for %v: %v", otherAlg, err)
	}
	if other.Verify(kp.Public, o.lastMsg, o.lastSig) {
		return fmt.Errorf("%v signature verified under a %v key", o.lastSig.Algorithm(), otherAlg)
	}
	if crypto.Verify(kp.Public, o.lastMsg, o.lastSig) {
		return fmt.Errorf("%v signature verified under a %v key via tag dispatch", o.lastSig.Algorithm(), otherAlg)
	}
	return nil
}

// buildDegenerateTree checks the rejection of empty builds and rebuilds.
func (o *ops) buildDegenerateTree(prng *rand.Rand) error {
	tree := merkle.New(o.hasher)
	err := tree.Build(nil)
	if err == nil {
		return fmt.Errorf("unexpected success: Build() with no items")
	}
	if got, want := errors.ErrorCode(err), errors.EmptyInput; got != want {
		return fmt.Errorf("Build() with no items=%v, got code %v, want %v", err, got, want)
	}
	if built := o.shared.current(); built != nil {
		if err := built.Build([][]byte{o.nextLeaf()}); err == nil {
			return fmt.Errorf("unexpected success: rebuilding an already built tree")
		}
	}
	return nil
}

// proveBadIndex checks the rejection of out-of-range indexes and of proof
// requests against an unbuilt tree.
func (o *ops) proveBadIndex(prng *rand.Rand) error {
	unbuilt := merkle.New(o.hasher)
	if _, err := unbuilt.Prove(0); errors.ErrorCode(err) != errors.TreeNotBuilt {
		return fmt.Errorf("Prove(0) on an unbuilt tree=%v, want code %v", err, errors.TreeNotBuilt)
	}
	tree := o.shared.current()
	if tree == nil {
		return nil
	}
	index := tree.LeafCount() + prng.Intn(invalidStretch)
	if _, err := tree.Prove(index); errors.ErrorCode(err) != errors.IndexOutOfRange {
		return fmt.Errorf("Prove(%d) beyond %d leaves=%v, want code %v", index, tree.LeafCount(), err, errors.IndexOutOfRange)
	}
	if _, err := tree.Prove(-1 - prng.Intn(invalidStretch)); errors.ErrorCode(err) != errors.IndexOutOfRange {
		return fmt.Errorf("Prove() of a negative index=%v, want code %v", err, errors.IndexOutOfRange)
	}
	return nil
}

// verifyMangledProof mangles serialized proofs and checks that none of the
// results passes verification.
func (o *ops) verifyMangledProof(prng *rand.Rand) error {
	tree := o.shared.current()
	if tree == nil {
		return errSkip{}
	}
	index := prng.Intn(tree.LeafCount())
	proof, err := tree.Prove(index)
	if err != nil {
		return fmt.Errorf("failed to Prove(%d): %v", index, err)
	}
	data, err := proof.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to MarshalBinary(): %v", err)
	}

	// A flipped root byte decodes fine but must not verify.
	flipped := append([]byte(nil), data...)
	flipped[len(flipped)-1-prng.Intn(o.hasher.Size())] ^= 0xff
	var badRoot merkle.Proof
	if err := badRoot.UnmarshalBinary(flipped); err != nil {
		return fmt.Errorf("failed to UnmarshalBinary() with a flipped root byte: %v", err)
	}
	if badRoot.Verify(o.hasher) {
		return fmt.Errorf("proof with a flipped root byte verified")
	}

	// A truncated encoding must be rejected on decode.
	var truncated merkle.Proof
	if err := truncated.UnmarshalBinary(data[:len(data)-1]); err == nil {
		return fmt.Errorf("unexpected success: UnmarshalBinary() of a truncated proof")
	} else if got, want := errors.ErrorCode(err), errors.InvalidEncoding; got != want {
		return fmt.Errorf("UnmarshalBinary() of a truncated proof=%v, got code %v, want %v", err, got, want)
	}

	// Dropping a direction flag leaves the structure inconsistent.
	if len(proof.LeftChild) > 0 {
		proof.LeftChild = proof.LeftChild[:len(proof.LeftChild)-1]
		if err := proof.Validate(); err == nil {
			return fmt.Errorf("unexpected success: Validate() with a dropped direction flag")
		} else if got, want := errors.ErrorCode(err), errors.MalformedProof; got != want {
			return fmt.Errorf("Validate() with a dropped direction flag=%v, got code %v, want %v", err, got, want)
		}
		if proof.Verify(o.hasher) {
			return fmt.Errorf("proof with a dropped direction flag verified")
		}
	}
	return nil
}
