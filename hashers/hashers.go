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

// Package hashers provides the hash algorithms used by trees, proofs and
// signers.
package hashers

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
)

// Hasher computes digests under one fixed algorithm. Implementations hold
// no state between calls and are safe for concurrent use.
type Hasher interface {
	// Hash computes the digest of data. Empty input is valid.
	Hash(data []byte) bonsai.Digest
	// HashWithSalt computes the digest of data mixed with salt. An empty
	// salt yields the same digest as Hash.
	HashWithSalt(data, salt []byte) bonsai.Digest
	// Size is the number of bytes in the digests produced.
	Size() int
	// Algorithm identifies the algorithm the hasher implements.
	Algorithm() bonsai.HashAlgorithm
}

// New returns the Hasher implementing alg.
func New(alg bonsai.HashAlgorithm) (Hasher, error) {
	switch alg {
	case bonsai.SHA256:
		return &algHasher{alg: alg, factory: sha256.New}, nil
	case bonsai.Keccak256:
		return &algHasher{alg: alg, factory: sha3.NewLegacyKeccak256}, nil
	case bonsai.BLAKE3:
		return &algHasher{alg: alg, factory: newBLAKE3}, nil
	case bonsai.RIPEMD160:
		return &algHasher{alg: alg, factory: ripemd160.New}, nil
	}
	return nil, errors.Errorf(errors.InvalidEncoding, "unknown hash algorithm %v", alg)
}

func newBLAKE3() hash.Hash {
	return blake3.New(32, nil)
}

// algHasher implements Hasher on top of a hash.Hash constructor.
type algHasher struct {
	alg     bonsai.HashAlgorithm
	factory func() hash.Hash
}

func (a *algHasher) Hash(data []byte) bonsai.Digest {
	h := a.factory()
	h.Write(data)
	return h.Sum(nil)
}

// HashWithSalt hashes uvarint(len(salt)) || salt || data. The length
// prefix keeps the salt and data boundary unambiguous, so distinct
// (salt, data) splits of the same concatenation produce distinct digests.
func (a *algHasher) HashWithSalt(data, salt []byte) bonsai.Digest {
	if len(salt) == 0 {
		return a.Hash(data)
	}
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(salt)))
	h := a.factory()
	h.Write(prefix[:n])
	h.Write(salt)
	h.Write(data)
	return h.Sum(nil)
}

func (a *algHasher) Size() int {
	return a.factory().Size()
}

func (a *algHasher) Algorithm() bonsai.HashAlgorithm {
	return a.alg
}
