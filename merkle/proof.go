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

package merkle

import (
	"bytes"
	"crypto/subtle"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
	"github.com/google/bonsai/hashers"
)

// proofVersion is the serialization format version written by MarshalBinary.
const proofVersion = 1

// maxProofDepth bounds the number of proof levels accepted during
// deserialization. 64 levels cover any tree this package can build.
const maxProofDepth = 64

// Proof is an inclusion proof for one leaf of a Merkle tree. Verification
// recomputes the root from LeafHash and the sibling path; LeftChild[i]
// reports whether the node at level i was a left child, which places
// Siblings[i] on the right.
type Proof struct {
	// Algorithm identifies the hash algorithm the tree was built with.
	Algorithm bonsai.HashAlgorithm
	// LeafHash is the digest of the proven item.
	LeafHash bonsai.Digest
	// Siblings holds one digest per level, leaf level first.
	Siblings []bonsai.Digest
	// LeftChild holds one flag per level; true means the node on the
	// path was a left child at that level.
	LeftChild []bool
	// RootHash is the root the proof commits to.
	RootHash bonsai.Digest
}

// Verify recomputes the root from the leaf hash and sibling path and
// reports whether it matches RootHash. The hasher must use the same
// algorithm the proof was generated with. Root comparison is constant
// time.
func (p *Proof) Verify(h hashers.Hasher) bool {
	if h == nil || h.Algorithm() != p.Algorithm {
		return false
	}
	if err := p.Validate(); err != nil {
		return false
	}
	cur := []byte(p.LeafHash)
	for i, sib := range p.Siblings {
		if p.LeftChild[i] {
			cur = combine(h, cur, sib)
		} else {
			cur = combine(h, sib, cur)
		}
	}
	return subtle.ConstantTimeCompare(cur, p.RootHash) == 1
}

// Validate checks the structural integrity of the proof without hashing
// anything. It fails with MalformedProof when the path is inconsistent.
func (p *Proof) Validate() error {
	if len(p.LeafHash) == 0 {
		return errors.New(errors.MalformedProof, "missing leaf hash")
	}
	if len(p.RootHash) == 0 {
		return errors.New(errors.MalformedProof, "missing root hash")
	}
	if len(p.Siblings) != len(p.LeftChild) {
		return errors.Errorf(errors.MalformedProof, "%d siblings but %d direction flags", len(p.Siblings), len(p.LeftChild))
	}
	if len(p.Siblings) > maxProofDepth {
		return errors.Errorf(errors.MalformedProof, "proof depth %d exceeds %d", len(p.Siblings), maxProofDepth)
	}
	if len(p.RootHash) != len(p.LeafHash) {
		return errors.Errorf(errors.MalformedProof, "root hash is %d bytes, leaf hash is %d", len(p.RootHash), len(p.LeafHash))
	}
	for i, sib := range p.Siblings {
		if len(sib) != len(p.LeafHash) {
			return errors.Errorf(errors.MalformedProof, "sibling %d is %d bytes, leaf hash is %d", i, len(sib), len(p.LeafHash))
		}
	}
	return nil
}

// MarshalBinary encodes the proof as:
//
//	[version:1][algorithm:1][digestSize:1][depth:1]
//	[leafHash:digestSize]([direction:1][sibling:digestSize])*depth[rootHash:digestSize]
//
// Direction bytes are 1 for a left child and 0 for a right child.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	size := len(p.LeafHash)
	if size > 0xff {
		return nil, errors.Errorf(errors.MalformedProof, "digest size %d does not fit the encoding", size)
	}

	var buf bytes.Buffer
	buf.Grow(4 + size*(len(p.Siblings)+2) + len(p.Siblings))
	buf.WriteByte(proofVersion)
	buf.WriteByte(byte(p.Algorithm))
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(len(p.Siblings)))
	buf.Write(p.LeafHash)
	for i, sib := range p.Siblings {
		if p.LeftChild[i] {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		buf.Write(sib)
	}
	buf.Write(p.RootHash)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary. Format
// violations fail with InvalidEncoding; a decoded proof that is
// structurally inconsistent fails with MalformedProof.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errors.Errorf(errors.InvalidEncoding, "proof encoding is %d bytes, need at least 4", len(data))
	}
	if data[0] != proofVersion {
		return errors.Errorf(errors.InvalidEncoding, "unsupported proof version %d", data[0])
	}
	alg := bonsai.HashAlgorithm(data[1])
	if _, ok := bonsai.HashAlgorithmName[alg]; !ok || alg == bonsai.UnknownHashAlgorithm {
		return errors.Errorf(errors.InvalidEncoding, "unknown hash algorithm %d", data[1])
	}
	size := int(data[2])
	depth := int(data[3])
	if size == 0 {
		return errors.New(errors.InvalidEncoding, "zero digest size")
	}
	if depth > maxProofDepth {
		return errors.Errorf(errors.InvalidEncoding, "proof depth %d exceeds %d", depth, maxProofDepth)
	}
	want := 4 + size*(depth+2) + depth
	if len(data) != want {
		return errors.Errorf(errors.InvalidEncoding, "proof encoding is %d bytes, want %d", len(data), want)
	}

	off := 4
	next := func(n int) []byte {
		b := make([]byte, n)
		copy(b, data[off:off+n])
		off += n
		return b
	}

	decoded := Proof{
		Algorithm: alg,
		LeafHash:  next(size),
		Siblings:  make([]bonsai.Digest, depth),
		LeftChild: make([]bool, depth),
	}
	for i := 0; i < depth; i++ {
		switch data[off] {
		case 0:
			decoded.LeftChild[i] = false
		case 1:
			decoded.LeftChild[i] = true
		default:
			return errors.Errorf(errors.InvalidEncoding, "direction byte %d at level %d", data[off], i)
		}
		off++
		decoded.Siblings[i] = next(size)
	}
	decoded.RootHash = next(size)

	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}
