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

// Package merkle provides an in-memory Merkle tree with inclusion proofs.
//
// Leaves are the digests of the input items. Each interior node is the
// digest of its left child concatenated with its right child. A level
// with an odd number of nodes pairs its last node with a copy of itself;
// unpaired nodes are never promoted unchanged.
package merkle

import (
	"fmt"

	"github.com/google/bonsai"
	"github.com/google/bonsai/errors"
	"github.com/google/bonsai/hashers"
)

// Tree is a Merkle tree over a fixed set of items. A Tree is built exactly
// once; it keeps every level of node digests so proofs need no rehashing.
// Built trees are immutable and safe for concurrent reads.
type Tree struct {
	hasher hashers.Hasher
	levels [][][]byte // node digests indexed by (level, index); level 0 holds the leaves
	built  bool
}

// New returns a new empty Tree that hashes with h.
func New(h hashers.Hasher) *Tree {
	return &Tree{hasher: h}
}

// Build hashes every item into the leaf level and computes all interior
// levels up to the root. Fails with EmptyInput when items is empty. A
// tree builds once; build a new Tree to cover different items.
func (t *Tree) Build(items [][]byte) error {
	if t.built {
		return fmt.Errorf("tree already built over %d leaves", t.LeafCount())
	}
	if len(items) == 0 {
		return errors.New(errors.EmptyInput, "no items to build a tree over")
	}

	leaves := make([][]byte, len(items))
	for i, item := range items {
		leaves[i] = t.hasher.Hash(item)
	}
	t.levels = [][][]byte{leaves}

	for cur := leaves; len(cur) > 1; {
		pair := cur
		if len(pair)%2 != 0 {
			pair = append(pair, pair[len(pair)-1])
		}
		next := make([][]byte, len(pair)/2)
		for i := 0; i < len(pair); i += 2 {
			next[i/2] = combine(t.hasher, pair[i], pair[i+1])
		}
		t.levels = append(t.levels, next)
		cur = next
	}
	t.built = true
	return nil
}

// Root returns the root digest and true once the tree is built.
func (t *Tree) Root() (bonsai.Digest, bool) {
	if !t.built {
		return nil, false
	}
	top := t.levels[len(t.levels)-1]
	return bonsai.Digest(top[0]).Clone(), true
}

// LeafCount returns the number of leaves, zero before Build.
func (t *Tree) LeafCount() int {
	if !t.built {
		return 0
	}
	return len(t.levels[0])
}

// Height returns the number of levels including the leaf level, zero
// before Build. A single-leaf tree has height 1.
func (t *Tree) Height() int {
	return len(t.levels)
}

// LeafHash returns the digest of the item at the given leaf index.
func (t *Tree) LeafHash(index int) (bonsai.Digest, error) {
	if !t.built {
		return nil, errors.New(errors.TreeNotBuilt, "tree has not been built")
	}
	if index < 0 || index >= len(t.levels[0]) {
		return nil, errors.Errorf(errors.IndexOutOfRange, "leaf index %d outside [0, %d)", index, len(t.levels[0]))
	}
	return bonsai.Digest(t.levels[0][index]).Clone(), nil
}

// Prove returns the inclusion proof for the leaf at the given index. The
// proof carries one sibling digest and one direction flag per level; for
// the self-paired last node of an odd level the sibling is the node's own
// digest.
func (t *Tree) Prove(index int) (*Proof, error) {
	if !t.built {
		return nil, errors.New(errors.TreeNotBuilt, "tree has not been built")
	}
	if index < 0 || index >= len(t.levels[0]) {
		return nil, errors.Errorf(errors.IndexOutOfRange, "leaf index %d outside [0, %d)", index, len(t.levels[0]))
	}

	depth := len(t.levels) - 1
	siblings := make([]bonsai.Digest, 0, depth)
	leftChild := make([]bool, 0, depth)
	idx := index
	for level := 0; level < depth; level++ {
		row := t.levels[level]
		sibIdx := idx ^ 1
		if sibIdx >= len(row) {
			// Last node of an odd level pairs with its own copy.
			sibIdx = idx
		}
		siblings = append(siblings, bonsai.Digest(row[sibIdx]).Clone())
		leftChild = append(leftChild, idx%2 == 0)
		idx /= 2
	}

	root, _ := t.Root()
	leaf, err := t.LeafHash(index)
	if err != nil {
		return nil, err
	}
	return &Proof{
		Algorithm: t.hasher.Algorithm(),
		LeafHash:  leaf,
		Siblings:  siblings,
		LeftChild: leftChild,
		RootHash:  root,
	}, nil
}

// combine computes the digest of left || right.
func combine(h hashers.Hasher, left, right []byte) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return h.Hash(buf)
}
