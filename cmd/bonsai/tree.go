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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/bonsai/hashers"
	"github.com/google/bonsai/merkle"
)

var (
	proveIndex int
	expectRoot string
	expectLeaf string

	treeCmd = &cobra.Command{
		Use:   "tree",
		Short: "Builds Merkle trees and generates or checks inclusion proofs.",
	}
	treeRootCmd = &cobra.Command{
		Use:   "root [items...]",
		Short: "Prints the root digest of a tree built over the given items.",
		RunE:  treeRootMain,
	}
	treeProveCmd = &cobra.Command{
		Use:   "prove [items...]",
		Short: "Prints a serialized inclusion proof for one leaf of a tree built over the given items.",
		RunE:  treeProveMain,
	}
	treeVerifyCmd = &cobra.Command{
		Use:   "verify <proof>",
		Short: "Checks a serialized inclusion proof, optionally against an expected root or leaf item.",
		Args:  cobra.ExactArgs(1),
		RunE:  treeVerifyMain,
	}
)

func init() {
	treeRootCmd.Flags().StringVar(&inFile, "in", "", "Read items from a file, one per line, instead of the arguments")
	treeProveCmd.Flags().StringVar(&inFile, "in", "", "Read items from a file, one per line, instead of the arguments")
	treeProveCmd.Flags().IntVar(&proveIndex, "index", 0, "Zero-based index of the leaf to prove")
	treeVerifyCmd.Flags().StringVar(&expectRoot, "root", "", "Root digest the proof must commit to, in the selected encoding")
	treeVerifyCmd.Flags().StringVar(&expectLeaf, "leaf", "", "Item the proof's leaf must hash to")
	treeCmd.AddCommand(treeRootCmd)
	treeCmd.AddCommand(treeProveCmd)
	treeCmd.AddCommand(treeVerifyCmd)
	rootCmd.AddCommand(treeCmd)
}

// treeItems returns the tree contents, either the positional arguments or
// the lines of the --in file.
func treeItems(args []string) ([][]byte, error) {
	if inFile == "" {
		items := make([][]byte, len(args))
		for i, a := range args {
			items[i] = []byte(a)
		}
		return items, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("both --in and arguments given")
	}
	raw, err := os.ReadFile(inFile)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	items := make([][]byte, len(lines))
	for i, l := range lines {
		items[i] = []byte(l)
	}
	return items, nil
}

func buildTree(args []string) (*merkle.Tree, error) {
	alg, err := hashAlgorithm()
	if err != nil {
		return nil, err
	}
	hasher, err := hashers.New(alg)
	if err != nil {
		return nil, err
	}
	items, err := treeItems(args)
	if err != nil {
		return nil, err
	}
	tree := merkle.New(hasher)
	if err := tree.Build(items); err != nil {
		return nil, err
	}
	return tree, nil
}

func treeRootMain(_ *cobra.Command, args []string) error {
	tree, err := buildTree(args)
	if err != nil {
		return fmt.Errorf("tree root: %w", err)
	}
	root, ok := tree.Root()
	if !ok {
		return fmt.Errorf("tree root: no root available")
	}
	out, err := encodeBytes(root)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func treeProveMain(_ *cobra.Command, args []string) error {
	tree, err := buildTree(args)
	if err != nil {
		return fmt.Errorf("tree prove: %w", err)
	}
	proof, err := tree.Prove(proveIndex)
	if err != nil {
		return fmt.Errorf("tree prove: %w", err)
	}
	data, err := proof.MarshalBinary()
	if err != nil {
		return fmt.Errorf("tree prove: %w", err)
	}
	out, err := encodeBytes(data)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func treeVerifyMain(_ *cobra.Command, args []string) error {
	raw, err := decodeString(args[0])
	if err != nil {
		return fmt.Errorf("tree verify: %w", err)
	}
	var proof merkle.Proof
	if err := proof.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("tree verify: %w", err)
	}
	hasher, err := hashers.New(proof.Algorithm)
	if err != nil {
		return fmt.Errorf("tree verify: %w", err)
	}
	ok := proof.Verify(hasher)
	if ok && expectRoot != "" {
		want, err := decodeString(expectRoot)
		if err != nil {
			return fmt.Errorf("tree verify: %w", err)
		}
		ok = proof.RootHash.Equal(want)
	}
	if ok && expectLeaf != "" {
		ok = proof.LeafHash.Equal(hasher.Hash([]byte(expectLeaf)))
	}
	if ok {
		fmt.Println("proof verified")
		return nil
	}
	// A failed check is a negative result, not an error.
	fmt.Println("proof verification failed")
	os.Exit(1)
	return nil
}
