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

	"github.com/spf13/cobra"

	"github.com/google/bonsai"
	"github.com/google/bonsai/hashers"
)

var (
	hashSalt string

	hashCmd = &cobra.Command{
		Use:   "hash [data]",
		Short: "Hashes data with the selected hash algorithm.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  hashMain,
	}
)

func init() {
	hashCmd.Flags().StringVar(&hashSalt, "salt", "", "Optional salt; a salted digest never matches the plain digest of the same data")
	hashCmd.Flags().StringVar(&inFile, "in", "", "Read the data from a file instead of the argument")
	rootCmd.AddCommand(hashCmd)
}

func hashMain(_ *cobra.Command, args []string) error {
	alg, err := hashAlgorithm()
	if err != nil {
		return err
	}
	hasher, err := hashers.New(alg)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	data, err := messageBytes(args)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	var digest bonsai.Digest
	if hashSalt != "" {
		digest = hasher.HashWithSalt(data, []byte(hashSalt))
	} else {
		digest = hasher.Hash(data)
	}
	out, err := encodeBytes(digest)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
