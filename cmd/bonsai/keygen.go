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
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/google/bonsai/crypto"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a key pair for the selected signature scheme.",
	Args:  cobra.NoArgs,
	RunE:  keygenMain,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func keygenMain(_ *cobra.Command, _ []string) error {
	alg, err := signatureAlgorithm()
	if err != nil {
		return err
	}
	scheme, err := crypto.NewScheme(alg)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	kp, err := scheme.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	priv, err := encodeBytes(kp.Private.Bytes())
	if err != nil {
		return err
	}
	pub, err := encodeBytes(kp.Public.Bytes())
	if err != nil {
		return err
	}
	fmt.Printf("private: %s\n", priv)
	fmt.Printf("public: %s\n", pub)
	return nil
}
