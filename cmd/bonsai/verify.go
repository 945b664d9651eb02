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

	"github.com/spf13/cobra"

	"github.com/google/bonsai/crypto"
)

var (
	verifyKey string
	verifySig string

	verifyCmd = &cobra.Command{
		Use:   "verify [message]",
		Short: "Checks a signature over a message against a public key.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifyMain,
	}
)

func init() {
	verifyCmd.Flags().StringVar(&verifyKey, "key", "", "Public key in the selected encoding")
	verifyCmd.Flags().StringVar(&verifySig, "signature", "", "Signature in the selected encoding")
	verifyCmd.Flags().StringVar(&inFile, "in", "", "Read the message from a file instead of the argument")
	rootCmd.AddCommand(verifyCmd)
}

func verifyMain(_ *cobra.Command, args []string) error {
	if verifyKey == "" || verifySig == "" {
		return fmt.Errorf("verify: --key and --signature are required")
	}
	alg, err := signatureAlgorithm()
	if err != nil {
		return err
	}
	rawKey, err := decodeString(verifyKey)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	pub, err := crypto.ParsePublicKey(alg, rawKey)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	rawSig, err := decodeString(verifySig)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	sig, err := crypto.ParseSignature(alg, rawSig)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	msg, err := messageBytes(args)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if crypto.Verify(pub, msg, sig) {
		fmt.Println("signature verified")
		return nil
	}
	// A failed check is a negative result, not an error.
	fmt.Println("signature verification failed")
	os.Exit(1)
	return nil
}
